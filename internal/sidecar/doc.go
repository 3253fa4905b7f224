// Package sidecar manages a JavaScript bundler project that lives next to a
// site (the "sidecar" project) across host lifecycle events.
//
// A Manager installs the sidecar's node dependencies with yarn or npm, then
// either spawns the bundler in watch mode for a development session or runs
// a one-shot build before a full site build. At most one watch process is
// owned by a Manager at any time:
//
//	idle --OnSessionStart(enabled)--> watching --OnSessionStop--> idle
//
// OnBuildAll only runs while idle; a live watcher already covers the build.
package sidecar
