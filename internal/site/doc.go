// Package site renders the sitepack content tree into a static HTML site.
//
// Markdown pages under the content directory are converted with goldmark and
// wrapped in a minimal layout. Files under the static directory, including
// anything a bundler sidecar emits there, are copied verbatim. Each build
// writes into a staging directory that replaces the output directory only
// when the build succeeds.
package site
