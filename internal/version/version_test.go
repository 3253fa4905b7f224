package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	origVersion, origCommit, origTime := Version, GitCommit, BuildTime
	t.Cleanup(func() { Version, GitCommit, BuildTime = origVersion, origCommit, origTime })

	Version, GitCommit, BuildTime = "v1.2.3", "unknown", "unknown"
	assert.Equal(t, "v1.2.3", String())

	GitCommit, BuildTime = "abc123", "2026-01-01"
	assert.Equal(t, "v1.2.3 (abc123, 2026-01-01)", String())
}
