package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagsBool(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		want  bool
	}{
		{"missing", Flags{}, false},
		{"nil map", nil, false},
		{"nil value", Flags{"webpack": nil}, false},
		{"true", Flags{"webpack": true}, true},
		{"false", Flags{"webpack": false}, false},
		{"string true", Flags{"webpack": "true"}, true},
		{"string zero", Flags{"webpack": "0"}, false},
		{"empty string", Flags{"webpack": ""}, false},
		{"arbitrary string", Flags{"webpack": "webpack"}, true},
		{"int", Flags{"webpack": 1}, true},
		{"zero int", Flags{"webpack": 0}, false},
		{"float", Flags{"webpack": 0.5}, true},
		{"other key only", Flags{"drafts": true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.flags.Bool("webpack"))
		})
	}
}

func TestParseFlags(t *testing.T) {
	flags, err := ParseFlags([]string{"webpack", "env:production", "empty:"})
	require.NoError(t, err)

	assert.Equal(t, true, flags["webpack"])
	assert.Equal(t, "production", flags["env"])
	assert.Contains(t, flags, "empty")
	assert.False(t, flags.Bool("empty"))

	_, err = ParseFlags([]string{":value"})
	require.Error(t, err)
}

func TestFlagsWithCopies(t *testing.T) {
	base := Flags{"a": true}
	next := base.With("webpack", true)

	assert.NotContains(t, base, "webpack")
	assert.True(t, next.Bool("webpack"))
	assert.True(t, next.Bool("a"))
}
