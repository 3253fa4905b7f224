package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantHeader string
		wantBody   string
		wantHad    bool
	}{
		{"no header", "# Title\n\nHello\n", "", "# Title\n\nHello\n", false},
		{"yaml header", "---\ntitle: Home\n---\n# Title\n", "title: Home\n", "# Title\n", true},
		{"empty header", "---\n---\n# Title\n", "", "# Title\n", true},
		{"crlf", "---\r\ntitle: Home\r\n---\r\n# Title\r\n", "title: Home\r\n", "# Title\r\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, body, had, err := Split([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantHad, had)
			assert.Equal(t, tt.wantHeader, string(header))
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}

func TestSplit_MissingClosingDelimiter(t *testing.T) {
	_, _, had, err := Split([]byte("---\ntitle: x\n# Title\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
	assert.False(t, had)
}

func TestParse_DecodesMeta(t *testing.T) {
	meta, body, err := Parse([]byte("---\ntitle: About\ndraft: true\nweight: 3\n---\nBody\n"))
	require.NoError(t, err)
	assert.Equal(t, "About", meta.Title)
	assert.True(t, meta.Draft)
	assert.Equal(t, 3, meta.Params["weight"])
	assert.Equal(t, "Body\n", string(body))
}

func TestParse_InvalidYAML(t *testing.T) {
	_, _, err := Parse([]byte("---\ntitle: [unclosed\n---\nBody\n"))
	require.Error(t, err)
}

func TestParseYAML(t *testing.T) {
	fields, err := ParseYAML([]byte("title: abc\ntags:\n  - one\n"))
	require.NoError(t, err)
	assert.Equal(t, "abc", fields["title"])
	assert.Equal(t, []any{"one"}, fields["tags"])

	empty, err := ParseYAML(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSerializeYAML_SortedAndJoinable(t *testing.T) {
	header, err := SerializeYAML(map[string]any{"title": "Welcome", "draft": false})
	require.NoError(t, err)
	assert.Equal(t, "draft: false\ntitle: Welcome\n", string(header))

	doc := Join(header, []byte("# Welcome\n"))
	meta, body, err := Parse(doc)
	require.NoError(t, err)
	assert.Equal(t, "Welcome", meta.Title)
	assert.Equal(t, "# Welcome\n", string(body))
}

func TestJoin_EmptyHeaderKeepsBody(t *testing.T) {
	assert.Equal(t, "plain\n", string(Join(nil, []byte("plain\n"))))
}
