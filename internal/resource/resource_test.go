package resource

import (
	"io"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tableDoc = `
[string]
title = "Theme"

[bool]
dark = true

[integer]
max = 15

[xml]
themes = "radio/themes.xml"

[drawable]
palette = "ic_palette"
`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"resources.toml":   {Data: []byte(tableDoc)},
		"radio/themes.xml": {Data: []byte(`<radio/>`)},
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		in   string
		want Ref
		ok   bool
	}{
		{"@string/title", Ref{TypeString, "title"}, true},
		{" @integer/max ", Ref{TypeInteger, "max"}, true},
		{"@+id/node", Ref{"id", "node"}, true},
		{"plain", Ref{}, false},
		{"@string/", Ref{}, false},
		{"@string", Ref{}, false},
		{"", Ref{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseRef(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_ResolvesEachType(t *testing.T) {
	table, err := Load(testFS(), "resources.toml")
	require.NoError(t, err)

	s, err := table.String(Ref{TypeString, "title"})
	require.NoError(t, err)
	assert.Equal(t, "Theme", s)

	b, err := table.Bool(Ref{TypeBool, "dark"})
	require.NoError(t, err)
	assert.True(t, b)

	n, err := table.Integer(Ref{TypeInteger, "max"})
	require.NoError(t, err)
	assert.Equal(t, 15, n)

	icon, err := table.String(Ref{TypeDrawable, "palette"})
	require.NoError(t, err)
	assert.Equal(t, "ic_palette", icon)

	rc, err := table.OpenXML(Ref{TypeXML, "themes"})
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "<radio/>", string(data))
}

func TestTable_MissingReferences(t *testing.T) {
	table := Empty()

	_, err := table.String(Ref{TypeString, "nope"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = table.Bool(Ref{TypeString, "nope"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = table.OpenXML(Ref{TypeXML, "nope"})
	assert.ErrorIs(t, err, ErrNotFound)

	icon, err := table.String(Ref{TypeDrawable, "raw_icon"})
	require.NoError(t, err)
	assert.Equal(t, "raw_icon", icon)
}

func TestLoad_InvalidTOML(t *testing.T) {
	fsys := fstest.MapFS{"bad.toml": {Data: []byte("[string\n")}}
	_, err := Load(fsys, "bad.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse resources")
}
