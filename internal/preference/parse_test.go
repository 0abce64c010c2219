package preference

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/prefcenter/internal/resource"
)

const settingsMarkup = `<?xml version="1.0" encoding="utf-8"?>
<PreferenceSet preference_accessName="settings">
  <group preference_id="@+id/display" preference_accessName="display"
         preference_title="@string/display_title" preference_switchUsage="true">
    <item preference_id="2" preference_accessName="theme" preference_type="2"
          preference_title="Theme" preference_radioMap="@xml/theme_options"/>
    <group preference_id="3" preference_accessName="advanced" preference_title="Advanced">
      <item preference_id="4" preference_accessName="volume" preference_type="seekBar"
            preference_maxValue="@integer/volume_max" preference_minValue="0"
            preference_muteUsage="true"/>
    </group>
  </group>
  <item preference_id="5" preference_accessName="nickname" preference_type="1"
        preference_defaultValue="guest" preference_switchUsage="false"/>
  <item preference_id="6" preference_accessName="about" preference_type="intent"/>
  <item preference_id="7" preference_accessName="reset" preference_type="event"/>
</PreferenceSet>
`

const themeOptions = `<radio>
  <entry key="dark" title="Dark" description="Low light"/>
  <entry key="light" title="@string/light_title"/>
  <entry key="dark" title="Midnight"/>
  <entry title="no key"/>
</radio>
`

const resourcesTOML = `
[string]
display_title = "Display"
light_title = "Light"

[integer]
display = 1
volume_max = 15

[xml]
theme_options = "radio/theme.xml"
broken = "radio/broken.xml"
`

func testResources(t *testing.T) *resource.Table {
	t.Helper()
	fsys := fstest.MapFS{
		"resources.toml":   {Data: []byte(resourcesTOML)},
		"radio/theme.xml":  {Data: []byte(themeOptions)},
		"radio/broken.xml": {Data: []byte(`<radio><entry key="" title="x"/></radio>`)},
	}
	res, err := resource.Load(fsys, "resources.toml")
	require.NoError(t, err)
	return res
}

func quietParser(res *resource.Table) Parser {
	return Parser{Resources: res, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func parseSettings(t *testing.T) *Tree {
	t.Helper()
	tree, err := quietParser(testResources(t)).Parse(strings.NewReader(settingsMarkup))
	require.NoError(t, err)
	return tree
}

func TestParse_BuildsNestedTree(t *testing.T) {
	tree := parseSettings(t)

	assert.Equal(t, "settings", tree.Name())
	assert.Equal(t, 7, tree.Len())
	require.Len(t, tree.Roots(), 4)

	display := tree.Roots()[0]
	assert.Equal(t, 1, display.ID())
	assert.Equal(t, "Display", display.Title())
	assert.Equal(t, KindExplain, display.Kind())
	assert.True(t, display.Switch().Valid())
	require.Len(t, display.Children(), 2)

	advanced := display.Children()[1]
	require.Len(t, advanced.Children(), 1)
	volume := advanced.Children()[0]
	assert.Equal(t, "volume", volume.AccessName())
	assert.Equal(t, KindSeekBar, volume.Kind())
	assert.Equal(t, 15, volume.SeekBar().Max())

	byID, ok := tree.ByID(4)
	require.True(t, ok)
	assert.Same(t, volume, byID)
	byName, ok := tree.ByAccessName("nickname")
	require.True(t, ok)
	assert.Equal(t, KindText, byName.Kind())
	assert.False(t, byName.Switch().Valid())
}

func TestParse_FinishedOrderIsChildrenFirst(t *testing.T) {
	tree := parseSettings(t)

	var ids []int
	for _, n := range tree.finished() {
		ids = append(ids, n.ID())
	}
	assert.Equal(t, []int{2, 4, 3, 1, 5, 6, 7}, ids)
}

func TestParse_WalkVisitsDepthFirst(t *testing.T) {
	tree := parseSettings(t)

	var visited []string
	tree.Walk(func(n *Node, depth int) bool {
		visited = append(visited, strings.Repeat(".", depth)+n.AccessName())
		return true
	})
	assert.Equal(t, []string{
		"display", ".theme", ".advanced", "..volume",
		"nickname", "about", "reset",
	}, visited)
}

func TestParse_RadioMapDeduplicatesKeys(t *testing.T) {
	tree := parseSettings(t)
	theme, _ := tree.ByAccessName("theme")

	radio := theme.Radio()
	require.True(t, radio.Valid())
	assert.Equal(t, []RadioInfo{
		{Index: 0, Key: "dark", Title: "Midnight"},
		{Index: 1, Key: "light", Title: "Light"},
	}, radio.Entries())
}

func TestParse_BrokenRadioMapOnlyDisablesThatNode(t *testing.T) {
	markup := `<PreferenceSet>
  <item preference_id="1" preference_accessName="broken" preference_type="radio"
        preference_radioMap="@xml/broken"/>
  <item preference_id="2" preference_accessName="missing" preference_type="radio"
        preference_radioMap="@xml/nowhere"/>
  <item preference_id="3" preference_accessName="ok" preference_type="text"/>
</PreferenceSet>`

	tree, err := quietParser(testResources(t)).Parse(strings.NewReader(markup))
	require.NoError(t, err)
	assert.Equal(t, "preferences", tree.Name())
	assert.Equal(t, 3, tree.Len())

	broken, _ := tree.ByAccessName("broken")
	assert.False(t, broken.Radio().Valid())
	assert.ErrorIs(t, broken.Radio().Err(), ErrEmptyRadioKey)

	missing, _ := tree.ByAccessName("missing")
	assert.False(t, missing.Radio().Valid())
	assert.ErrorIs(t, missing.Radio().Err(), resource.ErrNotFound)

	require.Len(t, tree.Problems(), 2)
	var rme *RadioMapError
	assert.True(t, errors.As(tree.Problems()[0], &rme))
}

func TestParse_DuplicateIDIsFatal(t *testing.T) {
	markup := `<PreferenceSet>
  <item preference_id="1" preference_accessName="a"/>
  <item preference_id="1" preference_accessName="b"/>
</PreferenceSet>`

	tree, err := quietParser(nil).Parse(strings.NewReader(markup))
	assert.Nil(t, tree)
	require.ErrorIs(t, err, ErrDuplicateID)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 3, pe.Line)
}

func TestParse_DuplicateAccessNameIsFatal(t *testing.T) {
	markup := `<PreferenceSet>
  <item preference_id="1" preference_accessName="a"/>
  <item preference_id="2" preference_accessName="a"/>
</PreferenceSet>`

	_, err := quietParser(nil).Parse(strings.NewReader(markup))
	assert.ErrorIs(t, err, ErrDuplicateAccessName)
}

func TestParse_MissingRequiredAttribute(t *testing.T) {
	_, err := quietParser(nil).Parse(strings.NewReader(`<PreferenceSet><item id="9"/></PreferenceSet>`))
	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestParse_UnresolvedReferenceIsFatal(t *testing.T) {
	markup := `<PreferenceSet>
  <item preference_id="1" preference_accessName="a" preference_title="@string/nope"/>
</PreferenceSet>`

	_, err := quietParser(testResources(t)).Parse(strings.NewReader(markup))
	assert.ErrorIs(t, err, resource.ErrNotFound)
}

func TestParse_MalformedMarkup(t *testing.T) {
	_, err := Parse(strings.NewReader(`<PreferenceSet><item id="1"`), nil)
	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestParse_MalformedLiteralsUseDefaults(t *testing.T) {
	markup := `<PreferenceSet>
  <item id="1" accessName="v" type="seekBar" maxValue="lots" minValue="-" enabled="maybe"/>
</PreferenceSet>`

	tree, err := quietParser(nil).Parse(strings.NewReader(markup))
	require.NoError(t, err)
	v, _ := tree.ByID(1)
	assert.Equal(t, 100, v.SeekBar().Max())
	assert.Equal(t, 0, v.SeekBar().Min())
	assert.True(t, v.Enabled())
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"0":       KindExplain,
		"3":       KindSeekBar,
		"seekbar": KindSeekBar,
		"Intent":  KindIntent,
		"42":      KindExplain,
		"bogus":   KindExplain,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseKind(in), "ParseKind(%q)", in)
	}
}

func TestParse_ThreeLevelNesting(t *testing.T) {
	markup := `<PreferenceSet>
  <group preference_id="1" preference_accessName="outer">
    <group preference_id="2" preference_accessName="inner">
      <item preference_id="3" preference_accessName="leaf"/>
    </group>
  </group>
</PreferenceSet>`

	tree, err := quietParser(nil).Parse(strings.NewReader(markup))
	require.NoError(t, err)
	require.Len(t, tree.Roots(), 1)
	for _, id := range []int{1, 2, 3} {
		_, ok := tree.ByID(id)
		assert.True(t, ok, "id %d", id)
	}
}
