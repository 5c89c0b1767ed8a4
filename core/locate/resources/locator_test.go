package resources

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textshaping/core"
	"github.com/npillmayer/textshaping/core/font"
	"github.com/npillmayer/textshaping/engine/glyphing/monospace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func virtualFonts() *monospace.Source {
	return monospace.NewSource().
		Add("latin.mono", "Latin", monospace.Ranges(0x20, 0x24f)).
		Add("hebrew.mono", "Hebrew", monospace.Ranges(0x590, 0x5ff)).
		Add("mixed.mono", "Mixed", monospace.Ranges(0x20, 0x7e, 0x5d0, 0x5d2))
}

func TestFallbackFromCandidates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "resources")
	defer teardown()
	//
	loc := NewLocator(virtualFonts(), WithSystemFonts(false), WithEmojiFont(font.Spec{}),
		WithCandidates(
			font.Spec{File: "latin.mono"},
			font.Spec{File: "mixed.mono"},
			font.Spec{File: "hebrew.mono"},
			font.Spec{File: "missing.mono"},
		))
	spec, ok := loc.Fallback("שלום", font.Spec{File: "latin.mono"})
	require.True(t, ok)
	assert.Equal(t, "hebrew.mono", spec.File, "expected candidate with best coverage")
	spec, ok = loc.Fallback("א ב", font.Spec{File: "latin.mono"})
	require.True(t, ok)
	assert.Equal(t, "mixed.mono", spec.File, "expected first candidate with full coverage")
	spec, ok = loc.Fallback("abc", font.Spec{File: "latin.mono"})
	require.True(t, ok)
	assert.Equal(t, "mixed.mono", spec.File, "expected primary font to be skipped")
}

func TestNoFallback(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "resources")
	defer teardown()
	//
	loc := NewLocator(virtualFonts(), WithSystemFonts(false),
		WithCandidates(font.Spec{File: "latin.mono"}))
	_, ok := loc.Fallback("中文", font.Spec{File: "hebrew.mono"})
	assert.False(t, ok)
	_, ok = loc.Fallback("  \n", font.Spec{File: "hebrew.mono"})
	assert.False(t, ok, "blanks never need a fallback")
}

func TestEmojiFontOption(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "resources")
	defer teardown()
	//
	loc := NewLocator(nil, WithEmojiFont(font.Spec{File: "emoji.mono"}))
	spec, ok := loc.EmojiFont()
	assert.True(t, ok)
	assert.Equal(t, "emoji.mono", spec.File)
	loc = NewLocator(nil, WithEmojiFont(font.Spec{}))
	_, ok = loc.EmojiFont()
	assert.False(t, ok)
}

func TestUnknownFamily(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "resources")
	defer teardown()
	//
	conf := testconfig.Conf{
		"app-key":        "textshaping-test",
		"fallback-fonts": " No Such Family 4711 ,",
	}
	loc := NewLocator(virtualFonts(), WithConfiguration(conf), WithSystemFonts(false))
	assert.Equal(t, []string{"No Such Family 4711"}, loc.families)
	_, err := loc.findFamily("No Such Family 4711")
	assert.Equal(t, core.EMISSING, core.Code(err))
	assert.Empty(t, loc.candidateSpecs())
}

func TestParseFontConfigList(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "resources")
	defer teardown()
	//
	list := `/usr/share/fonts/noto/NotoSansHebrew-Bold.ttf: Noto Sans Hebrew:style=Bold
/usr/share/fonts/noto/NotoSansHebrew-Regular.ttf: Noto Sans Hebrew:style=Regular
/usr/share/fonts/noto/NotoSansCJK.ttc: Noto Sans CJK JP,Noto Sans CJK JP Regular:style=Regular

/System/Library/Fonts/.SFNS.ttf: .SF NS:style=Regular
`
	entries, err := parseFontConfigList(strings.NewReader(list))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "SF NS", entries[2].Family)
	fpath, ok := matchFontConfig(entries, "noto sans hebrew")
	assert.True(t, ok)
	assert.Equal(t, "/usr/share/fonts/noto/NotoSansHebrew-Regular.ttf", fpath)
	_, ok = matchFontConfig(entries, "Noto Sans CJK JP")
	assert.False(t, ok)
}

func TestCacheDirPath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "resources")
	defer teardown()
	//
	tmp := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", tmp)
	t.Setenv("HOME", tmp)
	conf := testconfig.Conf{"app-key": "textshaping-test"}
	dir, err := CacheDirPath(conf, "fonts", "scan")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dir, tmp))
	assert.True(t, strings.HasSuffix(dir, "textshaping-test/fonts/scan"))
	dir, err = CacheDirPath(nil)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(dir, DefaultAppKey))
}
