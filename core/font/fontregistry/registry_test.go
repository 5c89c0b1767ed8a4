package fontregistry

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/textshaping/core"
	"github.com/npillmayer/textshaping/core/font"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
)

func TestFallbackAlwaysPresent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fonts")
	defer teardown()
	//
	reg := NewRegistry()
	face, err := reg.Face(font.Spec{File: font.FallbackFontName}, 11, 72)
	require.NoError(t, err)
	assert.True(t, face.Scalable())
	assert.Equal(t, []string{font.FallbackFontName}, reg.Names())
}

func TestStoreFontData(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fonts")
	defer teardown()
	//
	reg := NewRegistry()
	require.NoError(t, reg.StoreFontData("gomono", gomono.TTF))
	face, err := reg.Face(font.Spec{File: "gomono"}, 10, 144)
	require.NoError(t, err)
	assert.Equal(t, 10.0, face.Size())
	assert.Equal(t, 144.0, face.Resolution())
	reg.LogFontList()
	err = reg.StoreFontData("garbage", []byte("no font"))
	assert.Equal(t, core.EFONT, core.Code(err))
}

func TestMissingFontFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fonts")
	defer teardown()
	//
	_, err := NewRegistry().Face(font.Spec{File: "/does/not/exist.otf"}, 10, 72)
	assert.Equal(t, core.EFONT, core.Code(err))
}
