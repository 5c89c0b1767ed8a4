package resources

import (
	"strings"
	"sync"
	"unicode"

	"github.com/flopp/go-findfont"
	"github.com/go-text/typesetting/fontscan"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/textshaping/core"
	"github.com/npillmayer/textshaping/core/font"
)

// EmojiFontFiles lists file names of color emoji fonts of common platforms,
// in order of preference.
var EmojiFontFiles = []string{
	"Apple Color Emoji.ttc",
	"NotoColorEmoji.ttf",
	"seguiemj.ttf",
}

// Locator finds fallback fonts. It is safe for concurrent use.
type Locator struct {
	source     font.Source
	conf       schuko.Configuration
	candidates []font.Spec
	families   []string
	system     bool
	emoji      *font.Spec
	//
	resolveOnce sync.Once
	resolved    []font.Spec
	fcOnce      sync.Once
	fcEntries   []fcEntry
	scanOnce    sync.Once
	fontmap     *fontscan.FontMap
	mx          sync.Mutex // guards fontmap
	emojiOnce   sync.Once
	emojiSpec   font.Spec
	hasEmoji    bool
}

// Option configures a Locator.
type Option func(*Locator)

// WithCandidates adds fonts to check for coverage, before any other source
// of fallback fonts is searched.
func WithCandidates(specs ...font.Spec) Option {
	return func(l *Locator) {
		l.candidates = append(l.candidates, specs...)
	}
}

// WithFamilies adds font families to search for on the local system.
func WithFamilies(families ...string) Option {
	return func(l *Locator) {
		l.families = append(l.families, families...)
	}
}

// WithSystemFonts switches the scan of all system fonts on or off.
// It is on by default.
func WithSystemFonts(on bool) Option {
	return func(l *Locator) {
		l.system = on
	}
}

// WithEmojiFont sets the emoji font, switching off the search for a
// platform emoji font. A zero spec disables emoji fonts altogether.
func WithEmojiFont(spec font.Spec) Option {
	return func(l *Locator) {
		l.emoji = &spec
	}
}

// WithConfiguration sets the configuration to read keys 'app-key' and
// 'fontconfig' from. The configuration may as well name fallback families
// with key 'fallback-fonts', separated by commas.
func WithConfiguration(conf schuko.Configuration) Option {
	return func(l *Locator) {
		l.conf = conf
		if conf == nil {
			return
		}
		for _, fam := range strings.Split(conf.GetString("fallback-fonts"), ",") {
			if fam = strings.TrimSpace(fam); fam != "" {
				l.families = append(l.families, fam)
			}
		}
	}
}

// NewLocator creates a fallback locator. Coverage of candidate fonts is
// checked with faces from source.
func NewLocator(source font.Source, opts ...Option) *Locator {
	l := &Locator{
		source: source,
		system: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Fallback finds a font to display (some of) the characters of sample with.
// The returned font differs from primary. Fallback will prefer the candidate
// covering the most characters of sample.
func (l *Locator) Fallback(sample string, primary font.Spec) (font.Spec, bool) {
	runes := relevantRunes(sample)
	if len(runes) == 0 {
		return font.Spec{}, false
	}
	var best font.Spec
	bestCount := 0
	for _, spec := range l.candidateSpecs() {
		if sameFont(spec, primary) {
			continue
		}
		if n := l.coverage(spec, runes); n > bestCount {
			best, bestCount = spec, n
			if n == len(runes) {
				break
			}
		}
	}
	if bestCount > 0 {
		tracer().Infof("fallback font for %q is %s", sample, best)
		return best, true
	}
	if spec, ok := l.systemFallback(runes, primary); ok {
		tracer().Infof("fallback system font for %q is %s", sample, spec)
		return spec, true
	}
	tracer().Infof("no fallback font for %q", sample)
	return font.Spec{}, false
}

// EmojiFont returns a color emoji font, if one is installed.
func (l *Locator) EmojiFont() (font.Spec, bool) {
	l.emojiOnce.Do(func() {
		if l.emoji != nil {
			l.emojiSpec, l.hasEmoji = *l.emoji, l.emoji.File != ""
			return
		}
		for _, name := range EmojiFontFiles {
			if fpath, err := findfont.Find(name); err == nil && fpath != "" {
				l.emojiSpec, l.hasEmoji = font.Spec{File: fpath}, true
				tracer().Infof("emoji font is %s", fpath)
				return
			}
		}
		tracer().Infof("no emoji font installed")
	})
	return l.emojiSpec, l.hasEmoji
}

func (l *Locator) candidateSpecs() []font.Spec {
	l.resolveOnce.Do(func() {
		l.resolved = append(l.resolved, l.candidates...)
		for _, fam := range l.families {
			fpath, err := l.findFamily(fam)
			if err != nil {
				tracer().Infof(err.Error())
				continue
			}
			l.resolved = append(l.resolved, font.Spec{File: fpath})
		}
	})
	return l.resolved
}

// findFamily locates a font family as a system font. File names are guessed
// from the family name, then fontconfig is asked.
func (l *Locator) findFamily(family string) (string, error) {
	compact := strings.ReplaceAll(family, " ", "")
	for _, name := range []string{family, compact, compact + "-Regular"} {
		if fpath, err := findfont.Find(name); err == nil && fpath != "" {
			tracer().Debugf("%s is a system font at %s", family, fpath)
			return fpath, nil
		}
	}
	l.fcOnce.Do(func() {
		l.fcEntries, _ = loadFontConfigList(l.conf)
	})
	if fpath, ok := matchFontConfig(l.fcEntries, family); ok {
		tracer().Debugf("%s found by fontconfig at %s", family, fpath)
		return fpath, nil
	}
	return "", core.Error(core.EMISSING, "font not found: %s", family)
}

func (l *Locator) coverage(spec font.Spec, runes []rune) int {
	if l.source == nil {
		return 0
	}
	face, err := l.source.Face(spec, 12, 72)
	if err != nil {
		tracer().Infof("fallback candidate %s not loadable: %v", spec, err)
		return 0
	}
	n := 0
	for _, r := range runes {
		if _, ok := face.GlyphIndex(r); ok {
			n++
		}
	}
	return n
}

// systemFallback asks the system font index for a face covering one of the
// characters in runes.
func (l *Locator) systemFallback(runes []rune, primary font.Spec) (font.Spec, bool) {
	if !l.system {
		return font.Spec{}, false
	}
	l.scanOnce.Do(l.scanSystemFonts)
	if l.fontmap == nil {
		return font.Spec{}, false
	}
	l.mx.Lock()
	defer l.mx.Unlock()
	for _, r := range runes {
		face := l.fontmap.ResolveFace(r)
		if face == nil {
			continue
		}
		loc := l.fontmap.FontLocation(face.Font)
		spec := font.Spec{File: loc.File, Index: int(loc.Index)}
		if loc.File != "" && !sameFont(spec, primary) {
			if _, ok := face.NominalGlyph(r); ok {
				return spec, true
			}
		}
	}
	return font.Spec{}, false
}

func (l *Locator) scanSystemFonts() {
	cachedir, err := CacheDirPath(l.conf, "fontscan")
	if err != nil {
		tracer().Errorf("cannot scan system fonts: %v", err)
		return
	}
	fm := fontscan.NewFontMap(fontscanLogger{})
	if err = fm.UseSystemFonts(cachedir); err != nil {
		tracer().Errorf("cannot scan system fonts: %v", err)
		return
	}
	fm.SetQuery(fontscan.Query{Families: []string{fontscan.SansSerif}})
	l.fontmap = fm
}

// fontscanLogger routes messages of fontscan to our tracer.
type fontscanLogger struct{}

func (fontscanLogger) Printf(format string, args ...interface{}) {
	tracer().Debugf(format, args...)
}

func sameFont(a, b font.Spec) bool {
	return a.File == b.File && a.Index == b.Index
}

// relevantRunes returns the distinct characters of sample which need a
// glyph, i.e. without spaces and control characters.
func relevantRunes(sample string) []rune {
	var runes []rune
	seen := make(map[rune]bool)
	for _, r := range sample {
		if unicode.IsSpace(r) || unicode.IsControl(r) || seen[r] {
			continue
		}
		seen[r] = true
		runes = append(runes, r)
	}
	return runes
}
