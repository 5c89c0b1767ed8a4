package resources

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"path"
	"strings"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/textshaping/core"
)

// fcEntry is a font as listed by fc-list.
type fcEntry struct {
	Family string
	Path   string
	Style  string // lowercase
}

func findFontConfigBinary(conf schuko.Configuration) (path string, err error) {
	if conf != nil {
		path = conf.GetString("fontconfig")
	}
	if path == "" {
		tracer().Infof("fontconfig not configured: key 'fontconfig' should point location of 'fc-list' binary")
		err = core.Error(core.EMISSING, "fontconfig not configured")
	}
	return
}

func cacheFontConfigList(conf schuko.Configuration, update bool) (string, bool) {
	appkey := appKey(conf)
	uconfdir, err := os.UserConfigDir()
	if err != nil {
		tracer().Errorf("user config directory not set")
		return "", false
	}
	fcListFilename := path.Join(uconfdir, appkey, "fontlist.txt")
	if _, err := os.Stat(fcListFilename); err == nil {
		// fontlist already exists
		if !update {
			return fcListFilename, true
		}
	}
	fcpath, err := findFontConfigBinary(conf)
	if err != nil {
		return "", false
	}
	if !path.IsAbs(fcpath) {
		err = core.Error(core.EINVALID, "fontconfig binary fc-list must point to absolute path: %s", fcpath)
		core.UserError(err)
		return "", false
	}
	if fi, err := os.Stat(fcpath); err != nil || (fi.Mode().Perm()&0100) == 0 {
		err = core.WrapError(err, core.EINVALID,
			"fontconfig configuration points to an invalid binary: %s", fcpath)
		core.UserError(err)
		return "", false
	}
	// create config sub-dir for this application
	dir := path.Join(uconfdir, appkey)
	if _, err = os.Stat(dir); os.IsNotExist(err) {
		if err = os.MkdirAll(dir, 0755); err != nil {
			err = core.WrapError(err, core.EINVALID,
				"user configuration path cannot be created: %s", dir)
			core.UserError(err)
			return "", false
		}
	}
	fontlistFile, err := os.Create(fcListFilename)
	if err == nil {
		defer fontlistFile.Close()
		fccmd := exec.Command(fcpath)
		fccmd.Stdout = fontlistFile
		err = fccmd.Run()
	}
	if err != nil {
		err = core.WrapError(err, core.EINVALID,
			"fontconfig output file cannot be created: %s", fcListFilename)
		core.UserError(err)
		return "", false
	}
	return fcListFilename, true
}

func loadFontConfigList(conf schuko.Configuration) ([]fcEntry, bool) {
	fclist, ok := cacheFontConfigList(conf, false)
	if !ok {
		return nil, false
	}
	fc, err := os.Open(fclist)
	if err != nil {
		err = core.WrapError(err, core.EINVALID,
			"fontconfig font list cannot be opened: %s", fclist)
		core.UserError(err)
		return nil, false
	}
	defer fc.Close()
	entries, err := parseFontConfigList(fc)
	if err != nil {
		err = core.WrapError(err, core.EINVALID,
			"encountered a problem during reading of fontconfig font list: %s", fclist)
		core.UserError(err)
		return entries, false
	}
	tracer().Infof("loaded fontconfig list with %d entries", len(entries))
	return entries, true
}

// parseFontConfigList reads lines of the form
//
//	/usr/share/fonts/noto/NotoSansHebrew-Regular.ttf: Noto Sans Hebrew:style=Regular
//
// Font collections are skipped, as fc-list does not tell the face index.
func parseFontConfigList(r io.Reader) ([]fcEntry, error) {
	var entries []fcEntry
	scanner := bufio.NewScanner(r)
	ttc := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ":")
		if len(fields) < 2 {
			continue
		}
		fontpath := strings.TrimSpace(fields[0])
		if strings.HasSuffix(strings.ToLower(fontpath), ".ttc") {
			ttc++
			continue
		}
		family := strings.TrimSpace(fields[1])
		if i := strings.IndexByte(family, ','); i > 0 { // localized alternative names follow
			family = family[:i]
		}
		family = strings.TrimPrefix(family, ".")
		var style string
		if len(fields) > 2 {
			style = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(fields[2]), "style="))
		}
		entries = append(entries, fcEntry{Family: family, Path: fontpath, Style: style})
	}
	if ttc > 0 {
		tracer().Debugf("skipping %d font collections in fontconfig list", ttc)
	}
	return entries, scanner.Err()
}

// matchFontConfig searches a fontconfig list for a font family, preferring
// a regular style.
func matchFontConfig(entries []fcEntry, family string) (string, bool) {
	var candidate string
	for _, e := range entries {
		if !strings.EqualFold(e.Family, family) {
			continue
		}
		if e.Style == "" || strings.Contains(e.Style, "regular") || strings.Contains(e.Style, "book") {
			return e.Path, true
		}
		if candidate == "" {
			candidate = e.Path
		}
	}
	return candidate, candidate != ""
}
