package otquery

import (
	"bytes"
	"encoding/binary"
	"os"

	gtfont "github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/npillmayer/textshaping/core"
)

// FeatureTags lists the layout feature tags of face `index` in a font
// resource. Tags of the GPOS table come first, followed by tags of the GSUB
// table. A tag appearing more than once in a table (for different scripts or
// languages) is reported once per table.
//
// Fonts without layout tables yield an empty list.
func FeatureTags(r gtfont.Resource, index int) ([]string, error) {
	loaders, err := ot.NewLoaders(r)
	if err != nil {
		return nil, core.WrapError(err, core.EFONT, "cannot read font tables")
	}
	if index < 0 || index >= len(loaders) {
		return nil, core.Error(core.EFONT, "font has no face with index %d", index)
	}
	ld := loaders[index]
	tags := make([]string, 0, 32)
	for _, table := range []string{"GPOS", "GSUB"} {
		raw, err := ld.RawTable(ot.MustNewTag(table))
		if err != nil {
			tracer().Debugf("font has no %s table", table)
			continue
		}
		tt, err := featureList(raw)
		if err != nil {
			return nil, core.WrapError(err, core.EFONT, "%s table is corrupt", table)
		}
		tracer().Debugf("%s table has %d features", table, len(tt))
		tags = append(tags, tt...)
	}
	return tags, nil
}

// FileFeatureTags is a variant of FeatureTags reading a font file.
func FileFeatureTags(path string, index int) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapError(err, core.EFONT, "cannot read font file %s", path)
	}
	tags, err := FeatureTags(bytes.NewReader(data), index)
	if err != nil {
		return nil, core.WrapError(err, core.Code(err), "cannot query features of %s", path)
	}
	return tags, nil
}

// featureList reads the feature list of a GSUB or GPOS table.
// The table header is
//
//	uint16 majorVersion, minorVersion
//	Offset16 scriptList, featureList, lookupList
//
// and the feature list holds a count, followed by records of a 4-byte tag and
// an Offset16 to the feature table.
func featureList(table []byte) ([]string, error) {
	if len(table) < 10 {
		return nil, errShortTable
	}
	off := int(binary.BigEndian.Uint16(table[6:]))
	if off == 0 {
		return nil, nil
	}
	if off+2 > len(table) {
		return nil, errShortTable
	}
	n := int(binary.BigEndian.Uint16(table[off:]))
	recs := table[off+2:]
	if len(recs) < 6*n {
		return nil, errShortTable
	}
	seen := make(map[string]bool, n)
	tags := make([]string, 0, n)
	for i := 0; i < n; i++ {
		tag := string(recs[6*i : 6*i+4])
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

var errShortTable = core.Error(core.EINVALID, "layout table too short")
