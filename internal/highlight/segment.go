// Package highlight turns a display path and the daemon's match offsets
// into renderable runs. Pure computation, no I/O; recomputed per render.
package highlight

import (
	"sort"
	"strings"
)

// Part classifies which portion of the path a segment belongs to.
type Part uint8

const (
	PartDirectory Part = iota
	PartFilename
)

// Segment is a maximal run of characters sharing one classification.
type Segment struct {
	Text        string
	Highlighted bool
	Part        Part
}

// Segments splits displayPath into highlight runs. Offsets are match
// positions relative to the whole display path; the daemon computes them
// against the filename and shifts by the byte position just past the last
// separator, so after rebasing they index runes of the filename. Offsets
// that fall before the filename or past its end are dropped. Adjacent
// runs with equal classification are coalesced, and the concatenation of
// all segment texts always equals displayPath.
func Segments(displayPath string, offsets []int) []Segment {
	if displayPath == "" {
		return []Segment{{Text: "", Part: PartFilename}}
	}

	dirEnd := strings.LastIndexByte(displayPath, '/') + 1

	var segs []Segment
	if dirEnd > 0 {
		segs = append(segs, Segment{Text: displayPath[:dirEnd], Part: PartDirectory})
	}
	name := []rune(displayPath[dirEnd:])

	if len(offsets) == 0 {
		segs = append(segs, Segment{Text: string(name), Part: PartFilename})
		return coalesce(segs)
	}

	sorted := make([]int, len(offsets))
	copy(sorted, offsets)
	sort.Ints(sorted)

	prev := 0
	for _, off := range sorted {
		off -= dirEnd
		if off < prev || off >= len(name) {
			continue
		}
		if off > prev {
			segs = append(segs, Segment{Text: string(name[prev:off]), Part: PartFilename})
		}
		segs = append(segs, Segment{Text: string(name[off : off+1]), Highlighted: true, Part: PartFilename})
		prev = off + 1
	}
	if prev < len(name) {
		segs = append(segs, Segment{Text: string(name[prev:]), Part: PartFilename})
	}
	return coalesce(segs)
}

// coalesce merges neighbors sharing both Highlighted and Part, which is
// what turns consecutive matched characters into a single run.
func coalesce(segs []Segment) []Segment {
	out := segs[:0]
	for _, s := range segs {
		if n := len(out); n > 0 && out[n-1].Highlighted == s.Highlighted && out[n-1].Part == s.Part {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	return out
}
