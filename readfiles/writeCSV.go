package readfiles

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/notargets/fieldview/types"
)

// SegmentRecord is one CSV row. Line groups the segments of one streamline
// and is the glyph index for glyph output.
type SegmentRecord struct {
	Line    int     `csv:"line"`
	Segment int     `csv:"segment"`
	X1      float64 `csv:"x1"`
	Y1      float64 `csv:"y1"`
	Z1      float64 `csv:"z1"`
	X2      float64 `csv:"x2"`
	Y2      float64 `csv:"y2"`
	Z2      float64 `csv:"z2"`
}

func newSegmentRecord(line, seg int, ls types.LineSegment) SegmentRecord {
	return SegmentRecord{
		Line: line, Segment: seg,
		X1: ls.Start.X, Y1: ls.Start.Y, Z1: ls.Start.Z,
		X2: ls.End.X, Y2: ls.End.Y, Z2: ls.End.Z,
	}
}

func WriteStreamlinesCSV(w io.Writer, lines []types.PolyLine) error {
	var records []SegmentRecord
	for il, pl := range lines {
		for is, ls := range pl {
			records = append(records, newSegmentRecord(il, is, ls))
		}
	}
	return writeRecords(w, records)
}

func WriteGlyphsCSV(w io.Writer, glyphs []types.LineSegment) error {
	records := make([]SegmentRecord, len(glyphs))
	for i, g := range glyphs {
		records[i] = newSegmentRecord(i, 0, g)
	}
	return writeRecords(w, records)
}

func writeRecords(w io.Writer, records []SegmentRecord) error {
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("writing segments: %w", err)
	}
	return nil
}
