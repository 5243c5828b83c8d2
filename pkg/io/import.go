package io

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/floorgeo/pkg/core/planar"
	"github.com/matzehuels/floorgeo/pkg/errors"
)

// EdgeRecord is one input row: an undirected segment from (X1, Y1) to
// (X2, Y2). Line is the 1-based line the row started on.
type EdgeRecord struct {
	X1, Y1, X2, Y2 float64
	Line           int
}

// ReadEdges decodes CSV edge records from r.
//
// Each row must carry at least four numeric fields, x1, y1, x2, y2. Extra
// fields (such as the segment weight written by the skeleton extractor) are
// ignored. Leading spaces are trimmed. The first row is skipped as a header
// when none of its leading fields is numeric.
//
// Returns an ErrCodeMalformedRecord error naming the line of the first row
// that is short, non-numeric or non-finite. ReadEdges does not close r.
func ReadEdges(r io.Reader) ([]EdgeRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var out []EdgeRecord
	for first := true; ; first = false {
		row, err := cr.Read()
		if stderrors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			var pe *csv.ParseError
			if stderrors.As(err, &pe) {
				return nil, errors.Wrap(errors.ErrCodeMalformedRecord, err, "line %d", pe.StartLine)
			}
			return nil, errors.Wrap(errors.ErrCodeMalformedRecord, err, "read edges")
		}
		line, _ := cr.FieldPos(0)

		if first && isHeader(row) {
			continue
		}
		rec, err := parseRow(row, line)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// ImportEdges reads a CSV file at path with [ReadEdges].
func ImportEdges(path string) ([]EdgeRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadEdges(f)
}

// BuildGraph adds every record to a fresh graph. Self-loop records fail with
// ErrCodeDegenerateEdge, annotated with the record's line.
func BuildGraph(records []EdgeRecord) (*planar.Graph, error) {
	g := planar.New()
	for _, rec := range records {
		if err := g.AddEdge(rec.X1, rec.Y1, rec.X2, rec.Y2); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "line %d", rec.Line)
		}
	}
	return g, nil
}

var fieldNames = [4]string{"x1", "y1", "x2", "y2"}

func parseRow(row []string, line int) (EdgeRecord, error) {
	if len(row) < 4 {
		return EdgeRecord{}, errors.New(errors.ErrCodeMalformedRecord,
			"line %d: want 4 fields (x1, y1, x2, y2), got %d", line, len(row))
	}
	var v [4]float64
	for i, name := range fieldNames {
		f, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil {
			return EdgeRecord{}, errors.Wrap(errors.ErrCodeMalformedRecord, err,
				"line %d: field %s is not a number: %q", line, name, row[i])
		}
		if err := errors.ValidateCoordinate(name, f); err != nil {
			return EdgeRecord{}, errors.Wrap(errors.ErrCodeMalformedRecord, err, "line %d", line)
		}
		v[i] = f
	}
	return EdgeRecord{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3], Line: line}, nil
}

// isHeader reports whether none of the leading fields parse as numbers.
func isHeader(row []string) bool {
	n := min(len(row), 4)
	for i := range n {
		if _, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64); err == nil {
			return false
		}
	}
	return n > 0
}
