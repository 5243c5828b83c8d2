// Package locations manages named points of interest on the floor plan.
//
// A location record is a name and a pixel position, stored as a JSON array:
//
//	[
//	    {
//	        "id": "library",
//	        "name": "Library",
//	        "x": 412,
//	        "y": 233
//	    }
//	]
//
// Records are edited with the [Editor] state machine and persisted with a
// [FileStore]. The pipeline can push records through the same rotation and
// affine fit it applies to the graph via [Transform].
package locations

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/paulmach/orb"

	"github.com/matzehuels/floorgeo/pkg/errors"
)

// Record is one named location.
type Record struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Point returns the record position.
func (r Record) Point() orb.Point { return orb.Point{r.X, r.Y} }

// DeriveID lower-cases name and removes its spaces.
func DeriveID(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "")
}

// NewRecord validates name and returns a record at (x, y) with a derived ID.
func NewRecord(name string, x, y float64) (Record, error) {
	if err := errors.ValidateLocationName(name); err != nil {
		return Record{}, err
	}
	for _, v := range [2]struct {
		name string
		v    float64
	}{{"x", x}, {"y", y}} {
		if err := errors.ValidateCoordinate(v.name, v.v); err != nil {
			return Record{}, errors.Wrap(errors.ErrCodeInvalidLocation, err, "location %q", name)
		}
	}
	return Record{ID: DeriveID(name), Name: name, X: x, Y: y}, nil
}

// Decode reads records from r.
//
// Both the array form and the legacy object form keyed by name are accepted.
// Legacy entries without a name take their key, and are returned sorted by
// name. Records without an ID get one from [DeriveID].
func Decode(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var records []Record
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode locations")
		}
	case '{':
		var keyed map[string]Record
		if err := json.Unmarshal(data, &keyed); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode locations")
		}
		for key, rec := range keyed {
			if rec.Name == "" {
				rec.Name = key
			}
			records = append(records, rec)
		}
		sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "locations must be a JSON array or object")
	}

	for i := range records {
		if records[i].ID == "" {
			records[i].ID = DeriveID(records[i].Name)
		}
	}
	return records, nil
}

// Encode writes records as a JSON array indented with four spaces. A nil
// slice is written as an empty array.
func Encode(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Transform returns a copy of records with fn applied to every position.
// IDs and names are kept.
func Transform(records []Record, fn func(orb.Point) orb.Point) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		p := fn(r.Point())
		r.X, r.Y = p[0], p[1]
		out[i] = r
	}
	return out
}
