// Package annotation reads manual per-course metadata and merges it into
// a curriculum.
//
// The annotation file is a JSON object keyed by course identifier (id,
// code or key):
//
//	{
//	  "COMP.CS.100": {"icon": "icons/python.svg"},
//	  "COMP.CS.300": {"requires": ["COMP.CS.110"]}
//	}
//
// icon sets the course's icon reference. requires adds manual prerequisite
// edges from the listed courses to the annotated one.
package annotation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/sisugv/sisugv/pkg/curriculum"
	sgerrors "github.com/sisugv/sisugv/pkg/errors"
)

// Entry is the metadata for one course.
type Entry struct {
	Icon     *string  `json:"icon,omitempty"`
	Requires []string `json:"requires,omitempty"`
}

// Annotations maps course identifiers to entries. Entries are applied in
// the order of Keys, which is the order of the file.
type Annotations struct {
	Keys    []string
	Entries map[string]Entry
}

// Len returns the number of entries.
func (a *Annotations) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Keys)
}

// Load reads and parses the annotation file at path.
// A missing or unreadable file, invalid JSON or a document that does not
// match the schema is a CONFIG_ERROR.
func Load(path string) (*Annotations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, sgerrors.Wrap(sgerrors.ErrCodeConfig, err, "read annotation file %s", path)
	}
	a, err := Parse(data)
	if err != nil {
		return nil, sgerrors.Wrap(sgerrors.ErrCodeConfig, err, "parse annotation file %s", path)
	}
	return a, nil
}

// Parse decodes an annotation document. Unknown fields, non-object
// entries and wrongly typed values are rejected.
func Parse(data []byte) (*Annotations, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("annotation file must be a JSON object")
	}

	a := &Annotations{Entries: make(map[string]Entry)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		key := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		entry, err := parseEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", key, err)
		}
		if _, dup := a.Entries[key]; !dup {
			a.Keys = append(a.Keys, key)
		}
		a.Entries[key] = entry
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after annotation object")
	}
	return a, nil
}

func parseEntry(raw json.RawMessage) (Entry, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Entry{}, errors.New("must be an object with optional icon and requires")
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	var e Entry
	if err := dec.Decode(&e); err != nil {
		return Entry{}, err
	}
	for _, r := range e.Requires {
		if r == "" {
			return Entry{}, errors.New("requires contains an empty identifier")
		}
	}
	return e, nil
}

// MergeResult reports what [Merge] did.
type MergeResult struct {
	Applied   int      // Entries that matched at least one course
	Unmatched []string // Entry keys that named no course
}

// Merge applies the annotations to every matching course of p, in the tree
// and in the external list. icon overrides the course's icon; requires is
// added to the course's manual prerequisites as a set union. Entries that
// match no course are ignored and reported.
//
// Merge is idempotent: applying the same annotations twice leaves the
// courses as after the first application.
func Merge(p *curriculum.Programme, a *Annotations) MergeResult {
	var res MergeResult
	if a.Len() == 0 {
		return res
	}
	courses := p.Courses()
	for _, key := range a.Keys {
		entry := a.Entries[key]
		hit := false
		for _, c := range courses {
			if !c.Matches(key) {
				continue
			}
			hit = true
			apply(c, entry)
		}
		if hit {
			res.Applied++
		} else {
			res.Unmatched = append(res.Unmatched, key)
		}
	}
	return res
}

func apply(c *curriculum.Course, e Entry) {
	if e.Icon != nil {
		c.Icon = *e.Icon
	}
	for _, r := range e.Requires {
		if !slices.Contains(c.Requires, r) {
			c.Requires = append(c.Requires, r)
		}
	}
}
