// Package manifest holds the path-to-hash records produced by a scan.
package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// DefaultName is the manifest file written at the scan root.
const DefaultName = "kushn_result.json"

// Record is one hashed file: its root-relative forward-slash path and lowercase hex digest.
type Record struct {
	Path string `json:"path"`
	Hash string `json:"hash"`
}

// Manifest is the ordered list of records from one scan.
// It encodes as a bare JSON array of records.
type Manifest struct {
	Records []Record
}

// New creates an empty manifest.
func New() *Manifest {
	return &Manifest{Records: make([]Record, 0)}
}

// Add appends a record.
func (m *Manifest) Add(r Record) {
	m.Records = append(m.Records, r)
}

// Sort orders records by path. Traversal order is not stable across filesystems.
func (m *Manifest) Sort() {
	sort.Slice(m.Records, func(i, j int) bool {
		return m.Records[i].Path < m.Records[j].Path
	})
}

// Len returns the number of records.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Records)
}

// Get returns the record for path.
func (m *Manifest) Get(path string) (Record, bool) {
	if m == nil {
		return Record{}, false
	}
	for _, r := range m.Records {
		if r.Path == path {
			return r, true
		}
	}
	return Record{}, false
}

// Remove deletes every record for path and reports whether one existed.
func (m *Manifest) Remove(path string) bool {
	if m == nil {
		return false
	}
	kept := m.Records[:0]
	for _, r := range m.Records {
		if r.Path != path {
			kept = append(kept, r)
		}
	}
	removed := len(kept) != len(m.Records)
	m.Records = kept
	return removed
}

// Paths returns the record paths in manifest order.
func (m *Manifest) Paths() []string {
	if m == nil {
		return nil
	}
	paths := make([]string, len(m.Records))
	for i, r := range m.Records {
		paths[i] = r.Path
	}
	return paths
}

// MarshalJSON encodes the manifest as an array; an empty manifest is [] rather than null.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	if m.Records == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(m.Records)
}

// UnmarshalJSON decodes an array of records.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	if records == nil {
		records = make([]Record, 0)
	}
	m.Records = records
	return nil
}

// Encode writes the manifest as indented JSON followed by a newline.
func Encode(w io.Writer, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Decode reads a JSON manifest.
func Decode(r io.Reader) (*Manifest, error) {
	m := New()
	if err := json.NewDecoder(r).Decode(m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return m, nil
}
