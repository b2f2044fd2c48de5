package manifest

import "sort"

// ChangeSet lists the paths that differ between two manifests.
type ChangeSet struct {
	Added    []string `json:"added"`
	Modified []string `json:"modified"`
	Deleted  []string `json:"deleted"`
}

// NewChangeSet creates an empty ChangeSet.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{
		Added:    []string{},
		Modified: []string{},
		Deleted:  []string{},
	}
}

// Diff compares a stored manifest against a current one. Either may be nil.
func Diff(old, current *Manifest) *ChangeSet {
	cs := NewChangeSet()

	oldHashes := hashesByPath(old)
	newHashes := hashesByPath(current)

	for path, newHash := range newHashes {
		oldHash, exists := oldHashes[path]
		if !exists {
			cs.Added = append(cs.Added, path)
			continue
		}
		if oldHash != newHash {
			cs.Modified = append(cs.Modified, path)
		}
	}

	for path := range oldHashes {
		if _, exists := newHashes[path]; !exists {
			cs.Deleted = append(cs.Deleted, path)
		}
	}

	sort.Strings(cs.Added)
	sort.Strings(cs.Modified)
	sort.Strings(cs.Deleted)
	return cs
}

func hashesByPath(m *Manifest) map[string]string {
	hashes := make(map[string]string, m.Len())
	if m == nil {
		return hashes
	}
	for _, r := range m.Records {
		hashes[r.Path] = r.Hash
	}
	return hashes
}

// IsEmpty returns true if there are no changes.
func (cs *ChangeSet) IsEmpty() bool {
	if cs == nil {
		return true
	}
	return len(cs.Added) == 0 && len(cs.Modified) == 0 && len(cs.Deleted) == 0
}

// TotalChanges returns the total number of changed paths.
func (cs *ChangeSet) TotalChanges() int {
	if cs == nil {
		return 0
	}
	return len(cs.Added) + len(cs.Modified) + len(cs.Deleted)
}
