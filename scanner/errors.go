package scanner

import "fmt"

// RootUnreadableError is returned by Scan when the scan root itself cannot be listed.
// It aborts the whole scan.
type RootUnreadableError struct {
	Root string
	Err  error
}

func (e *RootUnreadableError) Error() string {
	return fmt.Sprintf("cannot list scan root %s: %v", e.Root, e.Err)
}

func (e *RootUnreadableError) Unwrap() error { return e.Err }

// EntryUnreadableError records a file or nested directory that could not be read.
// The entry is left out of the manifest and the scan continues.
type EntryUnreadableError struct {
	Path string // relative, forward slashes
	Err  error
}

func (e *EntryUnreadableError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *EntryUnreadableError) Unwrap() error { return e.Err }
