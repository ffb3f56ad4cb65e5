package ports

// MakefilePort reads and writes the Makefile of a port directory.
type MakefilePort interface {
	// Read returns the Makefile text of dir. A missing Makefile is
	// reported with CodeNotFound.
	Read(dir string) (string, error)
	Write(dir string, text string) error
	Exists(dir string) bool
	// RemovePlist deletes a stale pkg-plist from dir, if present.
	RemovePlist(dir string) error
}
