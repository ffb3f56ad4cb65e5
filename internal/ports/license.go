package ports

import "github.com/yzgyyang/portcran/internal/types"

// LicenseTablePort maps upstream license statements onto port license
// variables.
//
// Tables are layered: each call to Load merges a yaml file over the
// current entries, and later layers win per statement.
type LicenseTablePort interface {
	Load(path string) error
	Lookup(statement string) (types.LicenseMapping, bool)
	// Layers returns the loaded file paths in load order.
	Layers() []string
}
