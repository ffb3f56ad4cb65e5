package ports

import "github.com/yzgyyang/portcran/internal/types"

// DistfilePort extracts single members from a distribution archive.
type DistfilePort interface {
	ReadMember(archive string, member string) ([]byte, error)
}

// DescriptionPort parses an R package DESCRIPTION file into fields with
// continuation lines joined.
type DescriptionPort interface {
	Parse(data []byte) ([]types.DescriptionField, error)
}
