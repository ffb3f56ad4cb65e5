package ports

import "context"

// ChecksumPort refreshes the distinfo of a port directory.
type ChecksumPort interface {
	Makesum(ctx context.Context, dir string) error
}
