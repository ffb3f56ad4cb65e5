package ports

import "context"

// CollectionPort lists the layout of a ports tree: the categories named
// by the top level Makefile and the ports named by each category
// Makefile.
type CollectionPort interface {
	Categories(ctx context.Context, root string) ([]string, error)
	Names(ctx context.Context, root string, category string) ([]string, error)
}
