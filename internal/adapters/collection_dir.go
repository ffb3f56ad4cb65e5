package adapters

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/yzgyyang/portcran/internal/core"
	"github.com/yzgyyang/portcran/internal/ports"
)

const subdirVariable = "SUBDIR"

// CollectionDirAdapter lists a ports tree on disk. The SUBDIR variable of
// the top level and category Makefiles is authoritative; trees without
// those Makefiles are scanned for directories instead.
type CollectionDirAdapter struct{}

func NewCollectionDirAdapter() CollectionDirAdapter {
	return CollectionDirAdapter{}
}

func (a CollectionDirAdapter) Categories(ctx context.Context, root string) ([]string, error) {
	if root == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("ports directory is empty")
	}
	return a.subdirs(ctx, root, shouldSkipTreeDir)
}

func (a CollectionDirAdapter) Names(ctx context.Context, root string, category string) ([]string, error) {
	return a.subdirs(ctx, filepath.Join(root, category), func(name string) bool {
		return strings.HasPrefix(name, ".")
	})
}

func (a CollectionDirAdapter) subdirs(ctx context.Context, dir string, skip func(string) bool) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, makefileName))
	if err == nil {
		if names, ok := core.ParseMakeVars(string(data)).Get(subdirVariable); ok {
			return names, nil
		}
	}
	log.Ctx(ctx).Debug().Str("dir", dir).Msg("no SUBDIR, scanning directories")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to scan ports directory: " + dir).
			WithCause(err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || skip(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// shouldSkipTreeDir reports top level directories of a ports tree that
// hold infrastructure rather than ports.
func shouldSkipTreeDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	switch name {
	case "Mk", "Templates", "Tools", "Keywords", "distfiles", "packages":
		return true
	default:
		return false
	}
}

var _ ports.CollectionPort = CollectionDirAdapter{}
