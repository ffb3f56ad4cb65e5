package cran

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/yzgyyang/portcran/internal/core"
	"github.com/yzgyyang/portcran/internal/types"
)

const (
	defaultCategory   = "math"
	defaultMaintainer = "ports@FreeBSD.org"
)

// Create builds the port of the R package name from its DESCRIPTION
// fields. When the collection already holds the port its categories,
// maintainer, header and directory are carried over. An empty dir places
// a new port in the collection.
func Create(ctx context.Context, env *core.Environment, lookup Lookup, descriptor *Descriptor, name string, fields []types.DescriptionField, dir string) (*core.Port, error) {
	categories := []string{defaultCategory}
	maintainer := defaultMaintainer
	var header []string

	existing, err := lookup.ResolveName(ctx, PkgNamePrefix+name)
	if err != nil {
		log.Ctx(ctx).Debug().Str("package", name).Err(err).Msg("no usable existing port, using defaults")
	} else {
		if categories, err = existing.Categories(); err != nil {
			return nil, err
		}
		if value, ok, err := existing.Scalar(core.MaintainerSlot); err != nil {
			return nil, err
		} else if ok {
			maintainer = value
		}
		header = existing.Header()
		if dir == "" {
			dir = existing.Dir
		}
	}
	if dir == "" {
		dir = lookup.PortDir(categories[0] + "/" + PkgNamePrefix + name)
	}

	port := NewPort(env, categories[0], name, dir)
	if err := port.SetList(core.CategoriesSlot, categories); err != nil {
		return nil, err
	}
	port.SetScalar(core.MaintainerSlot, maintainer)
	if len(header) > 0 {
		port.SetHeader(header)
	}
	if err := descriptor.Apply(ctx, port, fields); err != nil {
		return nil, err
	}
	if _, err := port.Version(); err != nil {
		return nil, err
	}
	return port, nil
}
