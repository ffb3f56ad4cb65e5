package core

import (
	"context"

	"github.com/yzgyyang/portcran/internal/ports"
	"github.com/yzgyyang/portcran/internal/types"
)

// MakefileFactory loads any port from its Makefile using the base
// schema. Register it first so that specialised factories are tried
// before it.
func MakefileFactory(env *Environment, makefiles ports.MakefilePort) Factory {
	return func(ctx context.Context, stub types.PortStub) (*Port, error) {
		text, err := makefiles.Read(stub.Dir)
		if err != nil {
			return nil, err
		}
		port := env.NewPort(stub)
		if err := port.LoadMakefile(text); err != nil {
			return nil, err
		}
		return port, nil
	}
}
