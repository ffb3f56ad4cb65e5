package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/yzgyyang/portcran/internal/core"
	"github.com/yzgyyang/portcran/internal/cran"
)

// CreateCran generates the port of a CRAN package from its source
// distfile and writes it into the ports tree.
func (s Service) CreateCran(ctx context.Context, req CreateRequest) (CreateResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return CreateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package name is required")
	}
	if strings.TrimSpace(req.Distfile) == "" {
		return CreateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("distfile is required")
	}
	if strings.TrimSpace(req.PortsDir) == "" {
		return CreateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("ports directory is required")
	}
	for _, path := range req.LicenseTables {
		if err := s.Licenses.Load(path); err != nil {
			return CreateResult{}, err
		}
	}
	if len(req.LicenseTables) > 0 {
		log.Ctx(ctx).Debug().Strs("layers", s.Licenses.Layers()).Msg("license tables loaded")
	}

	data, err := s.Distfiles.ReadMember(req.Distfile, name+"/DESCRIPTION")
	if err != nil {
		return CreateResult{}, err
	}
	fields, err := s.Description.Parse(data)
	if err != nil {
		return CreateResult{}, err
	}

	env := s.environment()
	collection := s.collection(env, req.PortsDir, core.CollectionOptions{})
	if req.RequireExisting {
		if _, err := collection.ResolveName(ctx, cran.PkgNamePrefix+name); err != nil {
			return CreateResult{}, err
		}
	}
	port, err := cran.Create(ctx, env, collection, cran.NewDescriptor(collection, s.Licenses), name, fields, req.PortDir)
	if err != nil {
		return CreateResult{}, err
	}
	text, err := port.Generate()
	if err != nil {
		return CreateResult{}, err
	}
	result := CreateResult{
		Origin:   port.Origin(),
		Dir:      port.Dir,
		Makefile: text,
		Updated:  s.Makefiles.Exists(port.Dir),
	}
	if req.DryRun {
		return result, nil
	}

	if err := s.Makefiles.Write(port.Dir, text); err != nil {
		return CreateResult{}, err
	}
	if err := s.Makefiles.RemovePlist(port.Dir); err != nil {
		return CreateResult{}, err
	}
	if req.Makesum {
		if err := s.Checksum.Makesum(ctx, port.Dir); err != nil {
			return CreateResult{}, err
		}
	}
	result.Written = true
	log.Ctx(ctx).Info().
		Str("origin", result.Origin).
		Str("dir", result.Dir).
		Bool("updated", result.Updated).
		Msg("port written")
	return result, nil
}
