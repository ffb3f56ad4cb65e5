package app

import (
	"context"
	"strings"

	"github.com/yzgyyang/portcran/internal/core"
)

// Resolve loads a port together with its build, library and run
// dependencies, checking every package condition on the way.
func (s Service) Resolve(ctx context.Context, req ResolveRequest) (ResolveResult, error) {
	env := s.environment()
	collection := s.collection(env, req.PortsDir, core.CollectionOptions{ResolveDependencies: true})
	port, err := collection.Resolve(ctx, core.Selector{Name: strings.TrimSpace(req.Name), Origin: strings.TrimSpace(req.Origin)})
	if err != nil {
		return ResolveResult{}, err
	}
	pkgname, err := port.PkgName()
	if err != nil {
		return ResolveResult{}, err
	}
	version, err := port.Version()
	if err != nil {
		return ResolveResult{}, err
	}

	result := ResolveResult{Origin: port.Origin(), PkgName: pkgname, Version: version}
	for _, category := range port.Depends().Categories() {
		for _, dep := range category.Sorted() {
			result.Dependencies = append(result.Dependencies, ResolvedDependency{
				Category: string(category.Name()),
				Target:   dep.Target(),
				Origin:   dep.Origin,
			})
		}
	}
	return result, nil
}
