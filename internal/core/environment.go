package core

import "github.com/yzgyyang/portcran/internal/types"

// LoadHook runs after every slot of a port has been loaded and may claim
// variables the schema left behind or repair known Makefile quirks.
type LoadHook func(p *Port, vars *MakeVars) error

// Environment holds the registries ports are built with. Create one per
// process and share it between the collection and every port.
type Environment struct {
	Platform     types.Platform
	Dependencies *DependencyRegistry
	Uses         *UsesRegistry
	hooks        []LoadHook
}

// NewEnvironment returns an environment with the built-in dependency
// kinds, uses kinds and load hooks installed.
func NewEnvironment(platform types.Platform) *Environment {
	if platform.TabWidth <= 0 {
		platform.TabWidth = types.DefaultTabWidth
	}
	if platform.PageWidth <= 0 {
		platform.PageWidth = types.DefaultPageWidth
	}
	env := &Environment{
		Platform:     platform,
		Dependencies: NewDependencyRegistry(),
		Uses:         NewUsesRegistry(),
	}
	RegisterDefaultDependencies(env.Dependencies)
	RegisterDefaultUses(env.Uses)
	env.AddLoadHook(gnomeWithoutUses)
	return env
}

func (e *Environment) AddLoadHook(hook LoadHook) {
	e.hooks = append(e.hooks, hook)
}

// gnomeWithoutUses claims USE_GNOME for Makefiles that set it without
// USES=gnome.
func gnomeWithoutUses(p *Port, vars *MakeVars) error {
	if !vars.Has("USE_GNOME") {
		return nil
	}
	return p.Uses().Get("gnome").Load(vars)
}
