package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/yzgyyang/portcran/internal/types"
)

const usesVariable = "USES"

// Uses is one entry of the USES variable: a named framework with
// optional arguments that may own further variables of the Makefile.
type Uses interface {
	Name() string
	Args() []string
	Add(arg string)
	Contains(arg string) bool
	// Variable reports a port variable this uses entry defines.
	Variable(name string) ([]string, bool)
	Load(vars *MakeVars) error
	Generate() []types.Variable
}

// UsesFactory creates an empty uses entry.
type UsesFactory func() Uses

// UsesRegistry maps USES names to their implementations.
type UsesRegistry struct {
	kinds map[string]UsesFactory
}

func NewUsesRegistry() *UsesRegistry {
	return &UsesRegistry{kinds: map[string]UsesFactory{}}
}

func (r *UsesRegistry) Register(name string, factory UsesFactory) {
	r.kinds[name] = factory
}

// Create returns a new entry for name. Names without a registered kind
// get a plain entry that only carries arguments.
func (r *UsesRegistry) Create(name string) Uses {
	if factory, ok := r.kinds[name]; ok {
		return factory()
	}
	log.Debug().Str("uses", name).Msg("no uses kind registered, using plain entry")
	return NewBaseUses(name)
}

// BaseUses is a uses entry with arguments and no variables of its own.
// Kinds with variables embed it.
type BaseUses struct {
	name string
	args map[string]struct{}
}

func NewBaseUses(name string) *BaseUses {
	return &BaseUses{name: name, args: map[string]struct{}{}}
}

func (u *BaseUses) Name() string { return u.name }

func (u *BaseUses) Args() []string {
	args := make([]string, 0, len(u.args))
	for arg := range u.args {
		args = append(args, arg)
	}
	sort.Strings(args)
	return args
}

func (u *BaseUses) Add(arg string) {
	u.args[arg] = struct{}{}
}

func (u *BaseUses) Contains(arg string) bool {
	_, ok := u.args[arg]
	return ok
}

func (u *BaseUses) Variable(string) ([]string, bool) { return nil, false }

func (u *BaseUses) Load(*MakeVars) error { return nil }

func (u *BaseUses) Generate() []types.Variable { return nil }

func usesToken(u Uses) string {
	args := u.Args()
	if len(args) == 0 {
		return u.Name()
	}
	return u.Name() + ":" + strings.Join(args, ",")
}

// PortUses is the USES block of a port.
type PortUses struct {
	registry *UsesRegistry
	uses     map[string]Uses
}

func NewPortUses(registry *UsesRegistry) *PortUses {
	return &PortUses{registry: registry, uses: map[string]Uses{}}
}

// Get returns the entry for name, adding it when missing.
func (p *PortUses) Get(name string) Uses {
	if u, ok := p.uses[name]; ok {
		return u
	}
	u := p.registry.Create(name)
	p.uses[name] = u
	return u
}

func (p *PortUses) Contains(name string) bool {
	_, ok := p.uses[name]
	return ok
}

// Names returns the active uses in sorted order.
func (p *PortUses) Names() []string {
	names := make([]string, 0, len(p.uses))
	for name := range p.uses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Variable returns the value a uses entry defines for name. At most one
// entry may define a given variable.
func (p *PortUses) Variable(name string) ([]string, bool, error) {
	var (
		value   []string
		definer string
	)
	for _, usesName := range p.Names() {
		tokens, ok := p.uses[usesName].Variable(name)
		if !ok {
			continue
		}
		if definer != "" {
			return nil, false, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("multiple uses define value for variable '%s': %s, %s", name, definer, usesName))
		}
		definer, value = usesName, tokens
	}
	return value, definer != "", nil
}

func (p *PortUses) Generate() ([]types.Variable, error) {
	if len(p.uses) == 0 {
		return nil, nil
	}
	names := p.Names()
	tokens := make([]string, 0, len(names))
	for _, name := range names {
		tokens = append(tokens, usesToken(p.uses[name]))
	}
	vars := []types.Variable{{Name: usesVariable, Tokens: tokens}}
	for _, name := range names {
		vars = append(vars, p.uses[name].Generate()...)
	}
	return vars, nil
}

func (p *PortUses) Load(vars *MakeVars) error {
	for _, entry := range vars.PopDefault(usesVariable, nil) {
		parts := strings.Split(entry, ":")
		if len(parts) > 2 || parts[0] == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("malformed USES entry: %s", entry))
		}
		u := p.Get(parts[0])
		if len(parts) == 2 {
			for _, arg := range strings.Split(parts[1], ",") {
				if arg != "" {
					u.Add(arg)
				}
			}
		}
		if err := u.Load(vars); err != nil {
			return err
		}
	}
	return nil
}
