package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/yzgyyang/portcran/internal/ports"
	"github.com/yzgyyang/portcran/internal/types"
)

// ambiguous marks a port name shared by more than one category.
const ambiguous = -1

// Factory loads a port for a stub. It returns a nil port and a nil error
// when the stub is not a kind of port it knows how to load.
type Factory func(ctx context.Context, stub types.PortStub) (*Port, error)

// Selector picks a port by exactly one of its name or its origin.
type Selector struct {
	Name   string
	Origin string
}

func (s Selector) String() string {
	if s.Name != "" {
		return "name " + s.Name
	}
	return "origin " + s.Origin
}

// CyclicDependencyError reports ports that need each other to load. Cycle
// starts and ends with the same stub once every resolution taking part in
// the cycle has unwound.
type CyclicDependencyError struct {
	Cycle  []types.PortStub
	closed bool
}

func newCyclicDependencyError(stub types.PortStub) *CyclicDependencyError {
	return &CyclicDependencyError{Cycle: []types.PortStub{stub}}
}

func (e *CyclicDependencyError) add(stub types.PortStub) {
	if e.closed {
		return
	}
	e.Cycle = append(e.Cycle, stub)
	e.closed = e.Cycle[0].Origin() == stub.Origin()
}

func (e *CyclicDependencyError) Error() string {
	origins := make([]string, 0, len(e.Cycle))
	for _, stub := range e.Cycle {
		origins = append(origins, stub.Origin())
	}
	return "cyclic dependency detected: " + strings.Join(origins, " -> ")
}

type CollectionOptions struct {
	// ResolveDependencies resolves the build, library and run
	// dependencies of every port as part of loading it.
	ResolveDependencies bool
}

type collectionEntry struct {
	stub types.PortStub
	port *Port
}

// Collection is a ports tree whose ports are loaded on first lookup and
// kept for the lifetime of the collection.
type Collection struct {
	root    string
	source  ports.CollectionPort
	options CollectionOptions

	entries   []collectionEntry
	byName    map[string]int
	byOrigin  map[string]int
	resolving []types.PortStub
	factories []Factory
	versions  *versionCache
	loaded    bool
}

func NewCollection(root string, source ports.CollectionPort, options CollectionOptions) *Collection {
	return &Collection{
		root:     root,
		source:   source,
		options:  options,
		byName:   map[string]int{},
		byOrigin: map[string]int{},
		versions: newVersionCache(),
	}
}

func (c *Collection) Root() string {
	return c.root
}

// PortDir returns the directory of origin inside the collection.
func (c *Collection) PortDir(origin string) string {
	return filepath.Join(c.root, filepath.FromSlash(origin))
}

// AddFactory registers a loader. Loaders added later are tried first.
func (c *Collection) AddFactory(factory Factory) {
	c.factories = append(c.factories, factory)
}

// Discover reads the category and port lists of the tree. It only does
// so once.
func (c *Collection) Discover(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	categories, err := c.source.Categories(ctx, c.root)
	if err != nil {
		return err
	}
	for _, category := range categories {
		log.Ctx(ctx).Debug().Str("category", category).Msg("loading category")
		names, err := c.source.Names(ctx, c.root, category)
		if err != nil {
			return err
		}
		for _, name := range names {
			stub := types.PortStub{Category: category, Name: name}
			stub.Dir = c.PortDir(stub.Origin())
			c.addStub(stub)
		}
	}
	c.loaded = true
	log.Ctx(ctx).Debug().Int("ports", len(c.entries)).Msg("ports collection discovered")
	return nil
}

func (c *Collection) addStub(stub types.PortStub) {
	index := len(c.entries)
	c.entries = append(c.entries, collectionEntry{stub: stub})
	if _, ok := c.byName[stub.Name]; ok {
		c.byName[stub.Name] = ambiguous
	} else {
		c.byName[stub.Name] = index
	}
	c.byOrigin[stub.Origin()] = index
}

// Stubs returns every port of the collection in discovery order.
func (c *Collection) Stubs(ctx context.Context) ([]types.PortStub, error) {
	if err := c.Discover(ctx); err != nil {
		return nil, err
	}
	stubs := make([]types.PortStub, 0, len(c.entries))
	for _, entry := range c.entries {
		stubs = append(stubs, entry.stub)
	}
	return stubs, nil
}

func (c *Collection) ResolveName(ctx context.Context, name string) (*Port, error) {
	return c.Resolve(ctx, Selector{Name: name})
}

func (c *Collection) ResolveOrigin(ctx context.Context, origin string) (*Port, error) {
	return c.Resolve(ctx, Selector{Origin: origin})
}

// Resolve returns the loaded port matching selector, loading it first
// when needed. Resolution failures caused by a cycle are returned as a
// *CyclicDependencyError.
func (c *Collection) Resolve(ctx context.Context, selector Selector) (*Port, error) {
	if (selector.Name == "") == (selector.Origin == "") {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("exactly one of name or origin must be given")
	}
	if err := c.Discover(ctx); err != nil {
		return nil, err
	}
	index, ok := c.byOrigin[selector.Origin]
	if selector.Name != "" {
		index, ok = c.byName[selector.Name]
	}
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no port matches %s", selector))
	}
	if index == ambiguous {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("multiple ports match %s", selector))
	}
	return c.load(ctx, index)
}

func (c *Collection) load(ctx context.Context, index int) (*Port, error) {
	entry := c.entries[index]
	if entry.port != nil {
		return entry.port, nil
	}
	for _, stub := range c.resolving {
		if stub.Origin() == entry.stub.Origin() {
			return nil, newCyclicDependencyError(entry.stub)
		}
	}

	c.resolving = append(c.resolving, entry.stub)
	defer func() {
		c.resolving = c.resolving[:len(c.resolving)-1]
	}()

	port, err := c.runFactories(ctx, entry.stub)
	if err == nil && c.options.ResolveDependencies {
		err = c.resolveDependencies(ctx, port)
	}
	if err != nil {
		var cycle *CyclicDependencyError
		if errors.As(err, &cycle) {
			cycle.add(entry.stub)
		}
		return nil, err
	}
	c.entries[index].port = port
	return port, nil
}

func (c *Collection) runFactories(ctx context.Context, stub types.PortStub) (*Port, error) {
	for i := len(c.factories) - 1; i >= 0; i-- {
		port, err := c.factories[i](ctx, stub)
		if err != nil {
			return nil, err
		}
		if port != nil {
			log.Ctx(ctx).Debug().Str("origin", stub.Origin()).Msg("port loaded")
			return port, nil
		}
	}
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("unable to create port from origin '%s'", stub.Origin()))
}

// resolveDependencies loads every build, library and run dependency of
// port and checks package conditions against the loaded versions. Test
// dependencies are left alone since they commonly form cycles.
func (c *Collection) resolveDependencies(ctx context.Context, port *Port) error {
	depends := port.Depends()
	for _, category := range []*DependsCategory{depends.Build, depends.Lib, depends.Run} {
		for _, dep := range category.All() {
			origin, _, _ := strings.Cut(dep.Origin, "@")
			target, err := c.ResolveOrigin(ctx, origin)
			if err != nil {
				return err
			}
			if dep.Kind != types.DependencyKindPackage {
				continue
			}
			if err := c.checkCondition(ctx, port, dep, target); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Collection) checkCondition(ctx context.Context, port *Port, dep Dependency, target *Port) error {
	constraints, err := ParseCondition(dep.Condition)
	if err != nil {
		return err
	}
	version, err := target.Version()
	if err != nil {
		return err
	}
	ok, err := c.versions.satisfies(version, constraints)
	if err != nil {
		log.Ctx(ctx).Debug().
			Str("origin", port.Origin()).
			Str("dependency", dep.String()).
			Err(err).
			Msg("skipping condition check of unparsable version")
		return nil
	}
	if !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("%s: dependency '%s' not satisfied by version %s", port.Origin(), dep, version))
	}
	return nil
}
