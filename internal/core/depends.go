package core

import (
	"fmt"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/yzgyyang/portcran/internal/types"
)

// DependsCategory is the dependency list of one *_DEPENDS variable.
type DependsCategory struct {
	name types.DependsCategory
	deps []Dependency
}

func (c *DependsCategory) Name() types.DependsCategory {
	return c.name
}

// Add appends dep. A second dependency on the same origin is rejected.
func (c *DependsCategory) Add(dep Dependency) error {
	if c.Contains(dep.Origin) {
		return errbuilder.New().
			WithCode(errbuilder.CodeAlreadyExists).
			WithMsg(fmt.Sprintf("%s: dependency '%s' already registered", c.name, dep))
	}
	c.deps = append(c.deps, dep)
	return nil
}

func (c *DependsCategory) Contains(origin string) bool {
	for _, dep := range c.deps {
		if dep.Origin == origin {
			return true
		}
	}
	return false
}

// All returns the dependencies in insertion order.
func (c *DependsCategory) All() []Dependency {
	return append([]Dependency(nil), c.deps...)
}

// Sorted returns the dependencies ordered by origin.
func (c *DependsCategory) Sorted() []Dependency {
	deps := c.All()
	sort.Slice(deps, func(i, j int) bool {
		return deps[i].Origin < deps[j].Origin
	})
	return deps
}

func (c *DependsCategory) Len() int {
	return len(c.deps)
}

// Depends holds the dependency categories of a port in output order.
type Depends struct {
	registry   *DependencyRegistry
	categories []*DependsCategory

	Build *DependsCategory
	Lib   *DependsCategory
	Run   *DependsCategory
	Test  *DependsCategory
}

func NewDepends(registry *DependencyRegistry) *Depends {
	d := &Depends{registry: registry}
	d.Build = d.category(types.DependsBuild)
	d.Lib = d.category(types.DependsLib)
	d.Run = d.category(types.DependsRun)
	d.Test = d.category(types.DependsTest)
	return d
}

func (d *Depends) category(name types.DependsCategory) *DependsCategory {
	c := &DependsCategory{name: name}
	d.categories = append(d.categories, c)
	return c
}

// Categories returns every category in output order.
func (d *Depends) Categories() []*DependsCategory {
	return append([]*DependsCategory(nil), d.categories...)
}

// Generate lists each dependency on its own line.
func (d *Depends) Generate() ([]types.Variable, error) {
	var vars []types.Variable
	for _, c := range d.categories {
		if c.Len() == 0 {
			continue
		}
		tokens := make([]string, 0, c.Len())
		for _, dep := range c.Sorted() {
			tokens = append(tokens, dep.String()+"\n")
		}
		vars = append(vars, types.Variable{Name: string(c.name), Tokens: tokens})
	}
	return vars, nil
}

func (d *Depends) Load(vars *MakeVars) error {
	for _, c := range d.categories {
		for _, expression := range vars.PopDefault(string(c.name), nil) {
			dep, err := d.registry.Create(expression)
			if err != nil {
				return err
			}
			if err := c.Add(dep); err != nil {
				return err
			}
		}
	}
	return nil
}
