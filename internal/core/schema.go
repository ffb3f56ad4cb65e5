package core

import (
	"fmt"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/yzgyyang/portcran/internal/types"
)

// SlotKey positions a slot in a generated Makefile. Section selects the
// block, Order the line within it.
type SlotKey struct {
	Section int
	Order   int
}

func (k SlotKey) Less(other SlotKey) bool {
	if k.Section != other.Section {
		return k.Section < other.Section
	}
	return k.Order < other.Order
}

type ValueKind int

const (
	ValueScalar ValueKind = iota
	ValueList
	ValueObject
)

// Value is the content of one slot of a port.
type Value struct {
	Kind   ValueKind
	Scalar string
	List   []string
	Object Object
}

// Object is a structured part of a port that owns several Makefile
// variables.
type Object interface {
	Load(vars *MakeVars) error
	Generate() ([]types.Variable, error)
}

// Slot is one declared attribute of a port. Load moves the slot's
// variables from vars into the port, Generate turns a stored value back
// into Makefile variables.
type Slot interface {
	Key() SlotKey
	Name() string
	Load(p *Port, vars *MakeVars) error
	Generate(value Value) ([]types.Variable, error)
}

// Schema is the list of slots a kind of port is made of.
type Schema []Slot

// Sorted returns the slots in output order.
func (s Schema) Sorted() Schema {
	out := append(Schema(nil), s...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key().Less(out[j].Key())
	})
	return out
}

// ScalarSlot holds a single string variable.
type ScalarSlot struct {
	key  SlotKey
	name string
}

func NewScalarSlot(section int, order int, name string) *ScalarSlot {
	return &ScalarSlot{key: SlotKey{Section: section, Order: order}, name: name}
}

func (s *ScalarSlot) Key() SlotKey { return s.key }

func (s *ScalarSlot) Name() string { return s.name }

func (s *ScalarSlot) Load(p *Port, vars *MakeVars) error {
	value, ok, err := vars.PopOptionalValue(s.name, true)
	if err != nil || !ok {
		return err
	}
	p.SetScalar(s, value)
	return nil
}

func (s *ScalarSlot) Generate(value Value) ([]types.Variable, error) {
	if value.Kind != ValueScalar {
		return nil, slotKindError(s.name)
	}
	return []types.Variable{{Name: s.name, Tokens: []string{value.Scalar}}}, nil
}

// ListSlot holds a list variable whose tokens are kept verbatim. An
// optional validator guards every assignment.
type ListSlot struct {
	key      SlotKey
	name     string
	validate func(p *Port, values []string) error
}

func NewListSlot(section int, order int, name string) *ListSlot {
	return &ListSlot{key: SlotKey{Section: section, Order: order}, name: name}
}

// WithValidator sets the check run on every assignment to the slot.
func (s *ListSlot) WithValidator(validate func(p *Port, values []string) error) *ListSlot {
	s.validate = validate
	return s
}

func (s *ListSlot) Key() SlotKey { return s.key }

func (s *ListSlot) Name() string { return s.name }

func (s *ListSlot) Load(p *Port, vars *MakeVars) error {
	if !vars.Has(s.name) {
		return nil
	}
	values, err := vars.Pop(s.name)
	if err != nil {
		return err
	}
	return p.SetList(s, values)
}

func (s *ListSlot) Generate(value Value) ([]types.Variable, error) {
	if value.Kind != ValueList {
		return nil, slotKindError(s.name)
	}
	return []types.Variable{{Name: s.name, Tokens: append([]string(nil), value.List...)}}, nil
}

// ObjectSlot holds a structured object created on first access.
type ObjectSlot struct {
	key     SlotKey
	name    string
	factory func(p *Port) Object
}

func NewObjectSlot(section int, name string, factory func(p *Port) Object) *ObjectSlot {
	return &ObjectSlot{key: SlotKey{Section: section, Order: 1}, name: name, factory: factory}
}

func (s *ObjectSlot) Key() SlotKey { return s.key }

func (s *ObjectSlot) Name() string { return s.name }

func (s *ObjectSlot) Load(p *Port, vars *MakeVars) error {
	return p.Object(s).Load(vars)
}

func (s *ObjectSlot) Generate(value Value) ([]types.Variable, error) {
	if value.Kind != ValueObject || value.Object == nil {
		return nil, slotKindError(s.name)
	}
	return value.Object.Generate()
}

func slotKindError(name string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("slot %s holds a value of the wrong kind", name))
}

var (
	PortNameSlot      = NewScalarSlot(1, 1, "PORTNAME")
	PortVersionSlot   = NewScalarSlot(1, 2, "PORTVERSION")
	DistVersionSlot   = NewScalarSlot(1, 4, "DISTVERSION")
	PortRevisionSlot  = NewScalarSlot(1, 6, "PORTREVISION")
	CategoriesSlot    = NewListSlot(1, 8, "CATEGORIES").WithValidator(validateCategories)
	PkgNamePrefixSlot = NewScalarSlot(1, 12, "PKGNAMEPREFIX")
	DistNameSlot      = NewScalarSlot(1, 14, "DISTNAME")

	MaintainerSlot = NewScalarSlot(2, 1, "MAINTAINER")
	CommentSlot    = NewScalarSlot(2, 2, "COMMENT")

	LicenseSlot = NewObjectSlot(3, "license", func(*Port) Object { return NewLicense() })
	BrokenSlot  = NewObjectSlot(4, "broken", func(*Port) Object { return NewBroken() })
	DependsSlot = NewObjectSlot(5, "depends", func(p *Port) Object { return NewDepends(p.env.Dependencies) })
	UsesSlot    = NewObjectSlot(6, "uses", func(p *Port) Object { return NewPortUses(p.env.Uses) })

	NoArchSlot = NewScalarSlot(7, 1, "NO_ARCH")
)

// BaseSchema lists the slots shared by every port.
func BaseSchema() Schema {
	return Schema{
		PortNameSlot,
		PortVersionSlot,
		DistVersionSlot,
		PortRevisionSlot,
		CategoriesSlot,
		PkgNamePrefixSlot,
		DistNameSlot,
		MaintainerSlot,
		CommentSlot,
		LicenseSlot,
		BrokenSlot,
		DependsSlot,
		UsesSlot,
		NoArchSlot,
	}
}

func validateCategories(p *Port, categories []string) error {
	if len(categories) == 0 || categories[0] != p.Category {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid categories for %s, must start with: %s", p.Origin(), p.Category))
	}
	return nil
}
