package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/yzgyyang/portcran/internal/types"
)

const makefileFooter = "\n.include <bsd.port.mk>\n"

// Port is a port whose metadata is held in schema slots.
type Port struct {
	types.PortStub

	env    *Environment
	schema Schema
	values map[Slot]Value
	header []string
}

// NewPort creates a port with the defaults of a new Makefile: its own
// category, the platform maintainer and the stub name as PORTNAME.
func (e *Environment) NewPort(stub types.PortStub) *Port {
	p := &Port{
		PortStub: stub,
		env:      e,
		schema:   BaseSchema(),
		values:   map[Slot]Value{},
	}
	p.values[CategoriesSlot] = Value{Kind: ValueList, List: []string{stub.Category}}
	p.SetScalar(MaintainerSlot, e.Platform.Address)
	p.SetScalar(PortNameSlot, stub.Name)
	return p
}

func (p *Port) Environment() *Environment {
	return p.env
}

// Header returns the comment lines written above the variables.
func (p *Port) Header() []string {
	if len(p.header) > 0 {
		return append([]string(nil), p.header...)
	}
	return []string{
		fmt.Sprintf("# Created by: %s <%s>", p.env.Platform.FullName, p.env.Platform.Address),
		"# $FreeBSD$",
	}
}

// SetHeader keeps the given comment lines as the Makefile header.
func (p *Port) SetHeader(lines []string) {
	p.header = append([]string(nil), lines...)
}

// MakefileHeader returns the leading comment lines of a Makefile, at most
// two of them.
func MakefileHeader(text string) []string {
	var header []string
	for _, line := range strings.SplitN(text, "\n", 3) {
		if len(header) == 2 || !strings.HasPrefix(line, "#") {
			break
		}
		header = append(header, line)
	}
	return header
}

// Lookup returns the tokens of a scalar or list slot. A value defined by
// an active uses entry takes precedence over the value stored on the
// port; more than one uses entry defining the variable is an error.
func (p *Port) Lookup(slot Slot) ([]string, bool, error) {
	if value, ok := p.values[UsesSlot]; ok {
		tokens, found, err := value.Object.(*PortUses).Variable(slot.Name())
		if err != nil {
			return nil, false, err
		}
		if found {
			return tokens, true, nil
		}
	}
	value, ok := p.values[slot]
	if !ok {
		return nil, false, nil
	}
	switch value.Kind {
	case ValueScalar:
		return []string{value.Scalar}, true, nil
	case ValueList:
		return append([]string(nil), value.List...), true, nil
	default:
		return nil, false, slotKindError(slot.Name())
	}
}

// Scalar returns the value of a scalar slot, honouring uses precedence.
func (p *Port) Scalar(slot *ScalarSlot) (string, bool, error) {
	tokens, ok, err := p.Lookup(slot)
	if err != nil || !ok {
		return "", false, err
	}
	if len(tokens) != 1 {
		return "", false, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("variable %s of %s is not a single value", slot.Name(), p.Name))
	}
	return tokens[0], true, nil
}

func (p *Port) SetScalar(slot *ScalarSlot, value string) {
	p.values[slot] = Value{Kind: ValueScalar, Scalar: value}
}

func (p *Port) Unset(slot Slot) {
	delete(p.values, slot)
}

// List returns the value of a list slot, honouring uses precedence.
func (p *Port) List(slot *ListSlot) ([]string, error) {
	tokens, _, err := p.Lookup(slot)
	return tokens, err
}

func (p *Port) SetList(slot *ListSlot, values []string) error {
	if slot.validate != nil {
		if err := slot.validate(p, values); err != nil {
			return err
		}
	}
	p.values[slot] = Value{Kind: ValueList, List: append([]string(nil), values...)}
	return nil
}

// Object returns the object held by slot, creating it on first use.
func (p *Port) Object(slot *ObjectSlot) Object {
	if value, ok := p.values[slot]; ok {
		return value.Object
	}
	obj := slot.factory(p)
	p.values[slot] = Value{Kind: ValueObject, Object: obj}
	return obj
}

func (p *Port) License() *License {
	return p.Object(LicenseSlot).(*License)
}

func (p *Port) Broken() *Broken {
	return p.Object(BrokenSlot).(*Broken)
}

func (p *Port) Depends() *Depends {
	return p.Object(DependsSlot).(*Depends)
}

func (p *Port) Uses() *PortUses {
	return p.Object(UsesSlot).(*PortUses)
}

func (p *Port) Categories() ([]string, error) {
	return p.List(CategoriesSlot)
}

// PkgName is the package name, PKGNAMEPREFIX followed by PORTNAME.
func (p *Port) PkgName() (string, error) {
	prefix, _, err := p.Scalar(PkgNamePrefixSlot)
	if err != nil {
		return "", err
	}
	name, _, err := p.Scalar(PortNameSlot)
	if err != nil {
		return "", err
	}
	return prefix + name, nil
}

// Version returns DISTVERSION, or PORTVERSION when no DISTVERSION is set.
func (p *Port) Version() (string, error) {
	for _, slot := range []*ScalarSlot{DistVersionSlot, PortVersionSlot} {
		value, ok, err := p.Scalar(slot)
		if err != nil {
			return "", err
		}
		if ok {
			return value, nil
		}
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("port %s has neither DISTVERSION nor PORTVERSION", p.Origin()))
}

// LoadMakefile loads the port from Makefile text and keeps its header.
func (p *Port) LoadMakefile(text string) error {
	if header := MakefileHeader(text); len(header) > 0 {
		p.SetHeader(header)
	}
	return p.Load(ParseMakeVars(text))
}

// Load moves every variable of vars into the port's slots and runs the
// environment's load hooks. Variables left over afterwards fail the load.
func (p *Port) Load(vars *MakeVars) error {
	for _, slot := range p.schema.Sorted() {
		if err := slot.Load(p, vars); err != nil {
			return err
		}
	}
	for _, hook := range p.env.hooks {
		if err := hook(p, vars); err != nil {
			return err
		}
	}
	if !vars.AllPopped() {
		log.Debug().
			Str("origin", p.Origin()).
			Str("variables", vars.String()).
			Msg("unloaded variables")
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("unloaded variables for %s: %s", p.Name, vars))
	}
	_, err := p.Version()
	return err
}

// Generate renders the port as Makefile text.
func (p *Port) Generate() (string, error) {
	if _, err := p.Version(); err != nil {
		return "", err
	}
	var sections [][]types.Variable
	section := -1
	for _, slot := range p.schema.Sorted() {
		value, ok := p.values[slot]
		if !ok {
			continue
		}
		vars, err := slot.Generate(value)
		if err != nil {
			return "", err
		}
		if slot.Key().Section != section {
			sections = append(sections, nil)
			section = slot.Key().Section
		}
		sections[len(sections)-1] = append(sections[len(sections)-1], vars...)
	}

	var b strings.Builder
	for _, line := range p.Header() {
		b.WriteString(line)
		b.WriteString("\n")
	}
	formatSections(&b, sections, p.env.Platform.TabWidth, p.env.Platform.PageWidth)
	b.WriteString(makefileFooter)
	return b.String(), nil
}
