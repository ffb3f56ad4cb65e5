package cran

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/yzgyyang/portcran/internal/core"
	"github.com/yzgyyang/portcran/internal/ports"
	"github.com/yzgyyang/portcran/internal/types"
)

// IgnoredKeys are DESCRIPTION fields that carry nothing a port needs.
var IgnoredKeys = []string{
	"Date",
	"Authors@R",
	"ByteCompile",
	"LazyLoad",
	"LazyData",
	"Author",
	"Maintainer",
	"Repository",
	"Repository/R-Forge/Project",
	"Repository/R-Forge/Revision",
	"Repository/R-Forge/DateTimeStamp",
	"Date/Publication",
	"Packaged",
}

// InternalPackages ship with R itself and are never port dependencies.
var InternalPackages = []string{
	"KernSmooth", "MASS", "Matrix", "R", "boot", "class", "cluster",
	"codetools", "compiler", "datasets", "foreign", "grDevices", "graphics",
	"grid", "lattice", "methods", "mgcv", "nlme", "nnet", "parallel",
	"rpart", "spatial", "splines", "stats", "stats4", "survival", "tcltk",
	"tools", "utils",
}

var packagePattern = regexp.MustCompile(`^([A-Za-z0-9.]+)(?:\s*\((.*)\))?`)

// Lookup finds existing ports of the collection.
type Lookup interface {
	ResolveName(ctx context.Context, name string) (*core.Port, error)
	PortDir(origin string) string
}

// KeywordHandler applies the value of one DESCRIPTION field to a port.
type KeywordHandler func(ctx context.Context, port *core.Port, value string) error

// Descriptor applies the fields of a DESCRIPTION file to a CRAN port.
type Descriptor struct {
	lookup   Lookup
	licenses ports.LicenseTablePort
	handlers map[string]KeywordHandler
	ignored  map[string]struct{}
}

func NewDescriptor(lookup Lookup, licenses ports.LicenseTablePort) *Descriptor {
	d := &Descriptor{
		lookup:   lookup,
		licenses: licenses,
		handlers: map[string]KeywordHandler{},
		ignored:  map[string]struct{}{},
	}
	for _, key := range IgnoredKeys {
		d.ignored[key] = struct{}{}
	}
	d.Handle(d.applyDepends, "Depends", "Imports")
	d.Handle(d.applyLinkingTo, "LinkingTo")
	d.Handle(d.applySuggests, "Suggests")
	d.Handle(ignoreValue, "Description", "URL")
	d.Handle(d.applyLicense, "License")
	d.Handle(applyNeedsCompilation, "NeedsCompilation")
	d.Handle(applyPackage, "Package")
	d.Handle(applyTitle, "Title")
	d.Handle(applyVersion, "Version")
	return d
}

// Handle routes the given keys to handler, replacing earlier handlers.
func (d *Descriptor) Handle(handler KeywordHandler, keys ...string) {
	for _, key := range keys {
		d.handlers[key] = handler
	}
}

// Apply dispatches every field to its handler. Unknown keys fail with the
// line they were found on.
func (d *Descriptor) Apply(ctx context.Context, port *core.Port, fields []types.DescriptionField) error {
	for _, field := range fields {
		handler, ok := d.handlers[field.Key]
		if !ok {
			if _, ignored := d.ignored[field.Key]; ignored {
				continue
			}
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unknown DESCRIPTION key %s at line %d", field.Key, field.Line))
		}
		if err := handler(ctx, port, field.Value); err != nil {
			return err
		}
	}
	return nil
}

func ignoreValue(context.Context, *core.Port, string) error {
	return nil
}

func (d *Descriptor) applyDepends(ctx context.Context, port *core.Port, value string) error {
	return d.addDependencies(ctx, port.Depends().Run, value, false)
}

func (d *Descriptor) applyLinkingTo(ctx context.Context, port *core.Port, value string) error {
	return d.addDependencies(ctx, port.Depends().Build, value, false)
}

func (d *Descriptor) applySuggests(ctx context.Context, port *core.Port, value string) error {
	return d.addDependencies(ctx, port.Depends().Test, value, true)
}

// addDependencies adds each package of a comma separated DESCRIPTION list
// such as "R (>= 3.0), car (>= 2.0-1), MASS". Packages missing from the
// collection fail the call unless optional is set.
func (d *Descriptor) addDependencies(ctx context.Context, category *core.DependsCategory, value string, optional bool) error {
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		match := packagePattern.FindStringSubmatch(entry)
		if match == nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("malformed package reference %q in %s", entry, category.Name()))
		}
		name := match[1]
		if isInternal(name) {
			continue
		}
		target, err := d.lookup.ResolveName(ctx, PkgNamePrefix+name)
		if err != nil {
			if optional && errbuilder.CodeOf(err) == errbuilder.CodeNotFound {
				log.Ctx(ctx).Warn().Str("package", name).Msg("suggested package does not exist")
				continue
			}
			return err
		}
		pkgname, err := target.PkgName()
		if err != nil {
			return err
		}
		if err := category.Add(core.NewPackageDependency(pkgname, condition(match[2]), target.Origin())); err != nil {
			return err
		}
	}
	return nil
}

// condition turns an R version requirement such as ">= 2.0-1" into a
// package condition: ">=2.0.1".
func condition(requirement string) string {
	if strings.TrimSpace(requirement) == "" {
		return core.DefaultCondition
	}
	return strings.ReplaceAll(strings.ReplaceAll(requirement, "-", "."), " ", "")
}

func isInternal(name string) bool {
	for _, internal := range InternalPackages {
		if internal == name {
			return true
		}
	}
	return false
}

func (d *Descriptor) applyLicense(_ context.Context, port *core.Port, value string) error {
	mapping, ok := d.licenses.Lookup(value)
	if !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown License value '%s'", value))
	}
	license := port.License()
	for _, code := range mapping.Codes {
		license.Add(code)
	}
	license.Combination = mapping.Combination
	license.File = mapping.File
	return nil
}

func applyNeedsCompilation(_ context.Context, port *core.Port, value string) error {
	switch value {
	case "yes":
		port.Uses().Get(UsesName).Add("compiles")
		port.Unset(core.NoArchSlot)
	case "no":
		port.SetScalar(core.NoArchSlot, "yes")
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown NeedsCompilation value '%s', expected 'yes' or 'no'", value))
	}
	return nil
}

func applyPackage(_ context.Context, port *core.Port, value string) error {
	portname, _, err := port.Scalar(core.PortNameSlot)
	if err != nil {
		return err
	}
	if portname != value {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("package name (%s) does not match port name (%s)", value, portname))
	}
	return nil
}

func applyTitle(_ context.Context, port *core.Port, value string) error {
	port.SetScalar(core.CommentSlot, value)
	return nil
}

func applyVersion(_ context.Context, port *core.Port, value string) error {
	port.SetScalar(core.DistVersionSlot, value)
	return nil
}
