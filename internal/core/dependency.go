package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/yzgyyang/portcran/internal/types"
)

// DefaultCondition is the version condition of a package dependency that
// accepts any version.
const DefaultCondition = ">0"

// Dependency is one entry of a *_DEPENDS variable. Which fields are set
// depends on Kind:
//
//	package    Name (package name), Condition
//	library    Name (library name without "lib" and ".so")
//	localbase  Path (relative to ${LOCALBASE})
//	path       Path (absolute or variable-rooted)
//	command    Name
type Dependency struct {
	Kind      types.DependencyKind
	Origin    string
	Name      string
	Condition string
	Path      string
}

// NewPackageDependency depends on a package by name. An empty condition
// accepts any version.
func NewPackageDependency(pkgname string, condition string, origin string) Dependency {
	if condition == "" {
		condition = DefaultCondition
	}
	return Dependency{Kind: types.DependencyKindPackage, Origin: origin, Name: pkgname, Condition: condition}
}

// Target is the part of the dependency before the origin.
func (d Dependency) Target() string {
	switch d.Kind {
	case types.DependencyKindPackage:
		return d.Name + d.Condition
	case types.DependencyKindLibrary:
		return "lib" + d.Name + ".so"
	case types.DependencyKindLocalbase:
		return "${LOCALBASE}/" + d.Path
	case types.DependencyKindPath:
		return d.Path
	default:
		return d.Name
	}
}

func (d Dependency) String() string {
	return d.Target() + ":" + d.Origin
}

// DependencyParser recognises the target of one kind of dependency.
type DependencyParser func(target string, origin string) (Dependency, bool)

// DependencyRegistry turns dependency expressions into Dependency values.
type DependencyRegistry struct {
	parsers []DependencyParser
}

func NewDependencyRegistry() *DependencyRegistry {
	return &DependencyRegistry{}
}

// Register adds a parser. Parsers registered later are tried first.
func (r *DependencyRegistry) Register(parser DependencyParser) {
	r.parsers = append(r.parsers, parser)
}

// Create parses a "target:origin" expression.
func (r *DependencyRegistry) Create(expression string) (Dependency, error) {
	parts := strings.Split(expression, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Dependency{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("malformed dependency expression: %s", expression))
	}
	for i := len(r.parsers) - 1; i >= 0; i-- {
		if dep, ok := r.parsers[i](parts[0], parts[1]); ok {
			return dep, nil
		}
	}
	return Dependency{}, errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("unknown dependency expression: %s", expression))
}

var (
	commandPattern   = regexp.MustCompile(`^[A-Za-z0-9._+-]+$`)
	pathPattern      = regexp.MustCompile(`^(?:/|\$\{[A-Za-z0-9_]+\}/)\S+$`)
	localbasePattern = regexp.MustCompile(`^\$\{LOCALBASE\}/(\S+)$`)
	libraryPattern   = regexp.MustCompile(`^lib([A-Za-z0-9._+-]+)\.so$`)
	packagePattern   = regexp.MustCompile(`^([A-Za-z0-9._+${}-]+?)([<>]=?[^<>=\s]\S*)$`)
)

// RegisterDefaultDependencies installs the built-in dependency kinds,
// from the most to the least general so the specific ones win.
func RegisterDefaultDependencies(r *DependencyRegistry) {
	r.Register(parseCommandDependency)
	r.Register(parsePathDependency)
	r.Register(parseLocalbaseDependency)
	r.Register(parseLibraryDependency)
	r.Register(parsePackageDependency)
}

func parseCommandDependency(target string, origin string) (Dependency, bool) {
	if !commandPattern.MatchString(target) {
		return Dependency{}, false
	}
	return Dependency{Kind: types.DependencyKindCommand, Origin: origin, Name: target}, true
}

func parsePathDependency(target string, origin string) (Dependency, bool) {
	if !pathPattern.MatchString(target) {
		return Dependency{}, false
	}
	return Dependency{Kind: types.DependencyKindPath, Origin: origin, Path: target}, true
}

func parseLocalbaseDependency(target string, origin string) (Dependency, bool) {
	match := localbasePattern.FindStringSubmatch(target)
	if match == nil {
		return Dependency{}, false
	}
	return Dependency{Kind: types.DependencyKindLocalbase, Origin: origin, Path: match[1]}, true
}

func parseLibraryDependency(target string, origin string) (Dependency, bool) {
	match := libraryPattern.FindStringSubmatch(target)
	if match == nil {
		return Dependency{}, false
	}
	return Dependency{Kind: types.DependencyKindLibrary, Origin: origin, Name: match[1]}, true
}

func parsePackageDependency(target string, origin string) (Dependency, bool) {
	match := packagePattern.FindStringSubmatch(target)
	if match == nil {
		return Dependency{}, false
	}
	return NewPackageDependency(match[1], match[2], origin), true
}
