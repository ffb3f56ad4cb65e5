// Package cran builds FreeBSD ports for R packages published on CRAN.
package cran

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/yzgyyang/portcran/internal/core"
	"github.com/yzgyyang/portcran/internal/ports"
	"github.com/yzgyyang/portcran/internal/types"
)

const (
	// PkgNamePrefix is prepended to the R package name to form the port
	// name.
	PkgNamePrefix = "R-cran-"
	// UsesName is the USES entry of every CRAN port.
	UsesName = "cran"
	// DistName is the DISTNAME of a CRAN port.
	DistName = "${PORTNAME}_${DISTVERSION}"

	legacyDistName = "${PORTNAME}_${PORTVERSION}"
)

// Uses is the cran framework entry. It defines the package name prefix
// of the port.
type Uses struct {
	*core.BaseUses
}

func NewUses() *Uses {
	return &Uses{BaseUses: core.NewBaseUses(UsesName)}
}

func (u *Uses) Variable(name string) ([]string, bool) {
	if name == core.PkgNamePrefixSlot.Name() {
		return []string{PkgNamePrefix}, true
	}
	return nil, false
}

// Register installs the cran uses kind and the CRAN load hook into env.
func Register(env *core.Environment) {
	env.Uses.Register(UsesName, func() core.Uses { return NewUses() })
	env.AddLoadHook(fixDistName)
}

// NewPort returns an empty CRAN port for the R package name. env must
// have been passed to Register.
func NewPort(env *core.Environment, category string, name string, dir string) *core.Port {
	port := env.NewPort(types.PortStub{Category: category, Name: PkgNamePrefix + name, Dir: dir})
	port.SetScalar(core.PortNameSlot, name)
	port.SetScalar(core.DistNameSlot, DistName)
	port.Uses().Get(UsesName).Add("auto-plist")
	return port
}

// Factory loads ports named R-cran-* and checks they follow the CRAN
// layout. Other stubs are left to the next factory.
func Factory(env *core.Environment, makefiles ports.MakefilePort) core.Factory {
	return func(ctx context.Context, stub types.PortStub) (*core.Port, error) {
		name, ok := strings.CutPrefix(stub.Name, PkgNamePrefix)
		if !ok {
			return nil, nil
		}
		text, err := makefiles.Read(stub.Dir)
		if err != nil {
			return nil, err
		}
		port := env.NewPort(stub)
		if err := port.LoadMakefile(text); err != nil {
			return nil, err
		}
		if err := checkLayout(port, name); err != nil {
			return nil, err
		}
		return port, nil
	}
}

func checkLayout(port *core.Port, name string) error {
	portname, _, err := port.Scalar(core.PortNameSlot)
	if err != nil {
		return err
	}
	if portname != name {
		return layoutError(port, fmt.Sprintf("PORTNAME %q does not match package %q", portname, name))
	}
	distname, _, err := port.Scalar(core.DistNameSlot)
	if err != nil {
		return err
	}
	if distname != DistName && distname != legacyDistName {
		return layoutError(port, fmt.Sprintf("unexpected DISTNAME %q", distname))
	}
	if !port.Uses().Contains(UsesName) {
		return layoutError(port, "missing USES=cran")
	}
	return nil
}

func layoutError(port *core.Port, msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("%s is not a CRAN port: %s", port.Origin(), msg))
}

// fixDistName moves CRAN ports with a hand-written DISTNAME onto the
// standard one, turning PORTVERSION into DISTVERSION.
func fixDistName(port *core.Port, _ *core.MakeVars) error {
	if !port.Uses().Contains(UsesName) {
		return nil
	}
	distname, _, err := port.Scalar(core.DistNameSlot)
	if err != nil {
		return err
	}
	if distname == DistName || distname == legacyDistName {
		return nil
	}
	version, ok, err := port.Scalar(core.PortVersionSlot)
	if err != nil {
		return err
	}
	if ok {
		port.SetScalar(core.DistVersionSlot, version)
		port.Unset(core.PortVersionSlot)
	}
	port.SetScalar(core.DistNameSlot, DistName)
	return nil
}
