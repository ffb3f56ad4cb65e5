package app

import (
	"github.com/yzgyyang/portcran/internal/adapters"
	"github.com/yzgyyang/portcran/internal/core"
	"github.com/yzgyyang/portcran/internal/cran"
	"github.com/yzgyyang/portcran/internal/ports"
	"github.com/yzgyyang/portcran/internal/types"
)

type Service struct {
	Makefiles   ports.MakefilePort
	Tree        ports.CollectionPort
	Distfiles   ports.DistfilePort
	Description ports.DescriptionPort
	Checksum    ports.ChecksumPort
	Licenses    ports.LicenseTablePort
	Renderer    ports.GraphRendererPort
	Platform    types.Platform
}

func NewService() Service {
	return Service{
		Makefiles:   adapters.NewMakefileFileAdapter(),
		Tree:        adapters.NewCollectionDirAdapter(),
		Distfiles:   adapters.NewTarGzDistfileAdapter(),
		Description: adapters.NewDescriptionAdapter(),
		Checksum:    adapters.NewMakesumAdapter(""),
		Licenses:    adapters.NewLicenseTableAdapter(cran.DefaultLicenses()),
		Renderer:    adapters.NewGraphvizAdapter(),
		Platform:    adapters.DetectPlatform(),
	}
}

// environment returns the registries every port of one run shares.
func (s Service) environment() *core.Environment {
	env := core.NewEnvironment(s.Platform)
	cran.Register(env)
	return env
}

// collection opens the ports tree at portsDir with the generic and CRAN
// loaders installed.
func (s Service) collection(env *core.Environment, portsDir string, options core.CollectionOptions) *core.Collection {
	collection := core.NewCollection(portsDir, s.Tree, options)
	collection.AddFactory(core.MakefileFactory(env, s.Makefiles))
	collection.AddFactory(cran.Factory(env, s.Makefiles))
	return collection
}
