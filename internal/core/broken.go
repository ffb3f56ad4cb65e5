package core

import (
	"sort"
	"strings"

	"github.com/yzgyyang/portcran/internal/types"
)

const brokenVariable = "BROKEN"

// Broken records why a port fails to build, either everywhere (the empty
// platform) or on a named platform such as "aarch64" or "FreeBSD_13".
type Broken struct {
	reasons map[string]string
}

func NewBroken() *Broken {
	return &Broken{reasons: map[string]string{}}
}

func (b *Broken) Set(platform string, reason string) {
	b.reasons[platform] = reason
}

func (b *Broken) Reason(platform string) (string, bool) {
	reason, ok := b.reasons[platform]
	return reason, ok
}

// Platforms returns the platforms with a reason, the unconditional one
// first.
func (b *Broken) Platforms() []string {
	platforms := make([]string, 0, len(b.reasons))
	for platform := range b.reasons {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)
	return platforms
}

func (b *Broken) Generate() ([]types.Variable, error) {
	var vars []types.Variable
	for _, platform := range b.Platforms() {
		name := brokenVariable
		if platform != "" {
			name += "_" + platform
		}
		vars = append(vars, types.Variable{Name: name, Tokens: []string{b.reasons[platform]}})
	}
	return vars, nil
}

func (b *Broken) Load(vars *MakeVars) error {
	for _, name := range vars.Names() {
		platform, ok := brokenPlatform(name)
		if !ok {
			continue
		}
		reason, err := vars.PopValue(name, true)
		if err != nil {
			return err
		}
		b.Set(platform, reason)
	}
	return nil
}

func brokenPlatform(name string) (string, bool) {
	if name == brokenVariable {
		return "", true
	}
	platform, ok := strings.CutPrefix(name, brokenVariable+"_")
	if !ok || platform == "" {
		return "", false
	}
	return platform, true
}
