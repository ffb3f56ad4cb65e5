package core

import (
	"sort"

	"github.com/yzgyyang/portcran/internal/types"
)

// License is the LICENSE block of a port: a set of license codes, how
// they combine and where the license text lives.
type License struct {
	codes       map[string]struct{}
	Combination string
	File        string
}

func NewLicense() *License {
	return &License{codes: map[string]struct{}{}}
}

func (l *License) Add(code string) *License {
	l.codes[code] = struct{}{}
	return l
}

func (l *License) Contains(code string) bool {
	_, ok := l.codes[code]
	return ok
}

// Codes returns the license codes in sorted order.
func (l *License) Codes() []string {
	codes := make([]string, 0, len(l.codes))
	for code := range l.codes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func (l *License) Generate() ([]types.Variable, error) {
	if len(l.codes) == 0 && l.Combination == "" && l.File == "" {
		return nil, nil
	}
	vars := []types.Variable{{Name: "LICENSE", Tokens: l.Codes()}}
	if l.Combination != "" {
		vars = append(vars, types.Variable{Name: "LICENSE_COMB", Tokens: []string{l.Combination}})
	}
	if l.File != "" {
		vars = append(vars, types.Variable{Name: "LICENSE_FILE", Tokens: []string{l.File}})
	}
	return vars, nil
}

// Load reads LICENSE_COMB and LICENSE_FILE only alongside LICENSE.
func (l *License) Load(vars *MakeVars) error {
	if !vars.Has("LICENSE") {
		return nil
	}
	codes, err := vars.Pop("LICENSE")
	if err != nil {
		return err
	}
	for _, code := range codes {
		l.Add(code)
	}
	if l.Combination, _, err = vars.PopOptionalValue("LICENSE_COMB", false); err != nil {
		return err
	}
	if l.File, _, err = vars.PopOptionalValue("LICENSE_FILE", false); err != nil {
		return err
	}
	return nil
}
