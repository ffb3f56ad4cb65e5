package core

import (
	"sort"
	"strings"

	"github.com/yzgyyang/portcran/internal/types"
)

// ComponentUses is a uses entry that also owns a USE_<NAME> list of
// components, as gnome and perl5 do.
type ComponentUses struct {
	*BaseUses
	Components []string
}

func NewComponentUses(name string) *ComponentUses {
	return &ComponentUses{BaseUses: NewBaseUses(name)}
}

func (u *ComponentUses) variable() string {
	return "USE_" + strings.ToUpper(u.Name())
}

func (u *ComponentUses) Load(vars *MakeVars) error {
	u.Components = vars.PopDefault(u.variable(), u.Components)
	return nil
}

func (u *ComponentUses) Generate() []types.Variable {
	if len(u.Components) == 0 {
		return nil
	}
	return []types.Variable{{Name: u.variable(), Tokens: append([]string(nil), u.Components...)}}
}

type shebangCommands struct {
	old     string
	current string
}

// ShebangFixUses rewrites interpreter paths in the files it lists.
type ShebangFixUses struct {
	*BaseUses
	Files     []string
	languages map[string]shebangCommands
}

func NewShebangFixUses() *ShebangFixUses {
	return &ShebangFixUses{BaseUses: NewBaseUses("shebangfix"), languages: map[string]shebangCommands{}}
}

// SetLanguage records the interpreter commands of lang. An empty command
// is left to the framework default.
func (u *ShebangFixUses) SetLanguage(lang string, oldCmd string, newCmd string) {
	u.languages[lang] = shebangCommands{old: oldCmd, current: newCmd}
}

func (u *ShebangFixUses) Languages() []string {
	langs := make([]string, 0, len(u.languages))
	for lang := range u.languages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

func (u *ShebangFixUses) Load(vars *MakeVars) error {
	u.Files = vars.PopDefault("SHEBANG_FILES", u.Files)
	for _, lang := range vars.PopDefault("SHEBANG_LANG", nil) {
		oldCmd, _, err := vars.PopOptionalValue(lang+"_OLD_CMD", true)
		if err != nil {
			return err
		}
		newCmd, _, err := vars.PopOptionalValue(lang+"_CMD", true)
		if err != nil {
			return err
		}
		u.SetLanguage(lang, oldCmd, newCmd)
	}
	return nil
}

func (u *ShebangFixUses) Generate() []types.Variable {
	var vars []types.Variable
	if len(u.Files) > 0 {
		vars = append(vars, types.Variable{Name: "SHEBANG_FILES", Tokens: append([]string(nil), u.Files...)})
	}
	langs := u.Languages()
	if len(langs) == 0 {
		return vars
	}
	vars = append(vars, types.Variable{Name: "SHEBANG_LANG", Tokens: langs})
	for _, lang := range langs {
		cmds := u.languages[lang]
		if cmds.old != "" {
			vars = append(vars, types.Variable{Name: lang + "_OLD_CMD", Tokens: []string{cmds.old}})
		}
		if cmds.current != "" {
			vars = append(vars, types.Variable{Name: lang + "_CMD", Tokens: []string{cmds.current}})
		}
	}
	return vars
}

// RegisterDefaultUses installs the built-in uses kinds.
func RegisterDefaultUses(r *UsesRegistry) {
	for _, name := range []string{"gnome", "perl5"} {
		r.Register(name, func() Uses { return NewComponentUses(name) })
	}
	for _, name := range []string{"mysql", "pgsql", "pkgconfig", "ssl"} {
		r.Register(name, func() Uses { return NewBaseUses(name) })
	}
	r.Register("shebangfix", func() Uses { return NewShebangFixUses() })
}
