package core

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yzgyyang/portcran/internal/types"
)

func TestPortUsesLoadArguments(t *testing.T) {
	registry := NewUsesRegistry()
	RegisterDefaultUses(registry)
	uses := NewPortUses(registry)

	vars := ParseMakeVars("USES=\tssl pkgconfig:build,run unknown\n")
	require.NoError(t, uses.Load(vars))
	assert.True(t, vars.AllPopped())
	assert.Equal(t, []string{"pkgconfig", "ssl", "unknown"}, uses.Names())
	assert.Equal(t, []string{"build", "run"}, uses.Get("pkgconfig").Args())

	generated, err := uses.Generate()
	require.NoError(t, err)
	assert.Equal(t, []types.Variable{{Name: "USES", Tokens: []string{"pkgconfig:build,run", "ssl", "unknown"}}}, generated)
}

func TestPortUsesLoadMalformed(t *testing.T) {
	uses := NewPortUses(NewUsesRegistry())
	err := uses.Load(ParseMakeVars("USES=\ta:b:c\n"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestShebangFixRoundTrip(t *testing.T) {
	env := testEnvironment()
	text := "PORTNAME=\tfoo\n" +
		"DISTVERSION=\t1\n" +
		"USES=\t\tshebangfix\n" +
		"SHEBANG_FILES=\tbin/foo bin/bar\n" +
		"SHEBANG_LANG=\tperl\n" +
		"perl_OLD_CMD=\t/usr/bin/perl\n"

	port := env.NewPort(types.PortStub{Category: "math", Name: "foo"})
	require.NoError(t, port.LoadMakefile(text))

	shebang, ok := port.Uses().Get("shebangfix").(*ShebangFixUses)
	require.True(t, ok)
	assert.Equal(t, []string{"bin/foo", "bin/bar"}, shebang.Files)
	assert.Equal(t, []string{"perl"}, shebang.Languages())

	generated, err := port.Generate()
	require.NoError(t, err)
	assert.Contains(t, generated, "USES=\t\tshebangfix\n"+
		"SHEBANG_FILES=\tbin/foo bin/bar\n"+
		"SHEBANG_LANG=\tperl\n"+
		"perl_OLD_CMD=\t/usr/bin/perl\n")
	assert.NotContains(t, generated, "perl_CMD")

	reloaded := env.NewPort(types.PortStub{Category: "math", Name: "foo"})
	require.NoError(t, reloaded.LoadMakefile(generated))
	regenerated, err := reloaded.Generate()
	require.NoError(t, err)
	assert.Equal(t, generated, regenerated)
}

func TestComponentUsesOwnsComponents(t *testing.T) {
	env := testEnvironment()
	port := env.NewPort(types.PortStub{Category: "math", Name: "foo"})
	require.NoError(t, port.LoadMakefile("PORTNAME=\tfoo\nDISTVERSION=\t1\nUSES=\tperl5\nUSE_PERL5=\tbuild\n"))

	perl, ok := port.Uses().Get("perl5").(*ComponentUses)
	require.True(t, ok)
	assert.Equal(t, []string{"build"}, perl.Components)
}
