package core

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yzgyyang/portcran/internal/types"
)

func format(sections ...[]types.Variable) string {
	var b strings.Builder
	formatSections(&b, sections, types.DefaultTabWidth, types.DefaultPageWidth)
	return b.String()
}

func TestFormatSectionsAlignment(t *testing.T) {
	got := format([]types.Variable{
		{Name: "PORTNAME", Tokens: []string{"foo"}},
		{Name: "CATEGORIES", Tokens: []string{"math"}},
	})
	want := "\nPORTNAME=\tfoo\nCATEGORIES=\tmath\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestFormatSectionsLongNames(t *testing.T) {
	got := format([]types.Variable{
		{Name: "X", Tokens: []string{"1"}},
		{Name: "PORTSCOUT_LONG_NAME", Tokens: []string{"2"}},
	})
	want := "\nX=\t\t\t1\nPORTSCOUT_LONG_NAME=\t2\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestFormatSectionsTabStopAtMultipleOfTabWidth(t *testing.T) {
	tests := []struct {
		name    string
		section []types.Variable
		want    string
	}{
		{
			// len("MASTER_SITE_SUB=") is 16: the value column moves to the
			// third tab stop and the long name gets a single tab.
			name: "fifteen character name",
			section: []types.Variable{
				{Name: "X", Tokens: []string{"1"}},
				{Name: "MASTER_SITE_SUB", Tokens: []string{"2"}},
			},
			want: "\nX=\t\t\t1\nMASTER_SITE_SUB=\t2\n",
		},
		{
			name:    "seven character name",
			section: []types.Variable{{Name: "COMMENT", Tokens: []string{"x"}}},
			want:    "\nCOMMENT=\tx\n",
		},
		{
			name: "fourteen character name",
			section: []types.Variable{
				{Name: "X", Tokens: []string{"1"}},
				{Name: "PORTSCOUT_SKIP", Tokens: []string{"2"}},
			},
			want: "\nX=\t\t1\nPORTSCOUT_SKIP=\t2\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, format(tt.section)); diff != "" {
				t.Fatalf("unexpected output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatSectionsEscapesTokens(t *testing.T) {
	got := format([]types.Variable{{Name: "COMMENT", Tokens: []string{"C# for 5$"}}})
	want := "\nCOMMENT=\tC\\# for 5$$\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestFormatSectionsWrapsAtPageWidth(t *testing.T) {
	tokens := make([]string, 7)
	for i := range tokens {
		tokens[i] = "abcdefghij"
	}
	got := format([]types.Variable{{Name: "CATEGORIES", Tokens: tokens}})
	want := "\nCATEGORIES=\tabcdefghij abcdefghij abcdefghij abcdefghij abcdefghij \\\n" +
		"\t\tabcdefghij abcdefghij\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestFormatSectionsLineBreakTokens(t *testing.T) {
	got := format([]types.Variable{
		{Name: "RUN_DEPENDS", Tokens: []string{"a>0:math/a\n", "b>0:math/b\n"}},
	})
	want := "\nRUN_DEPENDS=\ta>0:math/a \\\n\t\tb>0:math/b\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestFormatSectionsSkipsEmptySections(t *testing.T) {
	got := format(
		[]types.Variable{{Name: "PORTNAME", Tokens: []string{"foo"}}},
		nil,
		[]types.Variable{{Name: "USES", Tokens: []string{"cran:auto-plist", "pkgconfig"}}},
	)
	want := "\nPORTNAME=\tfoo\n\nUSES=\t\tcran:auto-plist pkgconfig\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}
