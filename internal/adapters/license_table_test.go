package adapters

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yzgyyang/portcran/internal/types"
)

func TestLicenseTableAdapter_Layers(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.yaml")
	override := filepath.Join(dir, "override.yaml")
	writeFile(t, base, `schema_version: "v1"
licenses:
  "Artistic-2.0":
    codes: [ART20]
  "GPL-2":
    codes: [GPLv2]
`)
	writeFile(t, override, `schema_version: "v1"
licenses:
  "GPL-2":
    codes: [GPLv2, GPLv3]
    combination: dual
  "BSD_3_clause + file LICENSE":
    codes: [BSD3CLAUSE]
    file: ${WRKSRC}/LICENSE
`)

	table := NewLicenseTableAdapter(map[string]types.LicenseMapping{
		"MIT": {Codes: []string{"MIT"}},
	})
	require.NoError(t, table.Load(base))
	require.NoError(t, table.Load(override))

	tests := []struct {
		statement string
		want      types.LicenseMapping
	}{
		{"MIT", types.LicenseMapping{Codes: []string{"MIT"}}},
		{"Artistic-2.0", types.LicenseMapping{Codes: []string{"ART20"}}},
		{"GPL-2", types.LicenseMapping{Codes: []string{"GPLv2", "GPLv3"}, Combination: "dual"}},
		{" BSD_3_clause + file LICENSE ", types.LicenseMapping{Codes: []string{"BSD3CLAUSE"}, File: "${WRKSRC}/LICENSE"}},
	}
	for _, tt := range tests {
		t.Run(tt.statement, func(t *testing.T) {
			got, ok := table.Lookup(tt.statement)
			require.True(t, ok)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("unexpected mapping (-want +got):\n%s", diff)
			}
		})
	}
	_, ok := table.Lookup("Unlicensed")
	assert.False(t, ok)
	assert.Equal(t, []string{base, override}, table.Layers())
}

func TestLicenseTableAdapter_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"missing version", "licenses: {}\n", "missing schema_version"},
		{"no codes", "schema_version: v1\nlicenses:\n  MIT:\n    codes: []\n", "has no codes"},
		{"bad combination", "schema_version: v1\nlicenses:\n  MIT:\n    codes: [MIT]\n    combination: either\n", "invalid combination 'either'"},
		{"bad yaml", "schema_version: [\n", "failed to parse license table"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "licenses.yaml")
			writeFile(t, path, tt.content)
			err := NewLicenseTableAdapter(nil).Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	err := NewLicenseTableAdapter(nil).Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read license table")
}
