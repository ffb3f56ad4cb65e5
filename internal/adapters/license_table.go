package adapters

import (
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/yzgyyang/portcran/internal/ports"
	"github.com/yzgyyang/portcran/internal/types"
)

// LicenseTableAdapter implements LicenseTablePort with layered yaml
// files on top of a built-in table. Each call to Load merges new entries
// into the table; later layers override earlier ones per statement.
type LicenseTableAdapter struct {
	merged map[string]types.LicenseMapping

	// layers tracks load order for provenance.
	layers []string
}

// NewLicenseTableAdapter returns a table seeded with defaults.
func NewLicenseTableAdapter(defaults map[string]types.LicenseMapping) *LicenseTableAdapter {
	merged := make(map[string]types.LicenseMapping, len(defaults))
	for statement, mapping := range defaults {
		merged[statement] = mapping
	}
	return &LicenseTableAdapter{merged: merged}
}

// Load reads a license table file and merges its entries.
func (a *LicenseTableAdapter) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read license table: " + path).
			WithCause(err)
	}

	var table types.LicenseTableFile
	if err := yaml.Unmarshal(data, &table); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse license table: " + path).
			WithCause(err)
	}
	if table.SchemaVersion == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("license table missing schema_version: " + path)
	}

	for statement, mapping := range table.Licenses {
		statement = strings.TrimSpace(statement)
		if statement == "" {
			continue
		}
		if len(mapping.Codes) == 0 {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("license '" + statement + "' has no codes in " + path)
		}
		switch mapping.Combination {
		case "", "dual", "multi":
		default:
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("license '" + statement + "' has invalid combination '" + mapping.Combination + "' in " + path)
		}
		if _, exists := a.merged[statement]; exists {
			log.Debug().
				Str("license", statement).
				Str("layer", path).
				Msg("license overridden by later layer")
		}
		a.merged[statement] = mapping
	}

	a.layers = append(a.layers, path)
	log.Debug().
		Str("path", path).
		Int("licenses", len(table.Licenses)).
		Int("total", len(a.merged)).
		Msg("license table layer loaded")
	return nil
}

func (a *LicenseTableAdapter) Lookup(statement string) (types.LicenseMapping, bool) {
	mapping, ok := a.merged[strings.TrimSpace(statement)]
	return mapping, ok
}

// Layers returns the loaded file paths in load order.
func (a *LicenseTableAdapter) Layers() []string {
	return append([]string(nil), a.layers...)
}

var _ ports.LicenseTablePort = (*LicenseTableAdapter)(nil)
