package types

// DescriptionField is one field of an R package DESCRIPTION file with its
// continuation lines already joined. Line is the line the field starts on.
type DescriptionField struct {
	Key   string
	Value string
	Line  int
}

// LicenseMapping maps an upstream license statement onto port license
// variables.
type LicenseMapping struct {
	Codes       []string `yaml:"codes"`
	Combination string   `yaml:"combination,omitempty"`
	File        string   `yaml:"file,omitempty"`
}

// LicenseTableFile is the on-disk layout of a license table override.
type LicenseTableFile struct {
	SchemaVersion string                    `yaml:"schema_version"`
	Licenses      map[string]LicenseMapping `yaml:"licenses"`
}
