package cran

import "github.com/yzgyyang/portcran/internal/types"

// DefaultLicenses maps the License statements common on CRAN to port
// license variables. Tables loaded from yaml are layered on top.
func DefaultLicenses() map[string]types.LicenseMapping {
	return map[string]types.LicenseMapping{
		"GPL (>= 2)":         {Codes: []string{"GPLv2+"}},
		"GPL-2":              {Codes: []string{"GPLv2"}},
		"GPL-3":              {Codes: []string{"GPLv3"}},
		"GPL (>= 3)":         {Codes: []string{"GPLv3+"}},
		"GPL-2 | GPL-3":      {Codes: []string{"GPLv2", "GPLv3"}, Combination: "dual"},
		"MIT + file LICENSE": {Codes: []string{"MIT"}, File: "${WRKSRC}/LICENSE"},
	}
}
