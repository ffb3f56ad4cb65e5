package core

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	debversion "github.com/knqyf263/go-deb-version"

	"github.com/yzgyyang/portcran/internal/types"
)

// versionCache memoizes parsed versions while a collection checks
// dependency conditions.
type versionCache struct {
	parsed map[string]debversion.Version
}

func newVersionCache() *versionCache {
	return &versionCache{parsed: map[string]debversion.Version{}}
}

// normalizeVersion maps a port or upstream version onto the comparison
// rules used here: the epoch suffix is dropped and '-' or '_' separate
// components like '.' does.
func normalizeVersion(value string) string {
	value, _, _ = strings.Cut(strings.TrimSpace(value), ",")
	return strings.NewReplacer("-", ".", "_", ".").Replace(value)
}

func (c *versionCache) version(value string) (debversion.Version, error) {
	value = normalizeVersion(value)
	if parsed, ok := c.parsed[value]; ok {
		return parsed, nil
	}
	parsed, err := debversion.NewVersion(value)
	if err != nil {
		return debversion.Version{}, err
	}
	c.parsed[value] = parsed
	return parsed, nil
}

// satisfies reports whether version meets every constraint.
func (c *versionCache) satisfies(version string, constraints []types.Constraint) (bool, error) {
	v, err := c.version(version)
	if err != nil {
		return false, err
	}
	for _, constraint := range constraints {
		bound, err := c.version(constraint.Version)
		if err != nil {
			return false, err
		}
		switch constraint.Op {
		case types.ConstraintOpEq:
			if !v.Equal(bound) {
				return false, nil
			}
		case types.ConstraintOpGte:
			if v.LessThan(bound) {
				return false, nil
			}
		case types.ConstraintOpLte:
			if v.GreaterThan(bound) {
				return false, nil
			}
		case types.ConstraintOpGt:
			if !v.GreaterThan(bound) {
				return false, nil
			}
		case types.ConstraintOpLt:
			if !v.LessThan(bound) {
				return false, nil
			}
		default:
			return false, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("unsupported constraint operator")
		}
	}
	return true, nil
}
