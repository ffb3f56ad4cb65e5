package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/yzgyyang/portcran/internal/types"
)

var conditionPattern = regexp.MustCompile(`(>=|<=|>|<|=)([^<>=]+)`)

// ParseCondition splits a package dependency condition such as
// ">=1.2<2.0" into its comparisons.
func ParseCondition(raw string) ([]types.Constraint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("empty condition")
	}
	matches := conditionPattern.FindAllStringSubmatchIndex(raw, -1)
	var constraints []types.Constraint
	next := 0
	for _, match := range matches {
		if match[0] != next {
			break
		}
		constraints = append(constraints, types.Constraint{
			Op:      types.ConstraintOp(raw[match[2]:match[3]]),
			Version: strings.TrimSpace(raw[match[4]:match[5]]),
		})
		next = match[1]
	}
	if next != len(raw) || len(constraints) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid condition: %s", raw))
	}
	return constraints, nil
}
