package types

// Constraint is a single comparison taken from a package dependency
// condition such as ">=1.2".
type Constraint struct {
	Op      ConstraintOp
	Version string
}
