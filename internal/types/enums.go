package types

type DependencyKind string

const (
	DependencyKindPackage   DependencyKind = "package"
	DependencyKindLibrary   DependencyKind = "library"
	DependencyKindLocalbase DependencyKind = "localbase"
	DependencyKindPath      DependencyKind = "path"
	DependencyKindCommand   DependencyKind = "command"
)

// DependsCategory names a *_DEPENDS variable of a port Makefile.
type DependsCategory string

const (
	DependsBuild DependsCategory = "BUILD_DEPENDS"
	DependsLib   DependsCategory = "LIB_DEPENDS"
	DependsRun   DependsCategory = "RUN_DEPENDS"
	DependsTest  DependsCategory = "TEST_DEPENDS"
)

type ConstraintOp string

const (
	ConstraintOpEq   ConstraintOp = "="
	ConstraintOpGte  ConstraintOp = ">="
	ConstraintOpLte  ConstraintOp = "<="
	ConstraintOpGt   ConstraintOp = ">"
	ConstraintOpLt   ConstraintOp = "<"
)
