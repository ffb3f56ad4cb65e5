package app

type CreateRequest struct {
	PortsDir string
	Name     string
	Distfile string
	// PortDir overrides where the port is written. By default an existing
	// port is updated in place and a new one goes to math/R-cran-<name>.
	PortDir         string
	LicenseTables   []string
	RequireExisting bool
	Makesum         bool
	DryRun          bool
}

type CreateResult struct {
	Origin   string
	Dir      string
	Makefile string
	Written  bool
	// Updated reports whether a Makefile already existed in Dir.
	Updated  bool
}

type ShowRequest struct {
	PortsDir string
	Name     string
	Origin   string
}

type ShowResult struct {
	Origin   string
	Makefile string
}

type CheckRequest struct {
	PortsDir string
	// Origins limits the check; empty checks every port in the tree.
	Origins []string
}

type CheckFailure struct {
	Origin string
	Error  string
}

type CheckResult struct {
	Checked int
	Clean   []string
	Drifted []string
	Failed  []CheckFailure
}

type ResolveRequest struct {
	PortsDir string
	Name     string
	Origin   string
}

type ResolvedDependency struct {
	Category string
	Target   string
	Origin   string
}

type ResolveResult struct {
	Origin       string
	PkgName      string
	Version      string
	Dependencies []ResolvedDependency
}

type GraphRequest struct {
	PortsDir    string
	Name        string
	Origin      string
	IncludeTest bool
	SVG         bool
}

type GraphResult struct {
	Root  string
	DOT   string
	SVG   []byte
	Nodes int
	Edges int
}
