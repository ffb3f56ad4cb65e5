package types

const (
	DefaultTabWidth  = 8
	DefaultPageWidth = 80
)

// Platform carries the settings of the user and terminal that generated
// Makefiles are attributed to and laid out for.
type Platform struct {
	Address   string
	FullName  string
	TabWidth  int
	PageWidth int
}
