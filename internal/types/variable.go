package types

// Variable is one generated Makefile assignment. A token ending in a
// newline forces the following token onto a continuation line.
type Variable struct {
	Name   string
	Tokens []string
}
