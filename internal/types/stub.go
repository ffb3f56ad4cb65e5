package types

// PortStub identifies a port in the collection before its Makefile has
// been loaded. Dir is the port directory; it may be empty for ports that
// have not been placed in a collection yet.
type PortStub struct {
	Category string
	Name     string
	Dir      string
}

// Origin returns the category/name identifier of the port.
func (s PortStub) Origin() string {
	return s.Category + "/" + s.Name
}

func (s PortStub) String() string {
	return s.Origin()
}
