package model

// ImporterKey matches a module by a suffix of its real resolved address.
type ImporterKey string

// ImportKey matches an imported module by a suffix of its real resolved
// address. It is scoped under one ImporterKey.
type ImportKey string

// ReplacementSource is the full module body served in place of a mocked import.
type ReplacementSource string

// MockEntry is one registered (importer, import) pair.
type MockEntry struct {
	Importer ImporterKey
	Import   ImportKey
	Source   ReplacementSource
}

// Parent is the optional address of the module requesting an import. The
// entry module has no parent.
type Parent struct {
	addr Address
	ok   bool
}

// NoParent is the absent parent of an entry module.
func NoParent() Parent { return Parent{} }

// ParentOf wraps the address of an importing module. A nil address yields
// NoParent.
func ParentOf(addr Address) Parent {
	if addr == nil {
		return Parent{}
	}

	return Parent{addr: addr, ok: true}
}

// Get returns the parent address and whether it is present.
func (p Parent) Get() (Address, bool) { return p.addr, p.ok }

// Module is loadable module text.
type Module struct {
	Address Address
	Source  []byte
	Format  Format
}
