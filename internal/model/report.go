package model

// Edge is one import edge discovered while walking a module graph.
type Edge struct {
	From      string // wire address of the importing module
	Specifier string
	To        string // wire address the specifier resolved to
}

// Graph is the result of walking a module graph from an entry module.
type Graph struct {
	Entry   string
	Order   []string // wire addresses in load order
	Modules map[string]Module
	Edges   []Edge
}

// Mocked returns the loaded modules that were served from the registry.
func (g Graph) Mocked() []Module {
	var mocked []Module

	for _, key := range g.Order {
		mod := g.Modules[key]
		if IsSynthetic(mod.Address) {
			mocked = append(mocked, mod)
		}
	}

	return mocked
}

// TraceKind is the outcome recorded for a resolution under a mocked importer.
type TraceKind int

const (
	// TraceMatched indicates the resolve stage returned a synthetic address.
	TraceMatched TraceKind = iota
	// TraceSkipped indicates the importer matched but no import key did.
	TraceSkipped
)

// String returns a human-readable representation of the TraceKind.
func (k TraceKind) String() string {
	switch k {
	case TraceMatched:
		return "MATCHED"
	case TraceSkipped:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// TraceEvent describes a match or skip decision of the resolve stage.
type TraceEvent struct {
	Kind      TraceKind
	Specifier string
	Importer  ImporterKey
	Import    ImportKey // empty for TraceSkipped
	Target    string    // real resolved address
}
