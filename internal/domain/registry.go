package domain

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	m "importmock.dev/pkg/importmock/internal/model"
)

// Registry is the immutable table of mocks, keyed by importer and then by
// import. Matching is by suffix and the first registered key wins; it is
// not a longest-match. When one key is a suffix of another, register the
// more specific key first.
type Registry struct {
	importers []importerEntry
}

type importerEntry struct {
	key     m.ImporterKey
	imports []importEntry
}

type importEntry struct {
	key    m.ImportKey
	source m.ReplacementSource
}

// Replacements holds the mocks registered for one matched importer key.
type Replacements struct {
	importer m.ImporterKey
	imports  []importEntry
}

// Importer returns the importer key the replacements were registered under.
func (r Replacements) Importer() m.ImporterKey { return r.importer }

// Match returns the first import key that is a suffix of target.
func (r Replacements) Match(target string) (m.ImportKey, bool) {
	for _, entry := range r.imports {
		if strings.HasSuffix(target, string(entry.key)) {
			return entry.key, true
		}
	}

	return "", false
}

// Len reports the number of mocked imports.
func (r Replacements) Len() int { return len(r.imports) }

// EmptyRegistry returns a registry without mocks.
func EmptyRegistry() *Registry {
	return &Registry{}
}

// ReplacementsFor returns the replacements of the first importer key that is
// a suffix of importerAddress.
func (r *Registry) ReplacementsFor(importerAddress string) (Replacements, bool) {
	if r == nil {
		return Replacements{}, false
	}

	for _, entry := range r.importers {
		if strings.HasSuffix(importerAddress, string(entry.key)) {
			return Replacements{importer: entry.key, imports: entry.imports}, true
		}
	}

	return Replacements{}, false
}

// Lookup returns the replacement registered for the exact pair.
func (r *Registry) Lookup(importer m.ImporterKey, imported m.ImportKey) (m.ReplacementSource, bool) {
	if r == nil {
		return "", false
	}

	for _, entry := range r.importers {
		if entry.key != importer {
			continue
		}

		for _, imp := range entry.imports {
			if imp.key == imported {
				return imp.source, true
			}
		}

		return "", false
	}

	return "", false
}

// Entries lists every registered pair in registration order.
func (r *Registry) Entries() []m.MockEntry {
	if r == nil {
		return nil
	}

	var entries []m.MockEntry

	for _, importer := range r.importers {
		for _, imp := range importer.imports {
			entries = append(entries, m.MockEntry{
				Importer: importer.key,
				Import:   imp.key,
				Source:   imp.source,
			})
		}
	}

	return entries
}

// Len reports the number of registered pairs.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}

	n := 0
	for _, importer := range r.importers {
		n += len(importer.imports)
	}

	return n
}

// RegistryBuilder collects mocks before the registry is frozen.
type RegistryBuilder struct {
	importers []importerEntry
	index     map[m.ImporterKey]int
	problems  []string
}

// NewRegistryBuilder returns an empty builder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{index: make(map[m.ImporterKey]int)}
}

// Mock registers source as the replacement for imports matching imported
// when requested by modules matching importer. A repeated importer key
// extends its existing entry.
func (b *RegistryBuilder) Mock(importer m.ImporterKey, imported m.ImportKey, source m.ReplacementSource) *RegistryBuilder {
	if importer == "" || imported == "" {
		b.problems = append(b.problems, fmt.Sprintf("empty key in pair (%q, %q)", importer, imported))

		return b
	}

	i, ok := b.index[importer]
	if !ok {
		i = len(b.importers)
		b.index[importer] = i
		b.importers = append(b.importers, importerEntry{key: importer})
	}

	for _, existing := range b.importers[i].imports {
		if existing.key == imported {
			b.problems = append(b.problems, fmt.Sprintf("duplicate mock for import %q under importer %q", imported, importer))

			return b
		}
	}

	b.importers[i].imports = append(b.importers[i].imports, importEntry{key: imported, source: source})

	return b
}

// MockEntries registers every entry in order.
func (b *RegistryBuilder) MockEntries(entries ...m.MockEntry) *RegistryBuilder {
	for _, entry := range entries {
		b.Mock(entry.Importer, entry.Import, entry.Source)
	}

	return b
}

// Build freezes the registry. The builder must not be reused afterwards.
func (b *RegistryBuilder) Build() (*Registry, error) {
	if len(b.problems) > 0 {
		return nil, errors.Wrapf(m.ErrInvalidRegistry, "%s", strings.Join(b.problems, "; "))
	}

	importers := make([]importerEntry, len(b.importers))
	for i, entry := range b.importers {
		importers[i] = importerEntry{
			key:     entry.key,
			imports: append([]importEntry(nil), entry.imports...),
		}
	}

	return &Registry{importers: importers}, nil
}
