package adapter

import (
	"regexp"
	"sort"

	m "importmock.dev/pkg/importmock/internal/model"
)

// ImportScanner extracts import specifiers from module text.
type ImportScanner interface {
	// Scan returns the specifiers in source order without duplicates.
	Scan(mod m.Module) []string
}

// The patterns are intentionally lexical: comments and strings that happen
// to look like imports are reported too.
var importPatterns = []*regexp.Regexp{
	// import x from "a"; import {x} from "a"; export * from "a"; export {x} from "a"
	regexp.MustCompile(`(?m)\b(?:import|export)\s[^;'"` + "`" + `]*?\bfrom\s*["']([^"']+)["']`),
	// import "a";
	regexp.MustCompile(`(?m)\bimport\s*["']([^"']+)["']`),
	// import("a")
	regexp.MustCompile(`\bimport\s*\(\s*["']([^"']+)["']\s*\)`),
	// require("a")
	regexp.MustCompile(`\brequire\s*\(\s*["']([^"']+)["']\s*\)`),
}

// RegexpImportScanner finds static imports, re-exports, dynamic imports
// with literal specifiers and require calls.
type RegexpImportScanner struct{}

// NewRegexpImportScanner constructs a RegexpImportScanner.
func NewRegexpImportScanner() *RegexpImportScanner {
	return &RegexpImportScanner{}
}

// Scan implements ImportScanner. JSON and builtin modules have no imports.
func (s *RegexpImportScanner) Scan(mod m.Module) []string {
	if mod.Format == m.FormatJSON || mod.Format == m.FormatBuiltin || len(mod.Source) == 0 {
		return nil
	}

	type hit struct {
		offset    int
		specifier string
	}

	var hits []hit

	for _, pattern := range importPatterns {
		for _, match := range pattern.FindAllSubmatchIndex(mod.Source, -1) {
			hits = append(hits, hit{offset: match[2], specifier: string(mod.Source[match[2]:match[3]])})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].offset < hits[j].offset })

	seen := make(map[string]bool, len(hits))
	specifiers := make([]string, 0, len(hits))

	for _, h := range hits {
		if seen[h.specifier] {
			continue
		}

		seen[h.specifier] = true
		specifiers = append(specifiers, h.specifier)
	}

	return specifiers
}
