package adapter

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	m "importmock.dev/pkg/importmock/internal/model"
)

// CurrentManifestVersion is the only manifest version understood.
const CurrentManifestVersion = 1

// ManifestStore reads and writes mock manifests.
type ManifestStore interface {
	LoadManifest(path string) ([]m.MockEntry, error)
	SaveManifest(path string, entries []m.MockEntry) error
}

type manifestFile struct {
	Version int             `yaml:"version"`
	Mocks   []manifestMocks `yaml:"mocks"`
}

type manifestMocks struct {
	Importer string           `yaml:"importer"`
	Imports  []manifestImport `yaml:"imports"`
}

type manifestImport struct {
	Import string `yaml:"import"`
	Source string `yaml:"source,omitempty"`
	File   string `yaml:"file,omitempty"`
}

// YAMLManifestStore keeps manifests as YAML documents. Mock order in the
// document is the registration order.
type YAMLManifestStore struct {
	fs afero.Fs
}

// NewYAMLManifestStore builds a store over fs.
func NewYAMLManifestStore(fs afero.Fs) *YAMLManifestStore {
	return &YAMLManifestStore{fs: fs}
}

// LoadManifest reads the manifest at path. Replacement files are read
// relative to the manifest's directory.
func (s *YAMLManifestStore) LoadManifest(path string) ([]m.MockEntry, error) {
	content, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(m.ErrInvalidManifest, "manifest %s does not exist", path)
		}

		return nil, errors.Wrapf(err, "read manifest %s", path)
	}

	var doc manifestFile

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)

	if err := decoder.Decode(&doc); err != nil {
		return nil, errors.Wrapf(m.ErrInvalidManifest, "decode %s: %v", path, err)
	}

	if doc.Version != CurrentManifestVersion {
		return nil, errors.Wrapf(m.ErrInvalidManifest, "%s: unsupported version %d", path, doc.Version)
	}

	baseDir := filepath.Dir(path)

	var entries []m.MockEntry

	for i, mocks := range doc.Mocks {
		if mocks.Importer == "" {
			return nil, errors.Wrapf(m.ErrInvalidManifest, "%s: mocks[%d] has no importer", path, i)
		}

		for j, imp := range mocks.Imports {
			source, err := s.replacementSource(baseDir, imp)
			if err != nil {
				return nil, errors.Wrapf(err, "%s: mocks[%d].imports[%d]", path, i, j)
			}

			entries = append(entries, m.MockEntry{
				Importer: m.ImporterKey(mocks.Importer),
				Import:   m.ImportKey(imp.Import),
				Source:   source,
			})
		}
	}

	return entries, nil
}

func (s *YAMLManifestStore) replacementSource(baseDir string, imp manifestImport) (m.ReplacementSource, error) {
	if imp.Import == "" {
		return "", errors.Wrap(m.ErrInvalidManifest, "import key is empty")
	}

	switch {
	case imp.Source != "" && imp.File != "":
		return "", errors.Wrapf(m.ErrInvalidManifest, "import %q sets both source and file", imp.Import)
	case imp.File != "":
		path := imp.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}

		content, err := afero.ReadFile(s.fs, path)
		if err != nil {
			return "", errors.Wrapf(m.ErrInvalidManifest, "import %q: read %s: %v", imp.Import, path, err)
		}

		return m.ReplacementSource(content), nil
	case imp.Source != "":
		return m.ReplacementSource(imp.Source), nil
	default:
		return "", errors.Wrapf(m.ErrInvalidManifest, "import %q sets neither source nor file", imp.Import)
	}
}

// SaveManifest writes entries as inline sources, grouping consecutive
// entries of the same importer.
func (s *YAMLManifestStore) SaveManifest(path string, entries []m.MockEntry) error {
	doc := manifestFile{Version: CurrentManifestVersion, Mocks: []manifestMocks{}}

	for _, entry := range entries {
		last := len(doc.Mocks) - 1
		if last < 0 || doc.Mocks[last].Importer != string(entry.Importer) {
			doc.Mocks = append(doc.Mocks, manifestMocks{Importer: string(entry.Importer)})
			last++
		}

		doc.Mocks[last].Imports = append(doc.Mocks[last].Imports, manifestImport{
			Import: string(entry.Import),
			Source: string(entry.Source),
		})
	}

	var buf bytes.Buffer

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(doc); err != nil {
		return errors.Wrap(err, "encode manifest")
	}

	if err := encoder.Close(); err != nil {
		return errors.Wrap(err, "encode manifest")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o750); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}

	if err := afero.WriteFile(s.fs, path, buf.Bytes(), 0o600); err != nil {
		return errors.Wrapf(err, "write manifest %s", path)
	}

	return nil
}
