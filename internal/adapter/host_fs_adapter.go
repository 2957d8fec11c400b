// Package adapter contains the host, manifest and scanning adapters used by
// the importmock CLI.
package adapter

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"

	m "importmock.dev/pkg/importmock/internal/model"
)

const fileScheme = "file://"

// DefaultExtensions are tried, in order, when a specifier names no file.
var DefaultExtensions = []string{".js", ".mjs", ".cjs", ".json"}

// HostOptions configures LocalHostFSAdapter.
type HostOptions struct {
	// WorkDir anchors specifiers requested without a parent.
	WorkDir string
	// ModuleDirs are searched, walking up from the parent directory, for
	// bare specifiers.
	ModuleDirs []string
	// Extensions are appended to extensionless specifiers.
	Extensions []string
	// DefaultFormat is reported for files whose extension implies none.
	DefaultFormat m.Format
}

// LocalHostFSAdapter is a small file-system module host. It resolves
// relative, absolute, file:// and bare specifiers to file:// addresses and
// loads them from an afero file system.
type LocalHostFSAdapter struct {
	fs   afero.Fs
	opts HostOptions
}

var _ Host = (*LocalHostFSAdapter)(nil)

// NewLocalHostFSAdapter builds a host over fs. Zero-valued options fall back
// to the current directory, node_modules, DefaultExtensions and ES modules.
func NewLocalHostFSAdapter(fs afero.Fs, opts HostOptions) *LocalHostFSAdapter {
	if opts.WorkDir == "" {
		if wd, err := os.Getwd(); err == nil {
			opts.WorkDir = wd
		} else {
			opts.WorkDir = string(filepath.Separator)
		}
	}

	if len(opts.ModuleDirs) == 0 {
		opts.ModuleDirs = []string{"node_modules"}
	}

	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}

	if opts.DefaultFormat == "" {
		opts.DefaultFormat = m.FormatModule
	}

	return &LocalHostFSAdapter{fs: fs, opts: opts}
}

// NewOSHostFSAdapter builds a host over the operating system file system.
func NewOSHostFSAdapter(opts HostOptions) *LocalHostFSAdapter {
	return NewLocalHostFSAdapter(afero.NewOsFs(), opts)
}

// ResolveReal implements RealResolver.
func (a *LocalHostFSAdapter) ResolveReal(ctx context.Context, specifier string, parent m.Parent) (m.RealAddress, error) {
	if err := ctx.Err(); err != nil {
		return m.RealAddress{}, err
	}

	if specifier == "" {
		return m.RealAddress{}, errors.Wrap(m.ErrModuleNotFound, "empty specifier")
	}

	if isBuiltin(specifier) {
		return m.RealAddress{URL: specifier, Format: m.FormatBuiltin}, nil
	}

	baseDir := a.baseDir(parent)

	var found string

	switch {
	case strings.HasPrefix(specifier, fileScheme):
		found = a.tryCandidates(PathFromURL(specifier))
	case filepath.IsAbs(specifier):
		found = a.tryCandidates(specifier)
	case isRelative(specifier):
		found = a.tryCandidates(filepath.Join(baseDir, specifier))
	default:
		found = a.searchModuleDirs(baseDir, specifier)
	}

	if found == "" {
		return m.RealAddress{}, errors.Wrapf(m.ErrModuleNotFound, "cannot resolve %q from %s", specifier, baseDir)
	}

	return m.RealAddress{URL: URLFromPath(found), Format: a.detectFormat(found)}, nil
}

// LoadReal implements RealLoader.
func (a *LocalHostFSAdapter) LoadReal(ctx context.Context, addr m.RealAddress) (m.Module, error) {
	if err := ctx.Err(); err != nil {
		return m.Module{}, err
	}

	if addr.Format == m.FormatBuiltin || isBuiltin(addr.URL) {
		return m.Module{Address: addr, Format: m.FormatBuiltin}, nil
	}

	path := PathFromURL(addr.URL)

	content, err := afero.ReadFile(a.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return m.Module{}, errors.Wrapf(m.ErrModuleNotFound, "cannot load %s", addr.URL)
		}

		return m.Module{}, errors.Wrapf(err, "read %s", path)
	}

	format := addr.Format
	if format == "" {
		format = a.detectFormat(path)
	}

	return m.Module{Address: addr, Source: content, Format: format}, nil
}

func (a *LocalHostFSAdapter) baseDir(parent m.Parent) string {
	addr, ok := parent.Get()
	if !ok {
		return a.opts.WorkDir
	}

	realAddr, ok := addr.(m.RealAddress)
	if !ok || !strings.HasPrefix(realAddr.URL, fileScheme) {
		return a.opts.WorkDir
	}

	return filepath.Dir(PathFromURL(realAddr.URL))
}

func (a *LocalHostFSAdapter) searchModuleDirs(fromDir, specifier string) string {
	dir := fromDir

	for {
		for _, moduleDir := range a.opts.ModuleDirs {
			if found := a.tryCandidates(filepath.Join(dir, moduleDir, specifier)); found != "" {
				return found
			}
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			return ""
		}

		dir = parentDir
	}
}

// tryCandidates returns the first existing file among path, path+ext and
// path/index+ext.
func (a *LocalHostFSAdapter) tryCandidates(path string) string {
	if a.isFile(path) {
		return path
	}

	for _, ext := range a.opts.Extensions {
		if a.isFile(path + ext) {
			return path + ext
		}
	}

	if info, err := a.fs.Stat(path); err == nil && info.IsDir() {
		for _, ext := range a.opts.Extensions {
			index := filepath.Join(path, "index"+ext)
			if a.isFile(index) {
				return index
			}
		}
	}

	return ""
}

func (a *LocalHostFSAdapter) isFile(path string) bool {
	info, err := a.fs.Stat(path)
	return err == nil && !info.IsDir()
}

func (a *LocalHostFSAdapter) detectFormat(path string) m.Format {
	switch filepath.Ext(path) {
	case ".mjs":
		return m.FormatModule
	case ".cjs":
		return m.FormatCommonJS
	case ".json":
		return m.FormatJSON
	default:
		return a.opts.DefaultFormat
	}
}

// URLFromPath converts an absolute file path to a file:// address.
func URLFromPath(path string) string {
	return fileScheme + filepath.ToSlash(path)
}

// PathFromURL converts a file:// address back to a file path. Other
// strings are returned unchanged.
func PathFromURL(url string) string {
	path, ok := strings.CutPrefix(url, fileScheme)
	if !ok {
		return url
	}

	return filepath.FromSlash(path)
}

func isRelative(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

func isBuiltin(specifier string) bool {
	return strings.HasPrefix(specifier, "node:")
}
