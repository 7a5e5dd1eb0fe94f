// Package manifest produces the file list the offline cache worker
// precaches.
//
// Two JSON documents are written under ServicesDir of the public
// directory:
//
//	app-files.json    {"name": "...", "version": "...", "files": ["/index.html", ...]}
//	app-version.json  {"name": "...", "version": "..."}
//
// The version is derived from the content of every listed file, so any
// change to the site produces a new cache name.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// File names and location of the generated documents.
const (
	ServicesDir = "assets/js/services"
	FilesName   = "app-files.json"
	VersionName = "app-version.json"
)

// Manifest lists the files of a site.
type Manifest struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Files   []string `json:"files"`
}

// Version is the app-version.json document.
type Version struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// CacheName is the name the worker opens its cache under.
func (m *Manifest) CacheName() string {
	return "app_" + m.Name + "v" + m.Version
}

// Options configures the generator.
type Options struct {
	// Name is the application name recorded in the manifest.
	Name string

	DryRun bool

	// Log receives one line per file written or removed. Nil discards.
	Log io.Writer
}

// Generator writes manifests into public directories.
type Generator struct {
	opts Options
}

// New creates a generator.
func New(opts Options) *Generator {
	if opts.Log == nil {
		opts.Log = io.Discard
	}
	return &Generator{opts: opts}
}

// Build walks fsys and computes its manifest. Hidden files are skipped;
// the generated documents are listed but excluded from the version hash.
func Build(fsys fs.FS, name string) (*Manifest, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != "." && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || generated(p) {
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("manifest: walk: %w", err)
	}
	sort.Strings(files)

	h := sha256.New()
	for _, f := range files {
		b, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("manifest: %w", err)
		}
		fmt.Fprintf(h, "%s\x00%d\x00", f, len(b))
		h.Write(b)
	}

	files = append(files, path.Join(ServicesDir, FilesName), path.Join(ServicesDir, VersionName))
	sort.Strings(files)
	m := &Manifest{
		Name:    name,
		Version: hex.EncodeToString(h.Sum(nil)[:6]),
		Files:   make([]string, len(files)),
	}
	for i, f := range files {
		m.Files[i] = "/" + f
	}
	return m, nil
}

// Generate builds the manifest of the public directory dir and writes both
// documents into it.
func (g *Generator) Generate(dir string) (*Manifest, error) {
	m, err := Build(os.DirFS(dir), g.opts.Name)
	if err != nil {
		return nil, err
	}

	out := filepath.Join(dir, filepath.FromSlash(ServicesDir))
	docs := []struct {
		name string
		v    any
	}{
		{FilesName, m},
		{VersionName, Version{Name: m.Name, Version: m.Version}},
	}

	for _, doc := range docs {
		target := filepath.Join(out, doc.name)
		fmt.Fprintf(g.opts.Log, "generating %s\n", target)
		if g.opts.DryRun {
			continue
		}
		if err := os.MkdirAll(out, 0o755); err != nil {
			return nil, fmt.Errorf("manifest: %w", err)
		}
		b, err := json.MarshalIndent(doc.v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("manifest: encode %s: %w", doc.name, err)
		}
		if err := os.WriteFile(target, append(b, '\n'), 0o644); err != nil {
			return nil, fmt.Errorf("manifest: %w", err)
		}
	}
	return m, nil
}

// Clean removes generated documents from dir.
func (g *Generator) Clean(dir string) error {
	for _, name := range []string{FilesName, VersionName} {
		target := filepath.Join(dir, filepath.FromSlash(ServicesDir), name)
		if _, err := os.Stat(target); os.IsNotExist(err) {
			continue
		}
		fmt.Fprintf(g.opts.Log, "removing %s\n", target)
		if g.opts.DryRun {
			continue
		}
		if err := os.Remove(target); err != nil {
			return fmt.Errorf("manifest: %w", err)
		}
	}
	return nil
}

func generated(p string) bool {
	return p == path.Join(ServicesDir, FilesName) || p == path.Join(ServicesDir, VersionName)
}
