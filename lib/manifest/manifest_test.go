package manifest

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func site() fstest.MapFS {
	return fstest.MapFS{
		"index.html":               {Data: []byte("<html></html>")},
		"action/index.html":        {Data: []byte("<movies-api></movies-api>")},
		"assets/css/app.css":       {Data: []byte("body{}")},
		".git/HEAD":                {Data: []byte("ref")},
		".DS_Store":                {Data: []byte("junk")},
		"assets/js/services/sw.js": {Data: []byte("self")},
	}
}

func TestBuildListsFiles(t *testing.T) {
	m, err := Build(site(), "pure-pwa")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []string{
		"/action/index.html",
		"/assets/css/app.css",
		"/assets/js/services/app-files.json",
		"/assets/js/services/app-version.json",
		"/assets/js/services/sw.js",
		"/index.html",
	}
	if strings.Join(m.Files, ",") != strings.Join(want, ",") {
		t.Errorf("Files = %v, want %v", m.Files, want)
	}
	if m.Name != "pure-pwa" {
		t.Errorf("Name = %q, want pure-pwa", m.Name)
	}
	if len(m.Version) != 12 {
		t.Errorf("Version = %q, want 12 hex chars", m.Version)
	}
	if m.CacheName() != "app_pure-pwav"+m.Version {
		t.Errorf("CacheName = %q", m.CacheName())
	}
}

func TestVersionTracksContent(t *testing.T) {
	a, _ := Build(site(), "app")
	b, _ := Build(site(), "app")
	if a.Version != b.Version {
		t.Errorf("version not stable: %s != %s", a.Version, b.Version)
	}

	changed := site()
	changed["assets/css/app.css"] = &fstest.MapFile{Data: []byte("body{color:red}")}
	c, _ := Build(changed, "app")
	if c.Version == a.Version {
		t.Error("version did not change with content")
	}

	withOutput := site()
	withOutput["assets/js/services/app-version.json"] = &fstest.MapFile{Data: []byte(`{"version":"old"}`)}
	d, _ := Build(withOutput, "app")
	if d.Version != a.Version {
		t.Error("generated documents must not affect the version")
	}
}

func TestGenerateAndClean(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	var log bytes.Buffer
	g := New(Options{Name: "app", Log: &log})
	m, err := g.Generate(dir)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "assets", "js", "services", FilesName))
	if err != nil {
		t.Fatalf("read %s: %v", FilesName, err)
	}
	var got Manifest
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Version != m.Version || len(got.Files) != 3 {
		t.Errorf("written manifest = %+v, want %+v", got, m)
	}

	raw, err = os.ReadFile(filepath.Join(dir, "assets", "js", "services", VersionName))
	if err != nil {
		t.Fatalf("read %s: %v", VersionName, err)
	}
	var v Version
	if err := json.Unmarshal(raw, &v); err != nil || v.Version != m.Version {
		t.Errorf("version document = %+v (%v), want %s", v, err, m.Version)
	}

	again, err := g.Generate(dir)
	if err != nil {
		t.Fatalf("second Generate failed: %v", err)
	}
	if again.Version != m.Version {
		t.Errorf("regenerating changed the version: %s != %s", again.Version, m.Version)
	}

	if err := g.Clean(dir); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "assets", "js", "services", FilesName)); !os.IsNotExist(err) {
		t.Errorf("%s still present after Clean", FilesName)
	}
	if !strings.Contains(log.String(), "removing") {
		t.Errorf("log = %q, want removal lines", log.String())
	}
	if err := g.Clean(dir); err != nil {
		t.Errorf("Clean on clean dir failed: %v", err)
	}
}

func TestDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	g := New(Options{Name: "app", DryRun: true})
	if _, err := g.Generate(dir); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "assets")); !os.IsNotExist(err) {
		t.Error("dry run created output")
	}
}
