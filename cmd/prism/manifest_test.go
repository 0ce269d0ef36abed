package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFindPrismTomlWalksParents(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	manifestPath := filepath.Join(root, "prism.toml")
	content := "[output]\ncolor = \"off\"\nformat = \"tree\"\n"
	if err := os.WriteFile(manifestPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	found, ok := findPrismToml(nested)
	if !ok {
		t.Fatalf("expected to find the manifest from a nested directory")
	}
	if found != manifestPath {
		t.Fatalf("found %q, want %q", found, manifestPath)
	}

	m, ok := loadManifest(nested)
	if !ok {
		t.Fatalf("expected the manifest to load")
	}
	if m.Output.Color != "off" || m.Output.Format != "tree" {
		t.Fatalf("unexpected manifest contents: %+v", m)
	}
}

func TestFindPrismTomlMissing(t *testing.T) {
	if _, ok := findPrismToml(t.TempDir()); ok {
		t.Fatalf("no manifest should be found in an empty tree")
	}
}

func TestResolveFormatPrefersExplicitFlag(t *testing.T) {
	if got := resolveFormat("json", true, "pretty"); got != "json" {
		t.Fatalf("explicit flag should win, got %q", got)
	}
	// No manifest in the test working directory: fall back.
	if got := resolveFormat("", false, "pretty"); got != "pretty" {
		t.Fatalf("fallback should apply without a manifest, got %q", got)
	}
}

func TestCanonicalizePreservesLayout(t *testing.T) {
	src := "# provenance for module m\nfused[ \"a\" , \"b\" ]\n\ncallsite( \"f\" at \"m.pr\":1:2 )\n"
	want := "# provenance for module m\nfused[\"a\",\"b\"]\n\ncallsite(\"f\" at \"m.pr\":1:2)\n"
	got, err := canonicalize("test", src)
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}
	if got != want {
		t.Fatalf("canonicalize produced %q, want %q", got, want)
	}
}

func TestCanonicalizeReportsLine(t *testing.T) {
	_, err := canonicalize("test", "?\nbogus\n")
	if err == nil {
		t.Fatalf("expected an error for a malformed line")
	}
	if want := "test:2:"; !strings.Contains(err.Error(), want) {
		t.Fatalf("error %q should carry %q", err, want)
	}
}
