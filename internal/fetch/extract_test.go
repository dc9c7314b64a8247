package fetch

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHasGzipMagic(t *testing.T) {
	dir := t.TempDir()

	gzPath := filepath.Join(dir, "real.gz")
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	gw.Write([]byte("payload"))
	gw.Close()
	if err := os.WriteFile(gzPath, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	plainPath := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(plainPath, []byte("<html>error</html>"), 0644); err != nil {
		t.Fatal(err)
	}

	shortPath := filepath.Join(dir, "short")
	if err := os.WriteFile(shortPath, []byte{0x1f}, 0644); err != nil {
		t.Fatal(err)
	}

	if !hasGzipMagic(gzPath) {
		t.Error("hasGzipMagic = false for a real gzip file")
	}
	if hasGzipMagic(plainPath) {
		t.Error("hasGzipMagic = true for HTML")
	}
	if hasGzipMagic(shortPath) {
		t.Error("hasGzipMagic = true for a one-byte file")
	}
	if hasGzipMagic(filepath.Join(dir, "missing")) {
		t.Error("hasGzipMagic = true for a missing file")
	}
}

func TestExtractTarGzRejectsPathTraversal(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	content := []byte("evil")
	tw.WriteHeader(&tar.Header{
		Name: "../../escape.txt",
		Mode: 0644,
		Size: int64(len(content)),
	})
	tw.Write(content)
	tw.Close()
	gw.Close()

	dir := t.TempDir()
	archivePath := filepath.Join(dir, "evil.tar.gz")
	if err := os.WriteFile(archivePath, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	err := extractTarGz(archivePath, filepath.Join(dir, "out"))
	if err == nil {
		t.Fatal("extractTarGz accepted a path-traversal entry")
	}
	if !strings.Contains(err.Error(), "illegal file path") {
		t.Errorf("error = %v, want illegal file path", err)
	}
}

func TestExtractTarGzPreservesTree(t *testing.T) {
	archive := buildTarGz(t, map[string]string{
		"pack/bin/tool":  "binary",
		"pack/README.md": "readme",
	})

	dir := t.TempDir()
	archivePath := filepath.Join(dir, "pack.tar.gz")
	if err := os.WriteFile(archivePath, archive, 0644); err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(dir, "out")
	if err := extractTarGz(archivePath, outDir); err != nil {
		t.Fatalf("extractTarGz() error: %v", err)
	}

	for rel, want := range map[string]string{
		"pack/bin/tool":  "binary",
		"pack/README.md": "readme",
	} {
		got, err := os.ReadFile(filepath.Join(outDir, rel))
		if err != nil {
			t.Errorf("read %s: %v", rel, err)
			continue
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", rel, got, want)
		}
	}
}
