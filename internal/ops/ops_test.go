package ops

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf16"

	"idmark/internal/config"
	"idmark/internal/errors"
	"idmark/internal/extract"
)

// writeFiles creates the given name -> content files under dir.
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

// utf16LEWithBOM encodes s as UTF-16LE prefixed with its BOM.
func utf16LEWithBOM(s string) []byte {
	out := []byte{0xff, 0xfe}
	for _, u := range utf16.Encode([]rune(s)) {
		out = append(out, byte(u), byte(u>>8))
	}
	return out
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Workers = 4
	return cfg
}

func TestResolveSourcePaths_SortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"b.go":           "package b\n",
		"a.go":           "package a\n",
		"a.go.annotated": "package a\n",
		"sub/c.py":       "x = 1\n",
	})

	files, warnings := ResolveSourcePaths([]string{dir}, true)
	if len(warnings) != 0 {
		t.Fatalf("warnings = %+v, want none", warnings)
	}
	want := []string{
		filepath.Join(dir, "a.go"),
		filepath.Join(dir, "b.go"),
		filepath.Join(dir, "sub", "c.py"),
	}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}

func TestResolvePaths_NonRecursiveSkipsSubdirs(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.go":     "package a\n",
		"sub/b.go": "package b\n",
	})

	files, _ := ResolvePaths([]string{dir}, false)
	if len(files) != 1 || filepath.Base(files[0]) != "a.go" {
		t.Errorf("files = %v, want just a.go", files)
	}
}

func TestResolvePaths_MissingPathWarns(t *testing.T) {
	files, warnings := ResolvePaths([]string{"/no/such/path"}, false)
	if len(files) != 0 {
		t.Errorf("files = %v, want none", files)
	}
	if len(warnings) != 1 || warnings[0].Code != errors.ErrIO {
		t.Errorf("warnings = %+v, want one IO_ERROR", warnings)
	}
}

func TestExtractBatch_GlobalIDOrder(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.go": "package alpha\n",
		"b.go": "package beta\n",
		"c.go": "package gamma\n",
	})
	files, _ := ResolveSourcePaths([]string{dir}, false)

	results := ExtractBatch(context.Background(), extract.NewTreeSitter(), files, 4)

	var ids []int
	var texts []string
	for _, r := range results {
		if r.Skipped {
			t.Fatalf("%s skipped: %+v", r.Path, r.Warnings)
		}
		for _, rec := range r.Records {
			ids = append(ids, rec.ID)
			texts = append(texts, rec.Text)
		}
	}
	if len(ids) != 3 {
		t.Fatalf("got %d records, want 3: %v", len(ids), texts)
	}
	for i, id := range ids {
		if id != i {
			t.Errorf("ids = %v, want 0..n dense in path order", ids)
			break
		}
	}
	if texts[0] != "alpha" || texts[1] != "beta" || texts[2] != "gamma" {
		t.Errorf("texts = %v, want path-ordered packages", texts)
	}
}

func TestExtractBatch_SkippedFileLeavesNoGap(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.go":      "package alpha\n",
		"b.unknown": "???\n",
		"c.go":      "package gamma\n",
	})
	files, _ := ResolveSourcePaths([]string{dir}, false)

	results := ExtractBatch(context.Background(), extract.NewTreeSitter(), files, 2)

	var ids []int
	skipped := 0
	for _, r := range results {
		if r.Skipped {
			skipped++
			continue
		}
		for _, rec := range r.Records {
			ids = append(ids, rec.ID)
		}
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if len(ids) != 2 || ids[0] != 0 || ids[1] != 1 {
		t.Errorf("ids = %v, want [0 1]", ids)
	}
}

func TestProcessFile_UnsupportedEncoding(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "legacy.go")
	// Not valid UTF-8 and no BOM.
	if err := os.WriteFile(path, []byte{0x93, 0xfa, 0x96, 0x7b}, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	result := ProcessFile(context.Background(), extract.NewTreeSitter(), path)
	if !result.Skipped {
		t.Fatal("result not skipped")
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Code != errors.ErrUnsupportedEncoding {
		t.Errorf("warnings = %+v, want UNSUPPORTED_ENCODING", result.Warnings)
	}
}

func TestProcessFile_ParseErrorIsPartial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.go")
	writeFiles(t, dir, map[string]string{"broken.go": "package main\n\nfunc oops( {\n"})

	result := ProcessFile(context.Background(), extract.NewTreeSitter(), path)
	if result.Skipped {
		t.Fatal("parse errors must not skip the file")
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Code != errors.ErrParseError {
		t.Errorf("warnings = %+v, want PARSE_ERROR", result.Warnings)
	}
	if len(result.Records) == 0 {
		t.Error("no records; want best-effort partial extraction")
	}
}
