package yamlx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clashkit/clashkit/internal/coreconf"
	"github.com/clashkit/clashkit/internal/dirs"
)

func TestReadMapping_Missing(t *testing.T) {
	if _, err := ReadMapping(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestReadMapping_Empty(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	m, err := ReadMapping(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("empty file produced %d keys", m.Len())
	}
}

func TestReadMapping_NonMapping(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte("- a\n- b\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadMapping(p); err == nil {
		t.Fatalf("expected error for sequence document")
	}
}

func TestWriteMapping_HeaderAndDirs(t *testing.T) {
	p := filepath.Join(t.TempDir(), "deep", "nested", "config.yaml")
	m := coreconf.NewMapping()
	_ = m.Set("mixed-port", 7890)

	if err := WriteMapping(p, m, "# Generated by clashkit"); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	lines := strings.Split(string(b), "\n")
	if lines[0] != "# Generated by clashkit" {
		t.Fatalf("first line=%q", lines[0])
	}
	if !strings.Contains(string(b), "mixed-port: 7890") {
		t.Fatalf("body missing content:\n%s", b)
	}
}

func TestRoundTrip_GuardedDocumentStaysGuarded(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	doc := coreconf.NewMapping()
	_ = doc.Set("mixed-port", "not-a-port")
	_ = doc.Set("external-controller", ":99999")
	_ = doc.Set("rules", []string{"MATCH,DIRECT"})
	coreconf.Guard(doc)

	if err := WriteMapping(p, doc, "# Generated by clashkit"); err != nil {
		t.Fatalf("write: %v", err)
	}
	loaded, err := ReadMapping(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := coreconf.GuardMixedPort(loaded); got != 7890 {
		t.Fatalf("mixed-port=%d after round trip", got)
	}

	before, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	coreconf.Guard(loaded)
	if err := WriteMapping(p, loaded, "# Generated by clashkit"); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	after, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("guard is not a no-op after round trip:\n%s\nvs\n%s", before, after)
	}
}

func TestFileStore_UsesAppHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv(dirs.EnvHome, home)

	st := FileStore{}
	path, err := st.ConfigPath()
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if filepath.Dir(path) != home {
		t.Fatalf("path=%q not under %q", path, home)
	}

	m := coreconf.NewMapping()
	_ = m.Set("mode", "rule")
	if err := st.WriteMapping(path, m, "# test"); err != nil {
		t.Fatalf("write: %v", err)
	}
	loaded, err := st.ReadMapping(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if s, _ := loaded.GetString("mode"); s != "rule" {
		t.Fatalf("mode=%q", s)
	}
}
