// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTablesSane(t *testing.T) {
	tables := DefaultTables()
	for host, v := range tables.Authority {
		if v <= 0 || v > 1 {
			t.Errorf("authority for %s = %v, outside (0,1]", host, v)
		}
	}
	if tables.DefaultAuthority != 0.70 {
		t.Errorf("default authority = %v, want 0.70", tables.DefaultAuthority)
	}
	if len(tables.Keywords) == 0 || len(tables.Bonuses) == 0 {
		t.Error("default tables missing keywords or bonuses")
	}
	for kw, syns := range tables.Synonyms {
		if len(syns) == 0 {
			t.Errorf("keyword %s has no synonyms", kw)
		}
	}
}

func TestLoadTablesMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.yaml")
	data := `authority:
  example.gov: 0.99
default_authority: 0.55
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	tables, err := LoadTables(path)
	if err != nil {
		t.Fatalf("LoadTables: %v", err)
	}

	if tables.Authority["example.gov"] != 0.99 {
		t.Errorf("override authority = %v", tables.Authority["example.gov"])
	}
	if _, ok := tables.Authority["rbi.org.in"]; ok {
		t.Error("authority map should be replaced, not merged entry-wise")
	}
	if tables.DefaultAuthority != 0.55 {
		t.Errorf("default authority = %v, want 0.55", tables.DefaultAuthority)
	}

	// Fields absent from the file keep the defaults.
	if len(tables.Keywords) == 0 {
		t.Error("keywords not defaulted")
	}
	if len(tables.Synonyms) == 0 {
		t.Error("synonyms not defaulted")
	}
}

func TestLoadTablesMissingFile(t *testing.T) {
	if _, err := LoadTables(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing tables file")
	}
}
