// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()

	if c.Len() != 30 {
		t.Errorf("default catalog size: got %d, want 30", c.Len())
	}
	if c.Themes()[0] != "vulnerability" {
		t.Errorf("first theme: got %q, want %q", c.Themes()[0], "vulnerability")
	}
	if c.Themes()[29] != "wonder" {
		t.Errorf("last theme: got %q, want %q", c.Themes()[29], "wonder")
	}
}

func TestNew(t *testing.T) {
	t.Run("preserves order", func(t *testing.T) {
		c, err := New([]string{"hope", "fear", "joy"})
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if c.Position("hope") != 0 || c.Position("fear") != 1 || c.Position("joy") != 2 {
			t.Errorf("positions wrong: %v", c.Themes())
		}
		if c.Position("absent") != -1 {
			t.Error("expected -1 for unknown theme")
		}
	})

	t.Run("rejects empty list", func(t *testing.T) {
		if _, err := New(nil); err == nil {
			t.Error("expected error for empty catalog")
		}
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		if _, err := New([]string{"hope", "hope"}); err == nil {
			t.Error("expected error for duplicate theme")
		}
	})

	t.Run("rejects blank names", func(t *testing.T) {
		if _, err := New([]string{"hope", ""}); err == nil {
			t.Error("expected error for blank theme name")
		}
	})
}

func TestThemesReturnsCopy(t *testing.T) {
	c, _ := New([]string{"hope", "fear"})
	themes := c.Themes()
	themes[0] = "mutated"

	if c.Themes()[0] != "hope" {
		t.Error("mutating the returned slice must not affect the catalog")
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		data := "themes:\n  - stillness\n  - momentum\n  - doubt\n"
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}

		c, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile: %v", err)
		}
		if c.Len() != 3 {
			t.Errorf("len: got %d, want 3", c.Len())
		}
		if !c.Contains("momentum") {
			t.Error("expected catalog to contain momentum")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		os.WriteFile(path, []byte("themes: [unclosed"), 0o644)
		if _, err := LoadFile(path); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})

	t.Run("empty theme list", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		os.WriteFile(path, []byte("themes: []\n"), 0o644)
		if _, err := LoadFile(path); err == nil {
			t.Error("expected error for empty theme list")
		}
	})
}
