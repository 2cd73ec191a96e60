package httputil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	type license struct {
		License     string `json:"license"`
		LicenseFile string `json:"license_file"`
	}

	in := license{License: "MIT OR Apache-2.0"}
	n, err := c.Set("serde@1.0.200", in)
	if err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if n == 0 {
		t.Error("Set() reported zero bytes written")
	}

	var out license
	ok, err := c.Get("serde@1.0.200", &out)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want true, nil", ok, err)
	}
	if out != in {
		t.Errorf("Get() = %+v, want %+v", out, in)
	}
}

func TestCache_Miss(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	var result string
	ok, err := c.Get("missing", &result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Get() returned true for missing key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Minute)

	if _, err := c.Set("key", "value"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	var res string
	ok, err := c.Get("key", &res)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want true, nil", ok, err)
	}

	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(c.keyPath("key"), old, old); err != nil {
		t.Fatal(err)
	}

	ok, err = c.Get("key", &res)
	if !errors.Is(err, ErrExpired) {
		t.Errorf("got error %v, want ErrExpired", err)
	}
	if ok {
		t.Error("Get() returned true for expired key")
	}
}

func TestCache_CorruptEntry(t *testing.T) {
	c, _ := NewCache(t.TempDir(), 0)
	if err := os.WriteFile(c.keyPath("bad"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	var v map[string]string
	if ok, err := c.Get("bad", &v); ok || err == nil {
		t.Errorf("Get(corrupt) = %v, %v; want false, error", ok, err)
	}
}

func TestCache_KeyStability(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	if c.keyPath("test") != c.keyPath("test") {
		t.Error("path should be deterministic")
	}
	if c.keyPath("test") == c.keyPath("other") {
		t.Error("different keys should produce different paths")
	}
}

func TestNewCache_DefaultDir(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	t.Setenv("HOME", base)

	c, err := NewCache("", time.Hour)
	if err != nil {
		t.Fatalf("NewCache() failed: %v", err)
	}
	want, err := DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	if c.Dir() != want || filepath.Base(want) != AppName {
		t.Errorf("got Dir = %s, want %s", c.Dir(), want)
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}

func TestCache_Namespace(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)

	crates := c.Namespace("crates:")
	other := c.Namespace("other:")
	if _, err := crates.Set("serde", "crates-data"); err != nil {
		t.Fatal(err)
	}
	if _, err := other.Set("serde", "other-data"); err != nil {
		t.Fatal(err)
	}

	var got string
	if ok, _ := crates.Get("serde", &got); !ok || got != "crates-data" {
		t.Errorf("crates.Get() = %v, %q", ok, got)
	}
	if ok, _ := other.Get("serde", &got); !ok || got != "other-data" {
		t.Errorf("other.Get() = %v, %q", ok, got)
	}
	if ok, _ := c.Get("serde", &got); ok {
		t.Error("value accessible without namespace")
	}

	nested := crates.Namespace("v1:")
	if _, err := nested.Set("k", "v"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := c.Namespace("crates:v1:").Get("k", &got); !ok || got != "v" {
		t.Error("chained namespaces should concatenate prefixes")
	}
}

func TestCache_Clear(t *testing.T) {
	c, _ := NewCache(t.TempDir(), time.Hour)
	for _, k := range []string{"a", "b", "c"} {
		if _, err := c.Namespace("x:").Set(k, k); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Fatalf("Clear() = %d, %v; want 3, nil", n, err)
	}
	var v string
	if ok, _ := c.Namespace("x:").Get("a", &v); ok {
		t.Error("entry survived Clear()")
	}

	gone := &Cache{dir: filepath.Join(t.TempDir(), "missing")}
	if n, err := gone.Clear(); n != 0 || err != nil {
		t.Errorf("Clear(missing dir) = %d, %v; want 0, nil", n, err)
	}
}
