package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenFile_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	f, err := OpenFile(dir, "settings")
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	got, err := f.String(context.Background(), "theme_contentValue", "Dracula")
	if err != nil {
		t.Fatalf("String returned error: %v", err)
	}
	if got != "Dracula" {
		t.Fatalf("String = %q, want %q", got, "Dracula")
	}
	if _, err := os.Stat(f.Path()); !os.IsNotExist(err) {
		t.Fatalf("store file should not exist before first write, stat err = %v", err)
	}
}

func TestFile_ApplyCreatesFileAndDirs(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "subdir")

	f, err := OpenFile(dir, "settings")
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	err = f.Edit().
		PutBool("wifi_switchValue", true).
		PutString("theme_contentValue", "Slate").
		Apply(ctx)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	reopened, err := OpenFile(dir, "settings")
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	on, _ := reopened.Bool(ctx, "wifi_switchValue", false)
	if !on {
		t.Fatalf("Bool = false, want true after reopen")
	}
	theme, _ := reopened.String(ctx, "theme_contentValue", "")
	if theme != "Slate" {
		t.Fatalf("String = %q, want %q", theme, "Slate")
	}
}

func TestFile_ReadsExistingDocument(t *testing.T) {
	dir := t.TempDir()
	doc := "theme_contentValueRaw = \"slate\"\nwifi_switchValue = false\n"
	if err := os.WriteFile(filepath.Join(dir, "settings.toml"), []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := OpenFile(dir, "settings")
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	raw, _ := f.String(context.Background(), "theme_contentValueRaw", "")
	if raw != "slate" {
		t.Fatalf("String = %q, want %q", raw, "slate")
	}
	on, _ := f.Bool(context.Background(), "wifi_switchValue", true)
	if on {
		t.Fatalf("Bool = true, want stored false")
	}
}

func TestFile_InvalidTOMLFallsBackToEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "settings.toml"), []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := OpenFile(dir, "settings")
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	got, _ := f.String(context.Background(), "anything", "fallback")
	if got != "fallback" {
		t.Fatalf("String = %q, want %q", got, "fallback")
	}
}

func TestFile_MistypedValueUsesFallback(t *testing.T) {
	ctx := context.Background()
	f, err := OpenFile(t.TempDir(), "settings")
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	if err := f.Edit().PutString("flag", "yes").Apply(ctx); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	on, _ := f.Bool(ctx, "flag", true)
	if !on {
		t.Fatalf("Bool = false, want fallback true for a string value")
	}
}

func TestOpenFile_DefaultDirUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	f, err := OpenFile("", "settings")
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	if !strings.HasPrefix(f.Path(), home) {
		t.Fatalf("Path = %q, want it under HOME %q", f.Path(), home)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestOpen_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Backend: BackendMemory}, "settings")
	if err != nil {
		t.Fatalf("Open memory: %v", err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Fatalf("Open memory returned %T", s)
	}

	s, err = Open(ctx, Options{Dir: t.TempDir()}, "settings")
	if err != nil {
		t.Fatalf("Open file: %v", err)
	}
	if _, ok := s.(*File); !ok {
		t.Fatalf("Open default returned %T, want *File", s)
	}

	if _, err := Open(ctx, Options{Backend: "etcd"}, "settings"); err == nil {
		t.Fatalf("Open unknown backend returned nil error")
	}
	if _, err := Open(ctx, Options{Backend: BackendMemory}, " "); err == nil {
		t.Fatalf("Open empty namespace returned nil error")
	}
}
