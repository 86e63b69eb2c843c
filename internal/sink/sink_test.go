package sink

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		errMsg string // empty if valid
	}{
		{name: "single file", path: "Lib.hs"},
		{name: "nested", path: "Foreign/Lib.hs"},
		{name: "dots in name", path: "Lib..hs"},
		{name: "empty", path: "", errMsg: "empty"},
		{name: "absolute", path: "/tmp/Lib.hs", errMsg: "absolute paths not allowed"},
		{name: "windows drive", path: "C:Lib.hs", errMsg: "absolute paths not allowed"},
		{name: "traversal", path: "a/../Lib.hs", errMsg: "path traversal not allowed"},
		{name: "leading traversal", path: "../Lib.hs", errMsg: "path traversal not allowed"},
		{name: "current dir prefix", path: "./Lib.hs", errMsg: "not clean"},
		{name: "double slash", path: "a//Lib.hs", errMsg: "not clean"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("ValidatePath(%q) = %v, want nil", tt.path, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("ValidatePath(%q) = %v, want error containing %q", tt.path, err, tt.errMsg)
			}
		})
	}
}

func TestFilesystemSink_WriteFile(t *testing.T) {
	root := t.TempDir()
	s := NewFilesystemSink(root)
	ctx := context.Background()

	if err := s.WriteFile(ctx, "Foreign/Lib.hs", []byte("module Foreign.Lib where\n")); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(root, "Foreign", "Lib.hs"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "module Foreign.Lib where\n" {
		t.Errorf("content = %q", got)
	}

	// Overwrite replaces the file.
	if err := s.WriteFile(ctx, "Foreign/Lib.hs", []byte("v2")); err != nil {
		t.Fatalf("WriteFile() overwrite error: %v", err)
	}
	if got, _ := os.ReadFile(filepath.Join(root, "Foreign", "Lib.hs")); string(got) != "v2" {
		t.Errorf("content after overwrite = %q", got)
	}

	// No temp files are left behind.
	entries, err := os.ReadDir(filepath.Join(root, "Foreign"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}

func TestFilesystemSink_NoOverwrite(t *testing.T) {
	root := t.TempDir()
	s := &FilesystemSink{Root: root}
	ctx := context.Background()

	if err := s.WriteFile(ctx, "Lib.hs", []byte("a")); err != nil {
		t.Fatal(err)
	}
	err := s.WriteFile(ctx, "Lib.hs", []byte("b"))
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("WriteFile() = %v, want already exists", err)
	}
	if got, _ := os.ReadFile(filepath.Join(root, "Lib.hs")); string(got) != "a" {
		t.Errorf("content = %q, want original", got)
	}
}

func TestFilesystemSink_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewFilesystemSink(t.TempDir())
	if err := s.WriteFile(ctx, "Lib.hs", nil); err != context.Canceled {
		t.Errorf("WriteFile() = %v, want context.Canceled", err)
	}
}

func TestMemorySink(t *testing.T) {
	s := NewMemorySink()
	ctx := context.Background()

	content := []byte("module Lib where\n")
	if err := s.WriteFile(ctx, "Lib.hs", content); err != nil {
		t.Fatal(err)
	}
	content[0] = 'X'
	if got := string(s.Get("Lib.hs")); got != "module Lib where\n" {
		t.Errorf("Get() = %q, stored content was not copied", got)
	}
	if s.Get("Missing.hs") != nil {
		t.Error("Get(missing) != nil")
	}
	if err := s.WriteFile(ctx, "../Lib.hs", nil); err == nil {
		t.Error("WriteFile(../Lib.hs) succeeded")
	}

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.WriteFile(ctx, filepath.ToSlash(filepath.Join("gen", string(rune('a'+i))+".hs")), []byte{byte(i)})
		}()
	}
	wg.Wait()
	if got := len(s.Paths()); got != 9 {
		t.Errorf("len(Paths()) = %d, want 9", got)
	}
}
