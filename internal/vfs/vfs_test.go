package vfs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestOSFS_Create(t *testing.T) {
	fs := Default()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.txt")

	f, err := fs.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	n, err := f.Write([]byte("hello"))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != 5 {
		t.Errorf("Write returned %d, want 5", n)
	}

	if err := f.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	if size, err := f.Size(); err != nil || size != 5 {
		t.Errorf("Size() = (%d, %v), want (5, nil)", size, err)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("Content = %q, want 'hello'", data)
	}
}

func TestOSFS_OpenReadWrite(t *testing.T) {
	fs := Default()
	path := filepath.Join(t.TempDir(), "rw.bin")
	if err := os.WriteFile(path, []byte("hello world"), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := fs.OpenReadWrite(path)
	if err != nil {
		t.Fatalf("OpenReadWrite failed: %v", err)
	}
	if _, err := f.Seek(6, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte("WORLD")); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "hello WORLD" {
		t.Errorf("Content = %q, want 'hello WORLD'", data)
	}

	if _, err := fs.OpenReadWrite(filepath.Join(t.TempDir(), "missing")); !os.IsNotExist(err) {
		t.Errorf("OpenReadWrite(missing) err = %v, want not-exist", err)
	}
}

func TestOSFS_OpenIsReadOnly(t *testing.T) {
	fs := Default()
	path := filepath.Join(t.TempDir(), "ro.bin")
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := fs.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := f.Write([]byte("x")); err == nil {
		t.Error("Write on read-only file succeeded")
	}
	buf, err := io.ReadAll(f)
	if err != nil || string(buf) != "data" {
		t.Errorf("ReadAll = (%q, %v)", buf, err)
	}
}

func TestCopyFile(t *testing.T) {
	fs := Default()
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	if err := os.WriteFile(src, []byte("payload"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("a much longer previous content"), 0644); err != nil {
		t.Fatal(err)
	}

	n, err := CopyFile(fs, src, dst)
	if err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}
	if n != 7 {
		t.Errorf("copied %d bytes, want 7", n)
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "payload" {
		t.Errorf("dst = %q, want 'payload'", data)
	}

	if _, err := CopyFile(fs, filepath.Join(dir, "missing"), dst); !os.IsNotExist(err) {
		t.Errorf("CopyFile(missing) err = %v", err)
	}
}

func TestSameFile(t *testing.T) {
	fs := Default()
	dir := t.TempDir()
	a := filepath.Join(dir, "a.bin")
	b := filepath.Join(dir, "b.bin")
	missing := filepath.Join(dir, "missing.bin")

	for _, p := range []string{a, b} {
		if err := os.WriteFile(p, []byte(p), 0644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name    string
		x, y    string
		want    bool
		wantErr error
	}{
		{"identical_strings", a, a, true, nil},
		{"different_files", a, b, false, nil},
		{"dot_path", a, filepath.Join(dir, ".", "a.bin"), true, nil},
		{"one_missing", a, missing, false, nil},
		{"both_missing", missing, missing + "2", false, ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SameFile(fs, tt.x, tt.y)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SameFile = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("hard_link", func(t *testing.T) {
		link := filepath.Join(dir, "link.bin")
		if err := os.Link(a, link); err != nil {
			t.Skipf("hard links unsupported: %v", err)
		}
		got, err := SameFile(fs, a, link)
		if err != nil || !got {
			t.Errorf("SameFile(a, link) = (%v, %v), want (true, nil)", got, err)
		}
	})
}

func TestLock(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("advisory locks are not exclusive on windows")
	}
	fs := Default()
	path := filepath.Join(t.TempDir(), "locked.bin")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	l, err := fs.Lock(path)
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	if _, err := fs.Lock(path); !errors.Is(err, ErrLocked) {
		t.Errorf("second Lock err = %v, want ErrLocked", err)
	}

	if err := l.Close(); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}

	l2, err := fs.Lock(path)
	if err != nil {
		t.Fatalf("Lock after release failed: %v", err)
	}
	_ = l2.Close()

	if _, err := fs.Lock(filepath.Join(t.TempDir(), "missing")); !os.IsNotExist(err) {
		t.Errorf("Lock(missing) err = %v", err)
	}
}
