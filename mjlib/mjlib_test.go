package mjlib_test

import (
	"bytes"
	crand "crypto/rand"
	"errors"
	"io"
	mrand "math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/creachadair/mds/mtest"
	"github.com/creachadair/mojic/mjcipher"
	"github.com/creachadair/mojic/mjlib"
	gocmp "github.com/google/go-cmp/cmp"
)

const testPass = "Minsc & Boo together again"

const testSource = `#include <stdio.h>

int main(void) {
   printf("go for the eyes\n");
   return 0;
}
`

func TestEncodeDecode(t *testing.T) {
	mtest.Swap[io.Reader](t, &crand.Reader, mrand.New(mrand.NewSource(20260802101500)))

	enc, err := mjlib.Encode([]byte(testSource), testPass)
	if err != nil {
		t.Fatalf("Encode: unexpected error: %v", err)
	}

	t.Run("RoundTrip", func(t *testing.T) {
		dec, err := mjlib.Decode(enc, testPass)
		if err != nil {
			t.Fatalf("Decode: unexpected error: %v", err)
		}
		if diff := gocmp.Diff(string(dec), testSource); diff != "" {
			t.Errorf("Decoded source (-got, +want):\n%s", diff)
		}
	})

	t.Run("WrongPass", func(t *testing.T) {
		dec, err := mjlib.Decode(enc, "wrong wrong wrong")
		if !errors.Is(err, mjcipher.ErrWrongPassword) {
			t.Errorf("Decode: got (%q, %v), want %v", dec, err, mjcipher.ErrWrongPassword)
		}
	})

	t.Run("FreshSalt", func(t *testing.T) {
		enc2, err := mjlib.Encode([]byte(testSource), testPass)
		if err != nil {
			t.Fatalf("Encode: unexpected error: %v", err)
		}
		if bytes.Equal(enc, enc2) {
			t.Error("two encodings share a salt")
		}
	})
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.c")
	if err := os.WriteFile(src, []byte(testSource), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	var opts mjlib.FileOptions
	enc, err := opts.EncodeFile(src, testPass)
	if err != nil {
		t.Fatalf("EncodeFile: unexpected error: %v", err)
	}
	if want := filepath.Join(dir, "prog.mojic"); enc != want {
		t.Errorf("EncodeFile path: got %q, want %q", enc, want)
	}

	dec, err := opts.DecodeFile(enc, testPass)
	if err != nil {
		t.Fatalf("DecodeFile: unexpected error: %v", err)
	}
	if want := filepath.Join(dir, "prog.restored.c"); dec != want {
		t.Errorf("DecodeFile path: got %q, want %q", dec, want)
	}

	got, err := os.ReadFile(dec)
	if err != nil {
		t.Fatalf("read restored: %v", err)
	}
	if diff := gocmp.Diff(string(got), testSource); diff != "" {
		t.Errorf("Restored source (-got, +want):\n%s", diff)
	}
}

func TestRotate(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.c")
	if err := os.WriteFile(src, []byte(testSource), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	var opts mjlib.FileOptions
	enc, err := opts.EncodeFile(src, testPass)
	if err != nil {
		t.Fatalf("EncodeFile: unexpected error: %v", err)
	}
	before, err := os.ReadFile(enc)
	if err != nil {
		t.Fatalf("read encoded: %v", err)
	}

	const newPass = "a full quiver of bolts"
	if err := mjlib.Rotate(enc, testPass, newPass); err != nil {
		t.Fatalf("Rotate: unexpected error: %v", err)
	}
	after, err := os.ReadFile(enc)
	if err != nil {
		t.Fatalf("read rotated: %v", err)
	}
	if bytes.Equal(before, after) {
		t.Error("rotation did not change the encoding")
	}

	if _, err := mjlib.Decode(after, testPass); !errors.Is(err, mjcipher.ErrWrongPassword) {
		t.Errorf("old password: got %v, want %v", err, mjcipher.ErrWrongPassword)
	}
	dec, err := mjlib.Decode(after, newPass)
	if err != nil {
		t.Fatalf("Decode with new password: unexpected error: %v", err)
	}
	if diff := gocmp.Diff(string(dec), testSource); diff != "" {
		t.Errorf("Rotated content (-got, +want):\n%s", diff)
	}

	t.Run("WrongOldPassword", func(t *testing.T) {
		if err := mjlib.Rotate(enc, testPass, newPass); !errors.Is(err, mjcipher.ErrWrongPassword) {
			t.Errorf("Rotate: got %v, want %v", err, mjcipher.ErrWrongPassword)
		}
		// The file must be left as it was.
		cur, err := os.ReadFile(enc)
		if err != nil {
			t.Fatalf("read encoded: %v", err)
		}
		if !bytes.Equal(cur, after) {
			t.Error("failed rotation modified the file")
		}
	})
}

func TestReseed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.mojic")
	enc, err := mjlib.Encode([]byte(testSource), testPass)
	if err != nil {
		t.Fatalf("Encode: unexpected error: %v", err)
	}
	if err := os.WriteFile(path, enc, 0644); err != nil {
		t.Fatalf("write encoded: %v", err)
	}

	if err := mjlib.Reseed(path, testPass); err != nil {
		t.Fatalf("Reseed: unexpected error: %v", err)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read reseeded: %v", err)
	}
	if bytes.Equal(enc, after) {
		t.Error("reseed did not change the encoding")
	}
	dec, err := mjlib.Decode(after, testPass)
	if err != nil {
		t.Fatalf("Decode: unexpected error: %v", err)
	}
	if diff := gocmp.Diff(string(dec), testSource); diff != "" {
		t.Errorf("Reseeded content (-got, +want):\n%s", diff)
	}
}

func TestFingerprint(t *testing.T) {
	enc, err := mjlib.Encode([]byte(testSource), testPass)
	if err != nil {
		t.Fatalf("Encode: unexpected error: %v", err)
	}
	fp, err := mjlib.Fingerprint(enc)
	if err != nil {
		t.Fatalf("Fingerprint: unexpected error: %v", err)
	}
	if fp == "" {
		t.Error("Fingerprint is empty")
	}
	t.Logf("Seal fingerprint: %s", fp)

	if _, err := mjlib.Fingerprint([]byte("not an encoded stream")); err == nil {
		t.Error("Fingerprint of junk: got nil, want error")
	}
}

func TestPaths(t *testing.T) {
	tests := []struct {
		fn         func(string) string
		path, want string
	}{
		{mjlib.EncodePath, "prog.c", "prog.mojic"},
		{mjlib.EncodePath, "dir/prog.c", "dir/prog.mojic"},
		{mjlib.EncodePath, "prog.h", "prog.h.mojic"},
		{mjlib.EncodePath, "README", "README.mojic"},
		{mjlib.DecodePath, "prog.mojic", "prog.restored.c"},
		{mjlib.DecodePath, "dir/prog.mojic", "dir/prog.restored.c"},
		{mjlib.DecodePath, "prog.h.mojic", "prog.restored.h"},
		{mjlib.DecodePath, "odd", "odd.restored.c"},
	}
	for _, test := range tests {
		if got := test.fn(test.path); got != test.want {
			t.Errorf("path %q: got %q, want %q", test.path, got, test.want)
		}
	}
}

func TestCheckPassword(t *testing.T) {
	if err := mjlib.CheckPassword("short"); err == nil {
		t.Error("CheckPassword(short): got nil, want error")
	}
	if err := mjlib.CheckPassword("hunter2"); err != nil {
		t.Errorf("CheckPassword: unexpected error: %v", err)
	}
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	mkfile := func(parts ...string) string {
		path := filepath.Join(append([]string{dir}, parts...)...)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("int x;\n"), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		return path
	}
	a := mkfile("a.c")
	h := mkfile("sub", "b.h")
	mkfile("sub", "notes.txt")
	mkfile(".git", "c.c")

	got, err := mjlib.FindFiles(dir, mjlib.DefaultSourceExts)
	if err != nil {
		t.Fatalf("FindFiles: unexpected error: %v", err)
	}
	if diff := gocmp.Diff(got, []string{a, h}); diff != "" {
		t.Errorf("FindFiles (-got, +want):\n%s", diff)
	}

	t.Run("SingleFile", func(t *testing.T) {
		got, err := mjlib.FindFiles(a, nil)
		if err != nil {
			t.Fatalf("FindFiles: unexpected error: %v", err)
		}
		if diff := gocmp.Diff(got, []string{a}); diff != "" {
			t.Errorf("FindFiles (-got, +want):\n%s", diff)
		}
	})
}
