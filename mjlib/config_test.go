package mjlib_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/creachadair/mojic/mjlib"
	gocmp "github.com/google/go-cmp/cmp"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Missing", func(t *testing.T) {
		cfg, err := mjlib.LoadConfig(filepath.Join(t.TempDir(), "nonesuch.yml"))
		if err != nil {
			t.Fatalf("LoadConfig: unexpected error: %v", err)
		}
		if diff := gocmp.Diff(cfg, &mjlib.Config{}); diff != "" {
			t.Errorf("Config (-got, +want):\n%s", diff)
		}
		if diff := gocmp.Diff(cfg.SourceExts(), mjlib.DefaultSourceExts); diff != "" {
			t.Errorf("SourceExts (-got, +want):\n%s", diff)
		}
	})

	t.Run("EmptyPath", func(t *testing.T) {
		if _, err := mjlib.LoadConfig(""); err != nil {
			t.Fatalf("LoadConfig: unexpected error: %v", err)
		}
	})

	t.Run("Values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		const text = "minify: true\noutDir: /tmp/out\nexts: [.c, .h, .cc]\n"
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		cfg, err := mjlib.LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig: unexpected error: %v", err)
		}
		want := &mjlib.Config{Minify: true, OutDir: "/tmp/out", Exts: []string{".c", ".h", ".cc"}}
		if diff := gocmp.Diff(cfg, want); diff != "" {
			t.Errorf("Config (-got, +want):\n%s", diff)
		}
		if diff := gocmp.Diff(cfg.SourceExts(), want.Exts); diff != "" {
			t.Errorf("SourceExts (-got, +want):\n%s", diff)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		if err := os.WriteFile(path, []byte(":\tnot yaml ["), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := mjlib.LoadConfig(path); err == nil {
			t.Error("LoadConfig: got nil, want error")
		}
	})
}
