package mjlib

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultSourceExts are the filename extensions collected by default when
// encoding a directory.
var DefaultSourceExts = []string{".c", ".h"}

// FindFiles walks the tree rooted at root and returns the files whose
// extension is one of exts, in lexical order. Hidden directories are
// skipped. If root names a regular file it is returned as-is, without an
// extension check.
func FindFiles(root string, exts []string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); strings.HasPrefix(name, ".") && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if path == root || slices.Contains(exts, filepath.Ext(path)) {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}
