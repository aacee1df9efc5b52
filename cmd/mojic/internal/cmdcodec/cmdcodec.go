// Package cmdcodec implements the "encode", "decode", and "watch"
// subcommands of the mojic tool.
package cmdcodec

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/creachadair/command"
	"github.com/creachadair/flax"
	"github.com/creachadair/mojic/cmd/mojic/config"
	"github.com/creachadair/mojic/mjlib"
)

var Commands = []*command.C{
	{
		Name:  "encode",
		Usage: "<path>...",
		Help: `Encode C source files.

Each argument names a source file, or with -r a directory whose
sources are encoded recursively. Every output file gets its own
random salt, so encoding the same input twice never produces the
same bytes. The seal fingerprint printed for each file depends
only on the password and salt; matching fingerprints mean two
files will accept the same password.`,
		SetFlags: command.Flags(flax.MustBind, &codecFlags),
		Run:      command.Adapt(runEncode),
	},
	{
		Name:  "decode",
		Usage: "<path>...",
		Help: `Restore encoded files.

Each argument names a .mojic file, or with -r a directory whose
encoded files are restored recursively. The password is checked
against the file header before any decoding work, and the
integrity seal is verified before the output is kept.`,
		SetFlags: command.Flags(flax.MustBind, &codecFlags),
		Run:      command.Adapt(runDecode),
	},
	{
		Name:  "watch",
		Usage: "<dir>",
		Help: `Encode source files in a directory as they change.

The watch runs until interrupted. Each save of a matching source
file re-encodes it, replacing its previous encoded copy; the source
file itself is not modified.`,
		SetFlags: command.Flags(flax.MustBind, &codecFlags),
		Run:      command.Adapt(runWatch),
	},
}

var codecFlags struct {
	Recur  bool   `flag:"r,Recur into directories"`
	Minify bool   `flag:"minify,Flatten whitespace before encoding"`
	OutDir string `flag:"out,Write output files to this directory"`
}

// runEncode implements the "encode" subcommand.
func runEncode(env *command.Env, paths ...string) error {
	if len(paths) == 0 {
		return env.Usagef("missing input path")
	}
	set := config.FromEnv(env)
	files, err := expand(paths, set.File.SourceExts())
	if err != nil {
		return err
	}
	pw, err := config.NewPassphrase(env, "Passphrase: ")
	if err != nil {
		return err
	}
	opts := encodeOptions(set)
	for _, f := range files {
		out, err := opts.EncodeFile(f, pw)
		if err != nil {
			return fmt.Errorf("encode %q: %w", f, err)
		}
		fmt.Fprintf(env, "%s\t%s\n", out, sealFingerprint(out))
	}
	return nil
}

// runDecode implements the "decode" subcommand.
func runDecode(env *command.Env, paths ...string) error {
	if len(paths) == 0 {
		return env.Usagef("missing input path")
	}
	set := config.FromEnv(env)
	files, err := expand(paths, []string{mjlib.EncodedExt})
	if err != nil {
		return err
	}
	pw, err := config.Passphrase(env, "Passphrase: ")
	if err != nil {
		return err
	}
	opts := encodeOptions(set)
	for _, f := range files {
		out, err := opts.DecodeFile(f, pw)
		if err != nil {
			return fmt.Errorf("decode %q: %w", f, err)
		}
		fmt.Fprintln(env, out)
	}
	return nil
}

// runWatch implements the "watch" subcommand.
func runWatch(env *command.Env, dir string) error {
	set := config.FromEnv(env)
	pw, err := config.NewPassphrase(env, "Passphrase: ")
	if err != nil {
		return err
	}
	w, err := mjlib.NewWatcher(dir, set.File.SourceExts())
	if err != nil {
		return fmt.Errorf("watch %q: %w", dir, err)
	}
	defer w.Close()

	ctx, cancel := signal.NotifyContext(env.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := encodeOptions(set)
	slog.Info("watching for changes", "dir", dir)
	err = w.Run(ctx, func(path string) error {
		out, err := opts.EncodeFile(path, pw)
		if err != nil {
			// Editors produce partial writes; log and keep watching.
			slog.Warn("encode failed", "path", path, "err", err)
			return nil
		}
		slog.Info("encoded", "in", path, "out", out)
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil // interrupted
	}
	return err
}

func encodeOptions(set *config.Settings) mjlib.FileOptions {
	return mjlib.FileOptions{
		Minify: codecFlags.Minify || set.File.Minify,
		OutDir: cmp.Or(codecFlags.OutDir, set.File.OutDir),
	}
}

// expand resolves command-line arguments to input files: directories recur
// (with -r) filtered by exts, plain files are taken as given.
func expand(paths []string, exts []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			out = append(out, p)
			continue
		}
		if !codecFlags.Recur {
			return nil, fmt.Errorf("%q is a directory (use -r to recur)", p)
		}
		found, err := mjlib.FindFiles(p, exts)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}

// sealFingerprint returns the wordhash fingerprint of an encoded file's
// header, or a placeholder if the file cannot be read back.
func sealFingerprint(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return "-"
	}
	fp, err := mjlib.Fingerprint(data)
	if err != nil {
		return "-"
	}
	return fp
}
