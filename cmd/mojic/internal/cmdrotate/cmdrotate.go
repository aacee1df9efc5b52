// Package cmdrotate implements the "rotate" and "reseed" subcommands of
// the mojic tool.
package cmdrotate

import (
	"fmt"

	"github.com/creachadair/command"
	"github.com/creachadair/mojic/cmd/mojic/config"
	"github.com/creachadair/mojic/mjlib"
)

var Rotate = &command.C{
	Name:  "rotate",
	Usage: "<path>...",
	Help: `Change the password of encoded files in place.

Each file is decoded with the old password, re-encoded with the new
password and a fresh salt, and atomically replaced. A file that fails
to decode is left untouched and stops the run.`,
	Run: command.Adapt(runRotate),
}

var Reseed = &command.C{
	Name:  "reseed",
	Usage: "<path>...",
	Help: `Re-encrypt encoded files in place with a fresh salt.

The password is unchanged, but every byte of each encoding changes.
Use this after a file has been disclosed to make the copy useless for
comparison.`,
	Run: command.Adapt(runReseed),
}

// runRotate implements the "rotate" subcommand.
func runRotate(env *command.Env, paths ...string) error {
	if len(paths) == 0 {
		return env.Usagef("missing input path")
	}
	oldPW, err := config.Passphrase(env, "Old passphrase: ")
	if err != nil {
		return err
	}
	newPW, err := config.NewPassphrase(env, "New passphrase: ")
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := mjlib.Rotate(p, oldPW, newPW); err != nil {
			return fmt.Errorf("rotate %q: %w", p, err)
		}
		fmt.Fprintf(env, "%s\t<rotated>\n", p)
	}
	return nil
}

// runReseed implements the "reseed" subcommand.
func runReseed(env *command.Env, paths ...string) error {
	if len(paths) == 0 {
		return env.Usagef("missing input path")
	}
	pw, err := config.Passphrase(env, "Passphrase: ")
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := mjlib.Reseed(p, pw); err != nil {
			return fmt.Errorf("reseed %q: %w", p, err)
		}
		fmt.Fprintf(env, "%s\t<reseeded>\n", p)
	}
	return nil
}
