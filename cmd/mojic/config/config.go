// Package config contains shared configuration settings for mojic
// subcommands.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/creachadair/command"
	"github.com/creachadair/mojic/mjlib"
	"golang.org/x/term"
)

// Settings are shared settings used by mojic subcommands.
type Settings struct {
	PFile   string        // read the passphrase from this file, if set
	Verbose bool          // enable debug logging
	File    *mjlib.Config // defaults from the user's configuration file
}

// FromEnv returns the settings associated with env.
func FromEnv(env *command.Env) *Settings { return env.Config.(*Settings) }

// Passphrase returns the passphrase to use for the current command. A
// passphrase supplied via the MOJIC_PASSPHRASE environment variable or the
// --pfile flag wins; otherwise the user is prompted at the terminal. When
// stdin is not a terminal and no passphrase was supplied, an error is
// reported rather than hanging on a prompt.
func Passphrase(env *command.Env, prompt string) (string, error) {
	if pw, ok, err := suppliedPassphrase(env); err != nil || ok {
		return pw, err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("no passphrase supplied and stdin is not a terminal")
	}
	return mjlib.GetPassphrase(prompt)
}

// NewPassphrase is like Passphrase, but an interactive prompt asks for the
// passphrase twice. Use it when the passphrase seals new output, where a
// typo would lock the user out.
func NewPassphrase(env *command.Env, prompt string) (string, error) {
	if pw, ok, err := suppliedPassphrase(env); err != nil || ok {
		return pw, err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("no passphrase supplied and stdin is not a terminal")
	}
	return mjlib.ConfirmPassphrase(prompt)
}

func suppliedPassphrase(env *command.Env) (string, bool, error) {
	if pw, ok := os.LookupEnv("MOJIC_PASSPHRASE"); ok {
		return pw, true, mjlib.CheckPassword(pw)
	}
	set := FromEnv(env)
	if set.PFile == "" {
		return "", false, nil
	}
	data, err := os.ReadFile(set.PFile)
	if err != nil {
		return "", true, fmt.Errorf("read passphrase file: %w", err)
	}
	pw := strings.TrimSuffix(strings.TrimSuffix(string(data), "\n"), "\r")
	return pw, true, mjlib.CheckPassword(pw)
}
