// Program mojic obfuscates C source files into password-seeded streams of
// emoji, and restores them.
package main

import (
	"log/slog"
	"os"

	"github.com/creachadair/command"
	"github.com/creachadair/flax"
	"github.com/creachadair/mojic/cmd/mojic/config"
	"github.com/creachadair/mojic/mjlib"
	"hermannm.dev/devlog"

	"github.com/creachadair/mojic/cmd/mojic/internal/cmdcodec"
	"github.com/creachadair/mojic/cmd/mojic/internal/cmdrotate"
)

func main() {
	var flags = struct {
		PFile   string `flag:"pfile,PRIVATE:Read passphrase from this file path"`
		Verbose bool   `flag:"v,Enable verbose logging"`
		Config  string `flag:"config,Configuration file path"`
	}{Config: mjlib.DefaultConfigPath()}

	root := &command.C{
		Name: command.ProgramName(),
		Help: `🙈 Obfuscate C source files as emoji.

Mojic encodes C sources into a password-seeded stream of pictographic
glyphs and restores them exactly. Each encoded file carries its own salt
and an integrity seal; decoding fails loudly on a wrong password or a
modified file. The passphrase is prompted at the terminal, or supplied
via --pfile or the MOJIC_PASSPHRASE environment variable.`,

		SetFlags: command.Flags(flax.MustBind, &flags),

		Init: func(env *command.Env) error {
			level := new(slog.LevelVar)
			if flags.Verbose {
				level.Set(slog.LevelDebug)
			}
			slog.SetDefault(slog.New(devlog.NewHandler(os.Stderr, &devlog.Options{
				Level: level,
			})))

			cfg, err := mjlib.LoadConfig(flags.Config)
			if err != nil {
				return err
			}
			env.Config = &config.Settings{
				PFile:   flags.PFile,
				Verbose: flags.Verbose,
				File:    cfg,
			}
			return nil
		},

		Commands: append(
			cmdcodec.Commands,
			cmdrotate.Rotate,
			cmdrotate.Reseed,
			command.HelpCommand([]command.HelpTopic{{
				Name: "format",
				Help: `The encoded file format.

An encoded file is UTF-8 text. The first line is a header of moon and
clock glyphs carrying the key derivation salt and a short password
check. The body spells the source as keyword glyphs and 4-glyph data
blocks drawn from an alphabet shuffled per file, wrapped with newlines
that carry no meaning. The final line is a 64-glyph integrity seal;
any change to the body makes decoding fail.`,
			}}),
			command.VersionCommand(),
		),
	}
	command.RunOrFail(root.NewEnv(nil).MergeFlags(true), os.Args[1:])
}
