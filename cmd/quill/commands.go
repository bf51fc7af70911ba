package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/starford/quill/internal"
	"github.com/starford/quill/internal/apperr"
	"github.com/starford/quill/internal/entry"
	pkgconfig "github.com/starford/quill/pkg/config"
	"github.com/urfave/cli/v3"
)

// newApp builds the command tree. Entry paths are printed to stdout.
func newApp(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "quill",
		Usage:   "Scaffold diary and note entries for a Markdown journal",
		Version: version,
		Writer:  stdout,
		Commands: []*cli.Command{
			initCommand(stdout),
			newCommand(stdout),
			serveCommand(),
			watchCommand(),
			mcpCommand(),
		},
		Action: dispatchFallback,
	}
}

// dispatchFallback runs when no subcommand matched.
func dispatchFallback(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Present() {
		return fmt.Errorf("%w: %s", apperr.ErrUnknownCommand, cmd.Args().First())
	}
	return apperr.ErrNoCommand
}

func verboseFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Log progress to stderr",
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}
}

func cliLogger(cmd *cli.Command) *slog.Logger {
	level := slog.LevelWarn
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func singleArg(cmd *cli.Command, name, fallback string) (string, error) {
	switch cmd.Args().Len() {
	case 0:
		if fallback == "" {
			return "", fmt.Errorf("%w: missing %s argument", apperr.ErrInvalidInput, name)
		}
		return fallback, nil
	case 1:
		return cmd.Args().First(), nil
	default:
		return "", fmt.Errorf("%w: expected a single %s argument", apperr.ErrInvalidInput, name)
	}
}

func initCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Initialize <FILE> to a new entry",
		ArgsUsage: "<FILE>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "diary", Usage: "Use a diary format"},
			&cli.BoolFlag{Name: "note", Usage: "Use a note format [default]"},
			&cli.BoolFlag{Name: "uuid", Usage: "Use a note format named by a UUIDv7"},
			verboseFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, err := singleArg(cmd, "<FILE>", "")
			if err != nil {
				return err
			}
			opts, err := entry.ResolveFile(path, entry.Flags{
				Diary: cmd.Bool("diary"),
				Note:  cmd.Bool("note"),
				UUID:  cmd.Bool("uuid"),
			})
			if err != nil {
				return err
			}
			res, err := entry.NewService(entry.WithLogger(cliLogger(cmd))).Init(ctx, opts)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(stdout, res.Path)
			return err
		},
	}
}

func newCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "Create a new entry in [PATH]",
		ArgsUsage: "[PATH]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "diary", Usage: "Use a diary format"},
			&cli.BoolFlag{Name: "ulid", Aliases: []string{"note"}, Usage: "Use a note format with ulid [default]"},
			&cli.BoolFlag{Name: "uuid", Usage: "Use a note format with uuid"},
			verboseFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, err := singleArg(cmd, "[PATH]", ".")
			if err != nil {
				return err
			}
			opts, err := entry.ResolveDir(path, entry.Flags{
				Diary: cmd.Bool("diary"),
				Note:  cmd.Bool("ulid"),
				UUID:  cmd.Bool("uuid"),
			})
			if err != nil {
				return err
			}
			res, err := entry.NewService(entry.WithLogger(cliLogger(cmd))).Create(ctx, opts)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(stdout, res.Path)
			return err
		},
	}
}

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the entry API over HTTP and initialize dropped seed files",
		Flags: []cli.Flag{configFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := internal.Run(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
				return fmt.Errorf("app run error: %w", err)
			}
			return nil
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Initialize empty Markdown files as they appear in the journal",
		Flags: []cli.Flag{configFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return internal.RunWatch(ctx, internal.WithConfig(cfg))
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Expose entry creation as MCP tools on stdio",
		Flags: []cli.Flag{configFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return internal.RunMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version))
		},
	}
}
