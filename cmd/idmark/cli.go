package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"idmark/internal/annotate"
	"idmark/internal/config"
	"idmark/internal/errors"
	"idmark/internal/extract"
	"idmark/internal/lang"
	"idmark/internal/ops"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(cfg *config.Config, baseDir string) *cli.App {
	app := &cli.App{
		Name:    "idmark",
		Usage:   "Extract, annotate, and resolve source identifiers",
		Version: Version,
		Commands: []*cli.Command{
			dumpCmd(cfg),
			annotateCmd(cfg),
			resolveCmd(cfg, baseDir),
			languagesCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// dumpCmd creates the dump command.
func dumpCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "Extract identifiers from source files as CSV",
		ArgsUsage: "<path>...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "recursive", Aliases: []string{"r"}, Usage: "Recurse into subdirectories"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write CSV to a file instead of stdout"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("at least one path is required"))
			}

			out := io.Writer(os.Stdout)
			if path := c.String("output"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return outputError(errors.NewIO(path, err))
				}
				defer f.Close()
				out = f
			}

			result, err := ops.Dump(c.Context, cfg, extract.NewTreeSitter(), ops.DumpInput{
				Paths:     c.Args().Slice(),
				Recursive: c.Bool("recursive"),
			}, out)
			if err != nil {
				return outputError(err)
			}

			printWarnings(result.Warnings)
			return nil
		},
	}
}

// annotateCmd creates the annotate command.
func annotateCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "annotate",
		Usage:     "Write annotated sibling copies of source files",
		ArgsUsage: "<path>...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "recursive", Aliases: []string{"r"}, Usage: "Recurse into subdirectories"},
			&cli.StringFlag{Name: "style", Aliases: []string{"s"}, Usage: "Marker style: " + strings.Join(annotate.StyleNames(), "|")},
			&cli.BoolFlag{Name: "clean", Usage: "Remove annotated copies instead of creating them"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("at least one path is required"))
			}

			if c.Bool("clean") {
				result, err := ops.Clean(ops.CleanInput{
					Paths:     c.Args().Slice(),
					Recursive: c.Bool("recursive"),
				})
				if err != nil {
					return outputError(err)
				}
				printWarnings(result.Warnings)
				return outputJSON(result)
			}

			style := c.String("style")
			if style == "" {
				style = cfg.Style
			}

			result, err := ops.AnnotateFiles(c.Context, cfg, extract.NewTreeSitter(), ops.AnnotateInput{
				Paths:     c.Args().Slice(),
				Recursive: c.Bool("recursive"),
				Style:     style,
			})
			if err != nil {
				return outputError(err)
			}

			printWarnings(result.Warnings)
			return outputJSON(result)
		},
	}
}

// resolveCmd creates the resolve command.
func resolveCmd(cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "Ask the configured LLM to resolve identifiers in one file",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "Override the configured model"},
			&cli.BoolFlag{Name: "no-cache", Usage: "Bypass the resolution cache"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("exactly one path is required"))
			}

			result, err := ops.Resolve(c.Context, cfg, extract.NewTreeSitter(), ops.ResolveInput{
				Path:    c.Args().First(),
				Model:   c.String("model"),
				NoCache: c.Bool("no-cache"),
				BaseDir: baseDir,
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(result)
		},
	}
}

// languagesCmd creates the languages command.
func languagesCmd() *cli.Command {
	return &cli.Command{
		Name:  "languages",
		Usage: "List supported grammar names",
		Action: func(c *cli.Context) error {
			for _, name := range lang.Grammars() {
				fmt.Println(name)
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if appErr, ok := err.(*errors.Error); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", appErr.Code, appErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// printWarnings writes per-file warnings to stderr so stdout stays parseable.
func printWarnings(warnings []ops.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: [%s] %s\n", w.Code, w.Message)
	}
}
