// Package commands wires the canonicalizer to the outside world: gathering
// input files or stdin, reconciling each source against its destination, and
// honoring check mode. All file I/O lives here; the sort itself never
// touches a file.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~spc/go-log"
	"github.com/urfave/cli/v3"

	"github.com/netauto/confsort/internal/conf"
	"github.com/netauto/confsort/internal/parser"
	"github.com/netauto/confsort/internal/reconcile"
	"github.com/netauto/confsort/internal/render"
)

// InputSource represents a single source of configuration text (file or stdin).
type InputSource struct {
	Path    string // file path or "<stdin>"
	Content []byte
}

// commonFlags are shared by every subcommand.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Value: conf.DefaultPath,
			Usage: "Path to the settings `FILE`",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
	}
}

// loadConfig resolves settings for one command invocation and applies the
// log level.
func loadConfig(cmd *cli.Command) (conf.Config, error) {
	cfg, err := conf.Load(cmd.String("config"))
	if err != nil {
		return cfg, err
	}
	if cmd.Bool("verbose") {
		cfg.LogLevel = log.LevelDebug
	}
	log.SetLevel(cfg.LogLevel)
	return cfg, nil
}

// SortCommand canonicalizes configuration files so they can be compared with
// a plain diff.
func SortCommand() *cli.Command {
	return &cli.Command{
		Name:      "sort",
		Usage:     "Sort configuration files while maintaining hierarchy",
		ArgsUsage: "[files or directories]",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Reconcile against `DEST` and overwrite it when the canonical form differs",
			},
			&cli.BoolFlag{
				Name:    "in-place",
				Aliases: []string{"i"},
				Usage:   "Overwrite each source file with its canonical form",
			},
			&cli.BoolFlag{
				Name:    "check",
				Aliases: []string{"n"},
				Usage:   "Report whether changes would be made without writing anything; exit 1 if so",
			},
			&cli.BoolFlag{
				Name:    "diff",
				Aliases: []string{"d"},
				Usage:   "Print a unified before/after diff for destinations that would change",
			},
			&cli.BoolFlag{
				Name:    "recursive",
				Aliases: []string{"r"},
				Usage:   "Walk directories recursively and process files with configured extensions",
			},
		}, commonFlags()...),
		Action: SortAction,
	}
}

// SortAction implements the sort command.
func SortAction(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()

	// Flags mixed in after file arguments end up here as positionals; guide
	// the user instead of treating them as file names.
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			return cli.Exit(fmt.Sprintf("Error: Flag '%s' found after file arguments. Please place flags before file arguments.", arg), 2)
		}
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	sources, err := gatherInputs(args, cmd.Bool("recursive"), cfg)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to process inputs: %v", err), 2)
	}
	if len(sources) == 0 {
		if len(args) > 0 {
			log.Infoln("No input files found.")
		} else if !isInputFromPipe() {
			log.Infoln("No input files specified and no data piped from stdin.")
		}
		return nil
	}

	output := cmd.String("output")
	inPlace := cmd.Bool("in-place")
	check := cmd.Bool("check")
	showDiff := cmd.Bool("diff")

	if output != "" && len(sources) > 1 {
		return cli.Exit("Error: --output takes exactly one source file.", 2)
	}

	hasErrors := false
	changedInCheck := false

	for _, source := range sources {
		log.Debugf("processing %s", source.Path)

		// Pick the reconciliation target: an explicit destination, the
		// source itself for in-place (and for check mode, which asks "is
		// this file already canonical?"), or stdout.
		destPath := ""
		switch {
		case output != "":
			destPath = output
		case inPlace || check:
			destPath = source.Path
		}
		var destLines []string
		if destPath == "<stdin>" {
			if inPlace {
				log.Warnln("cannot write in-place for stdin input, writing to stdout instead")
			}
			destPath = ""
			if check {
				// There is no file to reread for stdin, but the question
				// is the same: is the piped content already canonical?
				destLines = parser.Lines(source.Content)
			}
		}
		if destPath != "" {
			destContent, err := os.ReadFile(destPath)
			if err != nil && !os.IsNotExist(err) {
				log.Errorf("failed to read destination %s: %v", destPath, err)
				hasErrors = true
				continue
			}
			// A missing destination reads as empty: the whole source then
			// reports as an addition.
			destLines = parser.Lines(destContent)
		}

		result := reconcile.Reconcile(parser.Lines(source.Content), destLines)
		if result.Dropped > 0 {
			log.Warnf("%s: dropped %d line(s) with no enclosing statement", source.Path, result.Dropped)
		}

		if showDiff && result.Changed && destPath != "" {
			fmt.Printf("--- %s\n+++ dynamically generated\n%s", destPath, result.UnifiedDiff())
		}

		switch {
		case check:
			if result.Changed {
				changedInCheck = true
				log.Infof("%s: would change", source.Path)
			}
		case destPath == "":
			if _, err := os.Stdout.WriteString(result.After); err != nil {
				log.Errorf("failed to write to stdout for %s: %v", source.Path, err)
				hasErrors = true
			}
		case result.Changed:
			if err := os.WriteFile(destPath, []byte(result.After), 0644); err != nil {
				log.Errorf("failed to write %s: %v", destPath, err)
				hasErrors = true
			} else {
				log.Infof("updated %s", destPath)
			}
		default:
			// Already canonical: never rewrite an up-to-date destination.
			log.Infof("no changes for %s", destPath)
		}
	}

	if hasErrors {
		return cli.Exit("Encountered errors during processing.", 2)
	}
	if check && changedInCheck {
		return cli.Exit("Changes would be made.", 1)
	}
	return nil
}

// RenderCommand expands configuration templates with variables and the
// netconfig filter set.
func RenderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render configuration templates with YAML variables",
		ArgsUsage: "[template files]",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "vars",
				Usage: "YAML `FILE` with template variables",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the rendered text to `DEST` instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "sort",
				Usage: "Canonicalize the rendered text before emitting it",
			},
		}, commonFlags()...),
		Action: RenderAction,
	}
}

// RenderAction implements the render command.
func RenderAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	vars := map[string]any{}
	if varsPath := cmd.String("vars"); varsPath != "" {
		content, err := os.ReadFile(varsPath)
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to read vars file: %v", err), 2)
		}
		vars, err = render.LoadVars(content)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
	}

	sources, err := gatherInputs(cmd.Args().Slice(), false, cfg)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to process inputs: %v", err), 2)
	}
	if len(sources) == 0 {
		return cli.Exit("Error: no templates to render.", 2)
	}
	output := cmd.String("output")
	if output != "" && len(sources) > 1 {
		return cli.Exit("Error: --output takes exactly one template.", 2)
	}

	for _, source := range sources {
		rendered, err := render.Render(source.Path, source.Content, vars)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		text := string(rendered)
		if cmd.Bool("sort") {
			result := reconcile.Reconcile(parser.Lines(rendered), nil)
			if result.Dropped > 0 {
				log.Warnf("%s: dropped %d line(s) with no enclosing statement", source.Path, result.Dropped)
			}
			text = result.After
		}
		if output == "" {
			if _, err := os.Stdout.WriteString(text); err != nil {
				return cli.Exit(fmt.Sprintf("failed to write to stdout: %v", err), 2)
			}
		} else if err := os.WriteFile(output, []byte(text), 0644); err != nil {
			return cli.Exit(fmt.Sprintf("failed to write %s: %v", output, err), 2)
		}
	}
	return nil
}

// gatherInputs determines the target sources based on arguments. Explicitly
// named files are always accepted; directory walks only pick up files whose
// suffix the configuration selects.
func gatherInputs(args []string, recursive bool, cfg conf.Config) ([]InputSource, error) {
	var sources []InputSource

	if len(args) == 0 && isInputFromPipe() {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
		if len(content) > 0 {
			sources = append(sources, InputSource{Path: "<stdin>", Content: content})
		}
		return sources, nil
	}

	var filePaths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			log.Warnf("could not stat %q: %v", arg, err)
			continue
		}

		if info.IsDir() {
			if !recursive {
				log.Warnf("skipping directory %q (use -r to process recursively)", arg)
				continue
			}
			err := filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					log.Warnf("error accessing path %q: %v", path, err)
					return nil
				}
				if !d.IsDir() && cfg.Matches(d.Name()) {
					filePaths = append(filePaths, path)
				}
				return nil
			})
			if err != nil {
				log.Warnf("error walking directory %q: %v", arg, err)
			}
		} else {
			filePaths = append(filePaths, arg)
		}
	}

	seen := make(map[string]bool)
	uniquePaths := []string{}
	for _, p := range filePaths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			log.Warnf("could not get absolute path for %q: %v", p, err)
			absPath = p
		}
		if !seen[absPath] {
			seen[absPath] = true
			uniquePaths = append(uniquePaths, p)
		}
	}

	for _, path := range uniquePaths {
		content, err := os.ReadFile(path)
		if err != nil {
			log.Warnf("failed to read file %q: %v", path, err)
			continue
		}
		if len(content) == 0 {
			log.Warnf("skipping empty file %q", path)
			continue
		}
		sources = append(sources, InputSource{Path: path, Content: content})
	}

	return sources, nil
}

// isInputFromPipe checks if the program is receiving input from a pipe.
var isInputFromPipe = func() bool {
	fileInfo, _ := os.Stdin.Stat()
	return fileInfo != nil && (fileInfo.Mode()&os.ModeCharDevice) == 0
}
