package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mabhi256/evinspect/internal/graph"
	"github.com/mabhi256/evinspect/internal/host"
	"github.com/mabhi256/evinspect/internal/logging"
	"github.com/mabhi256/evinspect/internal/report"
	"github.com/mabhi256/evinspect/internal/scene"
	"github.com/mabhi256/evinspect/internal/tui"
	"github.com/mabhi256/evinspect/utils"
)

var (
	outputFormat string
	outputFile   string
	graphRoot    int64
	graphWatch   bool
	graphSelect  []int64
)

var graphCmd = &cobra.Command{
	Use:   "graph [scene-or-prefab...]",
	Short: "Show the UI event graph of scenes and prefabs",
	Long: `Graph lists every UI event component, its events and the persistent
listeners bound to each event, with the argument every call passes.

Examples:
  evinspect graph                              # pick a scene interactively
  evinspect graph Assets/Scenes/Menu.unity     # browse in the terminal UI
  evinspect graph Menu.unity -o cli            # print a tree
  evinspect graph Menu.unity --root 200        # only below object &200
  evinspect graph Menu.unity -o html -f out    # write out.html
  evinspect graph Menu.unity -o dot | dot -Tsvg > menu.svg`,
	ValidArgsFunction: utils.CompleteFilesByExtension(sceneExtensions),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := args
		if len(files) == 0 {
			picked, err := pickScene(".")
			if err != nil {
				return err
			}
			files = []string{picked}
		}

		format, err := resolveFormat(outputFormat)
		if err != nil {
			return err
		}

		s, err := newSession(cfg, files, projectDir)
		if err != nil {
			return err
		}
		s.root = host.ObjectID(graphRoot)

		if format == report.FormatTUI {
			return runBrowser(s)
		}
		if graphWatch && format != report.FormatCLI {
			return fmt.Errorf("--watch needs -o cli or -o tui, not %s", format)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if !graphWatch {
			return renderOnce(ctx, cmd.OutOrStdout(), s, format)
		}

		w, err := tui.NewWatcher(s.files, cfg.Watch.Debounce)
		if err != nil {
			return err
		}
		defer w.Close()
		for {
			if err := renderOnce(ctx, cmd.OutOrStdout(), s, format); err != nil {
				slog.Error("query failed", slog.Any("error", err))
			}
			if w.Wait() == nil {
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout())
		}
	},
}

// resolveFormat picks the flag value, then the config, then tui on a
// terminal and cli elsewhere
func resolveFormat(flag string) (report.Format, error) {
	name := flag
	if name == "" {
		name = cfg.Output
	}
	if name == "" {
		if stdoutIsTerminal() {
			return report.FormatTUI, nil
		}
		return report.FormatCLI, nil
	}
	return report.ParseFormat(name)
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderOnce(ctx context.Context, out io.Writer, s *session, format report.Format) error {
	snap, err := s.query(ctx)
	if err != nil {
		return err
	}

	switch format {
	case report.FormatCLI:
		return report.WriteCLI(out, snap.Graph, snap.Title)

	case report.FormatHTML:
		path, err := report.GenerateHTMLReport(snap.Graph, snap.Title, outputFile)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "📄 Report written to %s\n", path)
		return nil

	case report.FormatDOT, report.FormatJSON:
		w := out
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outputFile, err)
			}
			defer f.Close()
			w = f
		}
		if format == report.FormatDOT {
			return report.WriteDOT(w, snap.Graph, snap.Title)
		}
		return report.WriteJSON(w, snap.Graph, snap.Title)

	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func runBrowser(s *session) error {
	// the TUI owns the terminal; records go to the debug file or nowhere
	if !debug {
		slog.SetDefault(logging.New(io.Discard, slog.LevelError))
	}

	mode, err := graph.ParseOnNodeClick(cfg.NodeClick)
	if err != nil {
		return err
	}

	opts := tui.Options{Load: s.query, Mode: mode}
	for _, id := range graphSelect {
		opts.Selected = append(opts.Selected, host.ObjectID(id))
	}
	if graphWatch {
		w, err := tui.NewWatcher(s.files, cfg.Watch.Debounce)
		if err != nil {
			return err
		}
		defer w.Close()
		opts.Watcher = w
	}

	return tui.Run(opts)
}

// pickScene asks for a scene under root when running interactively
func pickScene(root string) (string, error) {
	if !stdoutIsTerminal() || !isatty.IsTerminal(os.Stdin.Fd()) {
		return "", fmt.Errorf("no scene given (pass a .unity or .prefab file)")
	}

	scenes, err := scene.FindScenes(root)
	if err != nil {
		return "", err
	}
	switch len(scenes) {
	case 0:
		return "", fmt.Errorf("no .unity or .prefab files under %s", root)
	case 1:
		return scenes[0], nil
	}

	options := make([]huh.Option[string], 0, len(scenes))
	for _, path := range scenes {
		label := path
		if rel, err := filepath.Rel(root, path); err == nil {
			label = rel
		}
		options = append(options, huh.NewOption(label, path))
	}

	var picked string
	err = huh.NewSelect[string]().
		Title("Pick a scene or prefab").
		Options(options...).
		Value(&picked).
		Run()
	if err != nil {
		return "", fmt.Errorf("scene selection cancelled: %w", err)
	}
	return picked, nil
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format: cli, tui, html, dot, json (default tui on a terminal)")
	graphCmd.Flags().StringVarP(&outputFile, "file", "f", "", "Output file for html, dot and json")
	graphCmd.Flags().Int64Var(&graphRoot, "root", 0, "Only show events below this object ID")
	graphCmd.Flags().BoolVar(&graphWatch, "watch", false, "Re-run the query when the files change")
	graphCmd.Flags().Int64SliceVar(&graphSelect, "select", nil, "Object IDs selected when the browser opens")

	// When user types: evinspect graph file.unity -o <TAB>
	graphCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"cli", "tui", "html", "dot", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
}
