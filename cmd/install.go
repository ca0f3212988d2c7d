package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install shell completions",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if !isInPath() {
			printPathInstructions(out)
			return
		}

		shell := detectShell()
		target, ok := completionTargetFor(cmd.Root(), shell)
		if !ok {
			fmt.Fprintf(out, "❌ Shell completion not supported for: %s\n", shell)
			fmt.Fprintln(out, "Supported shells: bash, zsh, fish, powershell")
			return
		}

		if target.installed() {
			fmt.Fprintln(out, "✅ Already configured!")
			return
		}

		fmt.Fprintln(out, "📦 Installing completions...")
		if err := target.install(out); err != nil {
			fmt.Fprintf(out, "❌ Failed: %v\n", err)
			return
		}
		fmt.Fprintln(out, "✅ Done! Restart your shell to enable tab completion.")
	},
}

// completionTarget is where one shell keeps its completion script
type completionTarget struct {
	dir      string
	file     string
	generate func(io.Writer) error
	activate string
}

func (t completionTarget) path() string {
	return filepath.Join(t.dir, t.file)
}

func (t completionTarget) installed() bool {
	_, err := os.Stat(t.path())
	return err == nil
}

func (t completionTarget) install(w io.Writer) error {
	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", t.dir, err)
	}

	file, err := os.Create(t.path())
	if err != nil {
		return err
	}
	defer file.Close()

	if err := t.generate(file); err != nil {
		return fmt.Errorf("failed to generate completions: %w", err)
	}

	fmt.Fprintf(w, "🔄 Run this command to enable completions now:\n   %s\n", t.activate)
	return nil
}

func completionTargetFor(root *cobra.Command, shell string) (completionTarget, bool) {
	home, _ := os.UserHomeDir()
	name := root.Name()

	switch shell {
	case "bash":
		dir := filepath.Join(home, ".local/share/bash-completion/completions")
		return completionTarget{
			dir:      dir,
			file:     name,
			generate: root.GenBashCompletion,
			activate: "source " + filepath.Join(dir, name),
		}, true
	case "zsh":
		dir := filepath.Join(home, ".zsh/completions")
		return completionTarget{
			dir:      dir,
			file:     "_" + name,
			generate: root.GenZshCompletion,
			activate: fmt.Sprintf("fpath=(%s $fpath) && autoload -U compinit && compinit", dir),
		}, true
	case "fish":
		return completionTarget{
			dir:      filepath.Join(home, ".config/fish/completions"),
			file:     name + ".fish",
			generate: func(w io.Writer) error { return root.GenFishCompletion(w, true) },
			activate: "complete --do-complete=" + name,
		}, true
	case "powershell":
		file := name + "_completion.ps1"
		return completionTarget{
			dir:      home,
			file:     file,
			generate: root.GenPowerShellCompletionWithDesc,
			activate: ". " + filepath.Join(home, file),
		}, true
	}
	return completionTarget{}, false
}

// autoSetup installs completions on first run. Messages go to w so that
// piped report output stays clean.
func autoSetup(root *cobra.Command, w io.Writer) {
	target, ok := completionTargetFor(root, detectShell())
	if !ok || target.installed() {
		return
	}

	fmt.Fprintln(w, "🔧 First run detected, setting up evinspect...")
	if err := target.install(w); err != nil {
		slog.Debug("completion auto-setup failed", slog.String("path", target.path()), slog.Any("error", err))
		fmt.Fprintln(w, "⚠️  Auto-setup failed. Run 'evinspect install' to try again.")
		return
	}
	fmt.Fprintln(w, "✅ Shell completions installed")
	fmt.Fprintln(w, "💡 Restart your shell to enable tab completion")
}

func detectShell() string {
	if runtime.GOOS == "windows" {
		return "powershell"
	}

	shell := filepath.Base(os.Getenv("SHELL"))
	if shell == "" || shell == "." {
		return "bash"
	}
	return shell
}

func isInPath() bool {
	execPath, err := os.Executable()
	if err != nil {
		return false
	}
	paths := strings.Split(os.Getenv("PATH"), string(os.PathListSeparator))
	return slices.Contains(paths, filepath.Dir(execPath))
}

func printPathInstructions(w io.Writer) {
	execPath, _ := os.Executable()
	execDir := filepath.Dir(execPath)

	fmt.Fprintf(w, "❌ evinspect not in PATH. Binary location: %s\n\n", execPath)
	if runtime.GOOS == "windows" {
		fmt.Fprintf(w, "Add to PATH: %s\n", execDir)
		return
	}
	fmt.Fprintf(w, "Add to shell profile: export PATH=\"%s:$PATH\"\n", execDir)
	fmt.Fprintln(w, "Or copy to: /usr/local/bin")
}

func init() {
	rootCmd.AddCommand(installCmd)
}
