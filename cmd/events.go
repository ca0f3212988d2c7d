package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mabhi256/evinspect/internal/events"
	"github.com/mabhi256/evinspect/internal/host"
	"github.com/mabhi256/evinspect/utils"
)

var eventsCmd = &cobra.Command{
	Use:   "events [scene-or-prefab] [component-id]",
	Short: "List the events and listeners of one component",
	Args:  cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return utils.CompleteFilesByExtension(sceneExtensions)(cmd, args, toComplete)
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid component id %q: %w", args[1], err)
		}

		s, err := newSession(cfg, args[:1], projectDir)
		if err != nil {
			return err
		}
		u, err := s.load(cmd.Context())
		if err != nil {
			return err
		}

		obj, ok := u.Lookup(host.ObjectID(id))
		if !ok {
			return fmt.Errorf("object %s not found", host.ObjectID(id))
		}
		c, ok := obj.(host.Component)
		if !ok {
			return fmt.Errorf("object %s is not a component", host.ObjectID(id))
		}
		return printComponentEvents(cmd.OutOrStdout(), events.Default(), c)
	},
}

// printComponentEvents writes every event of c with its valid listeners.
// Integrity problems are printed in place; a contract violation aborts.
func printComponentEvents(w io.Writer, reg *events.Registry, c host.Component) error {
	fmt.Fprintln(w, utils.TitleStyle.Render(fmt.Sprintf("%s %s (%s)", c.ID(), c.Name(), c.Kind())))

	refs := events.GetEventRefs(reg, c)
	if len(refs) == 0 {
		fmt.Fprintln(w, utils.MutedStyle.Render("  no events"))
		return nil
	}

	for _, ref := range refs {
		fmt.Fprintf(w, "\n  %s %s\n",
			utils.WarningLightStyle.Render(ref.Name),
			utils.MutedStyle.Render(ref.Path.String()))

		records, err := events.GetListeners(ref)
		var integrity *events.IntegrityError
		switch {
		case errors.As(err, &integrity):
			fmt.Fprintf(w, "    %s\n", utils.WarningStyle.Render("⚠ "+integrity.Error()))
		case err != nil:
			return fmt.Errorf("%s %s: %w", c.ID(), ref.Name, err)
		}

		if len(records) == 0 {
			fmt.Fprintln(w, utils.MutedStyle.Render("    no valid listeners"))
			continue
		}
		for _, rec := range records {
			fmt.Fprintf(w, "    [%d] %s\n", rec.Index, utils.TextStyle.Render(rec.String()))
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
