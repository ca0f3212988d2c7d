package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mabhi256/evinspect/internal/events"
	"github.com/mabhi256/evinspect/internal/host"
	"github.com/mabhi256/evinspect/utils"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Print the component kind to event field table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRegistry(cmd.OutOrStdout(), events.Default())
	},
}

func printRegistry(w io.Writer, reg *events.Registry) error {
	rows := make([][]string, 0, len(reg.Rows()))
	for _, r := range reg.Rows() {
		rows = append(rows, []string{r.Kind.String(), r.Capability.String(), r.Field})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(utils.MutedStyle).
		Headers("KIND", "CAPABILITY", "FIELD").
		Rows(rows...)

	var layoutRows [][]string
	for _, k := range host.AllKinds() {
		if fields := events.LayoutFields(k); len(fields) > 0 {
			layoutRows = append(layoutRows, []string{k.String(), strings.Join(fields, ", ")})
		}
	}
	layout := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(utils.MutedStyle).
		Headers("KIND", "SERIALIZED EVENT FIELDS").
		Rows(layoutRows...)

	var sb strings.Builder
	sb.WriteString(utils.TitleStyle.Render("Event registry"))
	sb.WriteString(utils.MutedStyle.Render(fmt.Sprintf(" layout %s, %d rows, %d kinds", events.LayoutVersion, len(rows), len(reg.Kinds()))))
	sb.WriteString("\n")
	sb.WriteString(t.Render())
	sb.WriteString("\n\n")
	sb.WriteString(utils.TitleStyle.Render("Layout contract"))
	sb.WriteString("\n")
	sb.WriteString(layout.Render())
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func init() {
	rootCmd.AddCommand(registryCmd)
}
