package cmd

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/mabhi256/evinspect/internal/events"
	"github.com/mabhi256/evinspect/internal/host"
	"github.com/mabhi256/evinspect/internal/scene"
	"github.com/mabhi256/evinspect/utils"
)

var ErrCheckFailed = errors.New("check found problems")

var checkCmd = &cobra.Command{
	Use:   "check [scene-or-prefab...]",
	Short: "Check event layouts and listener table integrity",
	Long: `Check loads the given files, verifies that every registered event field
exists where the layout table expects it, and compares the live and serialized
listener tables of every event. It exits non-zero when anything is off.`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension(sceneExtensions),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cfg, args, projectDir)
		if err != nil {
			return err
		}
		u, err := s.load(cmd.Context())
		if err != nil {
			return err
		}
		return runCheck(cmd.OutOrStdout(), u, events.Default())
	},
}

type checkFinding struct {
	severity string
	message  string
}

// runCheck prints load problems and per-event integrity findings, then a
// summary. It returns ErrCheckFailed when there is at least one finding.
func runCheck(w io.Writer, u *scene.Universe, reg *events.Registry) error {
	var findings []checkFinding
	for _, p := range u.Problems() {
		findings = append(findings, checkFinding{"layout", p.String()})
	}

	checked := 0
	for _, c := range host.EventComponents(u, true) {
		for _, ref := range events.GetEventRefs(reg, c) {
			checked++
			_, err := events.GetListeners(ref)
			switch {
			case err == nil:
			case errors.Is(err, events.ErrIntegrity):
				findings = append(findings, checkFinding{"integrity", fmt.Sprintf("%s %s: %v", c.ID(), c.Name(), err)})
			default:
				findings = append(findings, checkFinding{"contract", fmt.Sprintf("%s %s: %v", c.ID(), c.Name(), err)})
			}
		}
	}

	stats := u.Statistics()
	fmt.Fprintln(w, utils.TitleStyle.Render("evinspect check"))
	fmt.Fprintf(w, "  files %d · objects %d · event components %d · events checked %d\n",
		stats.Details["files"], stats.TotalCount, stats.Details["event_components"], checked)

	if len(findings) == 0 {
		fmt.Fprintln(w, utils.GoodStyle.Render("✅ no problems found"))
		return nil
	}

	slices.SortStableFunc(findings, func(a, b checkFinding) int {
		return severityRank(a.severity) - severityRank(b.severity)
	})
	fmt.Fprintln(w)
	for _, f := range findings {
		fmt.Fprintf(w, "  %s %s %s\n",
			utils.SeverityIcon(f.severity),
			utils.SeverityStyle(f.severity).Render(fmt.Sprintf("[%s]", f.severity)),
			f.message)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, utils.CriticalStyle.Render(fmt.Sprintf("❌ %d problem(s)", len(findings))))

	return fmt.Errorf("%w: %d problem(s)", ErrCheckFailed, len(findings))
}

func severityRank(s string) int {
	switch s {
	case "contract":
		return 0
	case "layout":
		return 1
	default:
		return 2
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
