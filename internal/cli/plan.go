package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/mwhitby/statmv/internal/deps"
	"github.com/mwhitby/statmv/internal/model"
	"github.com/mwhitby/statmv/internal/planner"
	"github.com/mwhitby/statmv/internal/project"
	"github.com/mwhitby/statmv/internal/toon"
)

var (
	planFile       string
	planType       string
	planMember     string
	planSelect     []string
	planWithDeps   bool
	planDest       string
	planToExisting bool
	planYes        bool
)

var planCmd = newPlanCmd()

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run a full planning session for a move",
		Long: `Run one planning session: filter the type's movable members, scan their
dependencies, enumerate destinations, and confirm the move. Flags stand in
for the interactive answers; without --yes the session shows the proposal
and prompts before completing.

The session plans only. A cancelled session exits 0 with the plan marked
cancelled, and a type with nothing movable yields an empty plan, not an
error.`,
		Args: cobra.NoArgs,
		RunE: runPlan,
	}

	cmd.Flags().StringVarP(&planType, "type", "t", "", "source type, bare or qualified")
	cmd.Flags().StringVarP(&planFile, "file", "f", "", "file declaring the type, for types reopened across files")
	cmd.Flags().StringVarP(&planMember, "member", "m", "", "member the move was invoked on; pre-checks its row")
	cmd.Flags().StringSliceVar(&planSelect, "select", nil, "members to move, replacing the seeded selection")
	cmd.Flags().BoolVar(&planWithDeps, "with-dependents", false, "expand the selection with the members it transitively uses")
	cmd.Flags().StringVar(&planDest, "dest", "", "destination type name; default is a fresh <Type>Helpers name")
	cmd.Flags().BoolVar(&planToExisting, "to-existing", false, "move into an existing candidate instead of a new type")
	cmd.Flags().BoolVarP(&planYes, "yes", "y", false, "skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if planYes && planToExisting && planDest == "" {
		return fmt.Errorf("--to-existing with --yes requires --dest")
	}

	snap, err := loadSnapshot(ctx, planFile)
	if err != nil {
		return err
	}
	hist, err := loadHistory()
	if err != nil {
		return err
	}

	var selected []string
	if cmd.Flags().Changed("select") {
		selected = planSelect
	}
	confirmer := &terminalConfirmer{
		in:             cmd.InOrStdin(),
		out:            out,
		selected:       selected,
		withDependents: planWithDeps,
		dest:           planDest,
		toExisting:     planToExisting,
		yes:            planYes,
	}

	session := planner.NewSession(snap, hist, confirmer)
	plan, err := session.Plan(ctx, planner.Request{
		Document: planFile,
		TypeName: planType,
		Member:   planMember,
	})
	if err != nil {
		return err
	}

	if !plan.Cancelled && plan.Destination != "" {
		saveHistory(hist)
	}

	if outputFormat == "toon" {
		fmt.Fprintln(out, toon.Encode(planReport(snap, plan, confirmer.proposal)))
		return nil
	}

	if plan.Cancelled {
		fmt.Fprintln(out, warningColor.Sprint("⚠ plan cancelled; nothing will move"))
		return nil
	}
	if plan.Destination == "" {
		fmt.Fprintf(out, "no members of %s are eligible to move\n", plan.SourceType)
		return nil
	}

	printPlan(out, plan)
	return nil
}

// printPlan renders an affirmed plan.
func printPlan(out io.Writer, plan *model.Plan) {
	dest := "new type"
	if !plan.CreateNew {
		dest = "existing type"
	}
	fmt.Fprintln(out, successColor.Sprintf("✓ move %d member(s) of %s into %s %s",
		len(plan.Members), plan.SourceType, dest, plan.Destination))
	fmt.Fprintf(out, "\n  destination file: %s\n\n", plan.DestinationFile)

	if len(plan.Members) == 0 {
		return
	}
	rows := make([][]string, 0, len(plan.Members))
	for _, m := range plan.Members {
		rows = append(rows, []string{m.Name, string(m.Kind), m.File, strconv.Itoa(m.Line)})
	}
	renderTable(out,
		[]string{"Member", "Kind", "File", "Line"},
		[]int{
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_RIGHT,
		},
		rows)
}

// planReport assembles the TOON report for a finished session. proposal
// is nil when the session never reached confirmation; its sections are
// omitted rather than emitted empty.
func planReport(snap *project.Snapshot, plan *model.Plan, p *planner.Proposal) *toon.Report {
	report := &toon.Report{
		Root:     snap.Root,
		Language: plan.Language,
		Type:     plan.SourceType,
		Document: plan.SourceDocument,
		Plan:     plan,
	}
	if p != nil {
		report.Selections = p.Selections
		report.Deps = p.Dependencies
		report.Candidates = p.Candidates
		if report.Candidates == nil {
			report.Candidates = []model.TypeNameCandidate{}
		}
	}
	return report
}

// terminalConfirmer implements the session's confirmation step over a
// terminal. Flags pre-answer the prompts; --yes answers all of them.
type terminalConfirmer struct {
	in             io.Reader
	out            io.Writer
	selected       []string
	withDependents bool
	dest           string
	toExisting     bool
	yes            bool

	// proposal is retained for the TOON report.
	proposal *planner.Proposal
}

func (c *terminalConfirmer) Confirm(ctx context.Context, p *planner.Proposal) (planner.Confirmation, error) {
	c.proposal = p

	conf := planner.Confirmation{
		Affirmed:    true,
		Destination: c.dest,
		CreateNew:   !c.toExisting,
		Members:     c.memberOverride(p),
	}
	if c.yes {
		return conf, nil
	}

	c.render(p)
	reader := bufio.NewReader(c.in)

	if conf.Destination == "" {
		var err error
		if c.toExisting {
			conf.Destination, err = promptLine(reader, c.out, "Destination type: ")
		} else {
			conf.Destination, err = promptLine(reader, c.out,
				fmt.Sprintf("New type name [%s]: ", p.DefaultName))
		}
		if err != nil {
			return planner.Confirmation{}, err
		}
	}

	answer, err := promptLine(reader, c.out, "Proceed with move? [y/N]: ")
	if err != nil {
		return planner.Confirmation{}, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
	default:
		conf.Affirmed = false
	}
	return conf, nil
}

// memberOverride translates the selection flags into the confirmation's
// member list. nil keeps the seeded rows.
func (c *terminalConfirmer) memberOverride(p *planner.Proposal) []string {
	if c.selected != nil {
		names := append([]string(nil), c.selected...)
		if c.withDependents {
			names = deps.Closure(p.Dependencies, names)
		}
		return names
	}
	if !c.withDependents {
		return nil
	}
	var checked []string
	for _, sel := range p.Selections {
		if sel.Checked {
			checked = append(checked, sel.Member.Name)
		}
	}
	if len(checked) == 0 {
		return nil
	}
	return deps.Closure(p.Dependencies, checked)
}

// render shows the proposal ahead of the prompts.
func (c *terminalConfirmer) render(p *planner.Proposal) {
	fmt.Fprintf(c.out, "Moving static members of %s\n\n", p.Type.Qualified)

	rows := make([][]string, 0, len(p.Selections))
	for _, sel := range p.Selections {
		mark := ""
		if sel.Checked {
			mark = "✓"
		}
		rows = append(rows, []string{
			mark,
			sel.Member.Name,
			string(sel.Member.Kind),
			strconv.Itoa(sel.Member.Line),
			strings.Join(p.Dependencies[sel.Member.Name], " "),
		})
	}
	renderTable(c.out,
		[]string{"Move", "Member", "Kind", "Line", "Uses"},
		[]int{
			tablewriter.ALIGN_CENTER,
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_RIGHT,
			tablewriter.ALIGN_LEFT,
		},
		rows)

	if len(p.Candidates) > 0 {
		fmt.Fprintf(c.out, "\nExisting destinations:\n")
		candRows := make([][]string, 0, len(p.Candidates))
		for _, cand := range p.Candidates {
			recent := ""
			if cand.RecentlyUsed {
				recent = "✓"
			}
			candRows = append(candRows, []string{cand.Decl.Qualified, cand.Decl.File, recent})
		}
		renderTable(c.out,
			[]string{"Type", "File", "Recent"},
			[]int{
				tablewriter.ALIGN_LEFT,
				tablewriter.ALIGN_LEFT,
				tablewriter.ALIGN_CENTER,
			},
			candRows)
	}

	fmt.Fprintf(c.out, "\nDefault new type: %s (%s)\n\n", p.DefaultName, p.DefaultFile)
}

// promptLine prints a prompt and reads one trimmed line. EOF counts as
// an empty answer, so piped runs degrade to the defaults.
func promptLine(reader *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func init() {
	rootCmd.AddCommand(planCmd)
}
