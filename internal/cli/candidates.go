package cli

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/mwhitby/statmv/internal/candidates"
	"github.com/mwhitby/statmv/internal/model"
	"github.com/mwhitby/statmv/internal/toon"
)

var (
	candidatesFile string
	candidatesType string
)

var candidatesCmd = newCandidatesCmd()

func newCandidatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "List destination types a move could target",
		Long: `List every type declared under the selected type's namespace that could
receive moved members. Each declaration location is its own candidate, so
a type reopened in several files shows up once per file. With --history,
destinations recently chosen from the same document are marked and listed
first.`,
		Args: cobra.NoArgs,
		RunE: runCandidates,
	}

	cmd.Flags().StringVarP(&candidatesType, "type", "t", "", "source type, bare or qualified")
	cmd.Flags().StringVarP(&candidatesFile, "file", "f", "", "file declaring the type, for types reopened across files")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runCandidates(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	snap, err := loadSnapshot(ctx, candidatesFile)
	if err != nil {
		return err
	}
	decl, err := resolveType(snap, candidatesFile, candidatesType)
	if err != nil {
		return err
	}
	hist, err := loadHistory()
	if err != nil {
		return err
	}

	doc := sourceDocument(candidatesFile, decl)
	cands := candidates.Enumerate(snap, decl, doc, hist)

	out := cmd.OutOrStdout()
	if outputFormat == "toon" {
		if cands == nil {
			cands = []model.TypeNameCandidate{}
		}
		report := &toon.Report{
			Root:       snap.Root,
			Language:   snap.Language.Name,
			Type:       decl.Qualified,
			Document:   doc,
			Candidates: cands,
		}
		fmt.Fprintln(out, toon.Encode(report))
		return nil
	}

	if len(cands) == 0 {
		fmt.Fprintf(out, "no candidate destinations for %s\n", decl.Qualified)
		return nil
	}

	rows := make([][]string, 0, len(cands))
	for _, c := range cands {
		recent := ""
		if c.RecentlyUsed {
			recent = "✓"
		}
		rows = append(rows, []string{
			c.Decl.Qualified,
			c.Decl.File,
			strconv.Itoa(c.Decl.Line),
			recent,
		})
	}

	fmt.Fprintf(out, "%d candidate destination(s) for %s\n\n",
		len(cands), decl.Qualified)
	renderTable(out,
		[]string{"Type", "File", "Line", "Recent"},
		[]int{
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_RIGHT,
			tablewriter.ALIGN_CENTER,
		},
		rows)
	return nil
}

func init() {
	rootCmd.AddCommand(candidatesCmd)
}
