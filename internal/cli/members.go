package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/mwhitby/statmv/internal/deps"
	"github.com/mwhitby/statmv/internal/members"
	"github.com/mwhitby/statmv/internal/toon"
)

var (
	membersFile string
	membersType string
)

var membersCmd = newMembersCmd()

func newMembersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "List a type's members that are eligible to move",
		Long: `List the static members of a type that a move could relocate, together
with the other eligible members each one references. The dependency
column is advisory: moving a member without the members it uses is
allowed.`,
		Args: cobra.NoArgs,
		RunE: runMembers,
	}

	cmd.Flags().StringVarP(&membersType, "type", "t", "", "source type, bare or qualified")
	cmd.Flags().StringVarP(&membersFile, "file", "f", "", "file declaring the type, for types reopened across files")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runMembers(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	snap, err := loadSnapshot(ctx, membersFile)
	if err != nil {
		return err
	}
	decl, err := resolveType(snap, membersFile, membersType)
	if err != nil {
		return err
	}

	eligible := members.Filter(snap.Members(decl.Qualified), snap.Language.ValidMember)
	scanner := &deps.TagScanner{Type: decl.Qualified}
	dm, err := scanner.FindMemberDependencies(ctx, eligible, snap)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat == "toon" {
		report := &toon.Report{
			Root:       snap.Root,
			Language:   snap.Language.Name,
			Type:       decl.Qualified,
			Document:   sourceDocument(membersFile, decl),
			Selections: members.Seed(eligible, ""),
			Deps:       dm,
		}
		fmt.Fprintln(out, toon.Encode(report))
		return nil
	}

	if len(eligible) == 0 {
		fmt.Fprintf(out, "no members of %s are eligible to move\n", decl.Qualified)
		return nil
	}

	rows := make([][]string, 0, len(eligible))
	for _, m := range eligible {
		rows = append(rows, []string{
			m.Name,
			string(m.Kind),
			string(m.Access),
			strconv.Itoa(m.Line),
			strings.Join(dm[m.Name], " "),
		})
	}

	fmt.Fprintf(out, "%d static member(s) of %s eligible to move\n\n",
		len(eligible), decl.Qualified)
	renderTable(out,
		[]string{"Member", "Kind", "Access", "Line", "Uses"},
		[]int{
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_RIGHT,
			tablewriter.ALIGN_LEFT,
		},
		rows)
	return nil
}

func init() {
	rootCmd.AddCommand(membersCmd)
}
