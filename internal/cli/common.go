package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"

	"github.com/mwhitby/statmv/internal/history"
	"github.com/mwhitby/statmv/internal/lang"
	"github.com/mwhitby/statmv/internal/model"
	"github.com/mwhitby/statmv/internal/project"
)

// maxFileSize caps parsed files. Generated bundles above this are noise
// for planning purposes.
const maxFileSize = 1 << 20

// effectiveLanguage resolves the language for a run: the extension of
// --file wins when the registry knows it, otherwise --lang.
func effectiveLanguage(file string) string {
	if file != "" {
		if name := lang.ForExtension(filepath.Ext(file)); name != "" {
			return name
		}
	}
	return languageName
}

// loadSnapshot loads the project under --root for the resolved language.
func loadSnapshot(ctx context.Context, file string) (*project.Snapshot, error) {
	return project.Load(ctx, rootDir, effectiveLanguage(file), project.Options{
		MaxFileSize: maxFileSize,
		Warnings:    os.Stderr,
	})
}

// loadHistory honors --history. Without the flag, runs carry no memory
// of earlier destinations.
func loadHistory() (*history.History, error) {
	if historyPath == "" {
		return nil, nil
	}
	return history.Load(historyPath)
}

// saveHistory persists the history back when --history was given. A
// failed save downgrades to a warning; the plan already happened.
func saveHistory(hist *history.History) {
	if historyPath == "" || hist == nil {
		return
	}
	if err := hist.Save(historyPath); err != nil {
		PrintWarning(fmt.Sprintf("could not save history: %v", err))
	}
}

// resolveType finds the selected type or fails loudly.
func resolveType(snap *project.Snapshot, file, typeName string) (model.TypeDecl, error) {
	decl, ok := snap.ResolveType(file, typeName)
	if !ok {
		return model.TypeDecl{}, fmt.Errorf("type %q not found under %s", typeName, snap.Root)
	}
	return decl, nil
}

// sourceDocument is the document the session treats as current: --file
// when given, else the file declaring the resolved type.
func sourceDocument(file string, decl model.TypeDecl) string {
	if file != "" {
		return file
	}
	return decl.File
}

// renderTable writes a borderless table to out.
func renderTable(out io.Writer, headers []string, align []int, rows [][]string) {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader(headers)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment(align)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()

	fmt.Fprint(out, tableBuffer.String())
}
