// Package candidates enumerates the destination types a move can target.
package candidates

import (
	"sort"
	"strings"

	"github.com/mwhitby/statmv/internal/history"
	"github.com/mwhitby/statmv/internal/model"
	"github.com/mwhitby/statmv/internal/project"
)

// Enumerate lists every (type, file) declaration under the namespace
// containing selected, excluding the exact declaration being refactored
// from. Other files of the same type stay in: members can move into a
// different file of their own type. hist marks candidates recently chosen
// from currentDoc; a nil hist marks none.
//
// The order is total and deterministic: recently used first, then by
// qualified name, file, and line.
func Enumerate(snap *project.Snapshot, selected model.TypeDecl, currentDoc string, hist *history.History) []model.TypeNameCandidate {
	sep := snap.Language.NamespaceSep

	var out []model.TypeNameCandidate
	for _, d := range snap.Types() {
		if !underNamespace(d.Namespace, selected.Namespace, sep) {
			continue
		}
		if d.Qualified == selected.Qualified && d.File == currentDoc {
			continue
		}
		recent := hist != nil && hist.Contains(d.Qualified, currentDoc)
		out = append(out, model.TypeNameCandidate{Decl: d, RecentlyUsed: recent})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.RecentlyUsed != b.RecentlyUsed {
			return a.RecentlyUsed
		}
		if a.Decl.Qualified != b.Decl.Qualified {
			return a.Decl.Qualified < b.Decl.Qualified
		}
		if a.Decl.File != b.Decl.File {
			return a.Decl.File < b.Decl.File
		}
		return a.Decl.Line < b.Decl.Line
	})
	return out
}

// underNamespace reports whether ns is root itself or nested below it.
// The empty root is the global namespace and contains everything.
func underNamespace(ns, root, sep string) bool {
	if root == "" {
		return true
	}
	return ns == root || strings.HasPrefix(ns, root+sep)
}
