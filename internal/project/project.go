// Package project loads a repository snapshot: every parseable file's
// tags, indexed by type for planning.
package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/sync/errgroup"

	"github.com/mwhitby/statmv/internal/discover"
	"github.com/mwhitby/statmv/internal/lang"
	"github.com/mwhitby/statmv/internal/model"
	"github.com/mwhitby/statmv/internal/parse"
)

var (
	ErrUnknownLanguage = errors.New("unknown language")
	ErrNoSources       = errors.New("no source files found")
)

// Options adjusts snapshot loading.
type Options struct {
	// MaxFileSize skips files larger than this many bytes when > 0.
	MaxFileSize int64
	// Warnings receives per-file skip and read notices; nil discards them.
	Warnings io.Writer
}

// Snapshot is a parsed view of one repository in one language. Files are
// ordered by path; the type and member indexes are built once at load
// time and are read-only afterwards.
type Snapshot struct {
	Root     string
	Language *lang.Language
	Files    []model.FileInfo

	types   []model.TypeDecl
	members map[string][]model.Member
	refs    map[string][]model.Tag
}

// Load discovers, parses, and indexes every langName source file under
// root. It returns ErrUnknownLanguage for an unregistered language and
// ErrNoSources when discovery finds nothing.
func Load(ctx context.Context, root, langName string, opts Options) (*Snapshot, error) {
	l := lang.Languages[langName]
	if l == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, langName)
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", root)
	}

	entries, err := discover.FilesWithOptions(root, []string{langName}, discover.Options{
		MaxFileSize: opts.MaxFileSize,
		Warnings:    opts.Warnings,
	})
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoSources, root)
	}

	query, err := l.GetTagQuery()
	if err != nil {
		return nil, fmt.Errorf("compiling %s tag query: %w", langName, err)
	}

	files, err := parseAll(ctx, root, l, query, entries, opts.Warnings)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Root: root, Language: l, Files: files}
	snap.index()
	return snap, nil
}

// parseAll parses entries concurrently, preserving entry order in the
// result. Files that cannot be read are reported and dropped.
func parseAll(ctx context.Context, root string, l *lang.Language, query *sitter.Query, entries []discover.FileEntry, warnings io.Writer) ([]model.FileInfo, error) {
	infos := make([]model.FileInfo, len(entries))
	parsed := make([]bool, len(entries))

	var warnMu sync.Mutex
	warn := func(format string, args ...any) {
		if warnings == nil {
			return
		}
		warnMu.Lock()
		defer warnMu.Unlock()
		_, _ = fmt.Fprintf(warnings, format, args...)
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(entries) {
		workers = len(entries)
	}

	work := make(chan int)
	g, ctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			// Parsers are not safe for concurrent use; one per worker.
			parser := l.NewParser()
			for idx := range work {
				if err := ctx.Err(); err != nil {
					return err
				}
				entry := entries[idx]
				source, err := os.ReadFile(filepath.Join(root, entry.Path))
				if err != nil {
					warn("Warning: failed to read %s: %v\n", entry.Path, err)
					continue
				}
				infos[idx] = model.FileInfo{
					Path:     entry.Path,
					Language: entry.Language,
					Tags:     parse.ExtractTags(l, parser, query, source, entry.Path),
				}
				parsed[idx] = true
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(work)
		for i := range entries {
			select {
			case work <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parsing files: %w", err)
	}

	var files []model.FileInfo
	for i, ok := range parsed {
		if ok {
			files = append(files, infos[i])
		}
	}
	return files, nil
}

type typeKey struct {
	qualified string
	file      string
}

// index builds the type, member, and reference indexes from the parsed
// files. Files are visited in path order and tags in source order, so a
// type reopened in several files lists each member at its first
// declaration.
func (s *Snapshot) index() {
	s.members = make(map[string][]model.Member)
	s.refs = make(map[string][]model.Tag)

	typeSeen := make(map[typeKey]struct{})
	memberSeen := make(map[string]map[string]struct{})

	for _, f := range s.Files {
		for _, tag := range f.Tags {
			switch {
			case tag.Kind == model.Definition && (tag.SymbolKind == model.Class || tag.SymbolKind == model.Module):
				q := s.Language.JoinNamespace(tag.Namespace, tag.Name)
				key := typeKey{q, tag.File}
				if _, dup := typeSeen[key]; dup {
					continue
				}
				typeSeen[key] = struct{}{}
				s.types = append(s.types, model.TypeDecl{
					Name:      tag.Name,
					Namespace: tag.Namespace,
					Qualified: q,
					Kind:      tag.SymbolKind,
					File:      tag.File,
					Line:      tag.Line,
				})

			case tag.Kind == model.Definition && tag.EnclosingType != "":
				seen := memberSeen[tag.EnclosingType]
				if seen == nil {
					seen = make(map[string]struct{})
					memberSeen[tag.EnclosingType] = seen
				}
				if _, dup := seen[tag.Name]; dup {
					continue
				}
				seen[tag.Name] = struct{}{}
				s.members[tag.EnclosingType] = append(s.members[tag.EnclosingType], model.Member{
					Name:      tag.Name,
					Kind:      tag.SymbolKind,
					Static:    tag.Static,
					Access:    tag.Access,
					File:      tag.File,
					Line:      tag.Line,
					Signature: tag.Signature,
				})

			case tag.Kind == model.Reference && tag.EnclosingType != "" && tag.Enclosing != "":
				s.refs[tag.EnclosingType] = append(s.refs[tag.EnclosingType], tag)
			}
		}
	}

	sort.Slice(s.types, func(i, j int) bool {
		a, b := s.types[i], s.types[j]
		if a.Qualified != b.Qualified {
			return a.Qualified < b.Qualified
		}
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})
}

// Types returns every type declaration in the snapshot, one entry per
// (type, file) pair, sorted by qualified name then file.
func (s *Snapshot) Types() []model.TypeDecl {
	return s.types
}

// Members returns the members of the named type in declaration order.
// A type declared across several files contributes one Member per name,
// located at its first declaration.
func (s *Snapshot) Members(qualified string) []model.Member {
	return s.members[qualified]
}

// TypeRefs returns the reference tags attributed to members of the named
// type.
func (s *Snapshot) TypeRefs(qualified string) []model.Tag {
	return s.refs[qualified]
}

// ResolveType finds the declaration of name, which may be qualified or
// bare. When the type is declared in several files, the declaration in
// doc wins; otherwise the first in (qualified, file) order is returned.
func (s *Snapshot) ResolveType(doc, name string) (model.TypeDecl, bool) {
	var matches []model.TypeDecl
	for _, d := range s.types {
		if d.Qualified == name {
			matches = append(matches, d)
		}
	}
	if len(matches) == 0 {
		for _, d := range s.types {
			if d.Name == name {
				matches = append(matches, d)
			}
		}
	}
	if len(matches) == 0 {
		return model.TypeDecl{}, false
	}
	for _, d := range matches {
		if d.File == doc {
			return d, true
		}
	}
	return matches[0], true
}
