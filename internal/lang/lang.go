// Package lang provides a language registry mapping file extensions to
// tree-sitter languages, their embedded query files, and the hooks the
// planner needs to reason about types and members.
package lang

import (
	"embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/mwhitby/statmv/internal/model"
)

//go:embed queries/*.scm
var queryFS embed.FS

var whitespaceRe = regexp.MustCompile(`\s+`)

// MemberInfo classifies a member definition node.
type MemberInfo struct {
	Kind   model.SymbolKind
	Static bool
	Access model.Accessibility
}

// Language holds tree-sitter configuration for a supported language.
type Language struct {
	Name       string
	Extensions []string

	// NamespaceSep joins namespace segments in qualified names
	// ("." for Python, "::" for Ruby).
	NamespaceSep string

	lang      *sitter.Language
	queryOnce sync.Once
	query     *sitter.Query
	queryErr  error

	// PathNamespace converts a repo-relative file path into the namespace
	// contributed by the file's location, e.g. "pkg/util/helpers.py" to
	// "pkg.util". Nil for languages whose namespaces are purely lexical.
	PathNamespace func(relPath string) string

	// TypeChain returns the names of the type declarations lexically
	// enclosing node, outermost first, joined with NamespaceSep. ok is
	// false when node sits inside a function or method body, where
	// declarations are not namespace-addressable.
	TypeChain func(node *sitter.Node, source []byte) (chain string, ok bool)

	// FindEnclosingMember returns the member definition whose body
	// contains node, as the lexical chain of its declaring type plus the
	// member name. Both empty for top-level code.
	FindEnclosingMember func(node *sitter.Node, source []byte) (chain, member string)

	// ClassifyMember reports kind, staticness, and accessibility for a
	// member definition node captured by the tag query.
	ClassifyMember func(node *sitter.Node, source []byte) MemberInfo

	// ValidMember reports whether a member of the given name may be
	// offered for moving. Filters language infrastructure such as Python
	// dunders and Ruby's initialize.
	ValidMember func(name string) bool

	// CleanName normalizes a captured name (Ruby symbols carry a leading
	// colon). Nil when no normalization is needed.
	CleanName func(name string) string

	// ExtractSignature returns a signature string for a definition node.
	ExtractSignature func(node *sitter.Node, kind model.SymbolKind, source []byte) string
}

// GetLanguage returns the tree-sitter Language pointer.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// GetTagQuery returns the compiled tree-sitter query (safe to share across goroutines).
func (l *Language) GetTagQuery() (*sitter.Query, error) {
	l.queryOnce.Do(func() {
		data, err := queryFS.ReadFile(fmt.Sprintf("queries/%s.scm", l.Name))
		if err != nil {
			l.queryErr = fmt.Errorf("reading query file: %w", err)
			return
		}
		q, err := sitter.NewQuery(data, l.lang)
		if err != nil {
			l.queryErr = fmt.Errorf("compiling query: %w", err)
			return
		}
		l.query = q
	})
	return l.query, l.queryErr
}

// JoinNamespace joins non-empty namespace segments with the language
// separator.
func (l *Language) JoinNamespace(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, l.NamespaceSep)
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the language name for a file extension, or "" if unsupported.
func ForExtension(ext string) string {
	return getExtensionMap()[ext]
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// CollapseWhitespace replaces runs of whitespace with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
