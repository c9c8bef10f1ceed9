// Package model defines core data structures for statmv.
package model

// TagKind indicates whether a tag is a definition or a reference.
type TagKind string

const (
	Definition TagKind = "def"
	Reference  TagKind = "ref"
)

// SymbolKind indicates the syntactic kind of a symbol.
type SymbolKind string

const (
	Class    SymbolKind = "class"
	Module   SymbolKind = "module"
	Function SymbolKind = "function"
	Method   SymbolKind = "method"
	Field    SymbolKind = "field"
	Constant SymbolKind = "constant"
)

// Accessibility is the declared or conventional visibility of a member.
type Accessibility string

const (
	Public    Accessibility = "public"
	Protected Accessibility = "protected"
	Private   Accessibility = "private"
)

// Tag represents a single symbol occurrence extracted from source code.
type Tag struct {
	Name       string
	Kind       TagKind
	SymbolKind SymbolKind
	Line       int
	File       string
	Signature  string

	// Namespace is the lexical namespace chain enclosing a type
	// declaration, empty at the root.
	Namespace string

	// EnclosingType is the qualified name of the type declaration whose
	// body contains this tag, empty for top-level tags.
	EnclosingType string

	// Enclosing names the member whose body contains this tag. Set on
	// reference tags when attribution succeeds.
	Enclosing string

	// Static marks member definitions owned by the type itself rather
	// than by its instances.
	Static bool

	// Access is the member's visibility. Only meaningful on member
	// definitions.
	Access Accessibility
}

// FileInfo holds metadata and extracted tags for a single source file.
type FileInfo struct {
	Path     string
	Language string
	Tags     []Tag
}

// Member is a single member of a type as seen by the planner. Members of
// types declared across several files are merged into one Member per name,
// located at the first declaration in (file, line) order.
type Member struct {
	Name      string
	Kind      SymbolKind
	Static    bool
	Access    Accessibility
	File      string
	Line      int
	Signature string
}

// Glyph identifies the pictogram shown next to a member in pickers.
type Glyph string

const (
	GlyphMethod          Glyph = "method"
	GlyphMethodPrivate   Glyph = "method-private"
	GlyphMethodProtected Glyph = "method-protected"
	GlyphField           Glyph = "field"
	GlyphFieldPrivate    Glyph = "field-private"
	GlyphFieldProtected  Glyph = "field-protected"
	GlyphConstant        Glyph = "constant"
)

// MemberSelection is one row of the member picker: a member, its initial
// checked state, and its display glyph.
type MemberSelection struct {
	Member  Member
	Checked bool
	Glyph   Glyph
}

// DependencyMap records, per member name, the names of eligible members
// referenced from that member's body. The map is advisory: nothing
// downstream enforces selection closure over it.
type DependencyMap map[string][]string

// TypeDecl is one type declaration location: a (type, file) pair. A type
// reopened in several files produces one TypeDecl per file.
type TypeDecl struct {
	Name      string
	Namespace string
	Qualified string
	Kind      SymbolKind
	File      string
	Line      int
}

// TypeNameCandidate is one destination choice offered to the user.
type TypeNameCandidate struct {
	Decl         TypeDecl
	RecentlyUsed bool
}

// Plan is the product of a planning session. A cancelled session yields a
// plan with Cancelled set; an affirmed session with nothing to move yields
// an empty plan with Cancelled clear. The two are never conflated.
type Plan struct {
	Language        string
	SourceType      string
	SourceDocument  string
	Destination     string
	DestinationFile string
	CreateNew       bool
	Members         []Member
	Cancelled       bool
}
