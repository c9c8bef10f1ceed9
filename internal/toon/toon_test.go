package toon

import (
	"strings"
	"testing"

	"github.com/mwhitby/statmv/internal/model"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `""`},
		{"simple", "hello", "hello"},
		{"leading space", " hello", `" hello"`},
		{"trailing space", "hello ", `"hello "`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"true keyword", "true", `"true"`},
		{"false keyword", "false", `"false"`},
		{"null keyword", "null", `"null"`},
		{"integer", "42", "42"},
		{"negative integer", "-1", "-1"},
		{"comma", "a,b", `"a,b"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"dash prefix", "-foo", `"-foo"`},
		{"path", "src/util.py", "src/util.py"},
		{"dotted name", "pkg.util.Fmt", "pkg.util.Fmt"},
		{"ruby qualified", "Billing::Invoice", `"Billing::Invoice"`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := encodeValue(tt.in)
			if got != tt.want {
				t.Errorf("encodeValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncodeReport(t *testing.T) {
	t.Parallel()

	r := &Report{
		Root:     "demo",
		Language: "python",
		Type:     "Foo",
		Document: "foo.py",
		Selections: []model.MemberSelection{
			{
				Member:  model.Member{Name: "bar", Kind: model.Method, Static: true, Access: model.Public, Line: 3},
				Checked: true,
			},
			{
				Member: model.Member{Name: "baz", Kind: model.Method, Static: true, Access: model.Private, Line: 7},
			},
		},
		Deps: model.DependencyMap{
			"bar": {"baz"},
			"baz": nil,
		},
		Candidates: []model.TypeNameCandidate{
			{
				Decl:         model.TypeDecl{Name: "Other", Qualified: "Other", File: "other.py", Line: 1},
				RecentlyUsed: true,
			},
		},
		Plan: &model.Plan{
			Destination:     "FooHelpers",
			DestinationFile: "FooHelpers.py",
			CreateNew:       true,
			Members: []model.Member{
				{Name: "bar", Kind: model.Method, Line: 3},
			},
		},
	}

	got := Encode(r)
	lines := strings.Split(got, "\n")

	want := []string{
		"root: demo",
		"language: python",
		"type: Foo",
		"document: foo.py",
		"members[2]{name,kind,static,access,line,checked}:",
		"  bar,method,yes,public,3,yes",
		"  baz,method,yes,private,7,no",
		"dependencies[1]{member,uses}:",
		"  bar,baz",
		"candidates[1]{type,file,line,recent}:",
		"  Other,other.py,1,yes",
		"plan:",
		"  destination: FooHelpers",
		"  file: FooHelpers.py",
		"  create_new: yes",
		"  cancelled: no",
		"moved[1]{name,kind,line}:",
		"  bar,method,3",
	}

	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), got)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestEncodeOmitsNilSections(t *testing.T) {
	t.Parallel()

	r := &Report{
		Root:     "demo",
		Language: "ruby",
		Type:     "Billing::Invoice",
		Document: "invoice.rb",
		Candidates: []model.TypeNameCandidate{
			{Decl: model.TypeDecl{Name: "Ledger", Qualified: "Billing::Ledger", File: "ledger.rb", Line: 2}},
		},
	}

	got := Encode(r)
	if strings.Contains(got, "members[") {
		t.Errorf("nil selections should be omitted:\n%s", got)
	}
	if strings.Contains(got, "dependencies[") {
		t.Errorf("nil deps should be omitted:\n%s", got)
	}
	if strings.Contains(got, "plan:") {
		t.Errorf("nil plan should be omitted:\n%s", got)
	}
	if !strings.Contains(got, "candidates[1]{type,file,line,recent}:") {
		t.Errorf("candidates section missing:\n%s", got)
	}
	if !strings.Contains(got, `  "Billing::Ledger",ledger.rb,2,no`) {
		t.Errorf("ruby qualified name should be quoted:\n%s", got)
	}
}

func TestEncodeEmptySections(t *testing.T) {
	t.Parallel()

	r := &Report{
		Root:       "demo",
		Language:   "python",
		Type:       "Quiet",
		Document:   "quiet.py",
		Selections: []model.MemberSelection{},
	}

	got := Encode(r)
	if !strings.Contains(got, "members[0]{name,kind,static,access,line,checked}:") {
		t.Errorf("computed-but-empty section should be emitted:\n%s", got)
	}
}

func TestEncodeCancelledPlan(t *testing.T) {
	t.Parallel()

	r := &Report{
		Root:     "demo",
		Language: "python",
		Type:     "Foo",
		Document: "foo.py",
		Plan:     &model.Plan{Cancelled: true},
	}

	got := Encode(r)
	if !strings.Contains(got, "  cancelled: yes") {
		t.Errorf("cancelled flag missing:\n%s", got)
	}
	if !strings.Contains(got, `  destination: ""`) {
		t.Errorf("empty destination should be explicit:\n%s", got)
	}
	if !strings.Contains(got, "moved[0]{name,kind,line}:") {
		t.Errorf("empty moved section missing:\n%s", got)
	}
}
