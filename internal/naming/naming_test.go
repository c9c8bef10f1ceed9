package naming

import (
	"testing"

	"github.com/mwhitby/statmv/internal/lang"
	"github.com/mwhitby/statmv/internal/model"
)

func candidateSet(names ...string) []model.TypeNameCandidate {
	out := make([]model.TypeNameCandidate, len(names))
	for i, n := range names {
		out[i] = model.TypeNameCandidate{Decl: model.TypeDecl{Name: n, Qualified: n}}
	}
	return out
}

func TestDefaultTypeName(t *testing.T) {
	t.Parallel()

	got := DefaultTypeName("Foo", candidateSet("Bar", "Baz"))
	if got != "FooHelpers" {
		t.Errorf("DefaultTypeName = %q, want FooHelpers", got)
	}
}

func TestDefaultTypeNameCollision(t *testing.T) {
	t.Parallel()

	got := DefaultTypeName("Foo", candidateSet("FooHelpers"))
	if got != "FooHelpers2" {
		t.Errorf("DefaultTypeName = %q, want FooHelpers2", got)
	}

	got = DefaultTypeName("Foo", candidateSet("FooHelpers", "FooHelpers2", "FooHelpers3"))
	if got != "FooHelpers4" {
		t.Errorf("DefaultTypeName = %q, want FooHelpers4", got)
	}
}

func TestDefaultTypeNameDeterministic(t *testing.T) {
	t.Parallel()

	cands := candidateSet("FooHelpers", "Other")
	first := DefaultTypeName("Foo", cands)
	second := DefaultTypeName("Foo", cands)
	if first != second {
		t.Errorf("got %q then %q for the same input", first, second)
	}
}

func TestDefaultTypeNameEmptyCandidates(t *testing.T) {
	t.Parallel()

	if got := DefaultTypeName("Config", nil); got != "ConfigHelpers" {
		t.Errorf("DefaultTypeName = %q, want ConfigHelpers", got)
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()

	py := lang.Languages["python"]
	rb := lang.Languages["ruby"]

	cases := []struct {
		name string
		l    *lang.Language
		want string
	}{
		{"FooHelpers", py, "FooHelpers.py"},
		{"pkg.util.FooHelpers", py, "FooHelpers.py"},
		{"FooHelpers", rb, "FooHelpers.rb"},
		{"Billing::Invoice::Helpers", rb, "Helpers.rb"},
	}
	for _, tc := range cases {
		if got := FileName(tc.name, tc.l); got != tc.want {
			t.Errorf("FileName(%q, %s) = %q, want %q", tc.name, tc.l.Name, got, tc.want)
		}
	}
}
