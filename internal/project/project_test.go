package project

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadUnknownLanguage(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), t.TempDir(), "cobol", Options{})
	if !errors.Is(err, ErrUnknownLanguage) {
		t.Fatalf("err = %v, want ErrUnknownLanguage", err)
	}
}

func TestLoadNoSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "readme.txt", "nothing to parse")

	_, err := Load(context.Background(), dir, "python", Options{})
	if !errors.Is(err, ErrNoSources) {
		t.Fatalf("err = %v, want ErrNoSources", err)
	}
}

func TestLoadCancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.py", "class A:\n    pass\n")
	writeFile(t, dir, "b.py", "class B:\n    pass\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, dir, "python", Options{})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLoadIndexesTypes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "app.py", "class App:\n    pass\n")
	writeFile(t, dir, "pkg/util/fmt.py", "class Fmt:\n    pass\n")

	snap, err := Load(context.Background(), dir, "python", Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	types := snap.Types()
	if len(types) != 2 {
		t.Fatalf("expected 2 types, got %d: %+v", len(types), types)
	}
	if types[0].Qualified != "App" {
		t.Errorf("types[0] = %q, want App", types[0].Qualified)
	}
	if types[1].Qualified != "pkg.util.Fmt" {
		t.Errorf("types[1] = %q, want pkg.util.Fmt", types[1].Qualified)
	}
	if types[1].Namespace != "pkg.util" {
		t.Errorf("namespace = %q, want pkg.util", types[1].Namespace)
	}
}

func TestSnapshotMembersMergedAcrossFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.py", `class Svc:
    @staticmethod
    def one():
        pass
`)
	writeFile(t, dir, "b.py", `class Svc:
    @staticmethod
    def two():
        pass

    @staticmethod
    def one():
        pass
`)

	snap, err := Load(context.Background(), dir, "python", Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	types := snap.Types()
	if len(types) != 2 {
		t.Fatalf("expected one decl per file, got %d: %+v", len(types), types)
	}

	members := snap.Members("Svc")
	if len(members) != 2 {
		t.Fatalf("expected merged members one,two, got %+v", members)
	}
	if members[0].Name != "one" || members[0].File != "a.py" {
		t.Errorf("members[0] = %+v, want one from a.py", members[0])
	}
	if members[1].Name != "two" || members[1].File != "b.py" {
		t.Errorf("members[1] = %+v, want two from b.py", members[1])
	}
}

func TestSnapshotResolveType(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.py", "class Svc:\n    pass\n")
	writeFile(t, dir, "b.py", "class Svc:\n    pass\n")
	writeFile(t, dir, "pkg/svc.py", "class Svc:\n    pass\n")

	snap, err := Load(context.Background(), dir, "python", Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Bare name prefers the declaration in the requesting document.
	d, ok := snap.ResolveType("b.py", "Svc")
	if !ok || d.File != "b.py" {
		t.Errorf("ResolveType(b.py, Svc) = %+v, %v", d, ok)
	}

	// Qualified name narrows to one namespace.
	d, ok = snap.ResolveType("pkg/svc.py", "pkg.Svc")
	if !ok || d.Qualified != "pkg.Svc" {
		t.Errorf("ResolveType(pkg.Svc) = %+v, %v", d, ok)
	}

	// A document without a declaration falls back to the first match.
	d, ok = snap.ResolveType("other.py", "Svc")
	if !ok || d.File != "a.py" {
		t.Errorf("ResolveType(other.py, Svc) = %+v, %v", d, ok)
	}

	if _, ok := snap.ResolveType("a.py", "Missing"); ok {
		t.Error("resolved a type that does not exist")
	}
}

func TestSnapshotTypeRefs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "util.py", `class Util:
    @staticmethod
    def entry(value):
        return Util.helper(value)

    @staticmethod
    def helper(value):
        return value
`)

	snap, err := Load(context.Background(), dir, "python", Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	refs := snap.TypeRefs("Util")
	var found bool
	for _, r := range refs {
		if r.Name == "helper" && r.Enclosing == "entry" {
			found = true
		}
	}
	if !found {
		t.Errorf("no helper ref attributed to entry: %+v", refs)
	}

	if refs := snap.TypeRefs("Missing"); len(refs) != 0 {
		t.Errorf("expected no refs for unknown type, got %+v", refs)
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
