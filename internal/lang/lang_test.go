package lang

import (
	"testing"

	"github.com/mwhitby/statmv/internal/model"
)

func TestForExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext  string
		want string
	}{
		{".py", "python"},
		{".rb", "ruby"},
		{".go", ""},
		{".js", ""},
		{"", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.ext, func(t *testing.T) {
			t.Parallel()
			got := ForExtension(tt.ext)
			if got != tt.want {
				t.Errorf("ForExtension(%q) = %q, want %q", tt.ext, got, tt.want)
			}
		})
	}
}

func TestLanguagesRegistered(t *testing.T) {
	t.Parallel()

	py, ok := Languages["python"]
	if !ok {
		t.Fatal("python language not registered")
	}
	if py.GetLanguage() == nil {
		t.Error("python language is nil")
	}
	if py.NamespaceSep != "." {
		t.Errorf("python separator = %q, want .", py.NamespaceSep)
	}

	rb, ok := Languages["ruby"]
	if !ok {
		t.Fatal("ruby language not registered")
	}
	if rb.GetLanguage() == nil {
		t.Error("ruby language is nil")
	}
	if rb.NamespaceSep != "::" {
		t.Errorf("ruby separator = %q, want ::", rb.NamespaceSep)
	}
}

func TestNewParser(t *testing.T) {
	t.Parallel()

	py := Languages["python"]
	p := py.NewParser()
	if p == nil {
		t.Fatal("NewParser returned nil")
	}
}

func TestGetTagQuery(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"python", "ruby"} {
		name := name
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			l := Languages[name]
			q, err := l.GetTagQuery()
			if err != nil {
				t.Fatalf("GetTagQuery: %v", err)
			}
			if q == nil {
				t.Fatal("query is nil")
			}
		})
	}
}

func TestJoinNamespace(t *testing.T) {
	t.Parallel()

	rb := Languages["ruby"]
	if got := rb.JoinNamespace("", "Outer", "Inner"); got != "Outer::Inner" {
		t.Errorf("JoinNamespace = %q, want Outer::Inner", got)
	}
	if got := rb.JoinNamespace("", ""); got != "" {
		t.Errorf("JoinNamespace of empties = %q, want empty", got)
	}

	py := Languages["python"]
	if got := py.JoinNamespace("pkg.util", "Outer"); got != "pkg.util.Outer" {
		t.Errorf("JoinNamespace = %q, want pkg.util.Outer", got)
	}
}

func TestPythonPathNamespace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"helpers.py", ""},
		{"pkg/util.py", "pkg"},
		{"pkg/util/helpers.py", "pkg.util"},
		{"pkg/__init__.py", "pkg"},
	}

	for _, tt := range tests {
		if got := pythonPathNamespace(tt.path); got != tt.want {
			t.Errorf("pythonPathNamespace(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestPythonAccess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want model.Accessibility
	}{
		{"helper", model.Public},
		{"_cached", model.Protected},
		{"__secret", model.Private},
		{"__init__", model.Public},
	}

	for _, tt := range tests {
		if got := pythonAccess(tt.name); got != tt.want {
			t.Errorf("pythonAccess(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestPythonIsConstantName(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]bool{
		"LIMIT":      true,
		"MAX_VALUE2": true,
		"Limit":      false,
		"limit":      false,
		"_":          false,
	} {
		if got := pythonIsConstantName(name); got != want {
			t.Errorf("pythonIsConstantName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestValidMemberOracles(t *testing.T) {
	t.Parallel()

	py := Languages["python"]
	if py.ValidMember("__init__") {
		t.Error("python oracle accepted __init__")
	}
	if !py.ValidMember("helper") {
		t.Error("python oracle rejected helper")
	}

	rb := Languages["ruby"]
	if rb.ValidMember("initialize") {
		t.Error("ruby oracle accepted initialize")
	}
	if !rb.ValidMember("helper") {
		t.Error("ruby oracle rejected helper")
	}
}

func TestRubyCleanName(t *testing.T) {
	t.Parallel()

	if got := rubyCleanName(":name"); got != "name" {
		t.Errorf("rubyCleanName(:name) = %q", got)
	}
	if got := rubyCleanName("plain"); got != "plain" {
		t.Errorf("rubyCleanName(plain) = %q", got)
	}
}
