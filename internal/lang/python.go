package lang

import (
	"path"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/mwhitby/statmv/internal/model"
)

func init() {
	Languages["python"] = &Language{
		Name:                "python",
		Extensions:          []string{".py"},
		NamespaceSep:        ".",
		lang:                python.GetLanguage(),
		PathNamespace:       pythonPathNamespace,
		TypeChain:           pythonTypeChain,
		FindEnclosingMember: pythonFindEnclosingMember,
		ClassifyMember:      pythonClassifyMember,
		ValidMember:         pythonValidMember,
		ExtractSignature:    pythonExtractSignature,
	}
}

// pythonPathNamespace maps a file's directory to its package path:
// "pkg/util/helpers.py" becomes "pkg.util". Files at the root get "".
func pythonPathNamespace(relPath string) string {
	dir := path.Dir(filepath.ToSlash(relPath))
	if dir == "." || dir == "/" {
		return ""
	}
	return strings.ReplaceAll(dir, "/", ".")
}

// pythonTypeChain collects the names of class_definition ancestors of node,
// outermost first. ok is false inside function bodies: a class declared in
// a function is local and not addressable by a stable qualified name.
func pythonTypeChain(node *sitter.Node, source []byte) (string, bool) {
	var names []string
	current := node.Parent()
	for current != nil {
		switch current.Type() {
		case "class_definition":
			if name := pythonDefName(current, source); name != "" {
				names = append([]string{name}, names...)
			}
		case "function_definition":
			return "", false
		}
		current = current.Parent()
	}
	return strings.Join(names, "."), true
}

// pythonFindEnclosingMember attributes node to the member whose body holds
// it. Nested defs attribute to the outermost function under the class, so
// closure bodies count toward the member that owns them. References inside
// a class-level initializer belong to the field being assigned.
func pythonFindEnclosingMember(node *sitter.Node, source []byte) (string, string) {
	var memberNode *sitter.Node
	var assign *sitter.Node
	current := node.Parent()
	for current != nil {
		switch current.Type() {
		case "assignment":
			assign = current
		case "function_definition":
			memberNode = current
		case "decorated_definition":
			// A reference in a decorator belongs to the decorated member.
			if memberNode == nil {
				if fn := pythonDecoratedFunction(current); fn != nil {
					memberNode = fn
				}
			}
		case "class_definition":
			if memberNode != nil {
				chain, ok := pythonTypeChain(memberNode, source)
				if !ok {
					return "", ""
				}
				return chain, pythonDefName(memberNode, source)
			}
			if assign != nil {
				chain, ok := pythonTypeChain(assign, source)
				if !ok {
					return "", ""
				}
				return chain, pythonAssignName(assign, source)
			}
			return "", ""
		}
		current = current.Parent()
	}
	if memberNode != nil {
		return "", pythonDefName(memberNode, source)
	}
	return "", ""
}

func pythonClassifyMember(node *sitter.Node, source []byte) MemberInfo {
	if node.Type() == "assignment" {
		name := pythonAssignName(node, source)
		kind := model.Field
		if pythonIsConstantName(name) {
			kind = model.Constant
		}
		return MemberInfo{Kind: kind, Static: true, Access: pythonAccess(name)}
	}

	name := pythonDefName(node, source)
	static := pythonHasDecorator(node, "staticmethod", source) || pythonHasDecorator(node, "classmethod", source)
	return MemberInfo{Kind: model.Method, Static: static, Access: pythonAccess(name)}
}

// pythonValidMember rejects dunder members: __init__ and friends are
// interpreter protocol, not movable helpers.
func pythonValidMember(name string) bool {
	return !pythonIsDunder(name)
}

func pythonIsDunder(name string) bool {
	return len(name) > 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

// pythonAccess applies the underscore convention: __name is private
// (name-mangled), _name is protected, dunders are public protocol.
func pythonAccess(name string) model.Accessibility {
	switch {
	case pythonIsDunder(name):
		return model.Public
	case strings.HasPrefix(name, "__"):
		return model.Private
	case strings.HasPrefix(name, "_"):
		return model.Protected
	default:
		return model.Public
	}
}

func pythonIsConstantName(name string) bool {
	hasLetter := false
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		case r == '_' || (r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return hasLetter
}

// pythonHasDecorator reports whether a function_definition is wrapped in a
// decorated_definition carrying @want.
func pythonHasDecorator(funcNode *sitter.Node, want string, source []byte) bool {
	parent := funcNode.Parent()
	if parent == nil || parent.Type() != "decorated_definition" {
		return false
	}
	for i := 0; i < int(parent.ChildCount()); i++ {
		child := parent.Child(i)
		if child.Type() != "decorator" {
			continue
		}
		text := strings.TrimPrefix(NodeText(child, source), "@")
		if text == want {
			return true
		}
	}
	return false
}

func pythonDecoratedFunction(decorated *sitter.Node) *sitter.Node {
	for i := 0; i < int(decorated.ChildCount()); i++ {
		child := decorated.Child(i)
		if child.Type() == "function_definition" {
			return child
		}
	}
	return nil
}

// pythonDefName returns the name identifier of a class or function
// definition node.
func pythonDefName(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "identifier" {
			return NodeText(child, source)
		}
	}
	return ""
}

// pythonAssignName returns the target identifier of an assignment node.
func pythonAssignName(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "identifier" {
			return NodeText(child, source)
		}
	}
	return ""
}

func pythonExtractSignature(defNode *sitter.Node, kind model.SymbolKind, source []byte) string {
	switch kind {
	case model.Class:
		return pythonExtractClassSignature(defNode, source)
	case model.Field, model.Constant:
		return pythonExtractFieldSignature(defNode, source)
	default:
		return pythonExtractFunctionSignature(defNode, source)
	}
}

func pythonExtractClassSignature(node *sitter.Node, source []byte) string {
	var name, args string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier":
			name = NodeText(child, source)
		case "argument_list":
			args = NodeText(child, source)
		}
	}
	if args != "" {
		return name + args
	}
	return name
}

// pythonExtractFieldSignature extracts a signature for a class attribute.
// Annotated assignments (x: Type = val) are represented as an assignment
// node with a "type" child. Returns "name: type" when an annotation is
// present, otherwise just the name.
func pythonExtractFieldSignature(node *sitter.Node, source []byte) string {
	if node.Type() == "assignment" {
		var name, annotation string
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			switch child.Type() {
			case "identifier":
				if name == "" {
					name = NodeText(child, source)
				}
			case "type":
				annotation = NodeText(child, source)
			}
		}
		if name != "" && annotation != "" {
			return name + ": " + annotation
		}
		if name != "" {
			return name
		}
	}
	return CollapseWhitespace(NodeText(node, source))
}

func pythonExtractFunctionSignature(node *sitter.Node, source []byte) string {
	var name, params, returnType string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier":
			name = NodeText(child, source)
		case "parameters":
			params = CollapseWhitespace(NodeText(child, source))
		case "type":
			returnType = NodeText(child, source)
		}
	}
	sig := name + params
	if returnType != "" {
		sig += " -> " + returnType
	}
	return sig
}
