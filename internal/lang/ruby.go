package lang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"

	"github.com/mwhitby/statmv/internal/model"
)

func init() {
	Languages["ruby"] = &Language{
		Name:                "ruby",
		Extensions:          []string{".rb"},
		NamespaceSep:        "::",
		lang:                ruby.GetLanguage(),
		TypeChain:           rubyTypeChain,
		FindEnclosingMember: rubyFindEnclosingMember,
		ClassifyMember:      rubyClassifyMember,
		ValidMember:         rubyValidMember,
		CleanName:           rubyCleanName,
		ExtractSignature:    rubyExtractSignature,
	}
}

// rubyTypeChain collects the names of class and module ancestors of node,
// outermost first, joined with "::". A `class << self` block contributes
// no name; its members belong to the enclosing class. ok is false inside
// method bodies, where declarations are not namespace-addressable.
func rubyTypeChain(node *sitter.Node, source []byte) (string, bool) {
	var names []string
	current := node.Parent()
	for current != nil {
		switch current.Type() {
		case "class", "module":
			if name := rubyClassName(current, source); name != "" {
				names = append([]string{name}, names...)
			}
		case "method", "singleton_method":
			return "", false
		}
		current = current.Parent()
	}
	return strings.Join(names, "::"), true
}

// rubyFindEnclosingMember attributes node to the member whose body holds
// it. Nested defs attribute to the outermost def under the class, so block
// and closure bodies count toward the member that owns them. References in
// a constant or class-variable initializer belong to the member being
// assigned.
func rubyFindEnclosingMember(node *sitter.Node, source []byte) (string, string) {
	var memberNode *sitter.Node
	var assign *sitter.Node
	current := node.Parent()
	for current != nil {
		switch current.Type() {
		case "assignment":
			assign = current
		case "method", "singleton_method":
			memberNode = current
		case "class", "module":
			if memberNode != nil {
				chain, ok := rubyTypeChain(memberNode, source)
				if !ok {
					return "", ""
				}
				return chain, rubyMethodName(memberNode, source)
			}
			if assign != nil {
				chain, ok := rubyTypeChain(assign, source)
				if !ok {
					return "", ""
				}
				return chain, rubyAssignTarget(assign, source)
			}
			return "", ""
		}
		current = current.Parent()
	}
	if memberNode != nil {
		return "", rubyMethodName(memberNode, source)
	}
	return "", ""
}

func rubyClassifyMember(node *sitter.Node, source []byte) MemberInfo {
	switch node.Type() {
	case "singleton_method":
		return MemberInfo{Kind: model.Method, Static: true, Access: model.Public}
	case "method":
		return MemberInfo{
			Kind:   model.Method,
			Static: rubyInSingletonClass(node),
			Access: rubyMarkerAccess(node, source),
		}
	case "assignment":
		left := node.ChildByFieldName("left")
		if left != nil && left.Type() == "class_variable" {
			return MemberInfo{Kind: model.Field, Static: true, Access: model.Private}
		}
		return MemberInfo{Kind: model.Constant, Static: true, Access: model.Public}
	default:
		// attr_accessor and friends declare instance fields.
		return MemberInfo{Kind: model.Field, Static: false, Access: rubyMarkerAccess(node, source)}
	}
}

// rubyValidMember rejects initialize: it is constructor protocol, not a
// movable helper.
func rubyValidMember(name string) bool {
	return name != "initialize"
}

// rubyCleanName strips the leading colon from captured symbol literals.
func rubyCleanName(name string) string {
	return strings.TrimPrefix(name, ":")
}

// rubyInSingletonClass reports whether node sits in a `class << self`
// block, where plain defs declare methods on the class itself.
func rubyInSingletonClass(node *sitter.Node) bool {
	current := node.Parent()
	for current != nil {
		switch current.Type() {
		case "singleton_class":
			return true
		case "class", "module", "method", "singleton_method":
			return false
		}
		current = current.Parent()
	}
	return false
}

// rubyMarkerAccess scans earlier statements in the same body for a bare
// private/protected/public marker and returns the visibility it sets.
// The `private :name` argument form is not tracked.
func rubyMarkerAccess(node *sitter.Node, source []byte) model.Accessibility {
	for sib := node.PrevNamedSibling(); sib != nil; sib = sib.PrevNamedSibling() {
		if sib.Type() != "identifier" {
			continue
		}
		switch NodeText(sib, source) {
		case "private":
			return model.Private
		case "protected":
			return model.Protected
		case "public":
			return model.Public
		}
	}
	return model.Public
}

// rubyClassName extracts the name from a class or module node.
func rubyClassName(node *sitter.Node, source []byte) string {
	if name := node.ChildByFieldName("name"); name != nil {
		return NodeText(name, source)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "constant" || child.Type() == "scope_resolution" {
			return NodeText(child, source)
		}
	}
	return ""
}

// rubyMethodName returns the name of a method or singleton_method node,
// including operator names.
func rubyMethodName(node *sitter.Node, source []byte) string {
	if name := node.ChildByFieldName("name"); name != nil {
		return NodeText(name, source)
	}
	return ""
}

// rubyAssignTarget returns the left-hand side of an assignment node.
func rubyAssignTarget(node *sitter.Node, source []byte) string {
	if left := node.ChildByFieldName("left"); left != nil {
		return NodeText(left, source)
	}
	return ""
}

func rubyExtractSignature(defNode *sitter.Node, kind model.SymbolKind, source []byte) string {
	switch kind {
	case model.Class, model.Module:
		return rubyExtractClassSignature(defNode, source)
	case model.Field, model.Constant:
		return rubyExtractFieldSignature(defNode, source)
	default:
		return rubyExtractMethodSignature(defNode, source)
	}
}

func rubyExtractClassSignature(node *sitter.Node, source []byte) string {
	var name, superclass string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "constant", "scope_resolution":
			if name == "" {
				name = NodeText(child, source)
			}
		case "superclass":
			// superclass node contains "< ClassName"
			for j := 0; j < int(child.ChildCount()); j++ {
				sc := child.Child(j)
				if sc.Type() == "constant" || sc.Type() == "scope_resolution" {
					superclass = NodeText(sc, source)
				}
			}
		}
	}
	if superclass != "" {
		return name + " < " + superclass
	}
	return name
}

// rubyExtractFieldSignature covers constants, class variables, and attr_*
// declarations. Assignments report their target; attr calls report the
// whole declaration.
func rubyExtractFieldSignature(defNode *sitter.Node, source []byte) string {
	if defNode.Type() == "assignment" {
		return rubyAssignTarget(defNode, source)
	}
	return CollapseWhitespace(NodeText(defNode, source))
}

func rubyExtractMethodSignature(node *sitter.Node, source []byte) string {
	name := rubyMethodName(node, source)
	var params string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "method_parameters" {
			params = CollapseWhitespace(NodeText(child, source))
		}
	}
	if params != "" {
		return name + params
	}
	return name
}
