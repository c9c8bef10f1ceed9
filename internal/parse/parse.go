// Package parse extracts tags from source files using tree-sitter.
package parse

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/mwhitby/statmv/internal/lang"
	"github.com/mwhitby/statmv/internal/model"
)

var captureMap = map[string]struct {
	Kind       model.TagKind
	SymbolKind model.SymbolKind
	TypeDecl   bool
}{
	"definition.class":    {model.Definition, model.Class, true},
	"definition.module":   {model.Definition, model.Module, true},
	"definition.function": {model.Definition, model.Function, false},
	"definition.method":   {model.Definition, model.Method, false},
	"definition.field":    {model.Definition, model.Field, false},
	"definition.constant": {model.Definition, model.Constant, false},
	"reference.call":      {model.Reference, model.Function, false},
	"reference.attribute": {model.Reference, model.Field, false},
	"reference.constant":  {model.Reference, model.Constant, false},
}

// ExtractTags parses a source file and returns definition and reference tags.
// The parser must be created for l. filePath is used for Tag.File and
// namespace derivation and should be the repo-relative path.
//
// Type declarations carry their namespace; member definitions carry the
// qualified name of their declaring type, staticness, and accessibility;
// references are attributed to the member whose body contains them.
// Declarations inside function bodies are local and produce no tags.
func ExtractTags(l *lang.Language, parser *sitter.Parser, query *sitter.Query, source []byte, filePath string) []model.Tag {
	if len(source) == 0 {
		return nil
	}

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil
	}
	defer tree.Close()

	pathNS := ""
	if l.PathNamespace != nil {
		pathNS = l.PathNamespace(filePath)
	}

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	var tags []model.Tag

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)

		// Find the @name capture and the pattern capture
		var nameNode *sitter.Node
		var captureName string
		var defNode *sitter.Node

		for _, c := range match.Captures {
			cname := query.CaptureNameForId(c.Index)
			if cname == "name" {
				nameNode = c.Node
			} else if _, ok := captureMap[cname]; ok {
				captureName = cname
				defNode = c.Node
			}
		}

		if nameNode == nil || captureName == "" || defNode == nil {
			continue
		}

		cm := captureMap[captureName]
		name := lang.NodeText(nameNode, source)
		if l.CleanName != nil {
			name = l.CleanName(name)
		}
		if name == "" {
			continue
		}

		tag := model.Tag{
			Name:       name,
			Kind:       cm.Kind,
			SymbolKind: cm.SymbolKind,
			Line:       int(nameNode.StartPoint().Row) + 1,
			File:       filePath,
		}

		switch {
		case cm.Kind == model.Reference:
			chain, member := l.FindEnclosingMember(nameNode, source)
			tag.Enclosing = member
			if chain != "" {
				tag.EnclosingType = l.JoinNamespace(pathNS, chain)
			}

		case cm.TypeDecl:
			chain, ok := l.TypeChain(defNode, source)
			if !ok {
				continue
			}
			tag.Namespace = l.JoinNamespace(pathNS, chain)
			tag.Signature = l.ExtractSignature(defNode, tag.SymbolKind, source)

		default: // member definitions
			chain, ok := l.TypeChain(defNode, source)
			if !ok {
				continue
			}
			info := l.ClassifyMember(defNode, source)
			tag.SymbolKind = info.Kind
			tag.Static = info.Static
			tag.Access = info.Access
			if chain == "" && info.Kind == model.Method {
				tag.SymbolKind = model.Function
			}
			if chain != "" {
				tag.EnclosingType = l.JoinNamespace(pathNS, chain)
			}
			tag.Signature = l.ExtractSignature(defNode, tag.SymbolKind, source)
		}

		tags = append(tags, tag)
	}

	return tags
}
