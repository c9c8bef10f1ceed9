// Package naming derives default names for newly created destination
// types and their files.
package naming

import (
	"fmt"
	"strings"

	"github.com/mwhitby/statmv/internal/lang"
	"github.com/mwhitby/statmv/internal/model"
)

// DefaultTypeName proposes a name for a new type holding members moved
// out of sourceName: sourceName + "Helpers", with a numeric suffix
// starting at 2 raised until no candidate shares the name. The candidate
// set is finite, so the loop terminates.
func DefaultTypeName(sourceName string, cands []model.TypeNameCandidate) string {
	taken := make(map[string]struct{}, len(cands))
	for _, c := range cands {
		taken[c.Decl.Name] = struct{}{}
	}

	base := sourceName + "Helpers"
	name := base
	for n := 2; ; n++ {
		if _, exists := taken[name]; !exists {
			return name
		}
		name = fmt.Sprintf("%s%d", base, n)
	}
}

// FileName derives the file for a new type from the final chosen name,
// after any user edit. A namespace-qualified name keeps only its last
// segment; the language's canonical extension is appended.
func FileName(typeName string, l *lang.Language) string {
	name := typeName
	if i := strings.LastIndex(typeName, l.NamespaceSep); i >= 0 {
		name = typeName[i+len(l.NamespaceSep):]
	}
	return name + l.Extensions[0]
}
