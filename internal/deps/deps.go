// Package deps computes which eligible members reference which, so a
// picker can warn when a selection would leave dependencies behind.
package deps

import (
	"context"
	"fmt"
	"sort"

	"github.com/mwhitby/statmv/internal/model"
	"github.com/mwhitby/statmv/internal/project"
)

// Scanner finds references among the eligible members of a type. The
// result is advisory: nothing downstream enforces closure over it.
type Scanner interface {
	FindMemberDependencies(ctx context.Context, eligible []model.Member, snap *project.Snapshot) (model.DependencyMap, error)
}

// TagScanner matches reference tags against eligible member names for one
// type. Matching is by bare name, so a reference to an unrelated symbol
// that happens to share a member's name counts; the map is a hint for the
// picker, not a semantic result.
type TagScanner struct {
	// Type is the qualified name of the type whose members are scanned.
	Type string
}

// FindMemberDependencies returns one entry per eligible member listing
// the eligible members its body references, deduplicated and sorted.
// Cancellation aborts the whole scan; no partial map is returned.
func (s *TagScanner) FindMemberDependencies(ctx context.Context, eligible []model.Member, snap *project.Snapshot) (model.DependencyMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("dependency scan: %w", err)
	}

	dm := make(model.DependencyMap, len(eligible))
	names := make(map[string]struct{}, len(eligible))
	for _, m := range eligible {
		dm[m.Name] = nil
		names[m.Name] = struct{}{}
	}

	type edgeKey struct{ from, to string }
	seen := make(map[edgeKey]struct{})

	for _, tag := range snap.TypeRefs(s.Type) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("dependency scan: %w", err)
		}
		if _, ok := names[tag.Enclosing]; !ok {
			continue
		}
		if _, ok := names[tag.Name]; !ok {
			continue
		}
		key := edgeKey{tag.Enclosing, tag.Name}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		dm[tag.Enclosing] = append(dm[tag.Enclosing], tag.Name)
	}

	for name := range dm {
		sort.Strings(dm[name])
	}
	return dm, nil
}

// Closure returns names plus every eligible member they transitively
// reference, sorted. Names absent from dm pass through unchanged.
func Closure(dm model.DependencyMap, names []string) []string {
	seen := make(map[string]struct{})
	queue := append([]string(nil), names...)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		queue = append(queue, dm[name]...)
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
