// Package toon implements TOON (Token-Oriented Object Notation) encoding
// of planning reports.
package toon

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mwhitby/statmv/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Report collects the planning data one command run produced. A nil
// section is omitted from the output; a computed-but-empty one is
// emitted with a zero count.
type Report struct {
	Root       string
	Language   string
	Type       string
	Document   string
	Selections []model.MemberSelection
	Deps       model.DependencyMap
	Candidates []model.TypeNameCandidate
	Plan       *model.Plan
}

// Encode converts a report into TOON format.
func Encode(r *Report) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(r.Root)))
	parts = append(parts, fmt.Sprintf("language: %s", encodeValue(r.Language)))
	parts = append(parts, fmt.Sprintf("type: %s", encodeValue(r.Type)))
	parts = append(parts, fmt.Sprintf("document: %s", encodeValue(r.Document)))

	if r.Selections != nil {
		var rows [][]string
		for _, sel := range r.Selections {
			m := sel.Member
			rows = append(rows, []string{
				m.Name,
				string(m.Kind),
				yesno(m.Static),
				string(m.Access),
				fmt.Sprintf("%d", m.Line),
				yesno(sel.Checked),
			})
		}
		parts = append(parts, formatTabular("members", []string{"name", "kind", "static", "access", "line", "checked"}, rows))
	}

	if r.Deps != nil {
		names := make([]string, 0, len(r.Deps))
		for name := range r.Deps {
			names = append(names, name)
		}
		sort.Strings(names)

		var rows [][]string
		for _, name := range names {
			uses := r.Deps[name]
			if len(uses) == 0 {
				continue
			}
			rows = append(rows, []string{name, strings.Join(uses, " ")})
		}
		parts = append(parts, formatTabular("dependencies", []string{"member", "uses"}, rows))
	}

	if r.Candidates != nil {
		var rows [][]string
		for _, c := range r.Candidates {
			rows = append(rows, []string{
				c.Decl.Qualified,
				c.Decl.File,
				fmt.Sprintf("%d", c.Decl.Line),
				yesno(c.RecentlyUsed),
			})
		}
		parts = append(parts, formatTabular("candidates", []string{"type", "file", "line", "recent"}, rows))
	}

	if r.Plan != nil {
		parts = append(parts, formatPlan(r.Plan))
	}

	return strings.Join(parts, "\n")
}

func formatPlan(p *model.Plan) string {
	var b strings.Builder
	b.WriteString("plan:")
	fmt.Fprintf(&b, "\n  destination: %s", encodeValue(p.Destination))
	fmt.Fprintf(&b, "\n  file: %s", encodeValue(p.DestinationFile))
	fmt.Fprintf(&b, "\n  create_new: %s", yesno(p.CreateNew))
	fmt.Fprintf(&b, "\n  cancelled: %s", yesno(p.Cancelled))

	var rows [][]string
	for _, m := range p.Members {
		rows = append(rows, []string{
			m.Name,
			string(m.Kind),
			fmt.Sprintf("%d", m.Line),
		})
	}
	return b.String() + "\n" + formatTabular("moved", []string{"name", "kind", "line"}, rows)
}

// yesno renders booleans as bare words that survive encodeValue
// unquoted; true and false are reserved keywords.
func yesno(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
