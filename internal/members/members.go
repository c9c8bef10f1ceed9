// Package members filters a type's members down to the movable set and
// seeds the picker rows shown to the user.
package members

import "github.com/mwhitby/statmv/internal/model"

// Filter returns the members eligible to move: static members whose name
// passes isValid. Order is preserved from the input, so picker rows match
// declaration order.
func Filter(all []model.Member, isValid func(string) bool) []model.Member {
	var eligible []model.Member
	for _, m := range all {
		if !m.Static {
			continue
		}
		if isValid != nil && !isValid(m.Name) {
			continue
		}
		eligible = append(eligible, m)
	}
	return eligible
}

// Seed builds the initial picker rows: one per eligible member, checked
// only for the member the refactoring was invoked on. An ineligible or
// empty clicked name seeds every row unchecked.
func Seed(eligible []model.Member, clicked string) []model.MemberSelection {
	selections := make([]model.MemberSelection, len(eligible))
	for i, m := range eligible {
		selections[i] = model.MemberSelection{
			Member:  m,
			Checked: clicked != "" && m.Name == clicked,
			Glyph:   glyphFor(m),
		}
	}
	return selections
}

func glyphFor(m model.Member) model.Glyph {
	switch m.Kind {
	case model.Constant:
		return model.GlyphConstant
	case model.Field:
		switch m.Access {
		case model.Private:
			return model.GlyphFieldPrivate
		case model.Protected:
			return model.GlyphFieldProtected
		default:
			return model.GlyphField
		}
	default:
		switch m.Access {
		case model.Private:
			return model.GlyphMethodPrivate
		case model.Protected:
			return model.GlyphMethodProtected
		default:
			return model.GlyphMethod
		}
	}
}
