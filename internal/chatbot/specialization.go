package chatbot

import "strings"

// DefaultSpecialization is returned when no symptom keyword matches.
const DefaultSpecialization = "general_dentist"

// SpecializationRule pairs a care category with its symptom keywords.
// Rule order is a priority: when symptoms mention both pain and cosmetic
// concerns, the earlier (pain) category wins regardless of match count.
type SpecializationRule struct {
	Specialization string
	Keywords       []string
}

// DefaultSpecializationRules returns the built-in symptom mapping in priority
// order.
func DefaultSpecializationRules() []SpecializationRule {
	return []SpecializationRule{
		{"endodontist", []string{"pain", "ache", "toothache", "sensitivity", "nerve"}},
		{"orthodontist", []string{"braces", "alignment", "crooked", "straighten", "misaligned"}},
		{"periodontist", []string{"gum", "bleeding", "swollen", "periodontal", "gums"}},
		{"prosthodontist", []string{"crown", "filling", "bridge", "denture", "implant"}},
		{"cosmetic_dentist", []string{"whitening", "cosmetic", "veneer", "smile", "aesthetic"}},
		{"general_dentist", []string{"cleaning", "checkup", "routine", "exam", "cavity"}},
	}
}

// SpecializationMapper maps free-text symptoms to a care category using an
// ordered keyword priority list.
type SpecializationMapper struct {
	rules []SpecializationRule
}

// NewSpecializationMapper creates a mapper over the given ordered rules.
func NewSpecializationMapper(rules []SpecializationRule) *SpecializationMapper {
	return &SpecializationMapper{rules: rules}
}

// Map returns the first category with any keyword present in the lowercased
// symptom text, defaulting to general_dentist.
func (m *SpecializationMapper) Map(symptoms string) string {
	lower := strings.ToLower(symptoms)
	for _, rule := range m.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Specialization
			}
		}
	}
	return DefaultSpecialization
}
