package sanitizer

import "strings"

// TrimAndNormalize collapses every run of whitespace to a single space and
// trims both ends.
func TrimAndNormalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeRegion(region string) string {
	return strings.ToLower(TrimAndNormalize(region))
}

// NormalizeSpecialization maps a free-text specialization onto its matching
// key, so "Event Coordination" and "event_coordination" compare equal.
func NormalizeSpecialization(s string) string {
	s = strings.ToLower(TrimAndNormalize(s))
	return strings.ReplaceAll(s, " ", "_")
}
