package datadog

import "strings"

// NormalizeName lowercases name and replaces every character outside
// [a-z0-9-] with a dash. Each input rune yields exactly one output byte;
// consecutive dashes are kept.
func NormalizeName(name string) string {
	lower := strings.ToLower(name)

	var sb strings.Builder
	sb.Grow(len(lower))
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			sb.WriteRune(r)
			continue
		}
		sb.WriteByte('-')
	}
	return sb.String()
}
