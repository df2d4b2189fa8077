package transfers

import "strings"

// Effective returns the trimmed next value when it is non-empty, otherwise
// current. This is the carry-forward rule for optional transfer fields.
func Effective(next, current *string) *string {
	if v := trimmed(next); v != nil {
		return v
	}
	return current
}

// trimmed returns nil for nil or blank input.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
