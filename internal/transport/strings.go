package transport

import "strings"

func trim(s string) string { return strings.TrimSpace(s) }

// Optional trims p and maps an empty result to nil.
func Optional(p *string) *string {
	if p == nil {
		return nil
	}
	v := trim(*p)
	if v == "" {
		return nil
	}
	return &v
}
