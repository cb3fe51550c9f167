package query

import (
	"strconv"
	"strings"
)

// Params is a read-only view of query parameters. url.Values satisfies it.
type Params interface {
	Get(key string) string
}

// Values adapts a plain map to Params.
type Values map[string]string

func (v Values) Get(key string) string { return v[key] }

func Trimmed(p Params, key string) string {
	return strings.TrimSpace(p.Get(key))
}

func ParseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CSVInts parses "1, 2,x,3" into [1 2 3]. Tokens that are not plain digits are dropped.
func CSVInts(s string) []int {
	if s == "" {
		return nil
	}
	var out []int
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if !isDigits(tok) {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Bool accepts true/false/1/0 in any case. ok is false for anything else.
func Bool(s string) (v bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true, true
	case "false", "0":
		return false, true
	}
	return false, false
}
