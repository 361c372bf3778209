package scanner

import "strings"

// Classification tells whether a MATCH filter can only ever match one key name.
type Classification struct {
	Exact   bool
	Literal string
}

// Classify inspects a glob pattern. Unescaped '*', '?' or a '[' that opens a
// character class make it a glob; anything else is an exact name whose
// literal value is the pattern with backslash escapes removed.
func Classify(pattern string) Classification {
	if IsGlob(pattern) {
		return Classification{}
	}
	return Classification{Exact: true, Literal: Unescape(pattern)}
}

// IsGlob reports whether pattern contains an unescaped glob metacharacter.
func IsGlob(pattern string) bool {
	escaped := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '*', '?':
			return true
		case '[':
			if closesClass(pattern[i+1:]) {
				return true
			}
		}
	}
	return false
}

// closesClass reports whether rest (the text after an opening '[') holds the
// ']' that terminates the class. A leading '^' negates the class and the
// first member may itself be ']'.
func closesClass(rest string) bool {
	i := 0
	if i < len(rest) && rest[i] == '^' {
		i++
	}
	if i < len(rest) && rest[i] == ']' {
		i++
	}
	for ; i < len(rest); i++ {
		switch rest[i] {
		case '\\':
			i++
		case ']':
			return true
		}
	}
	return false
}

// Unescape drops the backslash in front of every escaped character. A trailing
// unpaired backslash is kept as a literal backslash.
func Unescape(pattern string) string {
	if !strings.Contains(pattern, `\`) {
		return pattern
	}

	var b strings.Builder
	b.Grow(len(pattern))
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '\\' && i+1 < len(pattern) {
			i++
			c = pattern[i]
		}
		b.WriteByte(c)
	}
	return b.String()
}
