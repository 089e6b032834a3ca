package scanner

import (
	"regexp"
	"strings"
)

// compileGlob converts an exclude pattern into an anchored, case-insensitive
// regular expression. `**` matches any run of characters including `/`,
// `*` matches within one path segment and `?` matches a single character.
func compileGlob(pattern string) *regexp.Regexp {
	pattern = strings.ReplaceAll(strings.TrimSpace(pattern), `\`, "/")

	var b strings.Builder
	b.WriteString("(?i)^")
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				b.WriteString(".*")
				i++
				continue
			}
			b.WriteString("[^/]*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")

	return regexp.MustCompile(b.String())
}

// MatchGlob reports whether the root-relative, forward-slash path matches pattern
func MatchGlob(pattern, relPath string) bool {
	return compileGlob(pattern).MatchString(relPath)
}
