// Package slug derives URL-safe identifiers from display names and resolves
// collisions by appending a numeric suffix.
package slug

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFKD and drops combining marks, so accented
// characters fold to their ASCII base ("María" -> "Maria").
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Make converts a display name to a URL-safe token: lowercase ASCII letters,
// digits and hyphens only, with no leading, trailing or repeated hyphens.
// An empty or fully non-alphanumeric name yields an empty token.
func Make(name string) string {
	folded, _, err := transform.String(stripMarks, strings.ToLower(name))
	if err != nil {
		folded = strings.ToLower(name)
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true // suppress a leading hyphen
	for _, r := range folded {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		case r == '\'' || r == '’':
			// apostrophes drop out without splitting the word: "O'Brien" -> "obrien"
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// ExistsFunc reports whether a candidate slug is already taken.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Unique returns the first unused variant of base: base itself, then base-2,
// base-3 and so on. The check-then-insert gap is not closed here; callers
// rely on the store's unique constraint as the final authority.
func Unique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	if base == "" {
		return "", fmt.Errorf("empty base slug")
	}

	candidate := base
	for i := 2; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
