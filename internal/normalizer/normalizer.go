// Package normalizer canonicalizes free-text names and emails into the keys
// the matchers compare. All functions are pure and idempotent; empty or
// malformed input degrades to the empty key, never to an error.
package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// honorifics are stripped from names as whole tokens, with or without a
// trailing period.
var honorifics = map[string]struct{}{
	"mr": {}, "mr.": {},
	"mrs": {}, "mrs.": {},
	"ms": {}, "ms.": {},
	"dr": {}, "dr.": {},
}

// Normalizer derives comparison keys from raw name/email fields.
type Normalizer struct {
	reSpaces     *regexp.Regexp
	reNameStrip  *regexp.Regexp
	reEmailSplit *regexp.Regexp
}

func New() *Normalizer {
	return &Normalizer{
		reSpaces: regexp.MustCompile(`\s+`),
		// Keep letters, digits, underscore, whitespace and hyphen.
		reNameStrip:  regexp.MustCompile(`[^\w\s\-]`),
		reEmailSplit: regexp.MustCompile(`[,;\s]+`),
	}
}

// stripDiacritics decomposes to NFD, drops combining marks, then
// transliterates whatever non-ASCII remains so that accented and
// transliterated spellings of the same name converge on one key.
func (n *Normalizer) stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return unidecode.Unidecode(out)
}

// NormalizeName returns the comparison key for a raw person name:
// lower-cased, diacritics folded, honorific tokens removed, everything but
// letters/digits/underscore/space/hyphen stripped, whitespace collapsed.
func (n *Normalizer) NormalizeName(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ToLower(n.stripDiacritics(s))

	tokens := n.reSpaces.Split(s, -1)
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, ok := honorifics[tok]; ok {
			continue
		}
		kept = append(kept, tok)
	}
	s = strings.Join(kept, " ")

	s = n.reNameStrip.ReplaceAllString(s, "")
	s = n.reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeEmail returns the comparison key for a raw email field. Fields
// holding several addresses separated by comma/semicolon/whitespace yield
// the first token that looks like an email (has "@" and a dot in the domain
// part). When no token qualifies the lower-cased trimmed original is
// returned unchanged; a malformed email is still a stable key.
func (n *Normalizer) NormalizeEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}

	for _, tok := range n.reEmailSplit.Split(email, -1) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		at := strings.LastIndex(tok, "@")
		if at > 0 && strings.Contains(tok[at+1:], ".") {
			return tok
		}
	}
	return email
}

// EmailLocalPart returns the username portion of a normalized email key and
// whether the key is well formed enough to have one.
func EmailLocalPart(email string) (string, bool) {
	at := strings.Index(email, "@")
	if at <= 0 {
		return "", false
	}
	return email[:at], true
}

// EmailDomain returns the domain portion of a normalized email key.
func EmailDomain(email string) (string, bool) {
	at := strings.Index(email, "@")
	if at < 0 || at == len(email)-1 {
		return "", false
	}
	return email[at+1:], true
}

// ConsonantSkeleton strips the vowels a/e/i/o/u from a normalized name,
// leaving the consonant shape used by the phonetic strategy.
func ConsonantSkeleton(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch r {
		case 'a', 'e', 'i', 'o', 'u':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
