// Package sanitize cleans free-text input before it is persisted or used in
// a query pattern.
package sanitize

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// maxPasses bounds how many layers of entity encoding are peeled off.
const maxPasses = 4

// Sanitizer strips markup and control characters from user text.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New returns a Sanitizer using bluemonday's strict policy.
func New() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Text removes HTML, control characters and leading query-operator
// characters ('$') from s, and trims surrounding space.
func (s *Sanitizer) Text(v string) string {
	v = s.stripMarkup(v)
	v = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, v)
	v = strings.TrimSpace(v)
	return strings.TrimLeft(v, "$")
}

// stripMarkup sanitizes and unescapes until the text is stable, so markup
// hidden behind entities is stripped too. Input that is still changing after
// maxPasses is returned in its escaped form.
func (s *Sanitizer) stripMarkup(v string) string {
	for i := 0; i < maxPasses; i++ {
		plain := html.UnescapeString(s.policy.Sanitize(v))
		if plain == v {
			return plain
		}
		v = plain
	}
	return s.policy.Sanitize(v)
}

// Ptr sanitizes a non-nil *string in place and returns it.
func (s *Sanitizer) Ptr(v *string) *string {
	if v == nil {
		return nil
	}
	clean := s.Text(*v)
	return &clean
}

// Link trims s and drops it entirely when it is not an http(s) URL.
func (s *Sanitizer) Link(v string) string {
	v = strings.TrimSpace(v)
	lower := strings.ToLower(v)
	if !strings.HasPrefix(lower, "https://") && !strings.HasPrefix(lower, "http://") {
		return ""
	}
	return v
}

// LikePattern escapes the LIKE wildcards in v for use with ESCAPE '\'.
func LikePattern(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(v)
}
