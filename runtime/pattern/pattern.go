// Package pattern recognizes feature columns whose base name is a regular
// expression, such as CD[48]_g or (IGHM|IGHG1)_g_mean. A pattern column
// stands for every matching feature.
package pattern

import (
	"regexp"
	"strings"

	"github.com/opal-lang/varspec/core/suffix"
)

var (
	allowed [128]bool
	special [128]bool
)

func init() {
	for ch := 'a'; ch <= 'z'; ch++ {
		allowed[ch] = true
	}
	for ch := 'A'; ch <= 'Z'; ch++ {
		allowed[ch] = true
	}
	for ch := '0'; ch <= '9'; ch++ {
		allowed[ch] = true
	}
	for _, ch := range ".-_[]()|*" {
		allowed[ch] = true
	}
	for _, ch := range "[]()|*" {
		special[ch] = true
	}
}

// IsPattern reports whether token is a feature column with a regular
// expression base. A leading "abbrev:" is ignored; with stripCell a trailing
// "_cell" is ignored as well.
//
// Every composite suffix that token ends with is tried. For at least one of
// them the prefix before it must be non-empty, compile, use only letters, digits and . - _ [ ] ( ) | *,
// and contain at least one of [ ] ( ) | *. Plain names are never patterns.
func IsPattern(token string, stripCell bool) bool {
	x := token
	if i := strings.LastIndexByte(x, ':'); i >= 0 {
		x = x[i+1:]
	}
	if stripCell {
		x = strings.TrimSuffix(x, "_cell")
	}

	for _, f := range suffix.Families() {
		if !strings.HasSuffix(x, f.Suffix) {
			continue
		}
		if isRegexBase(strings.TrimSuffix(x, f.Suffix)) {
			return true
		}
	}
	return false
}

func isRegexBase(p string) bool {
	if p == "" {
		return false
	}
	meta := false
	for i := 0; i < len(p); i++ {
		ch := p[i]
		if ch >= 128 || !allowed[ch] {
			return false
		}
		if special[ch] {
			meta = true
		}
	}
	if !meta {
		return false
	}
	_, err := regexp.Compile(p)
	return err == nil
}
