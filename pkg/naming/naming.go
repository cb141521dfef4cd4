// Package naming converts Dart type names into file names, identifiers and titles.
package naming

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	pageNamePattern  = regexp.MustCompile(`^[A-Z][a-zA-Z]*$`)
	classNamePattern = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
)

// ValidPageName reports whether name is an acceptable widget name: a leading
// uppercase letter followed by letters only.
func ValidPageName(name string) bool {
	return pageNamePattern.MatchString(name)
}

// ValidClassName reports whether name is an acceptable class name: a leading
// uppercase letter followed by letters and digits.
func ValidClassName(name string) bool {
	return classNamePattern.MatchString(name)
}

// PascalToSnake converts HomePage to home_page. Every uppercase letter starts
// a new segment, so acronyms split per letter (APIClient -> a_p_i_client).
func PascalToSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// PascalToCamel lowercases the first rune: UserRepository -> userRepository.
func PascalToCamel(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// CamelToTitle splits on uppercase letters and title-cases the first word:
// homePage -> Home Page, SettingsPage -> Settings Page.
func CamelToTitle(name string) string {
	var words []string
	var current []rune
	for _, r := range name {
		if unicode.IsUpper(r) && len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
		current = append(current, r)
	}
	if len(current) > 0 {
		words = append(words, string(current))
	}
	if len(words) == 0 {
		return ""
	}
	caser := cases.Title(language.Und, cases.NoLower)
	words[0] = caser.String(words[0])
	return strings.Join(words, " ")
}
