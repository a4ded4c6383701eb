package core

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// UpperString trims `s` and upper-cases it.
func UpperString(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// TitleString trims `s`, collapses inner whitespace and title-cases every word ("intro to GO" -> "Intro To Go").
func TitleString(s string) string {
	return cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
}
