// Package entity recognizes structured tokens inside free-text messages:
// order identifiers and product or category names.
package entity

import (
	"regexp"
	"strings"
)

var orderIDPattern = regexp.MustCompile(`(?i)\bord\d+\b`)

// OrderID returns the first order identifier (ord followed by digits) found
// in message, upper-cased. Matching is case-insensitive.
func OrderID(message string) (string, bool) {
	m := orderIDPattern.FindString(message)
	if m == "" {
		return "", false
	}
	return strings.ToUpper(m), true
}

// ProductToken scans Vocabulary in declaration order and returns the first
// entry, lower-cased, contained in the lower-cased message. Earlier entries
// shadow later ones: "bags" matches "bag" first.
func ProductToken(message string) (string, bool) {
	return Vocabulary.Match(message)
}

// HasProductToken reports whether any vocabulary entry occurs in message.
func HasProductToken(message string) bool {
	_, ok := ProductToken(message)
	return ok
}
