package schema

import (
	"regexp"
	"strings"
)

var nonIdentRun = regexp.MustCompile(`[^a-z0-9]+`)

// Identifier turns a display name into a SQL-safe identifier: lower-cased,
// each run of characters outside [a-z0-9] collapsed to "_", and prefixed
// with "_" when it would otherwise start with a digit.
func Identifier(name string) string {
	id := nonIdentRun.ReplaceAllString(strings.ToLower(name), "_")
	if id != "" && id[0] >= '0' && id[0] <= '9' {
		id = "_" + id
	}
	return id
}

// isBlankIdentifier reports whether an identifier carries no letters or digits
func isBlankIdentifier(id string) bool {
	return strings.Trim(id, "_") == ""
}
