package utils

import "strings"

// EscapeLike escapes the LIKE wildcards of a user supplied value so it can be
// wrapped in '%' for a substring match. The escape character is '\'.
func EscapeLike(v string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(v)
}
