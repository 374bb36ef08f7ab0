// Package slug derives URL-safe identifiers from names and titles.
package slug

import (
	"strings"

	gosimple "github.com/gosimple/slug"
)

// Make lowercases s, transliterates it to ASCII and joins words with "-".
// Underscores count as word separators. Make is idempotent.
func Make(s string) string {
	return gosimple.Make(strings.ReplaceAll(s, "_", " "))
}
