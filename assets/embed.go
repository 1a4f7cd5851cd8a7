// assets/embed.go
//
// Embedded default word catalog. Ensures the server runs even when no
// WORDS_FILE is configured.

package assets

import (
	"embed"
	"io"
)

//go:embed words.txt
var FS embed.FS

// CatalogName is the embedded catalog file name.
const CatalogName = "words.txt"

// Catalog opens the embedded default catalog.
func Catalog() (io.ReadCloser, error) {
	return FS.Open(CatalogName)
}
