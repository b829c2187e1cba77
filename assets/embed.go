// Package assets embeds the default word cache and the SQL migrations so the
// server runs with no external files.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed wordcache sql
var FS embed.FS

// Wordcache returns the embedded word cache rooted at its top directory.
func Wordcache() (fs.FS, error) {
	return fs.Sub(FS, "wordcache")
}

// Migrations returns the embedded *.sql migrations rooted at their directory.
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}
