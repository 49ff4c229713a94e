// Package app holds the application built on the kernel: route file,
// views, migrations and the wiring between them.
package app

import (
	"embed"
	"io/fs"
)

//go:embed routes.yaml
var Routes []byte

//go:embed all:views all:migrations all:content all:emails
var files embed.FS

// Views returns the page templates rooted at "views/".
func Views() fs.FS { return sub("views") }

// Migrations returns the per-driver migration directories.
func Migrations() fs.FS { return sub("migrations") }

// Emails returns the email templates.
func Emails() fs.FS { return sub("emails") }

// Content returns static markdown content.
func Content() fs.FS { return sub("content") }

func sub(dir string) fs.FS {
	f, err := fs.Sub(files, dir)
	if err != nil {
		panic(err)
	}
	return f
}
