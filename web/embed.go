// Package web holds the embedded browser assets and page templates.
package web

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed static templates
var content embed.FS

// StaticFS returns the files served under /static/.
func StaticFS() (fs.FS, error) {
	return sub("static")
}

// TemplatesFS returns the page templates.
func TemplatesFS() (fs.FS, error) {
	return sub("templates")
}

func sub(dir string) (fs.FS, error) {
	fsys, err := fs.Sub(content, dir)
	if err != nil {
		return nil, fmt.Errorf("opening embedded %s: %w", dir, err)
	}
	return fsys, nil
}
