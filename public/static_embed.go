// Package public embeds the static assets served under /public/static/.
package public

import (
	"embed"
	"io/fs"
)

//go:embed static/*
var static embed.FS

// StaticFS returns the asset tree rooted below static/.
func StaticFS() (fs.FS, error) {
	return fs.Sub(static, "static")
}

