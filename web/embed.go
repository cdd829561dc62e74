// Package web embeds the browser form served at "/".
package web

import "embed"

//go:embed index.html app.js style.css
var Files embed.FS
