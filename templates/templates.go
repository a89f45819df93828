// Package templates содержит встроенные HTML-страницы приложения.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
