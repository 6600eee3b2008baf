// Package templates embeds the HTML views and the stylesheet.
package templates

import "embed"

//go:embed *.html pages/*.html partials/*.html static/*
var FS embed.FS
