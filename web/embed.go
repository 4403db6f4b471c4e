package web

import "embed"

// TemplatesFS embeds the HTML templates for the widget page.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds the widget script and stylesheet.
//
//go:embed static/*
var StaticFS embed.FS
