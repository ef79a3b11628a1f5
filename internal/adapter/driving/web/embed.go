package web

import "embed"

// StaticFS holds the embedded frontend assets (app.js, style.css).
//
//go:embed static/*
var StaticFS embed.FS
