// Package ui embeds the web templates and static assets served by the admin
// interface.
package ui

import "embed"

//go:embed web
var Assets embed.FS
