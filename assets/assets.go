// Package assets embeds the shader sources so the binary runs without an assets
// directory for them. Files on disk take precedence when hot reload is enabled.
package assets

import "embed"

//go:embed Shaders
var Shaders embed.FS
