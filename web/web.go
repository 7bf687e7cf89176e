// Package web embeds the browser front-end served at /, /animals and
// /zookeepers.
package web

import "embed"

// Public holds the pages and assets under public/.
//
//go:embed public
var Public embed.FS
