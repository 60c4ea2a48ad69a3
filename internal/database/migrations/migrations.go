// Package migrations embeds the goose SQL migrations so they can be applied
// from any binary without shipping loose files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
