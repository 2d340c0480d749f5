package migrations

import "embed"

// FS contains the card catalog schema.
//
//go:embed *.sql
var FS embed.FS
