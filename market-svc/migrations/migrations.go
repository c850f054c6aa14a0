// Package migrations embeds the market-svc schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
