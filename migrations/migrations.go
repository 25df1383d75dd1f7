// Package migrations embeds the SQL applied to the postgres row store.
package migrations

import "embed"

// FS holds the *.sql files in lexical apply order.
//
//go:embed *.sql
var FS embed.FS
