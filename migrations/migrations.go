// Package migrations embeds the goose SQL migrations, including the role
// seed rows the registration flow depends on.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
