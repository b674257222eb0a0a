// Package migrations embeds the goose SQL migrations for every supported SQL
// dialect. Each dialect lives in its own directory.
package migrations

import "embed"

//go:embed postgres/*.sql mysql/*.sql
var Migrations embed.FS

// Dir returns the migration directory for a goose dialect.
func Dir(dialect string) string {
	if dialect == "mysql" {
		return "mysql"
	}
	return "postgres"
}
