// Package schemas provides the embedded SQL migrations of the studyplan database.
package schemas

import "embed"

// Migrations contains the golang-migrate up and down files under migrations/.
//
//go:embed migrations/*.sql
var Migrations embed.FS
