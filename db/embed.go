// Package db provides the embedded database schema and seed dataset.
package db

import _ "embed"

// Schema contains the DDL statements for all dataset tables.
//
//go:embed migrations/001_schema.sql
var Schema string
