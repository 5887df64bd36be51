package db

import _ "embed"

// Schema creates all tables, used by tests and local bootstrap.
//
//go:embed schema.sql
var Schema string
