// Package storage persists calculation results in SQLite.
//
// The schema mirrors the metrics record, one row per successful
// calculation, plus an autoincrement id and a created_at column. The pure
// Go driver modernc.org/sqlite is used so the binary needs no cgo.
package storage
