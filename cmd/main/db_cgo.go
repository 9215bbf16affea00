//go:build cgo_sqlite

package main

import _ "github.com/mattn/go-sqlite3"

// sqliteDriver is the database/sql driver used for the corpus library.
const sqliteDriver = "sqlite3"
