// Package sqliteexternal links the CGO SQLite driver (github.com/mattn/go-sqlite3).
//
// gfakit uses the pure Go modernc.org/sqlite driver by default. Building with
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./...
//
// switches core/sqlite, and with it the name map store, to this driver.
package sqliteexternal
