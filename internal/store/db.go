package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// appleEpoch is the store's timestamp reference: 2001-01-01 UTC. Message
// dates are nanoseconds since this instant.
var appleEpoch = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

func fromAppleNanos(ns int64) time.Time {
	return appleEpoch.Add(time.Duration(ns))
}

func toAppleNanos(t time.Time) int64 {
	return t.Sub(appleEpoch).Nanoseconds()
}

// open opens a short-lived read-only connection to the message store.
// The store is never written; every repository operation acquires its own
// handle and closes it on completion.
func open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open message store: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping message store: %w", err)
	}
	return db, nil
}
