// Package eventlog appends attempt lifecycle events to the event_log table.
// Writes are best-effort: the attempt flow never fails because of a logging
// problem.
package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"
)

type Recorder struct{ db *sql.DB }

func New(db *sql.DB) *Recorder { return &Recorder{db: db} }

func (r *Recorder) Record(ctx context.Context, typ, key string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("eventlog: encode %s %s: %v", typ, key, err)
		return
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		typ, key, string(data), time.Now().Unix())
	if err != nil {
		log.Printf("eventlog: append %s %s: %v", typ, key, err)
	}
}
