// Package journal keeps a Postgres record of every order submitted through
// the gateway together with the vendor's answer.
package journal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Entry struct {
	ID         string          `json:"id"`
	Symbol     string          `json:"symbol"`
	Side       string          `json:"side"`
	Request    json.RawMessage `json:"request"`
	StatusCode int             `json:"status_code"`
	Response   json.RawMessage `json:"response,omitempty"`
	Error      string          `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const schema = `
create table if not exists order_journal (
	id          uuid primary key,
	symbol      text not null,
	side        text not null,
	request     jsonb not null,
	status_code integer not null default 0,
	response    jsonb,
	error       text not null default '',
	created_at  timestamptz not null
);
create index if not exists order_journal_created_at_idx on order_journal (created_at desc);
`

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// Record stores e, assigning an id and timestamp when they are empty.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	var response any
	if len(e.Response) > 0 && json.Valid(e.Response) {
		response = string(e.Response)
	}
	_, err := s.pool.Exec(ctx,
		"insert into order_journal (id, symbol, side, request, status_code, response, error, created_at) values ($1,$2,$3,$4,$5,$6,$7,$8)",
		e.ID, e.Symbol, e.Side, string(e.Request), e.StatusCode, response, e.Error, e.CreatedAt)
	return e, err
}

func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, "select id::text, symbol, side, request::text, status_code, coalesce(response::text, ''), error, created_at from order_journal order by created_at desc limit $1", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var request, response string
		if err := rows.Scan(&e.ID, &e.Symbol, &e.Side, &request, &e.StatusCode, &response, &e.Error, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Request = json.RawMessage(request)
		if response != "" {
			e.Response = json.RawMessage(response)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
