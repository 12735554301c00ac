package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// WatchlistEntry is one symbol a user is tracking.
type WatchlistEntry struct {
	Symbol  string    `json:"symbol"`
	Note    string    `json:"note,omitempty"`
	AddedAt time.Time `json:"added_at"`
}

// Notification is one recorded signal change for a watched symbol.
type Notification struct {
	ID        int64     `json:"id"`
	Symbol    string    `json:"symbol"`
	EventDate time.Time `json:"event_date"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// WatchlistRepository owns app.watchlist and app.notifications.
type WatchlistRepository struct {
	pool *pgxpool.Pool
}

// NewWatchlistRepository creates a new watchlist repository.
func NewWatchlistRepository(pool *pgxpool.Pool) *WatchlistRepository {
	return &WatchlistRepository{pool: pool}
}

// Add puts a symbol on the watchlist. Re-adding updates the note.
func (r *WatchlistRepository) Add(ctx context.Context, symbol, note string) error {
	query := `
		INSERT INTO app.watchlist (symbol, note, added_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (symbol) DO UPDATE SET note = EXCLUDED.note
	`

	_, err := r.pool.Exec(ctx, query, symbol, note, time.Now().UTC())
	return err
}

// Remove drops a symbol from the watchlist.
func (r *WatchlistRepository) Remove(ctx context.Context, symbol string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM app.watchlist WHERE symbol = $1`, symbol)
	return err
}

// List returns the watchlist ordered by symbol.
func (r *WatchlistRepository) List(ctx context.Context) ([]WatchlistEntry, error) {
	query := `
		SELECT symbol, note, added_at
		FROM app.watchlist
		ORDER BY symbol
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []WatchlistEntry
	for rows.Next() {
		var e WatchlistEntry
		if err := rows.Scan(&e.Symbol, &e.Note, &e.AddedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SaveNotifications records signal-change events, skipping duplicates for
// the same symbol, date and kind.
func (r *WatchlistRepository) SaveNotifications(ctx context.Context, notifications []Notification) error {
	query := `
		INSERT INTO app.notifications (symbol, event_date, kind, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (symbol, event_date, kind) DO NOTHING
	`

	now := time.Now().UTC()
	for _, n := range notifications {
		if _, err := r.pool.Exec(ctx, query, n.Symbol, n.EventDate, n.Kind, n.Message, now); err != nil {
			return err
		}
	}
	return nil
}

// RecentNotifications returns the latest notifications, newest first.
func (r *WatchlistRepository) RecentNotifications(ctx context.Context, limit int) ([]Notification, error) {
	query := `
		SELECT id, symbol, event_date, kind, message, created_at
		FROM app.notifications
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.Symbol, &n.EventDate, &n.Kind, &n.Message, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
