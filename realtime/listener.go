package realtime

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// changeChannel is the Postgres NOTIFY channel the migration's triggers write to
const changeChannel = "row_changes"

// ChangePayload is the JSON payload emitted by the row-change triggers
type ChangePayload struct {
	Table   string      `json:"table"`
	Op      string      `json:"op"` // INSERT, UPDATE, DELETE
	ID      uuid.UUID   `json:"id"`
	UserIDs []uuid.UUID `json:"user_ids"`
}

// UnreadCounter reports a user's unread notification count
type UnreadCounter interface {
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}

// Listener holds one LISTEN connection to Postgres and fans row-change events
// out to subscribed websocket clients.
type Listener struct {
	pool    *pgxpool.Pool
	hub     *Hub
	feed    *Feed
	unreads UnreadCounter
}

// NewListener creates a new change-feed listener
func NewListener(pool *pgxpool.Pool, hub *Hub) *Listener {
	return &Listener{pool: pool, hub: hub, feed: NewFeed()}
}

// WithUnreadCounter makes the listener push a fresh unread badge count to
// affected users whenever a notification row changes.
func (l *Listener) WithUnreadCounter(u UnreadCounter) *Listener {
	l.unreads = u
	return l
}

// Run listens for row-change notifications until the context is cancelled.
// The connection is re-acquired with backoff after errors; while disconnected,
// clients silently stop receiving updates and recover on the next re-fetch.
func (l *Listener) Run(ctx context.Context) {
	backoff := time.Second
	for {
		if err := l.listen(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("change feed: %v, retrying in %s", err, backoff)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+changeChannel); err != nil {
		return err
	}
	log.Printf("change feed: listening on %s", changeChannel)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		var payload ChangePayload
		if err := json.Unmarshal([]byte(notification.Payload), &payload); err != nil {
			log.Printf("change feed: bad payload %q: %v", notification.Payload, err)
			continue
		}

		l.hub.NotifyTableChange(payload.Table, payload.UserIDs, Event{
			Type: payload.Table + ":" + payload.Op,
			Data: payload,
		})

		if payload.Table == "notifications" && l.unreads != nil {
			for _, uid := range payload.UserIDs {
				go l.pushUnreadCount(ctx, uid)
			}
		}
	}
}

// pushUnreadCount fetches and pushes a user's unread badge count. Bursts of
// changes cause overlapping fetches; the feed guard makes sure only the
// latest one's result reaches the client, whatever order they complete in.
func (l *Listener) pushUnreadCount(ctx context.Context, userID uuid.UUID) {
	token := l.feed.Begin(userID, "notifications:unread")

	count, err := l.unreads.UnreadCount(ctx, userID)
	if err != nil {
		log.Printf("change feed: unread count for %s: %v", userID, err)
		return
	}

	if l.feed.Commit(userID, "notifications:unread", token) {
		l.hub.NotifyUser(userID, "notifications:unread", map[string]int{"count": count})
	}
}
