package domain

import "context"

// SessionRepository defines the interface for durable session storage.
// Save has upsert semantics keyed by session id. Subscribe registers a
// callback that receives a full snapshot of the collection, newest date
// first, after every confirmed change; the returned function cancels the
// subscription.
type SessionRepository interface {
	Load(ctx context.Context) ([]Session, error)
	Save(ctx context.Context, session Session) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	Subscribe(fn func(snapshot []Session)) (unsubscribe func())
	Close() error
}
