package store

import "context"

// Store namespaces one value type on a Cache. Keys are caller-supplied
// conversation identifiers; the namespace keeps different value types on the
// same backend from colliding.
type Store[S any] struct {
	core      Cache[S]
	namespace string
}

func NewStore[S any](core Cache[S], namespace string) Store[S] {
	return Store[S]{core: core, namespace: namespace}
}

func (s Store[S]) key(key string) string {
	return s.namespace + ":" + key
}

func (s Store[S]) Set(ctx context.Context, key string, val S) error {
	return s.core.Set(ctx, s.key(key), val)
}

func (s Store[S]) Get(ctx context.Context, key string) (S, bool, error) {
	return s.core.Get(ctx, s.key(key))
}

func (s Store[S]) Del(ctx context.Context, key string) error {
	return s.core.Del(ctx, s.key(key))
}

func (s Store[S]) Exists(ctx context.Context, key string) (bool, error) {
	return s.core.Exists(ctx, s.key(key))
}
