package pool

//go:generate mockgen -destination=mock/mock_factory.go -package=mockpool -source=factory.go

import "context"

// Factory constructs game object instances identified by a string key.
// Implementations may load prefabs, addressable assets, or plain structs;
// the pool only cares that the same key always yields interchangeable
// instances. Construction may be slow or asynchronous under the hood, so
// it takes a context for cancellation.
type Factory interface {
	Construct(ctx context.Context, key string) (any, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(ctx context.Context, key string) (any, error)

// Construct calls f.
func (f FactoryFunc) Construct(ctx context.Context, key string) (any, error) {
	return f(ctx, key)
}
