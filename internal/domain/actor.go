package domain

import "context"

type actorKey struct{}

// WithActor returns a copy of ctx naming the person behind the request.
// Audit entries recorded while serving it carry that name.
func WithActor(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, name)
}

// ActorFrom returns the name set by WithActor, or "".
func ActorFrom(ctx context.Context) string {
	name, _ := ctx.Value(actorKey{}).(string)
	return name
}
