package audit

import "context"

type requestIDKey struct{}

// WithRequestID anexa o id da requisição para que os eventos possam ser
// correlacionados com os logs HTTP.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
