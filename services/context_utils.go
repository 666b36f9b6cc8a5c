package services

import "context"

// persistentContext keeps ctx values but drops its cancellation, so work that
// must finish after the request (mail, audit) is not cut short.
func persistentContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}
