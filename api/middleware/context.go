package middleware

import (
	"context"

	pkgAuth "github.com/angelmondragon/comicstore/pkg/auth"
)

type contextKey string

const ctxAccount contextKey = "account"

// AccountFromContext returns the caller resolved by Account, or the anonymous account.
func AccountFromContext(ctx context.Context) pkgAuth.Account {
	if ctx == nil {
		return pkgAuth.Anonymous
	}
	if v, ok := ctx.Value(ctxAccount).(pkgAuth.Account); ok {
		return v
	}
	return pkgAuth.Anonymous
}

// WithAccount injects the caller identity into the context.
func WithAccount(ctx context.Context, account pkgAuth.Account) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccount, account)
}
