package utils

import (
	"context"
	"log/slog"
)

type ContextKey int

const (
	ContextKeyLogger ContextKey = iota
	ContextKeySession
)

func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ContextKeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

func StoreLoggerInContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ContextKeyLogger, logger)
}

// SessionContext carries the caller-supplied actor context that audit entries
// are attributed to. The core never invents this, it is injected by the
// surrounding request layer.
type SessionContext struct {
	SessionId string
	IpAddress string
}

func SessionFromContext(ctx context.Context) SessionContext {
	session, _ := ctx.Value(ContextKeySession).(SessionContext)
	return session
}

func StoreSessionInContext(ctx context.Context, session SessionContext) context.Context {
	return context.WithValue(ctx, ContextKeySession, session)
}
