package bootstrap

import "context"

// AuditLog is an operator-relevant event outside the request workflow log.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
