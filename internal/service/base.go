// Package service contains the quoting logic backing the HTTP handlers.
package service

import "log/slog"

// BaseService provides common dependencies for service types.
type BaseService struct {
	logger *slog.Logger
}
