package service

import (
	"context"

	"github.com/okian/journal/internal/domain/journal"
	"github.com/okian/journal/pkg/logger"
)

// requestConfirmer answers prompts from the request context and logs them.
func requestConfirmer(log logger.Logger) journal.Confirmer {
	return journal.ConfirmFunc(func(ctx context.Context, message string) bool {
		ok := journal.FromContext.Confirm(ctx, message)
		log.Debug(ctx, "confirmation", logger.String("prompt", message), logger.Bool("confirmed", ok))
		return ok
	})
}
