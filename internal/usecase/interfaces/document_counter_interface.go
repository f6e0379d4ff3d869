package interfaces

import (
	"context"
	"time"

	"fixflow_crm/internal/domain/entities"
)

// IDocumentCounter exposes the per-kind created-since count used by the
// reference number allocator. The count is a plain read: it is not
// serialized against concurrent writers, so allocations racing on the same
// kind and day can observe the same count.

type IDocumentCounter interface {
	CountCreatedSince(ctx context.Context, kind entities.DocumentKind, since time.Time) (int, error)
}
