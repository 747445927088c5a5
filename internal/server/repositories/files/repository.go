package files

import (
	"context"

	"github.com/dmitrijs2005/filekeeper/internal/server/models"
)

// PageSize is the fixed page length for listings. Pages are zero-based;
// out-of-range pages yield empty results, not errors.
const PageSize = 20

type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	GetByID(ctx context.Context, id string) (*models.File, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*models.File, error)
	ListByOwnerAndParent(ctx context.Context, ownerID, parentID string, page int) ([]*models.File, error)
	SetVisibility(ctx context.Context, id, ownerID string, isPublic bool) (*models.File, error)
	Count(ctx context.Context) (int64, error)
}
