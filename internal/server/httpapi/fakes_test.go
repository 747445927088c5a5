package httpapi

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/server/models"
	filesrepo "github.com/dmitrijs2005/filekeeper/internal/server/repositories/files"
)

// In-memory repositories backing the handler tests. They hand out real
// UUIDs because the handlers reject malformed path ids before the
// repositories are ever reached.

type fakeUsersRepo struct {
	users []*models.User
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Count(context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

type fakeFilesRepo struct {
	files []*models.File
}

func (f *fakeFilesRepo) Create(_ context.Context, file *models.File) (*models.File, error) {
	file.ID = uuid.NewString()
	file.CreatedAt = time.Now()
	f.files = append(f.files, file)
	return file, nil
}

func (f *fakeFilesRepo) GetByID(_ context.Context, id string) (*models.File, error) {
	for _, file := range f.files {
		if file.ID == id {
			return file, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeFilesRepo) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*models.File, error) {
	file, err := f.GetByID(ctx, id)
	if err != nil || file.UserID != ownerID {
		return nil, common.ErrorNotFound
	}
	return file, nil
}

func (f *fakeFilesRepo) ListByOwnerAndParent(_ context.Context, ownerID, parentID string, page int) ([]*models.File, error) {
	matched := []*models.File{}
	for _, file := range f.files {
		if file.UserID == ownerID && file.ParentID == parentID {
			matched = append(matched, file)
		}
	}
	if page < 0 || page > math.MaxInt/filesrepo.PageSize {
		return []*models.File{}, nil
	}
	start := page * filesrepo.PageSize
	if start >= len(matched) {
		return []*models.File{}, nil
	}
	end := start + filesrepo.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (f *fakeFilesRepo) SetVisibility(ctx context.Context, id, ownerID string, isPublic bool) (*models.File, error) {
	file, err := f.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	file.IsPublic = isPublic
	return file, nil
}

func (f *fakeFilesRepo) Count(context.Context) (int64, error) {
	return int64(len(f.files)), nil
}
