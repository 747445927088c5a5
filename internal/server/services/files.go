package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/server/content"
	"github.com/dmitrijs2005/filekeeper/internal/server/models"
	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/files"
)

// FileService implements the file operations and the access policy
// applied to them: metadata reads and mutations are owner-only, content
// retrieval additionally honors the public flag.
type FileService struct {
	files  files.Repository
	blobs  content.Store
	logger logging.Logger
}

func NewFileService(f files.Repository, b content.Store, l logging.Logger) *FileService {
	return &FileService{
		files:  f,
		blobs:  b,
		logger: l.With("module", "files"),
	}
}

// UploadRequest carries a validated upload. ParentID is the internal
// form: empty for a top-level record. Data is the decoded payload,
// ignored for folders.
type UploadRequest struct {
	Name     string
	Type     string
	ParentID string
	IsPublic bool
	Data     []byte
}

// Upload validates the hierarchy constraints and creates the record.
// The parent, when given, must exist and be a folder; the parent lookup
// is deliberately not owner-filtered. For leaf records the payload is
// written to the content store before the metadata insert, and removed
// again if the insert fails, so a leaf record never exists without its
// content.
func (s *FileService) Upload(ctx context.Context, userID string, req *UploadRequest) (*models.File, error) {
	if req.Name == "" || !models.IsValidType(req.Type) {
		return nil, fmt.Errorf("invalid upload request: %w", common.ErrorInternal)
	}

	if req.ParentID != "" {
		parent, err := s.files.GetByID(ctx, req.ParentID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrorParentNotFound
			}
			return nil, err
		}
		if !parent.IsFolder() {
			return nil, common.ErrorParentNotFolder
		}
	}

	file := &models.File{
		UserID:   userID,
		Name:     req.Name,
		Type:     req.Type,
		IsPublic: req.IsPublic,
		ParentID: req.ParentID,
	}

	if req.Type != models.TypeFolder {
		file.StorageKey = uuid.NewString()
		if err := s.blobs.Put(ctx, file.StorageKey, req.Data); err != nil {
			return nil, err
		}
	}

	created, err := s.files.Create(ctx, file)
	if err != nil {
		if file.StorageKey != "" {
			if delErr := s.blobs.Delete(ctx, file.StorageKey); delErr != nil {
				s.logger.Warn(ctx, "orphaned blob cleanup failed", "storage_key", file.StorageKey, "error", delErr)
			}
		}
		return nil, err
	}

	s.logger.Info(ctx, "file created", "file_id", created.ID, "type", created.Type, "user_id", userID)
	return created, nil
}

// Get returns the caller's own record. Absence and ownership mismatch
// are identical from the caller's point of view.
func (s *FileService) Get(ctx context.Context, userID, id string) (*models.File, error) {
	return s.files.GetByIDAndOwner(ctx, id, userID)
}

// List returns one page of the caller's records under the given parent.
func (s *FileService) List(ctx context.Context, userID, parentID string, page int) ([]*models.File, error) {
	return s.files.ListByOwnerAndParent(ctx, userID, parentID, page)
}

// SetVisibility publishes or unpublishes the caller's own record.
func (s *FileService) SetVisibility(ctx context.Context, userID, id string, isPublic bool) (*models.File, error) {
	f, err := s.files.SetVisibility(ctx, id, userID, isPublic)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "visibility changed", "file_id", id, "is_public", isPublic, "user_id", userID)
	return f, nil
}

// Content returns the record and payload bytes for a content request.
// userID is empty for anonymous callers. Checks run in a fixed order:
// the record must exist, be public or owned by the caller, not be a
// folder, and have readable bytes. The first three failures all read as
// "not found" externally; only the folder case gets its own error.
func (s *FileService) Content(ctx context.Context, userID, id string) (*models.File, []byte, error) {
	file, err := s.files.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if !file.IsPublic && file.UserID != userID {
		s.logger.Info(ctx, "content access denied", "file_id", id, "reason", "not public, not owner")
		return nil, nil, common.ErrorNotOwned
	}

	if file.IsFolder() {
		return nil, nil, common.ErrorFolderNoContent
	}

	data, err := s.blobs.Get(ctx, file.StorageKey)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "leaf record without readable content", "file_id", id, "storage_key", file.StorageKey)
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, err
	}

	return file, data, nil
}

// Count reports the total number of file records. Used by /stats.
func (s *FileService) Count(ctx context.Context) (int64, error) {
	return s.files.Count(ctx)
}
