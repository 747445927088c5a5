package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/dbx"
	"github.com/dmitrijs2005/filekeeper/internal/server/models"
)

// PostgresRepository implements file-metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx). A root record is stored with parent_id NULL and
// exposed as an empty ParentID.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// fileColumns is the select list shared by all record-returning queries.
const fileColumns = `id, user_id, name, type, is_public, COALESCE(parent_id::text, ''), COALESCE(storage_key, ''), created_at`

func scanFile(row interface{ Scan(dest ...any) error }) (*models.File, error) {
	f := &models.File{}
	err := row.Scan(&f.ID, &f.UserID, &f.Name, &f.Type, &f.IsPublic, &f.ParentID, &f.StorageKey, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// nullable converts the internal empty-string sentinel to SQL NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {

	query :=
		`INSERT INTO files (user_id, name, type, is_public, parent_id, storage_key)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		file.UserID, file.Name, file.Type, file.IsPublic,
		nullable(file.ParentID), nullable(file.StorageKey)).
		Scan(&file.ID, &file.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`

	f, err := scanFile(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *PostgresRepository) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1 AND user_id = $2`

	f, err := scanFile(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

// ListByOwnerAndParent returns one page of the owner's records under the
// given parent, in insertion order. parentID is the internal form: empty
// for top-level records.
func (r *PostgresRepository) ListByOwnerAndParent(ctx context.Context, ownerID, parentID string, page int) ([]*models.File, error) {
	if page < 0 {
		page = 0
	}
	// page*PageSize must not wrap into a negative OFFSET; any page this
	// far out is empty anyway.
	if page > math.MaxInt/PageSize {
		return []*models.File{}, nil
	}

	query := `SELECT ` + fileColumns + `
		 FROM files
		 WHERE user_id = $1 AND parent_id IS NOT DISTINCT FROM $2::uuid
		 ORDER BY created_at, id
		 LIMIT $3 OFFSET $4
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID, nullable(parentID), PageSize, page*PageSize)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.File{}
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// SetVisibility flips is_public on the caller's own record. An id that
// does not exist or belongs to another owner yields ErrorNotFound; the
// two cases are indistinguishable here on purpose.
func (r *PostgresRepository) SetVisibility(ctx context.Context, id, ownerID string, isPublic bool) (*models.File, error) {
	query :=
		`UPDATE files SET is_public = $1
		 WHERE id = $2 AND user_id = $3
		 RETURNING ` + fileColumns

	f, err := scanFile(r.db.QueryRowContext(ctx, query, isPublic, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM files`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
