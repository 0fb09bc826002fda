package db

import (
	"context"
	"strings"
	"time"

	"yarn_inventory/models"

	"gorm.io/gorm"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// YarnFilter narrows ListYarn; empty fields match everything.
type YarnFilter struct {
	Brand string
	Color string
}

// likeEscaper makes user input match literally inside LIKE ... ESCAPE '!'.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// active scopes a query to rows that have not been soft-deleted.
func active(tx *gorm.DB) *gorm.DB {
	return tx.Where("deleted = ?", false)
}

// ListYarn returns non-deleted yarn, newest first, with optional
// case-insensitive substring filters on brand and color.
func (r *Repo) ListYarn(ctx context.Context, f YarnFilter) ([]models.Yarn, error) {
	tx := r.DB.WithContext(ctx).Model(&models.Yarn{}).Scopes(active)
	if s := strings.TrimSpace(f.Brand); s != "" {
		tx = tx.Where("LOWER(brand) LIKE ? ESCAPE '!'", containsPattern(s))
	}
	if s := strings.TrimSpace(f.Color); s != "" {
		tx = tx.Where("LOWER(color) LIKE ? ESCAPE '!'", containsPattern(s))
	}

	items := []models.Yarn{}
	if err := tx.Order("date_added DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindYarn returns the non-deleted row with id, or gorm.ErrRecordNotFound.
func (r *Repo) FindYarn(ctx context.Context, id int64) (*models.Yarn, error) {
	var y models.Yarn
	if err := r.DB.WithContext(ctx).Scopes(active).Where("id = ?", id).Take(&y).Error; err != nil {
		return nil, err
	}
	return &y, nil
}

// FindYarnUnscoped returns the row with id whether or not it was deleted.
func (r *Repo) FindYarnUnscoped(ctx context.Context, id int64) (*models.Yarn, error) {
	var y models.Yarn
	if err := r.DB.WithContext(ctx).Where("id = ?", id).Take(&y).Error; err != nil {
		return nil, err
	}
	return &y, nil
}

// CreateYarn inserts y and fills in its generated id.
func (r *Repo) CreateYarn(ctx context.Context, y *models.Yarn) error {
	return r.DB.WithContext(ctx).Create(y).Error
}

// UpdateYarn writes every key of fields (nil values become NULL) to the
// non-deleted row with id.
func (r *Repo) UpdateYarn(ctx context.Context, id int64, fields map[string]any) error {
	return r.DB.WithContext(ctx).Model(&models.Yarn{}).
		Scopes(active).
		Where("id = ?", id).
		Updates(fields).Error
}

// SoftDeleteYarn flags the non-deleted row with id as deleted and reports
// how many rows changed.
func (r *Repo) SoftDeleteYarn(ctx context.Context, id int64, when time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.Yarn{}).
		Scopes(active).
		Where("id = ?", id).
		Updates(map[string]any{
			"deleted":      true,
			"deleted_when": when,
		})
	return res.RowsAffected, res.Error
}
