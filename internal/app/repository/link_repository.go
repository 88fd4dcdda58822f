package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sifan077/tinyurl/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrLinkNotFound signals that the requested short link does not exist.
	ErrLinkNotFound = errors.New("link not found")

	// ErrDuplicateCode signals that the code is already taken.
	ErrDuplicateCode = errors.New("code already exists")
)

// LinkRepository defines the data access contract for short links.
// Every method issues a single statement, except ResolveAndTrack which
// issues a lookup followed by a relative update.
type LinkRepository interface {
	Exists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, link *model.Link) error
	GetByCode(ctx context.Context, code string) (*model.Link, error)
	List(ctx context.Context, limit, offset int) ([]model.Link, error)
	Delete(ctx context.Context, code string) error
	ResolveAndTrack(ctx context.Context, code string) (string, error)
}

type linkRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewLinkRepository returns a GORM-backed LinkRepository.
func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db, now: time.Now}
}

func (r *linkRepository) Exists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Link{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *linkRepository) Create(ctx context.Context, link *model.Link) error {
	link.TotalClicks = 0
	link.LastClicked = nil
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return err
	}
	return nil
}

func (r *linkRepository) GetByCode(ctx context.Context, code string) (*model.Link, error) {
	var link model.Link
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

// List returns links newest first. A non-positive limit returns every row.
func (r *linkRepository) List(ctx context.Context, limit, offset int) ([]model.Link, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	result := make([]model.Link, 0)
	if err := query.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *linkRepository) Delete(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).
		Where("code = ?", code).
		Delete(&model.Link{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLinkNotFound
	}
	return nil
}

// ResolveAndTrack looks up the destination of code and records one click.
// A miss writes nothing. The increment is relative so concurrent clicks on
// the same code are serialized by the store and none is lost.
func (r *linkRepository) ResolveAndTrack(ctx context.Context, code string) (string, error) {
	db := r.db.WithContext(ctx)

	var link model.Link
	if err := db.Select("code", "url").Where("code = ?", code).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrLinkNotFound
		}
		return "", err
	}

	result := db.Model(&model.Link{}).
		Where("code = ?", code).
		UpdateColumns(map[string]interface{}{
			"total_clicks": gorm.Expr("total_clicks + ?", 1),
			"last_clicked": r.now().UTC(),
		})
	if result.Error != nil {
		return "", result.Error
	}
	// Deleted between the lookup and the update.
	if result.RowsAffected == 0 {
		return "", ErrLinkNotFound
	}

	return link.URL, nil
}
