package revocation

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

type GormStore struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db, Now: utcNow}
}

func (s *GormStore) IsRevoked(ctx context.Context, fingerprint string) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).
		Model(&models.RevokedAuthToken{}).
		Where("fingerprint = ? AND expires_at > ?", fingerprint, s.Now().UTC()).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Revoke inserts the fingerprint unless it is already stored. Concurrent
// logouts of one token race on the unique index and both succeed.
func (s *GormStore) Revoke(ctx context.Context, fingerprint string, expiresAt time.Time) error {
	row := models.RevokedAuthToken{Fingerprint: fingerprint, ExpiresAt: expiresAt.UTC()}
	return s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "fingerprint"}}, DoNothing: true}).
		Create(&row).Error
}

func (s *GormStore) Purge(ctx context.Context) (int64, error) {
	res := s.DB.WithContext(ctx).
		Where("expires_at <= ?", s.Now().UTC()).
		Delete(&models.RevokedAuthToken{})
	return res.RowsAffected, res.Error
}
