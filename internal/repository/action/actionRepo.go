package actionRepo

import (
	"context"

	"github.com/ghaniswara/algolove/internal/entity"
	"gorm.io/gorm"
)

// IActionRepo is a write-only audit trail of accepted match actions.
type IActionRepo interface {
	Record(ctx context.Context, log *entity.MatchActionLog) error
}

type ActionRepo struct {
	db *gorm.DB
}

// NewActionRepo returns an audit log over db. A nil db disables auditing.
func NewActionRepo(db *gorm.DB) IActionRepo {
	return &ActionRepo{db: db}
}

func (a *ActionRepo) Record(ctx context.Context, log *entity.MatchActionLog) error {
	if a.db == nil {
		return nil
	}

	return a.db.WithContext(ctx).Create(log).Error
}
