package repository

import (
	"context"

	"posbackend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChallengeRepository persists password-reset challenges. The unique index on
// user_id enforces the one-live-challenge-per-account invariant; Replace is a
// delete-then-create, not an additive insert.
type ChallengeRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.PasswordResetChallenge, error)
	Replace(ctx context.Context, challenge *model.PasswordResetChallenge) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type challengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.PasswordResetChallenge, error) {
	var challenge model.PasswordResetChallenge
	if err := GetDB(ctx, r.db).First(&challenge, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (r *challengeRepository) Replace(ctx context.Context, challenge *model.PasswordResetChallenge) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("user_id = ?", challenge.UserID).Delete(&model.PasswordResetChallenge{}).Error; err != nil {
		return err
	}
	return db.Create(challenge).Error
}

func (r *challengeRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("user_id = ?", userID).Delete(&model.PasswordResetChallenge{}).Error
}
