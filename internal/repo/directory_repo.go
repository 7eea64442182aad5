package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
)

// UpsertAdmin adds chatID to the admin list; adding twice is a no-op.
func UpsertAdmin(ctx context.Context, db *gorm.DB, chatID int64) (*domain.Admin, error) {
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "chat_id"}}, DoNothing: true}).
		Create(&domain.Admin{ChatID: chatID}).Error; err != nil {
		return nil, err
	}
	var a domain.Admin
	if err := db.WithContext(ctx).First(&a, "chat_id = ?", chatID).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteAdminByChat removes an admin and reports how many rows went away.
func DeleteAdminByChat(ctx context.Context, db *gorm.DB, chatID int64) (int64, error) {
	res := db.WithContext(ctx).Where("chat_id = ?", chatID).Delete(&domain.Admin{})
	return res.RowsAffected, res.Error
}

// ListAdmins returns every admin ordered by id.
func ListAdmins(ctx context.Context, db *gorm.DB) ([]domain.Admin, error) {
	var out []domain.Admin
	err := db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

// UpsertSupportAgent adds a support agent; an existing chat id is returned
// unchanged.
func UpsertSupportAgent(ctx context.Context, db *gorm.DB, chatID int64, displayName string) (*domain.SupportAgent, error) {
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "chat_id"}}, DoNothing: true}).
		Create(&domain.SupportAgent{ChatID: chatID, DisplayName: displayName}).Error; err != nil {
		return nil, err
	}
	var a domain.SupportAgent
	if err := db.WithContext(ctx).First(&a, "chat_id = ?", chatID).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// GetSupportAgent fetches an agent by id, or ErrNotFound.
func GetSupportAgent(ctx context.Context, db *gorm.DB, id int64) (*domain.SupportAgent, error) {
	var a domain.SupportAgent
	if err := db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ListSupportAgents returns every agent ordered by id.
func ListSupportAgents(ctx context.Context, db *gorm.DB) ([]domain.SupportAgent, error) {
	var out []domain.SupportAgent
	err := db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

// DeleteSupportAgent removes an agent row. Assignments must be cleared first.
func DeleteSupportAgent(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	res := db.WithContext(ctx).Delete(&domain.SupportAgent{}, id)
	return res.RowsAffected, res.Error
}

// ChatExists reports whether any row of model carries chatID. model must be
// one of the identity tables (admins, support agents, mentors, students).
func ChatExists(ctx context.Context, db *gorm.DB, model any, chatID int64) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(model).Where("chat_id = ?", chatID).Count(&n).Error
	return n > 0, err
}
