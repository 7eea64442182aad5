package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
)

// FileSupportRequest opens a request for chatID. When one is already open
// the existing row is returned and created is false.
func FileSupportRequest(ctx context.Context, db *gorm.DB, chatID int64, displayName, issue string) (r *domain.SupportRequest, created bool, err error) {
	row := domain.SupportRequest{ChatID: chatID, DisplayName: displayName, Issue: issue}
	res := db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "chat_id"}}, DoNothing: true}).
		Create(&row)
	if res.Error != nil {
		return nil, false, res.Error
	}
	var got domain.SupportRequest
	if err := db.WithContext(ctx).First(&got, "chat_id = ?", chatID).Error; err != nil {
		return nil, false, err
	}
	return &got, res.RowsAffected > 0, nil
}

// GetSupportRequest fetches a request by id, or ErrNotFound.
func GetSupportRequest(ctx context.Context, db *gorm.DB, id int64) (*domain.SupportRequest, error) {
	var r domain.SupportRequest
	if err := db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// ListSupportRequests returns open requests in filing order. A non-zero
// agentID keeps only the requests assigned to that agent.
func ListSupportRequests(ctx context.Context, db *gorm.DB, agentID int64) ([]domain.SupportRequest, error) {
	q := db.WithContext(ctx).Model(&domain.SupportRequest{})
	if agentID != 0 {
		q = q.Where("assigned_support_id = ?", agentID)
	}
	var out []domain.SupportRequest
	err := q.Order("id ASC").Find(&out).Error
	return out, err
}

// AssignSupportRequest sets the assigned agent of a request.
func AssignSupportRequest(ctx context.Context, db *gorm.DB, id, agentID int64) (int64, error) {
	res := db.WithContext(ctx).Model(&domain.SupportRequest{}).
		Where("id = ?", id).
		Update("assigned_support_id", agentID)
	return res.RowsAffected, res.Error
}

// ClearAssignments unassigns every request held by agentID.
func ClearAssignments(ctx context.Context, db *gorm.DB, agentID int64) error {
	return db.WithContext(ctx).Model(&domain.SupportRequest{}).
		Where("assigned_support_id = ?", agentID).
		Update("assigned_support_id", gorm.Expr("NULL")).Error
}

// DeleteSupportRequest removes a request and reports whether it existed.
func DeleteSupportRequest(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	res := db.WithContext(ctx).Delete(&domain.SupportRequest{}, id)
	return res.RowsAffected, res.Error
}
