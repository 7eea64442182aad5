package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
)

// CreateIdea inserts an idea owned by mentorID.
func CreateIdea(ctx context.Context, db *gorm.DB, mentorID int64, description string) (*domain.Idea, error) {
	i := &domain.Idea{MentorID: mentorID, Description: description}
	if err := db.WithContext(ctx).Omit(clause.Associations).Create(i).Error; err != nil {
		return nil, err
	}
	return i, nil
}

// GetIdea fetches an idea by id, or ErrNotFound.
func GetIdea(ctx context.Context, db *gorm.DB, id int64) (*domain.Idea, error) {
	var i domain.Idea
	if err := db.WithContext(ctx).First(&i, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

// IdeaQuery narrows ListIdeas. Zero fields do not filter.
type IdeaQuery struct {
	MentorID  int64
	SubjectID int64
}

// ListIdeas returns ideas ordered by id.
func ListIdeas(ctx context.Context, db *gorm.DB, q IdeaQuery) ([]domain.Idea, error) {
	tx := db.WithContext(ctx).Model(&domain.Idea{})
	if q.MentorID != 0 {
		tx = tx.Where("ideas.mentor_id = ?", q.MentorID)
	}
	if q.SubjectID != 0 {
		tx = tx.Joins("JOIN idea_subjects isb ON isb.idea_id = ideas.id").
			Where("isb.subject_id = ?", q.SubjectID)
	}
	var out []domain.Idea
	err := tx.Order("ideas.id ASC").Find(&out).Error
	return out, err
}

// IdeaIDsOfMentor returns the ids of every idea owned by mentorID.
func IdeaIDsOfMentor(ctx context.Context, db *gorm.DB, mentorID int64) ([]int64, error) {
	var ids []int64
	err := db.WithContext(ctx).Model(&domain.Idea{}).
		Where("mentor_id = ?", mentorID).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// DeleteIdeas removes idea rows. Their links must be cleared first.
func DeleteIdeas(ctx context.Context, db *gorm.DB, ids ...int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Idea{})
	return res.RowsAffected, res.Error
}
