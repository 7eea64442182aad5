package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
)

// UpsertStudent returns the student for chatID, inserting it first when the
// chat id is unseen. An existing row keeps its display name.
func UpsertStudent(ctx context.Context, db *gorm.DB, chatID int64, displayName string) (*domain.Student, error) {
	row := domain.Student{DisplayName: displayName, ChatID: chatID}
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "chat_id"}}, DoNothing: true}).
		Create(&row).Error; err != nil {
		return nil, err
	}
	return GetStudentByChat(ctx, db, chatID)
}

// GetStudent fetches a student by id, or ErrNotFound.
func GetStudent(ctx context.Context, db *gorm.DB, id int64) (*domain.Student, error) {
	var s domain.Student
	if err := db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// GetStudentForUpdate is GetStudent with a row lock where the store has one.
func GetStudentForUpdate(ctx context.Context, db *gorm.DB, id int64) (*domain.Student, error) {
	return GetStudent(ctx, forUpdate(db), id)
}

// GetStudentByChat fetches a student by chat id, or ErrNotFound.
func GetStudentByChat(ctx context.Context, db *gorm.DB, chatID int64) (*domain.Student, error) {
	var s domain.Student
	if err := db.WithContext(ctx).First(&s, "chat_id = ?", chatID).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// ListStudents returns every student ordered by id.
func ListStudents(ctx context.Context, db *gorm.DB) ([]domain.Student, error) {
	var out []domain.Student
	err := db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

// StudentsByIDs returns the students whose id is in ids, ordered by id.
func StudentsByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]domain.Student, error) {
	var out []domain.Student
	if len(ids) == 0 {
		return out, nil
	}
	err := db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&out).Error
	return out, err
}

// StudentsOfMentor returns the students supervised by mentorID.
func StudentsOfMentor(ctx context.Context, db *gorm.DB, mentorID int64) ([]domain.Student, error) {
	var out []domain.Student
	err := db.WithContext(ctx).Model(&domain.Student{}).
		Joins("JOIN mentor_students ms ON ms.student_id = students.id").
		Where("ms.mentor_id = ?", mentorID).
		Order("students.id ASC").
		Find(&out).Error
	return out, err
}

// DeleteStudent removes the student row. Work rows and edges must be gone.
func DeleteStudent(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	res := db.WithContext(ctx).Delete(&domain.Student{}, id)
	return res.RowsAffected, res.Error
}
