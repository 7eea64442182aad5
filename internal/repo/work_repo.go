// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for units of work.
//
// A unit of work lives either in pending_works or in accepted_works; the
// functions here only move rows, the state machine itself lives in
// services.WorkService.
package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
)

// CreatePending inserts a new pending row for studentID.
func CreatePending(ctx context.Context, db *gorm.DB, studentID int64, description string) (*domain.PendingWork, error) {
	w := &domain.PendingWork{StudentID: studentID, Description: description}
	if err := db.WithContext(ctx).Omit(clause.Associations).Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

// GetPending fetches a pending row by id, or ErrNotFound.
func GetPending(ctx context.Context, db *gorm.DB, id int64) (*domain.PendingWork, error) {
	var w domain.PendingWork
	if err := db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// GetPendingForUpdate is GetPending with a row lock where the store has one.
func GetPendingForUpdate(ctx context.Context, db *gorm.DB, id int64) (*domain.PendingWork, error) {
	return GetPending(ctx, forUpdate(db), id)
}

// LockPending locks the owning student and then the pending row id. Every
// writer that touches more than one pending row of a student goes through
// the student lock first, so two of them never wait on each other's rows.
// A row or student deleted while waiting reports ErrNotFound.
func LockPending(ctx context.Context, db *gorm.DB, id int64) (*domain.PendingWork, error) {
	p, err := GetPending(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if _, err := GetStudentForUpdate(ctx, db, p.StudentID); err != nil {
		return nil, err
	}
	return GetPendingForUpdate(ctx, db, id)
}

// PendingIDsOfStudent returns the ids of a student's pending rows other
// than exclude (pass 0 to keep all).
func PendingIDsOfStudent(ctx context.Context, db *gorm.DB, studentID, exclude int64) ([]int64, error) {
	var ids []int64
	err := db.WithContext(ctx).Model(&domain.PendingWork{}).
		Where("student_id = ? AND id <> ?", studentID, exclude).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// PendingOfStudents returns the pending rows of the given students.
func PendingOfStudents(ctx context.Context, db *gorm.DB, studentIDs []int64) ([]domain.PendingWork, error) {
	var out []domain.PendingWork
	if len(studentIDs) == 0 {
		return out, nil
	}
	err := db.WithContext(ctx).Where("student_id IN ?", studentIDs).Order("id ASC").Find(&out).Error
	return out, err
}

// UpdatePendingDescription rewrites the description of a pending row.
func UpdatePendingDescription(ctx context.Context, db *gorm.DB, id int64, description string) (int64, error) {
	res := db.WithContext(ctx).Model(&domain.PendingWork{}).
		Where("id = ?", id).
		Update("description", description)
	return res.RowsAffected, res.Error
}

// DeletePending removes pending rows. Their links must be cleared first.
func DeletePending(ctx context.Context, db *gorm.DB, ids ...int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.PendingWork{})
	return res.RowsAffected, res.Error
}

// InsertAccepted inserts an accepted row unless the student already holds
// one. inserted is false when the unique index on student_id absorbed the
// insert; the caller then merges into the existing row.
func InsertAccepted(ctx context.Context, db *gorm.DB, studentID int64, description string) (w *domain.AcceptedWork, inserted bool, err error) {
	row := &domain.AcceptedWork{StudentID: studentID, Description: description}
	res := db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "student_id"}}, DoNothing: true}).
		Create(row)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 && row.ID != 0 {
		return row, true, nil
	}
	w, err = GetAcceptedOfStudent(ctx, db, studentID)
	if err != nil {
		return nil, false, err
	}
	return w, res.RowsAffected > 0, nil
}

// GetAccepted fetches an accepted row by id, or ErrNotFound.
func GetAccepted(ctx context.Context, db *gorm.DB, id int64) (*domain.AcceptedWork, error) {
	var w domain.AcceptedWork
	if err := db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// GetAcceptedOfStudent fetches the student's accepted row, or ErrNotFound.
func GetAcceptedOfStudent(ctx context.Context, db *gorm.DB, studentID int64) (*domain.AcceptedWork, error) {
	var w domain.AcceptedWork
	if err := forUpdate(db).WithContext(ctx).First(&w, "student_id = ?", studentID).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// AcceptedOfStudents returns the accepted rows of the given students.
func AcceptedOfStudents(ctx context.Context, db *gorm.DB, studentIDs []int64) ([]domain.AcceptedWork, error) {
	var out []domain.AcceptedWork
	if len(studentIDs) == 0 {
		return out, nil
	}
	err := db.WithContext(ctx).Where("student_id IN ?", studentIDs).Order("id ASC").Find(&out).Error
	return out, err
}

// DeleteAccepted removes accepted rows. Their links must be cleared first.
func DeleteAccepted(ctx context.Context, db *gorm.DB, ids ...int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.AcceptedWork{})
	return res.RowsAffected, res.Error
}

// WorkCounts returns how many pending and accepted rows a student holds.
func WorkCounts(ctx context.Context, db *gorm.DB, studentID int64) (pending, accepted int64, err error) {
	if err = db.WithContext(ctx).Model(&domain.PendingWork{}).
		Where("student_id = ?", studentID).Count(&pending).Error; err != nil {
		return 0, 0, err
	}
	if err = db.WithContext(ctx).Model(&domain.AcceptedWork{}).
		Where("student_id = ?", studentID).Count(&accepted).Error; err != nil {
		return 0, 0, err
	}
	return pending, accepted, nil
}
