package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
)

// UpsertMentor inserts a mentor with load 0, or returns the existing one for
// the same chat id. created reports whether a row was inserted.
func UpsertMentor(ctx context.Context, db *gorm.DB, displayName string, chatID int64) (m *domain.Mentor, created bool, err error) {
	row := domain.Mentor{DisplayName: displayName, ChatID: chatID}
	res := db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "chat_id"}}, DoNothing: true}).
		Create(&row)
	if res.Error != nil {
		return nil, false, res.Error
	}
	m, err = GetMentorByChat(ctx, db, chatID)
	if err != nil {
		return nil, false, err
	}
	return m, res.RowsAffected > 0, nil
}

// GetMentor fetches a mentor by id, or ErrNotFound.
func GetMentor(ctx context.Context, db *gorm.DB, id int64) (*domain.Mentor, error) {
	var m domain.Mentor
	if err := db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMentorForUpdate is GetMentor with a row lock where the store has one.
func GetMentorForUpdate(ctx context.Context, db *gorm.DB, id int64) (*domain.Mentor, error) {
	return GetMentor(ctx, forUpdate(db), id)
}

// GetMentorByChat fetches a mentor by chat id, or ErrNotFound.
func GetMentorByChat(ctx context.Context, db *gorm.DB, chatID int64) (*domain.Mentor, error) {
	var m domain.Mentor
	if err := db.WithContext(ctx).First(&m, "chat_id = ?", chatID).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMentors returns every mentor ordered by id.
func ListMentors(ctx context.Context, db *gorm.DB) ([]domain.Mentor, error) {
	var out []domain.Mentor
	err := db.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}

// MentorsOfStudent returns the mentors holding a supervision edge to studentID.
func MentorsOfStudent(ctx context.Context, db *gorm.DB, studentID int64) ([]domain.Mentor, error) {
	var out []domain.Mentor
	err := db.WithContext(ctx).Model(&domain.Mentor{}).
		Joins("JOIN mentor_students ms ON ms.mentor_id = mentors.id").
		Where("ms.student_id = ?", studentID).
		Order("mentors.id ASC").
		Find(&out).Error
	return out, err
}

// AddLoad adjusts a mentor's load by delta in one statement, never below zero.
func AddLoad(ctx context.Context, db *gorm.DB, mentorID, delta int64) error {
	return db.WithContext(ctx).Model(&domain.Mentor{}).
		Where("id = ?", mentorID).
		Update("load_count", gorm.Expr("CASE WHEN load_count + ? < 0 THEN 0 ELSE load_count + ? END", delta, delta)).Error
}

// SetMentorArchived flips the archived flag, or returns ErrNotFound.
func SetMentorArchived(ctx context.Context, db *gorm.DB, id int64, archived bool) error {
	if _, err := GetMentor(ctx, db, id); err != nil {
		return err
	}
	return db.WithContext(ctx).Model(&domain.Mentor{}).
		Where("id = ?", id).
		Update("archived", archived).Error
}

// DeleteMentor removes the mentor row. Links, ideas and supervision edges
// must be removed first.
func DeleteMentor(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	res := db.WithContext(ctx).Delete(&domain.Mentor{}, id)
	return res.RowsAffected, res.Error
}

// MentorMatch is a mentor ranked for a set of requested subjects.
type MentorMatch struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	ChatID      int64  `json:"chat_id"`
	Load        int64  `json:"load"`
	Matches     int64  `json:"matches"`
}

// MatchMentors returns non-archived mentors linked to at least one of
// subjectIDs, least loaded first, then by number of matching subjects.
func MatchMentors(ctx context.Context, db *gorm.DB, subjectIDs []int64, limit int) ([]MentorMatch, error) {
	var out []MentorMatch
	if len(subjectIDs) == 0 {
		return out, nil
	}
	q := db.WithContext(ctx).Table("mentors m").
		Select("m.id AS id, m.display_name AS display_name, m.chat_id AS chat_id, m.load_count AS load, COUNT(ms.subject_id) AS matches").
		Joins("JOIN mentor_subjects ms ON ms.mentor_id = m.id").
		Where("ms.subject_id IN ?", subjectIDs).
		Where("m.archived = ?", false).
		Group("m.id, m.display_name, m.chat_id, m.load_count").
		Order("m.load_count ASC").Order("matches DESC").Order("m.id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Scan(&out).Error
	return out, err
}

// CreateSupervision records that mentorID supervises studentID. An existing
// edge is left as is.
func CreateSupervision(ctx context.Context, db *gorm.DB, mentorID, studentID int64) error {
	return db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.Supervision{MentorID: mentorID, StudentID: studentID}).Error
}

// DeleteSupervision removes a single edge and reports whether it existed.
func DeleteSupervision(ctx context.Context, db *gorm.DB, mentorID, studentID int64) (int64, error) {
	res := db.WithContext(ctx).
		Where("mentor_id = ? AND student_id = ?", mentorID, studentID).
		Delete(&domain.Supervision{})
	return res.RowsAffected, res.Error
}

// DeleteSupervisionsOfStudent removes every edge that points at studentID.
func DeleteSupervisionsOfStudent(ctx context.Context, db *gorm.DB, studentID int64) error {
	return db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&domain.Supervision{}).Error
}

// DeleteSupervisionsOfMentor removes every edge that starts at mentorID.
func DeleteSupervisionsOfMentor(ctx context.Context, db *gorm.DB, mentorID int64) error {
	return db.WithContext(ctx).Where("mentor_id = ?", mentorID).Delete(&domain.Supervision{}).Error
}

// SupervisedStudentIDs returns the ids of the students supervised by mentorID.
func SupervisedStudentIDs(ctx context.Context, db *gorm.DB, mentorID int64) ([]int64, error) {
	var ids []int64
	err := db.WithContext(ctx).Model(&domain.Supervision{}).
		Where("mentor_id = ?", mentorID).
		Order("student_id ASC").
		Pluck("student_id", &ids).Error
	return ids, err
}

// SupervisionEdges returns the edges starting at any of mentorIDs.
func SupervisionEdges(ctx context.Context, db *gorm.DB, mentorIDs []int64) ([]domain.Supervision, error) {
	var out []domain.Supervision
	if len(mentorIDs) == 0 {
		return out, nil
	}
	err := db.WithContext(ctx).
		Where("mentor_id IN ?", mentorIDs).
		Order("mentor_id ASC").Order("student_id ASC").
		Find(&out).Error
	return out, err
}
