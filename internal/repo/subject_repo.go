// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Subject
// catalog and for the four subject join tables.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. Counters are changed with single
// UPDATE statements, never by reading and writing back a value.
package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
)

// UpsertSubject inserts name with usage_count=1 or, when the name already
// exists, increments its usage_count. It returns the subject id either way.
func UpsertSubject(ctx context.Context, db *gorm.DB, name string) (int64, error) {
	s := domain.Subject{Name: name, UsageCount: 1}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]any{"usage_count": gorm.Expr("subjects.usage_count + 1")}),
		}).
		Create(&s).Error
	if err != nil {
		return 0, err
	}

	// The RETURNING id of an upsert is not reliable across drivers; the name
	// is immutable, so reading it back is safe.
	var ids []int64
	if err := db.WithContext(ctx).Model(&domain.Subject{}).
		Where("name = ?", name).
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, ErrNotFound
	}
	return ids[0], nil
}

// DecrementUsage lowers usage_count by one for each id, never below zero.
func DecrementUsage(ctx context.Context, db *gorm.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return db.WithContext(ctx).Model(&domain.Subject{}).
		Where("id IN ?", ids).
		Update("usage_count", gorm.Expr("CASE WHEN usage_count > 0 THEN usage_count - 1 ELSE 0 END")).Error
}

// GetSubject fetches a subject by id, or ErrNotFound.
func GetSubject(ctx context.Context, db *gorm.DB, id int64) (*domain.Subject, error) {
	var s domain.Subject
	if err := db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSubjectByName fetches a subject by its exact name, or ErrNotFound.
func GetSubjectByName(ctx context.Context, db *gorm.DB, name string) (*domain.Subject, error) {
	var s domain.Subject
	if err := db.WithContext(ctx).First(&s, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// SubjectsByIDs returns the subjects whose id is in ids, ordered by name.
func SubjectsByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]domain.Subject, error) {
	var out []domain.Subject
	if len(ids) == 0 {
		return out, nil
	}
	err := db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&out).Error
	return out, err
}

// ListSubjects returns subjects ordered by usage, most used first. A nil
// archived lists every subject.
func ListSubjects(ctx context.Context, db *gorm.DB, archived *bool) ([]domain.Subject, error) {
	q := db.WithContext(ctx).Model(&domain.Subject{})
	if archived != nil {
		q = q.Where("archived = ?", *archived)
	}
	var out []domain.Subject
	err := q.Order("usage_count DESC").Order("name ASC").Find(&out).Error
	return out, err
}

// SetSubjectArchived flips the archived flag. It returns ErrNotFound when
// the subject does not exist.
func SetSubjectArchived(ctx context.Context, db *gorm.DB, id int64, archived bool) error {
	if _, err := GetSubject(ctx, db, id); err != nil {
		return err
	}
	return db.WithContext(ctx).Model(&domain.Subject{}).
		Where("id = ?", id).
		Update("archived", archived).Error
}

// DeleteSubjectLinks removes every join row that references subjectID, in
// all four join tables.
func DeleteSubjectLinks(ctx context.Context, db *gorm.DB, subjectID int64) error {
	for _, l := range allLinks {
		if err := db.WithContext(ctx).
			Exec("DELETE FROM "+l.Table+" WHERE subject_id = ?", subjectID).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteSubject hard-deletes a subject row. Links must be removed first.
func DeleteSubject(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	res := db.WithContext(ctx).Delete(&domain.Subject{}, id)
	return res.RowsAffected, res.Error
}

// Link describes one subject join table: its name and the column holding
// the owner id.
type Link struct {
	Table string
	Owner string
}

// The subject join tables.
var (
	MentorLinks   = Link{Table: "mentor_subjects", Owner: "mentor_id"}
	PendingLinks  = Link{Table: "pending_work_subjects", Owner: "work_id"}
	AcceptedLinks = Link{Table: "accepted_work_subjects", Owner: "work_id"}
	IdeaLinks     = Link{Table: "idea_subjects", Owner: "idea_id"}

	allLinks = []Link{MentorLinks, PendingLinks, AcceptedLinks, IdeaLinks}
)

// Attach links subjectIDs to ownerID. Pairs that already exist are left
// alone, so the call is idempotent.
func (l Link) Attach(ctx context.Context, db *gorm.DB, ownerID int64, subjectIDs []int64) error {
	if len(subjectIDs) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(subjectIDs))
	seen := make(map[int64]struct{}, len(subjectIDs))
	for _, sid := range subjectIDs {
		if _, dup := seen[sid]; dup {
			continue
		}
		seen[sid] = struct{}{}
		rows = append(rows, map[string]any{l.Owner: ownerID, "subject_id": sid})
	}
	return db.WithContext(ctx).Table(l.Table).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

// Detach removes the given pairs and returns how many existed.
func (l Link) Detach(ctx context.Context, db *gorm.DB, ownerID int64, subjectIDs []int64) (int64, error) {
	if len(subjectIDs) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).
		Exec("DELETE FROM "+l.Table+" WHERE "+l.Owner+" = ? AND subject_id IN ?", ownerID, subjectIDs)
	return res.RowsAffected, res.Error
}

// Clear removes every link of the given owners.
func (l Link) Clear(ctx context.Context, db *gorm.DB, ownerIDs ...int64) error {
	if len(ownerIDs) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Exec("DELETE FROM "+l.Table+" WHERE "+l.Owner+" IN ?", ownerIDs).Error
}

// SubjectIDs returns the subject ids linked to ownerID in ascending order.
func (l Link) SubjectIDs(ctx context.Context, db *gorm.DB, ownerID int64) ([]int64, error) {
	var ids []int64
	err := db.WithContext(ctx).Table(l.Table).
		Where(l.Owner+" = ?", ownerID).
		Order("subject_id ASC").
		Pluck("subject_id", &ids).Error
	return ids, err
}

// Subjects returns the subjects linked to ownerID, ordered by name.
func (l Link) Subjects(ctx context.Context, db *gorm.DB, ownerID int64) ([]domain.Subject, error) {
	var out []domain.Subject
	err := db.WithContext(ctx).Model(&domain.Subject{}).
		Joins("JOIN "+l.Table+" j ON j.subject_id = subjects.id").
		Where("j."+l.Owner+" = ?", ownerID).
		Order("subjects.name ASC").
		Find(&out).Error
	return out, err
}

// Refs resolves the subjects of many owners at once, keyed by owner id.
// Owners without links are absent from the map.
func (l Link) Refs(ctx context.Context, db *gorm.DB, ownerIDs []int64) (map[int64][]domain.SubjectRef, error) {
	out := make(map[int64][]domain.SubjectRef, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		OwnerID int64
		ID      int64
		Name    string
	}
	err := db.WithContext(ctx).Table(l.Table+" j").
		Select("j."+l.Owner+" AS owner_id, s.id AS id, s.name AS name").
		Joins("JOIN subjects s ON s.id = j.subject_id").
		Where("j."+l.Owner+" IN ?", ownerIDs).
		Order("j." + l.Owner + " ASC").Order("s.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.OwnerID] = append(out[r.OwnerID], domain.SubjectRef{ID: r.ID, Name: r.Name})
	}
	return out, nil
}
