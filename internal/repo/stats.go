// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the census query: row counts of the
// main tables, used for the stats endpoint and the Prometheus gauges.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
)

// Census counts the rows of every main table. Each count is its own
// statement; run it inside a transaction for a consistent snapshot.
func Census(ctx context.Context, db *gorm.DB) (domain.Census, error) {
	var c domain.Census
	counts := []struct {
		model any
		dst   *int64
	}{
		{&domain.Subject{}, &c.Subjects},
		{&domain.Student{}, &c.Students},
		{&domain.Mentor{}, &c.Mentors},
		{&domain.PendingWork{}, &c.Pending},
		{&domain.AcceptedWork{}, &c.Accepted},
		{&domain.Idea{}, &c.Ideas},
		{&domain.SupportRequest{}, &c.OpenRequests},
	}
	for _, row := range counts {
		if err := db.WithContext(ctx).Model(row.model).Count(row.dst).Error; err != nil {
			return domain.Census{}, err
		}
	}
	return c, nil
}
