package services

import (
	"context"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"

	"github.com/tbourn/go-mentorship-backend/internal/domain"
	"github.com/tbourn/go-mentorship-backend/internal/repo"
)

// CensusService reports row counts of the main tables.
type CensusService struct {
	DB *gorm.DB
}

// Stats takes a census in one read transaction and publishes it to the
// mentorship_rows gauges.
func (s *CensusService) Stats(ctx context.Context) (domain.Census, error) {
	ctx, span := otel.Tracer("services/CensusService").Start(ctx, "Stats")
	defer span.End()

	var c domain.Census
	err := inTx(ctx, s.DB, "census", func(tx *gorm.DB) error {
		var err error
		c, err = repo.Census(ctx, tx)
		return err
	})
	if err != nil {
		return domain.Census{}, err
	}
	publishCensus(c)
	return c, nil
}
