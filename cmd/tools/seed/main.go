// Command seed loads a small set of fixture applications for local
// development. Re-running it is safe: duplicate fixtures are reported and
// skipped.
package main

import (
	"context"
	"log"
	"time"

	"talentbridge/internal/common"
	"talentbridge/internal/config"
	"talentbridge/internal/database"
	"talentbridge/internal/domain/pipeline"
	"talentbridge/internal/repository/postgres"
)

func main() {
	cfg := config.Load()
	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()

	repo := postgres.NewApplicationRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	soon := time.Now().UTC().Add(12 * time.Hour)
	fixtures := []pipeline.Application{
		{
			ID:            common.UUID("5f0c1b48-3b9a-4e6d-8c0f-0a4d53c7a101"),
			Stage:         pipeline.StageRecruiterProposed,
			RecruiterID:   common.UUID("9a1d2f3e-0001-4a5b-8c6d-1234567890ab"),
			CandidateID:   common.UUID("9a1d2f3e-0002-4a5b-8c6d-1234567890ab"),
			CompanyID:     common.UUID("9a1d2f3e-0003-4a5b-8c6d-1234567890ab"),
			JobID:         common.UUID("9a1d2f3e-0004-4a5b-8c6d-1234567890ab"),
			Candidate:     pipeline.PartyRef{Name: "Dana Reyes"},
			Recruiter:     pipeline.PartyRef{Name: "Sam Okafor"},
			Company:       pipeline.PartyRef{Name: "Northwind Labs"},
			Job:           pipeline.JobRef{Title: "Staff Engineer"},
			ActionDueDate: &soon,
		},
		{
			ID:          common.UUID("5f0c1b48-3b9a-4e6d-8c0f-0a4d53c7a102"),
			Stage:       pipeline.StageSubmitted,
			RecruiterID: common.UUID("9a1d2f3e-0001-4a5b-8c6d-1234567890ab"),
			CandidateID: common.UUID("9a1d2f3e-0005-4a5b-8c6d-1234567890ab"),
			CompanyID:   common.UUID("9a1d2f3e-0003-4a5b-8c6d-1234567890ab"),
			JobID:       common.UUID("9a1d2f3e-0004-4a5b-8c6d-1234567890ab"),
			Candidate:   pipeline.PartyRef{Name: "Priya Shah"},
			Recruiter:   pipeline.PartyRef{Name: "Sam Okafor"},
			Company:     pipeline.PartyRef{Name: "Northwind Labs"},
			Job:         pipeline.JobRef{Title: "Staff Engineer"},
		},
		{
			ID:          common.UUID("5f0c1b48-3b9a-4e6d-8c0f-0a4d53c7a103"),
			Stage:       pipeline.StagePlaced,
			RecruiterID: common.UUID("9a1d2f3e-0001-4a5b-8c6d-1234567890ab"),
			CandidateID: common.UUID("9a1d2f3e-0006-4a5b-8c6d-1234567890ab"),
			CompanyID:   common.UUID("9a1d2f3e-0003-4a5b-8c6d-1234567890ab"),
			JobID:       common.UUID("9a1d2f3e-0007-4a5b-8c6d-1234567890ab"),
			Candidate:   pipeline.PartyRef{Name: "Jonas Weber"},
			Recruiter:   pipeline.PartyRef{Name: "Sam Okafor"},
			Company:     pipeline.PartyRef{Name: "Northwind Labs"},
			Job:         pipeline.JobRef{Title: "Platform Lead"},
		},
	}

	for _, fixture := range fixtures {
		if _, err := repo.Create(ctx, fixture); err != nil {
			if common.Is(err, common.CodeConflict) {
				log.Printf("fixture %s already present, skipping", fixture.ID)
				continue
			}
			log.Fatalf("failed to seed application %s: %v", fixture.ID, err)
		}
		log.Printf("seeded application %s (%s)", fixture.ID, fixture.Stage)
	}
}
