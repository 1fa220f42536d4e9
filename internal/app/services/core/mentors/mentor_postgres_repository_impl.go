package mentors

import (
	"context"
	"database/sql"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/queries"
)

type mentorPostgresRepository struct {
	DB contracts.DBTX
}

func NewMentorPostgresRepository(db contracts.DBTX) contracts.MentorRepository {
	return &mentorPostgresRepository{
		DB: db,
	}
}

func (repo *mentorPostgresRepository) FindByID(ctx context.Context, mentorID string) (*models.Mentor, error) {
	var mentor models.Mentor
	err := repo.DB.QueryRowContext(ctx, queries.GetMentorByID, mentorID).Scan(
		&mentor.ID,
		&mentor.Name,
		&mentor.Rate30,
		&mentor.Rate60,
		&mentor.Currency,
		&mentor.CreatedAt,
		&mentor.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return &mentor, nil
}
