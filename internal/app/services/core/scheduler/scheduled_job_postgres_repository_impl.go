package scheduler

import (
	"context"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/queries"
	"time"
)

type scheduledJobPostgresRepository struct {
	DB contracts.DBTX
}

func NewScheduledJobPostgresRepository(db contracts.DBTX) contracts.ScheduledJobRepository {
	return &scheduledJobPostgresRepository{
		DB: db,
	}
}

func (repo *scheduledJobPostgresRepository) Create(ctx context.Context, job *models.ScheduledJob) error {
	_, err := repo.DB.ExecContext(ctx, queries.InsertScheduledJob,
		job.ID,
		job.Operation,
		job.EntityID,
		job.RunAt,
		job.Status,
		job.Attempts,
		job.LastError,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *scheduledJobPostgresRepository) ClaimDue(ctx context.Context, now, staleBefore time.Time, limit int) ([]models.ScheduledJob, error) {
	rows, err := repo.DB.QueryContext(ctx, queries.ClaimDueScheduledJobs, now, staleBefore, limit)
	if err != nil {
		return nil, exceptions.ErrPostgresDBUpdateData(err)
	}
	defer rows.Close()

	var jobs []models.ScheduledJob
	for rows.Next() {
		var job models.ScheduledJob
		if err := rows.Scan(
			&job.ID,
			&job.Operation,
			&job.EntityID,
			&job.RunAt,
			&job.Status,
			&job.Attempts,
			&job.LastError,
			&job.CreatedAt,
			&job.UpdatedAt,
		); err != nil {
			return nil, exceptions.ErrPostgresDBIterateDataset(err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBIterateDataset(err)
	}
	return jobs, nil
}

func (repo *scheduledJobPostgresRepository) Update(ctx context.Context, job *models.ScheduledJob) error {
	_, err := repo.DB.ExecContext(ctx, queries.UpdateScheduledJob,
		job.RunAt,
		job.Status,
		job.Attempts,
		job.LastError,
		job.UpdatedAt,
		job.ID,
	)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}
