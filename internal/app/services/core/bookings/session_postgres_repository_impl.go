package bookings

import (
	"context"
	"database/sql"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/queries"
	"time"
)

type sessionPostgresRepository struct {
	DB contracts.DBTX
}

func NewSessionPostgresRepository(db contracts.DBTX) contracts.SessionRepository {
	return &sessionPostgresRepository{
		DB: db,
	}
}

func (repo *sessionPostgresRepository) findOne(ctx context.Context, query, sessionID string) (*models.Session, error) {
	var session models.Session
	err := repo.DB.QueryRowContext(ctx, query, sessionID).Scan(
		&session.ID,
		&session.MentorID,
		&session.MenteeID,
		&session.StartTime,
		&session.EndTime,
		&session.DurationMinutes,
		&session.Price,
		&session.Currency,
		&session.Status,
		&session.PaymentID,
		&session.TimeSlotID,
		&session.VideoLink,
		&session.CancellationReason,
		&session.CancelledAt,
		&session.CompletedAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return &session, nil
}

func (repo *sessionPostgresRepository) FindByID(ctx context.Context, sessionID string) (*models.Session, error) {
	return repo.findOne(ctx, queries.GetSessionByID, sessionID)
}

func (repo *sessionPostgresRepository) FindByIDForUpdate(ctx context.Context, sessionID string) (*models.Session, error) {
	return repo.findOne(ctx, queries.GetSessionByIDForUpdate, sessionID)
}

func (repo *sessionPostgresRepository) exists(ctx context.Context, query, userID string, start, end time.Time, excludeSessionID string) (bool, error) {
	var exists bool
	err := repo.DB.QueryRowContext(ctx, query, userID, start, end, excludeSessionID).Scan(&exists)
	if err != nil {
		return false, exceptions.ErrPostgresDBFindData(err)
	}
	return exists, nil
}

func (repo *sessionPostgresRepository) HasMenteeOverlap(ctx context.Context, menteeID string, start, end time.Time, excludeSessionID string) (bool, error) {
	return repo.exists(ctx, queries.HasMenteeOverlappingSession, menteeID, start, end, excludeSessionID)
}

func (repo *sessionPostgresRepository) HasMentorOverlap(ctx context.Context, mentorID string, start, end time.Time, excludeSessionID string) (bool, error) {
	return repo.exists(ctx, queries.HasMentorOverlappingSession, mentorID, start, end, excludeSessionID)
}

func (repo *sessionPostgresRepository) Create(ctx context.Context, session *models.Session) error {
	_, err := repo.DB.ExecContext(ctx, queries.InsertSession,
		session.ID,
		session.MentorID,
		session.MenteeID,
		session.StartTime,
		session.EndTime,
		session.DurationMinutes,
		session.Price,
		session.Currency,
		session.Status,
		session.PaymentID,
		session.TimeSlotID,
		session.VideoLink,
		session.CancellationReason,
		session.CancelledAt,
		session.CompletedAt,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *sessionPostgresRepository) Update(ctx context.Context, session *models.Session) error {
	_, err := repo.DB.ExecContext(ctx, queries.UpdateSession,
		session.StartTime,
		session.EndTime,
		session.Status,
		session.PaymentID,
		session.TimeSlotID,
		session.VideoLink,
		session.CancellationReason,
		session.CancelledAt,
		session.CompletedAt,
		session.UpdatedAt,
		session.ID,
	)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}
