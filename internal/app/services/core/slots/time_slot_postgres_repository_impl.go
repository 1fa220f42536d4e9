package slots

import (
	"context"
	"database/sql"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/queries"
	"time"
)

type timeSlotPostgresRepository struct {
	DB contracts.DBTX
}

func NewTimeSlotPostgresRepository(db contracts.DBTX) contracts.TimeSlotRepository {
	return &timeSlotPostgresRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTimeSlot(row rowScanner) (*models.TimeSlot, error) {
	var slot models.TimeSlot
	err := row.Scan(
		&slot.ID,
		&slot.MentorID,
		&slot.StartTime,
		&slot.DurationMinutes,
		&slot.IsBooked,
		&slot.SessionID,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (repo *timeSlotPostgresRepository) findOne(ctx context.Context, query, slotID string) (*models.TimeSlot, error) {
	slot, err := scanTimeSlot(repo.DB.QueryRowContext(ctx, query, slotID))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return slot, nil
}

func (repo *timeSlotPostgresRepository) FindByID(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	return repo.findOne(ctx, queries.GetTimeSlotByID, slotID)
}

func (repo *timeSlotPostgresRepository) FindByIDForUpdate(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	return repo.findOne(ctx, queries.GetTimeSlotByIDForUpdate, slotID)
}

func (repo *timeSlotPostgresRepository) FindAvailableByMentorID(ctx context.Context, mentorID string, from, to time.Time) ([]models.TimeSlot, error) {
	rows, err := repo.DB.QueryContext(ctx, queries.GetAvailableTimeSlotsByMentorID, mentorID, from, to)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	var slots []models.TimeSlot
	for rows.Next() {
		slot, err := scanTimeSlot(rows)
		if err != nil {
			return nil, exceptions.ErrPostgresDBIterateDataset(err)
		}
		slots = append(slots, *slot)
	}

	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBIterateDataset(err)
	}
	return slots, nil
}

func (repo *timeSlotPostgresRepository) HasOverlap(ctx context.Context, mentorID string, start, end time.Time, excludeSlotID string) (bool, error) {
	var exists bool
	err := repo.DB.QueryRowContext(ctx, queries.HasOverlappingTimeSlot, mentorID, start, end, excludeSlotID).Scan(&exists)
	if err != nil {
		return false, exceptions.ErrPostgresDBFindData(err)
	}
	return exists, nil
}

func (repo *timeSlotPostgresRepository) Create(ctx context.Context, slot *models.TimeSlot) error {
	_, err := repo.DB.ExecContext(ctx, queries.InsertTimeSlot,
		slot.ID,
		slot.MentorID,
		slot.StartTime,
		slot.DurationMinutes,
		slot.IsBooked,
		slot.SessionID,
		slot.CreatedAt,
		slot.UpdatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *timeSlotPostgresRepository) Update(ctx context.Context, slot *models.TimeSlot) error {
	_, err := repo.DB.ExecContext(ctx, queries.UpdateTimeSlot,
		slot.StartTime,
		slot.DurationMinutes,
		slot.IsBooked,
		slot.SessionID,
		slot.UpdatedAt,
		slot.ID,
	)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}
