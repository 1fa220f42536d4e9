package testutil

import (
	"context"
	"errors"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/exceptions"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MemStore is an in-memory UnitOfWork. Transactions are serialized by a single mutex and
// roll back by restoring a snapshot, which mirrors row locks held until commit.
type MemStore struct {
	mu   sync.Mutex
	data *memData
	// FailCommit, when set, makes the next transaction roll back with this error after fn succeeds.
	FailCommit error
}

type memData struct {
	mentors       map[string]models.Mentor
	slots         map[string]models.TimeSlot
	sessions      map[string]models.Session
	payments      map[string]models.Payment
	cancelRecords []models.CancelRecord
	reschedules   map[string]models.RescheduleRequest
	balances      map[string]models.MentorBalance
	payouts       map[string]models.Payout
	disputes      map[string]models.Dispute
	jobs          map[string]models.ScheduledJob
}

func NewMemStore() *MemStore {
	return &MemStore{data: &memData{
		mentors:     map[string]models.Mentor{},
		slots:       map[string]models.TimeSlot{},
		sessions:    map[string]models.Session{},
		payments:    map[string]models.Payment{},
		reschedules: map[string]models.RescheduleRequest{},
		balances:    map[string]models.MentorBalance{},
		payouts:     map[string]models.Payout{},
		disputes:    map[string]models.Dispute{},
		jobs:        map[string]models.ScheduledJob{},
	}}
}

func (d *memData) clone() *memData {
	c := &memData{
		mentors:       make(map[string]models.Mentor, len(d.mentors)),
		slots:         make(map[string]models.TimeSlot, len(d.slots)),
		sessions:      make(map[string]models.Session, len(d.sessions)),
		payments:      make(map[string]models.Payment, len(d.payments)),
		cancelRecords: append([]models.CancelRecord(nil), d.cancelRecords...),
		reschedules:   make(map[string]models.RescheduleRequest, len(d.reschedules)),
		balances:      make(map[string]models.MentorBalance, len(d.balances)),
		payouts:       make(map[string]models.Payout, len(d.payouts)),
		disputes:      make(map[string]models.Dispute, len(d.disputes)),
		jobs:          make(map[string]models.ScheduledJob, len(d.jobs)),
	}
	for k, v := range d.mentors {
		c.mentors[k] = v
	}
	for k, v := range d.slots {
		c.slots[k] = v
	}
	for k, v := range d.sessions {
		c.sessions[k] = v
	}
	for k, v := range d.payments {
		c.payments[k] = v
	}
	for k, v := range d.reschedules {
		c.reschedules[k] = v
	}
	for k, v := range d.balances {
		c.balances[k] = v
	}
	for k, v := range d.payouts {
		c.payouts[k] = v
	}
	for k, v := range d.disputes {
		v.EvidenceKeys = append([]string(nil), v.EvidenceKeys...)
		c.disputes[k] = v
	}
	for k, v := range d.jobs {
		c.jobs[k] = v
	}
	return c
}

func (m *MemStore) Store() contracts.Store {
	return &memView{store: m, guarded: true}
}

func (m *MemStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx contracts.Store) error) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.data.clone()
	defer func() {
		if p := recover(); p != nil {
			m.data = snapshot
			panic(p)
		}
		if err != nil {
			m.data = snapshot
		}
	}()

	if err = fn(ctx, &memView{store: m}); err != nil {
		return err
	}
	if m.FailCommit != nil {
		err, m.FailCommit = m.FailCommit, nil
		return exceptions.ErrPostgresDBCommitTx(err)
	}
	return nil
}

// memView is a Store bound either to a transaction or, when guarded, to single statements.
type memView struct {
	store   *MemStore
	guarded bool
}

func (v *memView) enter() func() {
	if !v.guarded {
		return func() {}
	}
	v.store.mu.Lock()
	return v.store.mu.Unlock
}

func (v *memView) d() *memData { return v.store.data }

func (v *memView) Mentors() contracts.MentorRepository                { return memMentors{v} }
func (v *memView) Slots() contracts.TimeSlotRepository                { return memSlots{v} }
func (v *memView) Sessions() contracts.SessionRepository              { return memSessions{v} }
func (v *memView) Payments() contracts.PaymentRepository              { return memPayments{v} }
func (v *memView) CancelRecords() contracts.CancelRecordRepository    { return memCancelRecords{v} }
func (v *memView) Reschedules() contracts.RescheduleRequestRepository { return memReschedules{v} }
func (v *memView) Balances() contracts.MentorBalanceRepository        { return memBalances{v} }
func (v *memView) Payouts() contracts.PayoutRepository                { return memPayouts{v} }
func (v *memView) Disputes() contracts.DisputeRepository              { return memDisputes{v} }
func (v *memView) Jobs() contracts.ScheduledJobRepository             { return memJobs{v} }

// AdvisoryLock is a no-op: transactions are already serialized.
func (v *memView) AdvisoryLock(ctx context.Context, key string) error { return nil }

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

type memMentors struct{ v *memView }

func (r memMentors) FindByID(ctx context.Context, mentorID string) (*models.Mentor, error) {
	defer r.v.enter()()
	mentor, ok := r.v.d().mentors[mentorID]
	if !ok {
		return nil, nil
	}
	return &mentor, nil
}

type memSlots struct{ v *memView }

func (r memSlots) FindByID(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	defer r.v.enter()()
	slot, ok := r.v.d().slots[slotID]
	if !ok {
		return nil, nil
	}
	return &slot, nil
}

func (r memSlots) FindByIDForUpdate(ctx context.Context, slotID string) (*models.TimeSlot, error) {
	return r.FindByID(ctx, slotID)
}

func (r memSlots) FindAvailableByMentorID(ctx context.Context, mentorID string, from, to time.Time) ([]models.TimeSlot, error) {
	defer r.v.enter()()
	var slots []models.TimeSlot
	for _, slot := range r.v.d().slots {
		if slot.MentorID == mentorID && !slot.IsBooked && !slot.StartTime.Before(from) && slot.StartTime.Before(to) {
			slots = append(slots, slot)
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].StartTime.Before(slots[j].StartTime) })
	return slots, nil
}

func (r memSlots) HasOverlap(ctx context.Context, mentorID string, start, end time.Time, excludeSlotID string) (bool, error) {
	defer r.v.enter()()
	for _, slot := range r.v.d().slots {
		if slot.MentorID == mentorID && slot.ID != excludeSlotID && overlaps(slot.StartTime, slot.EndTime(), start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (r memSlots) Create(ctx context.Context, slot *models.TimeSlot) error {
	defer r.v.enter()()
	if _, ok := r.v.d().slots[slot.ID]; ok {
		return exceptions.ErrPostgresDBInsertData(errors.New("duplicate time slot"))
	}
	r.v.d().slots[slot.ID] = *slot
	return nil
}

func (r memSlots) Update(ctx context.Context, slot *models.TimeSlot) error {
	defer r.v.enter()()
	r.v.d().slots[slot.ID] = *slot
	return nil
}

type memSessions struct{ v *memView }

func (r memSessions) FindByID(ctx context.Context, sessionID string) (*models.Session, error) {
	defer r.v.enter()()
	session, ok := r.v.d().sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (r memSessions) FindByIDForUpdate(ctx context.Context, sessionID string) (*models.Session, error) {
	return r.FindByID(ctx, sessionID)
}

func (r memSessions) hasOverlap(match func(models.Session) bool, start, end time.Time, excludeSessionID string) bool {
	for _, session := range r.v.d().sessions {
		if session.ID != excludeSessionID && session.IsActive() && match(session) && overlaps(session.StartTime, session.EndTime, start, end) {
			return true
		}
	}
	return false
}

func (r memSessions) HasMenteeOverlap(ctx context.Context, menteeID string, start, end time.Time, excludeSessionID string) (bool, error) {
	defer r.v.enter()()
	return r.hasOverlap(func(s models.Session) bool { return s.MenteeID == menteeID }, start, end, excludeSessionID), nil
}

func (r memSessions) HasMentorOverlap(ctx context.Context, mentorID string, start, end time.Time, excludeSessionID string) (bool, error) {
	defer r.v.enter()()
	return r.hasOverlap(func(s models.Session) bool { return s.MentorID == mentorID }, start, end, excludeSessionID), nil
}

func (r memSessions) Create(ctx context.Context, session *models.Session) error {
	defer r.v.enter()()
	for _, existing := range r.v.d().sessions {
		if session.TimeSlotID != nil && existing.TimeSlotID != nil && *existing.TimeSlotID == *session.TimeSlotID && existing.Status != models.SessionStatusCancelled {
			return exceptions.ErrPostgresDBInsertData(errors.New("time slot already holds an active session"))
		}
	}
	r.v.d().sessions[session.ID] = *session
	return nil
}

func (r memSessions) Update(ctx context.Context, session *models.Session) error {
	defer r.v.enter()()
	r.v.d().sessions[session.ID] = *session
	return nil
}

type memPayments struct{ v *memView }

func (r memPayments) find(match func(models.Payment) bool) *models.Payment {
	var found *models.Payment
	for _, payment := range r.v.d().payments {
		if !match(payment) {
			continue
		}
		if found == nil || payment.CreatedAt.After(found.CreatedAt) {
			p := payment
			found = &p
		}
	}
	return found
}

func (r memPayments) FindByID(ctx context.Context, paymentID string) (*models.Payment, error) {
	defer r.v.enter()()
	return r.find(func(p models.Payment) bool { return p.ID == paymentID }), nil
}

func (r memPayments) FindByIDForUpdate(ctx context.Context, paymentID string) (*models.Payment, error) {
	return r.FindByID(ctx, paymentID)
}

func (r memPayments) FindByIntentIDForUpdate(ctx context.Context, provider models.PaymentProvider, intentID string) (*models.Payment, error) {
	defer r.v.enter()()
	return r.find(func(p models.Payment) bool { return p.Provider == provider && p.ProviderIntentID == intentID }), nil
}

func (r memPayments) FindBySessionID(ctx context.Context, sessionID string) (*models.Payment, error) {
	defer r.v.enter()()
	return r.find(func(p models.Payment) bool { return p.SessionID == sessionID }), nil
}

func (r memPayments) Create(ctx context.Context, payment *models.Payment) error {
	defer r.v.enter()()
	for _, existing := range r.v.d().payments {
		if existing.SessionID == payment.SessionID {
			return exceptions.ErrPostgresDBInsertData(errors.New("session already has a payment"))
		}
	}
	r.v.d().payments[payment.ID] = *payment
	return nil
}

func (r memPayments) Update(ctx context.Context, payment *models.Payment) error {
	defer r.v.enter()()
	if payment.RefundAmount.GreaterThan(payment.Amount) || payment.RefundPercentage.GreaterThan(hundred) {
		return exceptions.ErrPostgresDBUpdateData(errors.New("refund exceeds payment"))
	}
	r.v.d().payments[payment.ID] = *payment
	return nil
}

type memCancelRecords struct{ v *memView }

func (r memCancelRecords) Create(ctx context.Context, record *models.CancelRecord) error {
	defer r.v.enter()()
	r.v.d().cancelRecords = append(r.v.d().cancelRecords, *record)
	return nil
}

func (r memCancelRecords) FindBySessionID(ctx context.Context, sessionID string) (*models.CancelRecord, error) {
	defer r.v.enter()()
	records := r.v.d().cancelRecords
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].SessionID == sessionID {
			record := records[i]
			return &record, nil
		}
	}
	return nil, nil
}

type memReschedules struct{ v *memView }

func (r memReschedules) FindByID(ctx context.Context, rescheduleID string) (*models.RescheduleRequest, error) {
	defer r.v.enter()()
	request, ok := r.v.d().reschedules[rescheduleID]
	if !ok {
		return nil, nil
	}
	return &request, nil
}

func (r memReschedules) FindByIDForUpdate(ctx context.Context, rescheduleID string) (*models.RescheduleRequest, error) {
	return r.FindByID(ctx, rescheduleID)
}

func (r memReschedules) FindPendingBySessionID(ctx context.Context, sessionID string) (*models.RescheduleRequest, error) {
	defer r.v.enter()()
	for _, request := range r.v.d().reschedules {
		if request.SessionID == sessionID && request.Status == models.RescheduleStatusPending {
			return &request, nil
		}
	}
	return nil, nil
}

func (r memReschedules) Create(ctx context.Context, request *models.RescheduleRequest) error {
	defer r.v.enter()()
	for _, existing := range r.v.d().reschedules {
		if existing.SessionID == request.SessionID && existing.Status == models.RescheduleStatusPending {
			return exceptions.ErrPostgresDBInsertData(errors.New("session already has a pending reschedule"))
		}
	}
	r.v.d().reschedules[request.ID] = *request
	return nil
}

func (r memReschedules) Update(ctx context.Context, request *models.RescheduleRequest) error {
	defer r.v.enter()()
	r.v.d().reschedules[request.ID] = *request
	return nil
}

type memBalances struct{ v *memView }

func (r memBalances) CreateIfAbsent(ctx context.Context, mentorID string, now time.Time) (bool, error) {
	defer r.v.enter()()
	if _, ok := r.v.d().balances[mentorID]; ok {
		return false, nil
	}
	balance := models.MentorBalance{MentorID: mentorID}
	balance.SetCreatedAtUpdatedAt(now)
	r.v.d().balances[mentorID] = balance
	return true, nil
}

func (r memBalances) FindByMentorID(ctx context.Context, mentorID string) (*models.MentorBalance, error) {
	defer r.v.enter()()
	balance, ok := r.v.d().balances[mentorID]
	if !ok {
		return nil, nil
	}
	return &balance, nil
}

func (r memBalances) FindByMentorIDForUpdate(ctx context.Context, mentorID string) (*models.MentorBalance, error) {
	return r.FindByMentorID(ctx, mentorID)
}

func (r memBalances) Update(ctx context.Context, balance *models.MentorBalance) error {
	defer r.v.enter()()
	if balance.PendingBalance.Add(balance.AvailableBalance).IsNegative() {
		return exceptions.ErrPostgresDBUpdateData(errors.New("balance would go negative"))
	}
	r.v.d().balances[balance.MentorID] = *balance
	return nil
}

type memPayouts struct{ v *memView }

func (r memPayouts) FindByID(ctx context.Context, payoutID string) (*models.Payout, error) {
	defer r.v.enter()()
	payout, ok := r.v.d().payouts[payoutID]
	if !ok {
		return nil, nil
	}
	return &payout, nil
}

func (r memPayouts) FindByIDForUpdate(ctx context.Context, payoutID string) (*models.Payout, error) {
	return r.FindByID(ctx, payoutID)
}

func (r memPayouts) FindByMentorID(ctx context.Context, mentorID string) ([]models.Payout, error) {
	defer r.v.enter()()
	var payouts []models.Payout
	for _, payout := range r.v.d().payouts {
		if payout.MentorID == mentorID {
			payouts = append(payouts, payout)
		}
	}
	sort.Slice(payouts, func(i, j int) bool { return payouts[i].CreatedAt.After(payouts[j].CreatedAt) })
	return payouts, nil
}

func (r memPayouts) Create(ctx context.Context, payout *models.Payout) error {
	defer r.v.enter()()
	r.v.d().payouts[payout.ID] = *payout
	return nil
}

func (r memPayouts) Update(ctx context.Context, payout *models.Payout) error {
	defer r.v.enter()()
	r.v.d().payouts[payout.ID] = *payout
	return nil
}

type memDisputes struct{ v *memView }

func (r memDisputes) FindByID(ctx context.Context, disputeID string) (*models.Dispute, error) {
	defer r.v.enter()()
	dispute, ok := r.v.d().disputes[disputeID]
	if !ok {
		return nil, nil
	}
	return &dispute, nil
}

func (r memDisputes) FindByIDForUpdate(ctx context.Context, disputeID string) (*models.Dispute, error) {
	return r.FindByID(ctx, disputeID)
}

func (r memDisputes) FindBySessionID(ctx context.Context, sessionID string) (*models.Dispute, error) {
	defer r.v.enter()()
	for _, dispute := range r.v.d().disputes {
		if dispute.SessionID == sessionID {
			return &dispute, nil
		}
	}
	return nil, nil
}

func (r memDisputes) Create(ctx context.Context, dispute *models.Dispute) error {
	defer r.v.enter()()
	for _, existing := range r.v.d().disputes {
		if existing.SessionID == dispute.SessionID {
			return exceptions.ErrPostgresDBInsertData(errors.New("session already has a dispute"))
		}
	}
	r.v.d().disputes[dispute.ID] = *dispute
	return nil
}

func (r memDisputes) Update(ctx context.Context, dispute *models.Dispute) error {
	defer r.v.enter()()
	r.v.d().disputes[dispute.ID] = *dispute
	return nil
}

type memJobs struct{ v *memView }

func (r memJobs) Create(ctx context.Context, job *models.ScheduledJob) error {
	defer r.v.enter()()
	r.v.d().jobs[job.ID] = *job
	return nil
}

func (r memJobs) ClaimDue(ctx context.Context, now, staleBefore time.Time, limit int) ([]models.ScheduledJob, error) {
	defer r.v.enter()()
	var due []models.ScheduledJob
	for _, job := range r.v.d().jobs {
		pendingDue := job.Status == models.JobStatusPending && !job.RunAt.After(now)
		stale := job.Status == models.JobStatusRunning && job.UpdatedAt.Before(staleBefore)
		if pendingDue || stale {
			due = append(due, job)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].RunAt.Equal(due[j].RunAt) {
			return due[i].CreatedAt.Before(due[j].CreatedAt)
		}
		return due[i].RunAt.Before(due[j].RunAt)
	})
	if len(due) > limit {
		due = due[:limit]
	}
	for i := range due {
		due[i].Status = models.JobStatusRunning
		due[i].Attempts++
		due[i].UpdatedAt = now
		r.v.d().jobs[due[i].ID] = due[i]
	}
	return due, nil
}

func (r memJobs) Update(ctx context.Context, job *models.ScheduledJob) error {
	defer r.v.enter()()
	r.v.d().jobs[job.ID] = *job
	return nil
}

func (m *MemStore) SeedMentor(mentor models.Mentor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.mentors[mentor.ID] = mentor
}

func (m *MemStore) SeedSlot(slot models.TimeSlot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.slots[slot.ID] = slot
}

func (m *MemStore) SeedBalance(balance models.MentorBalance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.balances[balance.MentorID] = balance
}

func (m *MemStore) Session(id string) models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.sessions[id]
}

func (m *MemStore) Slot(id string) models.TimeSlot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.slots[id]
}

func (m *MemStore) Payment(id string) models.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.payments[id]
}

func (m *MemStore) Balance(mentorID string) models.MentorBalance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.balances[mentorID]
}

func (m *MemStore) Payout(id string) models.Payout {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.payouts[id]
}

func (m *MemStore) Dispute(id string) models.Dispute {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.disputes[id]
}

func (m *MemStore) Reschedule(id string) models.RescheduleRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.reschedules[id]
}

func (m *MemStore) CancelRecords() []models.CancelRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.CancelRecord(nil), m.data.cancelRecords...)
}

// Jobs returns the scheduled jobs for operation, oldest run time first. An empty operation matches all.
func (m *MemStore) Jobs(operation models.JobOperation) []models.ScheduledJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	var jobs []models.ScheduledJob
	for _, job := range m.data.jobs {
		if operation == "" || job.Operation == operation {
			jobs = append(jobs, job)
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].RunAt.Before(jobs[j].RunAt) })
	return jobs
}

// PendingJob returns the pending job of operation for entityID, if any.
func (m *MemStore) PendingJob(operation models.JobOperation, entityID string) (models.ScheduledJob, bool) {
	for _, job := range m.Jobs(operation) {
		if job.EntityID == entityID && job.Status == models.JobStatusPending {
			return job, true
		}
	}
	return models.ScheduledJob{}, false
}
