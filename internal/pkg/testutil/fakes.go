package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/exceptions"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

const FakeWebhookSignature = "valid-signature"

type FakeIntent struct {
	ID            string
	Amount        decimal.Decimal
	Currency      string
	Metadata      map[string]string
	Status        models.PaymentStatus
	TransactionID string
}

type FakeRefund struct {
	IntentID      string
	Amount        decimal.Decimal
	TransactionID string
}

// FakeProvider is a scriptable payment provider. Webhook payloads are plain JSON built by CallbackPayload.
type FakeProvider struct {
	mu          sync.Mutex
	ProviderID  models.PaymentProvider
	CurrencyISO string
	Rate        decimal.Decimal
	CaptureMins int

	CreateErr  error
	StatusErr  error
	RefundErr  error
	RefundFail bool
	CancelErr  error

	// BeforeStatus, when set, runs at the start of every GetStatus call.
	BeforeStatus func(intentID string)

	Intents map[string]*FakeIntent
	Refunds []FakeRefund
	Cancels []string
	seq     int
}

func NewFakeProvider(name models.PaymentProvider, currency string, rate decimal.Decimal) *FakeProvider {
	return &FakeProvider{
		ProviderID:  name,
		CurrencyISO: currency,
		Rate:        rate,
		CaptureMins: 30,
		Intents:     map[string]*FakeIntent{},
	}
}

func (p *FakeProvider) Name() models.PaymentProvider    { return p.ProviderID }
func (p *FakeProvider) Currency() string                { return p.CurrencyISO }
func (p *FakeProvider) ConversionRate() decimal.Decimal { return p.Rate }
func (p *FakeProvider) CaptureTimeoutMinutes() int      { return p.CaptureMins }

func (p *FakeProvider) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*models.IntentResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.CreateErr != nil {
		return nil, p.CreateErr
	}
	p.seq++
	intent := &FakeIntent{
		ID:       fmt.Sprintf("%s-intent-%d", p.ProviderID, p.seq),
		Amount:   amount,
		Currency: currency,
		Metadata: metadata,
		Status:   models.PaymentStatusPending,
	}
	p.Intents[intent.ID] = intent
	return &models.IntentResult{IntentID: intent.ID, ClientSecret: intent.ID + "-secret"}, nil
}

// Capture marks the intent captured at the provider without sending a webhook.
func (p *FakeProvider) Capture(intentID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if intent, ok := p.Intents[intentID]; ok {
		intent.Status = models.PaymentStatusCaptured
		intent.TransactionID = "txn-" + intentID
	}
}

func (p *FakeProvider) Intent(intentID string) FakeIntent {
	p.mu.Lock()
	defer p.mu.Unlock()
	if intent, ok := p.Intents[intentID]; ok {
		return *intent
	}
	return FakeIntent{}
}

type fakeCallback struct {
	EventID       string `json:"event_id"`
	IntentID      string `json:"intent_id"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	FailureReason string `json:"failure_reason"`
}

// CallbackPayload builds a webhook body reporting status for the intent, using the intent's own amount.
func (p *FakeProvider) CallbackPayload(eventID, intentID string, status models.PaymentStatus) []byte {
	intent := p.Intent(intentID)
	return p.CallbackPayloadWithAmount(eventID, intentID, status, intent.Amount, intent.Currency)
}

func (p *FakeProvider) CallbackPayloadWithAmount(eventID, intentID string, status models.PaymentStatus, amount decimal.Decimal, currency string) []byte {
	callback := fakeCallback{
		EventID:       eventID,
		IntentID:      intentID,
		Status:        string(status),
		TransactionID: "txn-" + intentID,
		Amount:        amount.String(),
		Currency:      currency,
	}
	if status == models.PaymentStatusFailed {
		callback.FailureReason = "card declined"
	}
	body, _ := json.Marshal(callback)
	return body
}

func (p *FakeProvider) HandleCallback(ctx context.Context, payload []byte, signature string) (*models.CallbackResult, error) {
	if signature != FakeWebhookSignature {
		return nil, exceptions.ErrWebhookSignature(string(p.ProviderID))
	}
	var callback fakeCallback
	if err := json.Unmarshal(payload, &callback); err != nil {
		return nil, exceptions.ErrWebhookPayload(string(p.ProviderID), err.Error())
	}
	amount, err := decimal.NewFromString(callback.Amount)
	if err != nil {
		return nil, exceptions.ErrWebhookPayload(string(p.ProviderID), "amount")
	}
	status := models.PaymentStatus(callback.Status)
	if status == models.PaymentStatusCaptured {
		p.Capture(callback.IntentID)
	}
	return &models.CallbackResult{
		Success:       status == models.PaymentStatusCaptured,
		EventID:       callback.EventID,
		IntentID:      callback.IntentID,
		TransactionID: callback.TransactionID,
		Status:        status,
		Amount:        amount,
		Currency:      callback.Currency,
		FailureReason: callback.FailureReason,
	}, nil
}

func (p *FakeProvider) GetStatus(ctx context.Context, intentID string) (*models.ProviderStatus, error) {
	if p.BeforeStatus != nil {
		p.BeforeStatus(intentID)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.StatusErr != nil {
		return nil, p.StatusErr
	}
	intent, ok := p.Intents[intentID]
	if !ok {
		return nil, exceptions.ErrPaymentProvider(fmt.Errorf("intent %s not found", intentID), string(p.ProviderID))
	}
	return &models.ProviderStatus{
		Status:        intent.Status,
		TransactionID: intent.TransactionID,
		Amount:        intent.Amount,
		Currency:      intent.Currency,
	}, nil
}

func (p *FakeProvider) Refund(ctx context.Context, intentID string, amount decimal.Decimal, transactionID string) (*models.RefundResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.RefundErr != nil {
		return nil, p.RefundErr
	}
	if p.RefundFail {
		return &models.RefundResult{Success: false}, nil
	}
	p.Refunds = append(p.Refunds, FakeRefund{IntentID: intentID, Amount: amount, TransactionID: transactionID})
	return &models.RefundResult{Success: true, RefundedAmount: amount, RefundID: fmt.Sprintf("refund-%d", len(p.Refunds))}, nil
}

func (p *FakeProvider) Cancel(ctx context.Context, intentID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.CancelErr != nil {
		return p.CancelErr
	}
	p.Cancels = append(p.Cancels, intentID)
	if intent, ok := p.Intents[intentID]; ok {
		intent.Status = models.PaymentStatusCanceled
	}
	return nil
}

func (p *FakeProvider) RefundCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Refunds)
}

func (p *FakeProvider) RefundedTotal() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := decimal.Zero
	for _, refund := range p.Refunds {
		total = total.Add(refund.Amount)
	}
	return total
}

type Notification struct {
	UserIDs []string
	Subject string
	Text    string
}

type FakeNotificationService struct {
	mu   sync.Mutex
	Sent []Notification
}

func (s *FakeNotificationService) NotifyUsers(ctx context.Context, userIDs []string, subject, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Sent = append(s.Sent, Notification{UserIDs: append([]string(nil), userIDs...), Subject: subject, Text: text})
}

func (s *FakeNotificationService) Subjects() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	subjects := make([]string, 0, len(s.Sent))
	for _, n := range s.Sent {
		subjects = append(subjects, n.Subject)
	}
	return subjects
}

type FakeEvidenceStorage struct {
	mu        sync.Mutex
	UploadErr error
	Objects   map[string]models.EvidenceFile
}

func (s *FakeEvidenceStorage) Upload(ctx context.Context, disputeID string, file models.EvidenceFile) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UploadErr != nil {
		return "", s.UploadErr
	}
	if s.Objects == nil {
		s.Objects = map[string]models.EvidenceFile{}
	}
	key := "disputes/" + disputeID + "/" + file.FileName
	s.Objects[key] = file
	return key, nil
}

func (s *FakeEvidenceStorage) PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	return fmt.Sprintf("https://evidence.test/%s?expires=%d", objectKey, int(expiry.Seconds())), nil
}

type FakePayoutGateway struct {
	mu    sync.Mutex
	Err   error
	Calls []string
}

func (g *FakePayoutGateway) Disburse(ctx context.Context, payout *models.Payout) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Calls = append(g.Calls, payout.ID)
	if g.Err != nil {
		return "", g.Err
	}
	return "disbursement-" + payout.ID, nil
}

// FakeRedis is an in-memory RedisRepository. Expirations are recorded but never enforced.
type FakeRedis struct {
	mu       sync.Mutex
	Values   map[string]string
	TTLs     map[string]time.Duration
	SetNXErr error
	IncrErr  error
}

func NewFakeRedis() *FakeRedis {
	return &FakeRedis{Values: map[string]string{}, TTLs: map[string]time.Duration{}}
}

func (r *FakeRedis) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Values, key)
	delete(r.TTLs, key)
	return nil
}

func (r *FakeRedis) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Values[key] = fmt.Sprint(value)
	r.TTLs[key] = exp
	return nil
}

func (r *FakeRedis) Get(ctx context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.Values[key]
	if !ok {
		return "", exceptions.ErrRedisGetNoData(nil, key)
	}
	return value, nil
}

func (r *FakeRedis) Expire(ctx context.Context, key string, exp time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.TTLs[key] = exp
	return nil
}

func (r *FakeRedis) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SetNXErr != nil {
		return false, r.SetNXErr
	}
	if _, ok := r.Values[key]; ok {
		return false, nil
	}
	r.Values[key] = fmt.Sprint(value)
	r.TTLs[key] = exp
	return true, nil
}

func (r *FakeRedis) IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.IncrErr != nil {
		return 0, r.IncrErr
	}
	count, _ := strconv.ParseInt(r.Values[key], 10, 64)
	count++
	r.Values[key] = strconv.FormatInt(count, 10)
	if count == 1 {
		r.TTLs[key] = ttl
	}
	return count, nil
}

func (r *FakeRedis) Has(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.Values[key]
	return ok
}

// FakeLocker grants a lock to one holder at a time.
type FakeLocker struct {
	mu    sync.Mutex
	held  map[string]string
	seq   int
	Busy  bool
	Locks int
}

func (l *FakeLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = map[string]string{}
	}
	if _, ok := l.held[key]; ok || l.Busy {
		return false, "", nil
	}
	l.seq++
	value := fmt.Sprintf("lock-%d", l.seq)
	l.held[key] = value
	l.Locks++
	return true, value, nil
}

func (l *FakeLocker) Unlock(ctx context.Context, key, lockValue string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == lockValue {
		delete(l.held, key)
	}
	return nil
}

func (l *FakeLocker) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	return nil
}

type FakeArchive struct {
	mu     sync.Mutex
	Events []models.WebhookEvent
}

func (a *FakeArchive) Archive(ctx context.Context, event *models.WebhookEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Events = append(a.Events, *event)
	return nil
}

func (a *FakeArchive) Outcomes() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	outcomes := make([]string, 0, len(a.Events))
	for _, event := range a.Events {
		outcomes = append(outcomes, event.Outcome)
	}
	return outcomes
}

// FakeRetryQueue keeps the ready messages in Ready and records every publish.
type FakeRetryQueue struct {
	mu         sync.Mutex
	Ready      []models.WebhookRetryMessage
	Enqueued   []models.WebhookRetryMessage
	Reenqueued []models.WebhookRetryMessage
	Dead       []models.WebhookRetryMessage
	Acked      []uint64
	tag        uint64
}

func (q *FakeRetryQueue) Enqueue(ctx context.Context, message models.WebhookRetryMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.Enqueued = append(q.Enqueued, message)
	q.Ready = append(q.Ready, message)
	return nil
}

func (q *FakeRetryQueue) Reenqueue(ctx context.Context, message models.WebhookRetryMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.Reenqueued = append(q.Reenqueued, message)
	q.Ready = append(q.Ready, message)
	return nil
}

func (q *FakeRetryQueue) EnqueueToDeadQueue(ctx context.Context, message models.WebhookRetryMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.Dead = append(q.Dead, message)
	return nil
}

func (q *FakeRetryQueue) FetchN(ctx context.Context, max int) ([]models.QueuedWebhook, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := max
	if n > len(q.Ready) {
		n = len(q.Ready)
	}
	items := make([]models.QueuedWebhook, 0, n)
	for _, message := range q.Ready[:n] {
		q.tag++
		items = append(items, models.QueuedWebhook{DeliveryTag: q.tag, Message: message})
	}
	q.Ready = q.Ready[n:]
	return items, nil
}

func (q *FakeRetryQueue) Ack(ctx context.Context, deliveryTag uint64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.Acked = append(q.Acked, deliveryTag)
	return nil
}

// HasSubject reports whether any notification subject contains fragment.
func HasSubject(subjects []string, fragment string) bool {
	for _, subject := range subjects {
		if strings.Contains(subject, fragment) {
			return true
		}
	}
	return false
}

// AssertMoney compares a decimal amount against its expected string form by value.
func AssertMoney(t assert.TestingT, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) bool {
	return assert.True(t, decimal.RequireFromString(expected).Equal(actual),
		append([]interface{}{"expected %s, got %s", expected, actual.String()}, msgAndArgs...)...)
}
