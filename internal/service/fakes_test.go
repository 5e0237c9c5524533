package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/contentforge/backend/internal/models"
	"github.com/contentforge/backend/internal/transfer"
)

// In-memory doubles for the repository layer.

type fakeCreditRepo struct {
	balances map[int64]float64
	ledger   []*models.CreditTransaction
}

func newFakeCreditRepo() *fakeCreditRepo {
	return &fakeCreditRepo{balances: make(map[int64]float64)}
}

func (f *fakeCreditRepo) Balance(ctx context.Context, userID int64) (float64, error) {
	return f.balances[userID], nil
}

func (f *fakeCreditRepo) Deduct(ctx context.Context, userID int64, amount float64, description, referenceID string) (bool, float64, error) {
	balance := f.balances[userID]
	if balance < amount {
		return false, balance, nil
	}
	f.balances[userID] = balance - amount
	f.ledger = append(f.ledger, &models.CreditTransaction{
		UserID:      userID,
		Type:        models.TransactionUsage,
		Amount:      -amount,
		Description: description,
		ReferenceID: referenceID,
	})
	return true, f.balances[userID], nil
}

func (f *fakeCreditRepo) Add(ctx context.Context, userID int64, amount float64, txType, description, referenceID string) (float64, error) {
	f.balances[userID] += amount
	f.ledger = append(f.ledger, &models.CreditTransaction{
		UserID:      userID,
		Type:        txType,
		Amount:      amount,
		Description: description,
		ReferenceID: referenceID,
	})
	return f.balances[userID], nil
}

func (f *fakeCreditRepo) History(ctx context.Context, userID int64, limit int) ([]*models.CreditTransaction, error) {
	var out []*models.CreditTransaction
	for _, tx := range f.ledger {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

type fakeProviderRepo struct {
	provider *models.AIProvider
}

func (f *fakeProviderRepo) GetDefaultActive(ctx context.Context, contentType string) (*models.AIProvider, error) {
	if f.provider == nil || f.provider.ContentType != contentType {
		return nil, nil
	}
	return f.provider, nil
}

func (f *fakeProviderRepo) List(ctx context.Context) ([]*models.AIProvider, error) {
	if f.provider == nil {
		return nil, nil
	}
	return []*models.AIProvider{f.provider}, nil
}

type fakeSettingsRepo struct {
	settings map[int64]*models.Settings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: make(map[int64]*models.Settings)}
}

func (f *fakeSettingsRepo) GetByUserID(ctx context.Context, userID int64) (*models.Settings, bool, error) {
	s, ok := f.settings[userID]
	return s, ok, nil
}

func (f *fakeSettingsRepo) Upsert(ctx context.Context, s *models.Settings) error {
	f.settings[s.UserID] = s
	return nil
}

type fakeQueueRepo struct {
	items       map[int64]*models.PostingQueueItem
	nextID      int64
	posted      []int64
	failed      map[int64]string
	claimDenied map[int64]bool
}

func newFakeQueueRepo() *fakeQueueRepo {
	return &fakeQueueRepo{
		items:       make(map[int64]*models.PostingQueueItem),
		failed:      make(map[int64]string),
		claimDenied: make(map[int64]bool),
	}
}

func (f *fakeQueueRepo) Create(ctx context.Context, item *models.PostingQueueItem) (int64, error) {
	f.nextID++
	item.ID = f.nextID
	f.items[item.ID] = item
	return item.ID, nil
}

func (f *fakeQueueRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.PostingQueueItem, error) {
	var due []*models.PostingQueueItem
	for _, item := range f.items {
		if item.Status == models.QueueStatusPending && !item.ScheduledFor.After(now) {
			due = append(due, item)
		}
		if len(due) == limit {
			break
		}
	}
	return due, nil
}

func (f *fakeQueueRepo) Claim(ctx context.Context, id int64) (bool, error) {
	if f.claimDenied[id] {
		return false, nil
	}
	item, ok := f.items[id]
	if !ok || item.Status != models.QueueStatusPending {
		return false, nil
	}
	item.Status = models.QueueStatusProcessing
	item.Attempts++
	return true, nil
}

func (f *fakeQueueRepo) MarkPosted(ctx context.Context, id int64, platformPostID, platformPostURL string) error {
	item := f.items[id]
	item.Status = models.QueueStatusPosted
	item.PlatformPostID = platformPostID
	item.PlatformPostURL = platformPostURL
	f.posted = append(f.posted, id)
	return nil
}

func (f *fakeQueueRepo) MarkFailed(ctx context.Context, id int64, errorMessage string) error {
	item := f.items[id]
	item.Status = models.QueueStatusFailed
	item.ErrorMessage = errorMessage
	f.failed[id] = errorMessage
	return nil
}

func (f *fakeQueueRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.PostingQueueItem, error) {
	var out []*models.PostingQueueItem
	for _, item := range f.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeQueueRepo) CheckByUserID(ctx context.Context, itemID, userID int64) (bool, error) {
	item, ok := f.items[itemID]
	return ok && item.UserID == userID, nil
}

func (f *fakeQueueRepo) Remove(ctx context.Context, id int64) error {
	delete(f.items, id)
	return nil
}

type fakeSocialAccountRepo struct {
	accounts map[int64]*models.SocialAccount
}

func newFakeSocialAccountRepo() *fakeSocialAccountRepo {
	return &fakeSocialAccountRepo{accounts: make(map[int64]*models.SocialAccount)}
}

func (f *fakeSocialAccountRepo) Upsert(ctx context.Context, sa *models.SocialAccount) (int64, error) {
	for _, acc := range f.accounts {
		if acc.UserID == sa.UserID && acc.Platform == sa.Platform && acc.AccountID == sa.AccountID {
			sa.ID = acc.ID
			sa.IsActive = true
			f.accounts[acc.ID] = sa
			return acc.ID, nil
		}
	}
	sa.ID = int64(len(f.accounts) + 1)
	sa.IsActive = true
	f.accounts[sa.ID] = sa
	return sa.ID, nil
}

func (f *fakeSocialAccountRepo) GetByID(ctx context.Context, id int64) (*models.SocialAccount, error) {
	acc, ok := f.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %d not found", id)
	}
	return acc, nil
}

func (f *fakeSocialAccountRepo) ListInfoByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	var out []*models.SocialAccount
	for _, acc := range f.accounts {
		if acc.UserID == userID && acc.IsActive {
			out = append(out, acc)
		}
	}
	return out, nil
}

func (f *fakeSocialAccountRepo) ListExpiring(ctx context.Context, initialTime, finalTime time.Time) ([]*models.SocialAccount, error) {
	return nil, nil
}

func (f *fakeSocialAccountRepo) CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error) {
	acc, ok := f.accounts[accountID]
	return ok && acc.UserID == userID, nil
}

func (f *fakeSocialAccountRepo) SetToken(ctx context.Context, userID int64, oldAccessToken string, sa *models.SocialAccount) error {
	f.accounts[sa.ID] = sa
	return nil
}

func (f *fakeSocialAccountRepo) Deactivate(ctx context.Context, id int64) error {
	acc, ok := f.accounts[id]
	if !ok {
		return fmt.Errorf("account %d not found", id)
	}
	acc.AccessToken = ""
	acc.RefreshToken = ""
	acc.IsActive = false
	return nil
}

type fakeUserRepo struct {
	users   map[int64]*models.User
	removed []int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User)}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	u, ok := f.users[id]
	return u, ok, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *sql.Tx, user *models.User) (int64, error) {
	user.ID = int64(len(f.users) + 1)
	f.users[user.ID] = user
	return user.ID, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Remove(ctx context.Context, id int64) error {
	delete(f.users, id)
	f.removed = append(f.removed, id)
	return nil
}

type fakeApiKeyRepo struct {
	keys   map[int64]*models.ApiKey
	nextID int64
}

func newFakeApiKeyRepo() *fakeApiKeyRepo {
	return &fakeApiKeyRepo{keys: make(map[int64]*models.ApiKey)}
}

func (f *fakeApiKeyRepo) GetByKey(ctx context.Context, apiKey string) (*int64, bool, error) {
	for _, k := range f.keys {
		if k.ApiKey == apiKey {
			userID := k.UserID
			return &userID, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakeApiKeyRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.ApiKey, error) {
	var out []*models.ApiKey
	for _, k := range f.keys {
		if k.UserID == userID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (f *fakeApiKeyRepo) Create(ctx context.Context, apiKey *models.ApiKey) (int64, error) {
	f.nextID++
	apiKey.ID = f.nextID
	f.keys[apiKey.ID] = apiKey
	return apiKey.ID, nil
}

func (f *fakeApiKeyRepo) CheckByUserID(ctx context.Context, keyID, userID int64) (bool, error) {
	k, ok := f.keys[keyID]
	return ok && k.UserID == userID, nil
}

func (f *fakeApiKeyRepo) Remove(ctx context.Context, id int64) error {
	delete(f.keys, id)
	return nil
}

type fakeNotificationRepo struct {
	created []*models.Notification
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *models.Notification) (int64, error) {
	f.created = append(f.created, n)
	return int64(len(f.created)), nil
}

func (f *fakeNotificationRepo) ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.Notification, error) {
	return f.created, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, userID, id int64) error {
	return nil
}

type fakePaymentEventRepo struct {
	events map[string]bool
}

func newFakePaymentEventRepo() *fakePaymentEventRepo {
	return &fakePaymentEventRepo{events: make(map[string]bool)}
}

func (f *fakePaymentEventRepo) Exists(ctx context.Context, gateway, eventID string) (bool, error) {
	return f.events[gateway+":"+eventID], nil
}

func (f *fakePaymentEventRepo) Create(ctx context.Context, e *models.PaymentEvent) (int64, error) {
	f.events[e.Gateway+":"+e.EventID] = true
	return 1, nil
}

type fakePipelineRepo struct {
	pipelines map[int64]*models.Pipeline
	steps     map[int64][]*models.PipelineStep
	runs      []recordedRun
}

type recordedRun struct {
	pipelineID int64
	success    bool
	nextRunAt  time.Time
}

func newFakePipelineRepo() *fakePipelineRepo {
	return &fakePipelineRepo{
		pipelines: make(map[int64]*models.Pipeline),
		steps:     make(map[int64][]*models.PipelineStep),
	}
}

func (f *fakePipelineRepo) Create(ctx context.Context, pipeline *models.Pipeline, steps []*models.PipelineStep) (int64, error) {
	pipeline.ID = int64(len(f.pipelines) + 1)
	f.pipelines[pipeline.ID] = pipeline
	for i, s := range steps {
		s.ID = int64(i + 1)
		s.PipelineID = pipeline.ID
	}
	f.steps[pipeline.ID] = steps
	return pipeline.ID, nil
}

func (f *fakePipelineRepo) GetByID(ctx context.Context, id int64) (*models.Pipeline, error) {
	// Missing rows are nil, not an error, like the sql implementation.
	return f.pipelines[id], nil
}

func (f *fakePipelineRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.Pipeline, error) {
	var out []*models.Pipeline
	for _, p := range f.pipelines {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePipelineRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.Pipeline, error) {
	var out []*models.Pipeline
	for _, p := range f.pipelines {
		if p.Status == models.PipelineStatusActive && !p.NextRunAt.After(now) {
			out = append(out, p)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakePipelineRepo) ListSteps(ctx context.Context, pipelineID int64) ([]*models.PipelineStep, error) {
	return f.steps[pipelineID], nil
}

func (f *fakePipelineRepo) RecordRun(ctx context.Context, pipelineID int64, success bool, nextRunAt time.Time) error {
	f.runs = append(f.runs, recordedRun{pipelineID: pipelineID, success: success, nextRunAt: nextRunAt})
	p := f.pipelines[pipelineID]
	p.TotalRuns++
	if success {
		p.SuccessfulRuns++
	} else {
		p.FailedRuns++
	}
	p.NextRunAt = nextRunAt
	return nil
}

func (f *fakePipelineRepo) UpdateSchedule(ctx context.Context, pipelineID int64, schedule string, nextRunAt time.Time) error {
	p, ok := f.pipelines[pipelineID]
	if !ok {
		return fmt.Errorf("pipeline %d not found", pipelineID)
	}
	p.Schedule = schedule
	p.NextRunAt = nextRunAt
	return nil
}

func (f *fakePipelineRepo) SetStatus(ctx context.Context, pipelineID int64, status string) error {
	p, ok := f.pipelines[pipelineID]
	if !ok {
		return fmt.Errorf("pipeline %d not found", pipelineID)
	}
	p.Status = status
	return nil
}

func (f *fakePipelineRepo) CheckByUserID(ctx context.Context, pipelineID, userID int64) (bool, error) {
	p, ok := f.pipelines[pipelineID]
	return ok && p.UserID == userID, nil
}

func (f *fakePipelineRepo) Remove(ctx context.Context, id int64) error {
	delete(f.pipelines, id)
	return nil
}

type fakeHistoryRepo struct {
	batches [][]*models.PipelineHistory
}

func (f *fakeHistoryRepo) CreateBatch(ctx context.Context, entries []*models.PipelineHistory) error {
	f.batches = append(f.batches, entries)
	return nil
}

func (f *fakeHistoryRepo) ListByPipelineID(ctx context.Context, pipelineID int64, limit int) ([]*models.PipelineHistory, error) {
	var out []*models.PipelineHistory
	for _, batch := range f.batches {
		out = append(out, batch...)
	}
	return out, nil
}

// Service-level doubles.

type fakeGenerationService struct {
	resp  *transfer.GenerationResponse
	err   error
	calls int
}

func (f *fakeGenerationService) Generate(ctx context.Context, userID int64, req transfer.GenerationRequest) (*transfer.GenerationResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeGenerationService) ListProviders(ctx context.Context) ([]*models.AIProvider, error) {
	return nil, nil
}

type fakePostingService struct {
	result transfer.PostResult
	calls  int
}

func (f *fakePostingService) Enqueue(ctx context.Context, userID int64, qc *transfer.QueueItemCreation) (int64, error) {
	return 0, nil
}

func (f *fakePostingService) List(ctx context.Context, userID int64) ([]*models.PostingQueueItem, error) {
	return nil, nil
}

func (f *fakePostingService) Remove(ctx context.Context, userID, itemID int64) error {
	return nil
}

func (f *fakePostingService) DrainDue(ctx context.Context) error {
	return nil
}

func (f *fakePostingService) PostNow(ctx context.Context, userID, accountID int64, content, contentURL string, cfg transfer.PostConfig) transfer.PostResult {
	f.calls++
	return f.result
}
