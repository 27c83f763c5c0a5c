package services

import (
	"context"
	"encoding/json"
	"interview-api/internal/models"
	"interview-api/internal/pkg/errors"
	"interview-api/internal/quota"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type fakeUsageRepo struct {
	mu         sync.Mutex
	records    map[string]*models.UsageRecord
	err        error
	createErr  error
	resets     int
	increments int

	// beforeReset runs under the lock ahead of ApplyReset's evaluation.
	beforeReset func(rec *models.UsageRecord)
}

func newFakeUsageRepo(records ...*models.UsageRecord) *fakeUsageRepo {
	r := &fakeUsageRepo{records: make(map[string]*models.UsageRecord)}
	for _, rec := range records {
		r.records[rec.UserID] = rec
	}
	return r
}

func (r *fakeUsageRepo) get(userID string) *models.UsageRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[userID]
	if !ok {
		return nil
	}
	cp := *rec
	return &cp
}

func (r *fakeUsageRepo) GetByUserID(ctx context.Context, userID string) (*models.UsageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	rec, ok := r.records[userID]
	if !ok {
		return nil, errors.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeUsageRepo) Create(ctx context.Context, usage *models.UsageRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.records[usage.UserID]; ok {
		return errors.ErrAlreadyExists
	}
	cp := *usage
	r.records[usage.UserID] = &cp
	return nil
}

func (r *fakeUsageRepo) ApplyReset(ctx context.Context, userID string, now time.Time, policy quota.ResetPolicy) (*models.UsageRecord, quota.ResetPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, quota.ResetPlan{}, r.err
	}
	rec, ok := r.records[userID]
	if !ok {
		return nil, quota.ResetPlan{}, errors.ErrNotFound
	}
	if r.beforeReset != nil {
		r.beforeReset(rec)
	}
	plan := policy.Evaluate(rec, now)
	if !plan.Empty() {
		plan.Apply(rec)
		r.resets++
	}
	cp := *rec
	return &cp, plan, nil
}

func (r *fakeUsageRepo) Increment(ctx context.Context, userID string, capability models.Capability, now time.Time, policy quota.ResetPolicy) (*models.UsageRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	rec, ok := r.records[userID]
	if !ok {
		rec = models.NewUsageRecord(userID, now)
		r.records[userID] = rec
	}
	policy.Evaluate(rec, now).Apply(rec)
	rec.Increment(capability, now)
	r.increments++
	cp := *rec
	return &cp, nil
}

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
	lookups  int
}

func newFakeAccountRepo(accounts ...*models.Account) *fakeAccountRepo {
	r := &fakeAccountRepo{accounts: make(map[string]*models.Account)}
	for _, a := range accounts {
		r.accounts[a.ID] = a
	}
	return r
}

func (r *fakeAccountRepo) Create(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; ok {
		return errors.ErrAlreadyExists
	}
	r.accounts[account.ID] = account
	return nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	a, ok := r.accounts[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return a, nil
}

func (r *fakeAccountRepo) SetPremium(ctx context.Context, id string, premium bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return errors.ErrNotFound
	}
	a.Premium = premium
	return nil
}

func (r *fakeAccountRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[id]; !ok {
		return errors.ErrNotFound
	}
	delete(r.accounts, id)
	return nil
}

type fakeQuestionRepo struct {
	questions map[int]*models.Question
}

func newFakeQuestionRepo(numbers ...int) *fakeQuestionRepo {
	r := &fakeQuestionRepo{questions: make(map[int]*models.Question)}
	for _, n := range numbers {
		r.questions[n] = &models.Question{ID: uuid.New(), QuestionNumber: n, Prompt: "prompt"}
	}
	return r
}

func (r *fakeQuestionRepo) List(ctx context.Context) ([]models.Question, error) {
	var out []models.Question
	for _, q := range r.questions {
		out = append(out, *q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionNumber < out[j].QuestionNumber })
	return out, nil
}

func (r *fakeQuestionRepo) GetRandom(ctx context.Context) (*models.Question, error) {
	for _, q := range r.questions {
		return q, nil
	}
	return nil, errors.ErrNotFound
}

func (r *fakeQuestionRepo) GetByNumber(ctx context.Context, number int) (*models.Question, error) {
	q, ok := r.questions[number]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return q, nil
}

func (r *fakeQuestionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	for _, q := range r.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (r *fakeQuestionRepo) Create(ctx context.Context, question *models.Question) error {
	if _, ok := r.questions[question.QuestionNumber]; ok {
		return errors.ErrAlreadyExists
	}
	r.questions[question.QuestionNumber] = question
	return nil
}

func (r *fakeQuestionRepo) Update(ctx context.Context, id uuid.UUID, patch models.QuestionPatch) (*models.Question, error) {
	q, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Prompt != nil {
		q.Prompt = *patch.Prompt
	}
	return q, nil
}

func (r *fakeQuestionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	q, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	delete(r.questions, q.QuestionNumber)
	return nil
}

type fakeInterviewRepo struct {
	interviews map[string]*models.Interview
	updates    int
}

func newFakeInterviewRepo(interviews ...*models.Interview) *fakeInterviewRepo {
	r := &fakeInterviewRepo{interviews: make(map[string]*models.Interview)}
	for _, i := range interviews {
		r.interviews[i.ID] = i
	}
	return r
}

func (r *fakeInterviewRepo) ListByUser(ctx context.Context, userID string) ([]models.Interview, error) {
	var out []models.Interview
	for _, i := range r.interviews {
		if i.UserID == userID {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (r *fakeInterviewRepo) GetByID(ctx context.Context, id string) (*models.Interview, error) {
	i, ok := r.interviews[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	cp := *i
	return &cp, nil
}

func (r *fakeInterviewRepo) Create(ctx context.Context, interview *models.Interview) error {
	r.interviews[interview.ID] = interview
	return nil
}

func (r *fakeInterviewRepo) UpdateTranscript(ctx context.Context, id string, messages models.Messages, questionNumber int) error {
	i, ok := r.interviews[id]
	if !ok {
		return errors.ErrNotFound
	}
	i.Messages = messages
	i.QuestionNumber = questionNumber
	r.updates++
	return nil
}

func (r *fakeInterviewRepo) SetFeedback(ctx context.Context, id, feedback string) error {
	i, ok := r.interviews[id]
	if !ok {
		return errors.ErrNotFound
	}
	i.Feedback = &feedback
	i.Completed = true
	return nil
}

func (r *fakeInterviewRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.interviews[id]; !ok {
		return errors.ErrNotFound
	}
	delete(r.interviews, id)
	return nil
}

func (r *fakeInterviewRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	for id, i := range r.interviews {
		if i.UserID == userID {
			delete(r.interviews, id)
			n++
		}
	}
	return n, nil
}

type fakeCompletion struct {
	mu     sync.Mutex
	reply  string
	deltas []string
	err    error
	calls  int
	last   []models.ChatMessage
}

func (c *fakeCompletion) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.last = messages
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

func (c *fakeCompletion) Stream(ctx context.Context, messages []models.ChatMessage, onDelta func(string) error) error {
	c.mu.Lock()
	c.calls++
	c.last = messages
	deltas, err := c.deltas, c.err
	c.mu.Unlock()

	for _, d := range deltas {
		if relayErr := onDelta(d); relayErr != nil {
			return errRelay{err: relayErr}
		}
	}
	return err
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	v, ok := c.values[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = string(raw)
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return c.err
}

func (c *fakeCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.values {
		if strings.HasPrefix(k, prefix) {
			delete(c.values, k)
		}
	}
	return c.err
}

func (c *fakeCache) Ping(ctx context.Context) error { return c.err }

func (c *fakeCache) Close() error { return nil }

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok
}
