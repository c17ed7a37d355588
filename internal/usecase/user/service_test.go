package user

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobrec/internal/domain"
	domjob "github.com/kailas-cloud/jobrec/internal/domain/job"
	domprior "github.com/kailas-cloud/jobrec/internal/domain/prior"
	domuser "github.com/kailas-cloud/jobrec/internal/domain/user"
	"github.com/kailas-cloud/jobrec/internal/usecase/recommendation"
)

// --- Mocks ---

type mockRepo struct {
	createErr  error
	created    []domuser.User
	getResult  domuser.User
	getErr     error
	updateErr  error
	updated    []domuser.User
	deleteErr  error
	appendErr  error
	appended   []string
	setErr     error
	setHistory []string
	setCalled  bool
}

func (m *mockRepo) Create(_ context.Context, u *domuser.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, *u)
	return nil
}
func (m *mockRepo) Get(_ context.Context, _ string) (domuser.User, error) {
	return m.getResult, m.getErr
}
func (m *mockRepo) Update(_ context.Context, u *domuser.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = append(m.updated, *u)
	return nil
}
func (m *mockRepo) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}
func (m *mockRepo) AppendHistory(_ context.Context, _, jobID string) error {
	m.appended = append(m.appended, jobID)
	return m.appendErr
}
func (m *mockRepo) SetHistory(_ context.Context, _ string, history []string) error {
	m.setCalled = true
	m.setHistory = history
	return m.setErr
}

type mockJobs struct {
	jobs    []domjob.Job
	listErr error
}

func (m *mockJobs) Get(_ context.Context, id string) (domjob.Job, error) {
	for _, j := range m.jobs {
		if j.ID() == id {
			return j, nil
		}
	}
	return domjob.Job{}, domain.ErrJobNotFound
}
func (m *mockJobs) List(_ context.Context) ([]domjob.Job, error) {
	return m.jobs, m.listErr
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	texts  []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.texts = append(m.texts, text)
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return m.result, nil
}

type mockPriors struct {
	initErr   error
	reasons   []string
	deleted   []string
	deleteErr error
}

func (m *mockPriors) InitPrior(_ context.Context, _ *domuser.User, reason string) (domprior.Prior, error) {
	m.reasons = append(m.reasons, reason)
	return domprior.Prior{}, m.initErr
}
func (m *mockPriors) DeletePrior(_ context.Context, userID string) error {
	m.deleted = append(m.deleted, userID)
	return m.deleteErr
}

type deps struct {
	repo   *mockRepo
	jobs   *mockJobs
	emb    *mockEmbedder
	priors *mockPriors
}

func newDeps() *deps {
	return &deps{
		repo:   &mockRepo{},
		jobs:   &mockJobs{},
		emb:    &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.6, 0.8}}},
		priors: &mockPriors{},
	}
}

func (d *deps) service() *Service {
	svc := New(d.repo, d.jobs, d.emb, d.priors, zap.NewNop())
	svc.newID = func() string { return "user-1" }
	return svc
}

func validProfile() domuser.Profile {
	return domuser.Profile{Name: "Ada", Email: "ada@example.com", Skills: "go"}
}

// --- Register ---

func TestRegister_StoresAndInitializesPrior(t *testing.T) {
	d := newDeps()

	u, err := d.service().Register(context.Background(), validProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID() != "user-1" || !u.HasEmbedding() {
		t.Errorf("unexpected user: id=%q embedded=%v", u.ID(), u.HasEmbedding())
	}
	if u.Profile().Gender != domuser.DefaultGender {
		t.Errorf("defaults not applied: %q", u.Profile().Gender)
	}
	if len(d.repo.created) != 1 {
		t.Fatalf("expected one stored user, got %d", len(d.repo.created))
	}
	if d.emb.texts[0] != u.Profile().Text() {
		t.Errorf("embedded %q", d.emb.texts[0])
	}
	if !reflect.DeepEqual(d.priors.reasons, []string{recommendation.ReasonRegister}) {
		t.Errorf("prior init: got %v", d.priors.reasons)
	}
}

func TestRegister_DefaultIDIsUUID(t *testing.T) {
	d := newDeps()
	svc := New(d.repo, d.jobs, d.emb, d.priors, zap.NewNop())

	u, err := svc.Register(context.Background(), validProfile())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(u.ID()) != 36 {
		t.Errorf("expected uuid, got %q", u.ID())
	}
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name    string
		profile domuser.Profile
		setup   func(d *deps)
		dim     int
		wantErr error
	}{
		{
			name:    "missing name",
			profile: domuser.Profile{Email: "a@b.c"},
			wantErr: domain.ErrInvalidRecord,
		},
		{
			name:    "bad email",
			profile: domuser.Profile{Name: "Ada", Email: "nope"},
			wantErr: domain.ErrInvalidRecord,
		},
		{
			name:    "provider failure",
			profile: validProfile(),
			setup:   func(d *deps) { d.emb.err = domain.ErrEmbeddingProviderError },
			wantErr: domain.ErrEmbeddingProviderError,
		},
		{
			name:    "dimension mismatch",
			profile: validProfile(),
			dim:     3,
			wantErr: domain.ErrDimensionMismatch,
		},
		{
			name:    "duplicate id",
			profile: validProfile(),
			setup:   func(d *deps) { d.repo.createErr = domain.ErrAlreadyExists },
			wantErr: domain.ErrAlreadyExists,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := newDeps()
			if tc.setup != nil {
				tc.setup(d)
			}
			_, err := d.service().WithDimensions(tc.dim).Register(context.Background(), tc.profile)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if len(d.priors.reasons) != 0 {
				t.Error("prior must not be initialized")
			}
		})
	}
}

func TestRegister_PriorFailureIsNotFatal(t *testing.T) {
	d := newDeps()
	d.priors.initErr = errors.New("catalog unavailable")

	if _, err := d.service().Register(context.Background(), validProfile()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.repo.created) != 1 {
		t.Error("user should be stored")
	}
}

// --- UpdateProfile / Delete ---

func TestUpdateProfile_KeepsHistoryAndResetsPrior(t *testing.T) {
	d := newDeps()
	d.repo.getResult = domuser.Reconstruct("user-1", validProfile(), []float32{1, 0}, []string{"j1"})

	p := validProfile()
	p.Skills = "rust"
	u, err := d.service().UpdateProfile(context.Background(), "user-1", p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Profile().Skills != "rust" {
		t.Errorf("profile not updated: %+v", u.Profile())
	}
	if !reflect.DeepEqual(u.History(), []string{"j1"}) {
		t.Errorf("history lost: %v", u.History())
	}
	if !reflect.DeepEqual(d.repo.updated[0].Embedding(), []float32{0.6, 0.8}) {
		t.Errorf("embedding not refreshed: %v", d.repo.updated[0].Embedding())
	}
	if !reflect.DeepEqual(d.priors.reasons, []string{recommendation.ReasonProfileUpdate}) {
		t.Errorf("prior init: got %v", d.priors.reasons)
	}
}

func TestUpdateProfile_NotFound(t *testing.T) {
	d := newDeps()
	d.repo.getErr = domain.ErrUserNotFound

	_, err := d.service().UpdateProfile(context.Background(), "ghost", validProfile())
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDelete_DropsPrior(t *testing.T) {
	d := newDeps()
	if err := d.service().Delete(context.Background(), "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(d.priors.deleted, []string{"user-1"}) {
		t.Errorf("prior not deleted: %v", d.priors.deleted)
	}
}

func TestDelete_NotFound(t *testing.T) {
	d := newDeps()
	d.repo.deleteErr = domain.ErrUserNotFound

	err := d.service().Delete(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(d.priors.deleted) != 0 {
		t.Error("prior must not be touched")
	}
}

// --- History ---

func TestHistory_KeepsOrderAndSkipsDeleted(t *testing.T) {
	d := newDeps()
	d.repo.getResult = domuser.Reconstruct("user-1", validProfile(), nil, []string{"c", "gone", "a"})
	d.jobs.jobs = []domjob.Job{
		domjob.Reconstruct("a", domjob.Fields{Title: "A"}, nil),
		domjob.Reconstruct("b", domjob.Fields{Title: "B"}, nil),
		domjob.Reconstruct("c", domjob.Fields{Title: "C"}, nil),
	}

	jobs, err := d.service().History(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := make([]string, len(jobs))
	for i := range jobs {
		got[i] = jobs[i].ID()
	}
	if !reflect.DeepEqual(got, []string{"c", "a"}) {
		t.Errorf("got %v, want [c a]", got)
	}
}

func TestHistory_Empty(t *testing.T) {
	d := newDeps()
	d.repo.getResult = domuser.Reconstruct("user-1", validProfile(), nil, nil)
	d.jobs.listErr = errors.New("must not be called")

	jobs, err := d.service().History(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if jobs == nil || len(jobs) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", jobs)
	}
}

func TestAddToHistory(t *testing.T) {
	d := newDeps()
	d.repo.getResult = domuser.Reconstruct("user-1", validProfile(), nil, []string{"a"})
	d.jobs.jobs = []domjob.Job{
		domjob.Reconstruct("a", domjob.Fields{}, nil),
		domjob.Reconstruct("b", domjob.Fields{}, nil),
	}

	n, err := d.service().AddToHistory(context.Background(), "user-1", "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 || !reflect.DeepEqual(d.repo.appended, []string{"b"}) {
		t.Errorf("got n=%d appended=%v", n, d.repo.appended)
	}
	if len(d.priors.reasons) != 0 {
		t.Error("history edits must not touch the prior")
	}
}

func TestAddToHistory_Errors(t *testing.T) {
	tests := []struct {
		name    string
		jobID   string
		getErr  error
		wantErr error
	}{
		{"already applied", "a", nil, domain.ErrAlreadyInHistory},
		{"unknown job", "zzz", nil, domain.ErrJobNotFound},
		{"unknown user", "a", domain.ErrUserNotFound, domain.ErrUserNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := newDeps()
			d.repo.getResult = domuser.Reconstruct("user-1", validProfile(), nil, []string{"a"})
			d.repo.getErr = tc.getErr
			d.jobs.jobs = []domjob.Job{domjob.Reconstruct("a", domjob.Fields{}, nil)}

			_, err := d.service().AddToHistory(context.Background(), "user-1", tc.jobID)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if len(d.repo.appended) != 0 {
				t.Error("nothing should be appended")
			}
		})
	}
}

func TestRemoveFromHistory(t *testing.T) {
	d := newDeps()
	d.repo.getResult = domuser.Reconstruct("user-1", validProfile(), nil, []string{"a", "b", "c"})

	n, err := d.service().RemoveFromHistory(context.Background(), "user-1", "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 || !reflect.DeepEqual(d.repo.setHistory, []string{"a", "c"}) {
		t.Errorf("got n=%d history=%v", n, d.repo.setHistory)
	}
}

func TestRemoveFromHistory_NotInHistory(t *testing.T) {
	d := newDeps()
	d.repo.getResult = domuser.Reconstruct("user-1", validProfile(), nil, []string{"a"})

	_, err := d.service().RemoveFromHistory(context.Background(), "user-1", "b")
	if !errors.Is(err, domain.ErrNotInHistory) {
		t.Fatalf("expected ErrNotInHistory, got %v", err)
	}
	if d.repo.setCalled {
		t.Error("history must not be written")
	}
}

func TestClearHistory(t *testing.T) {
	d := newDeps()
	if err := d.service().ClearHistory(context.Background(), "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.repo.setCalled || len(d.repo.setHistory) != 0 {
		t.Errorf("expected empty history write, got %v", d.repo.setHistory)
	}
}

func TestClearHistory_NotFound(t *testing.T) {
	d := newDeps()
	d.repo.setErr = domain.ErrUserNotFound
	err := d.service().ClearHistory(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
