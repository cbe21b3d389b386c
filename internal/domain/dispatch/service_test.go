package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"chatlist-server/internal/domain/model"
	"chatlist-server/internal/infrastructure/logger"
	"chatlist-server/internal/utils/platformerrors"
)

// memModelRepo is a map-backed model.Repository for service tests.
type memModelRepo struct {
	mu     sync.Mutex
	nextID uint
	models map[uint]*model.Model
}

func newMemModelRepo() *memModelRepo {
	return &memModelRepo{nextID: 1, models: make(map[uint]*model.Model)}
}

func (r *memModelRepo) Create(_ context.Context, m *model.Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = r.nextID
	r.nextID++
	cp := *m
	r.models[m.ID] = &cp
	return nil
}

func (r *memModelRepo) Update(_ context.Context, m *model.Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.models[m.ID] = &cp
	return nil
}

func (r *memModelRepo) DeleteByID(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.models, id)
	return nil
}

func (r *memModelRepo) FindByID(_ context.Context, id uint) (*model.Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.models[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (r *memModelRepo) FindByDisplayName(_ context.Context, name string) (*model.Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.models {
		if m.DisplayName == name {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memModelRepo) FindByFilter(_ context.Context, filter model.ModelFilter) ([]*model.Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Model
	for id := uint(1); id < r.nextID; id++ {
		m, ok := r.models[id]
		if !ok {
			continue
		}
		if filter.Active != nil && m.Active != *filter.Active {
			continue
		}
		if filter.Kind != nil && m.Kind != *filter.Kind {
			continue
		}
		if filter.IDs != nil {
			found := false
			for _, want := range *filter.IDs {
				if want == m.ID {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memModelRepo) Count(ctx context.Context, filter model.ModelFilter) (int64, error) {
	models, err := r.FindByFilter(ctx, filter)
	return int64(len(models)), err
}

// recordingSink captures sink calls for assertions.
type recordingSink struct {
	mu       sync.Mutex
	prompt   string
	outcomes []Outcome
}

func (s *recordingSink) BatchStarted(_ context.Context, prompt string, _ []model.Model) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompt = prompt
	return 42, nil
}

func (s *recordingSink) OutcomeReady(_ context.Context, batchID uint, outcome Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, outcome)
	return nil
}

func seedRegistry(t *testing.T, repo *memModelRepo, entries ...model.Model) *model.Service {
	t.Helper()
	svc := model.NewService(repo)
	for i := range entries {
		if err := repo.Create(context.Background(), &entries[i]); err != nil {
			t.Fatalf("seed model: %v", err)
		}
	}
	return svc
}

func TestBatchServiceRunCollectsAndPersists(t *testing.T) {
	repo := newMemModelRepo()
	registry := seedRegistry(t, repo,
		model.Model{DisplayName: "alpha", RemoteName: "alpha", Kind: model.ProviderCustom, Active: true},
		model.Model{DisplayName: "beta", RemoteName: "beta", Kind: model.ProviderCustom, Active: true},
		model.Model{DisplayName: "dormant", RemoteName: "dormant", Kind: model.ProviderCustom, Active: false},
	)

	factory := stubFactory{adapters: map[string]Adapter{
		"alpha": okAdapter("from alpha", 11),
		"beta":  failAdapter(ErrKindAuth, "401 unauthorized"),
	}}
	d := newTestDispatcher(factory, time.Second, 5*time.Second)
	sink := &recordingSink{}
	svc := NewBatchService(d, registry, sink, logger.GetLogger())

	batch, err := svc.Run(context.Background(), "compare yourselves", nil, Options{}, true)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// Inactive models are excluded when no explicit ids are given.
	if len(batch.Outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(batch.Outcomes))
	}
	if batch.Succeeded != 1 || batch.Failed != 1 {
		t.Errorf("expected 1 success and 1 failure, got %d/%d", batch.Succeeded, batch.Failed)
	}
	if batch.ID == "" {
		t.Error("batch should carry an id")
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.prompt != "compare yourselves" {
		t.Errorf("sink recorded wrong prompt: %q", sink.prompt)
	}
	if len(sink.outcomes) != 2 {
		t.Errorf("sink should have received 2 outcomes, got %d", len(sink.outcomes))
	}
}

func TestBatchServiceExplicitIDsIncludeInactive(t *testing.T) {
	repo := newMemModelRepo()
	registry := seedRegistry(t, repo,
		model.Model{DisplayName: "dormant", RemoteName: "dormant", Kind: model.ProviderCustom, Active: false},
	)
	factory := stubFactory{adapters: map[string]Adapter{
		"dormant": okAdapter("awake now", 2),
	}}
	d := newTestDispatcher(factory, time.Second, 5*time.Second)
	svc := NewBatchService(d, registry, nil, logger.GetLogger())

	batch, err := svc.Run(context.Background(), "hello", []uint{1}, Options{}, false)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(batch.Outcomes) != 1 || !batch.Outcomes[0].OK() {
		t.Fatalf("explicitly selected inactive model should run, got %+v", batch.Outcomes)
	}
}

func TestBatchServiceUnknownModelID(t *testing.T) {
	repo := newMemModelRepo()
	registry := seedRegistry(t, repo)
	d := newTestDispatcher(stubFactory{}, time.Second, time.Second)
	svc := NewBatchService(d, registry, nil, logger.GetLogger())

	_, err := svc.Run(context.Background(), "hello", []uint{99}, Options{}, false)
	if err == nil {
		t.Fatal("expected error for unknown model id")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestBatchServiceNoActiveModels(t *testing.T) {
	repo := newMemModelRepo()
	registry := seedRegistry(t, repo,
		model.Model{DisplayName: "dormant", RemoteName: "dormant", Kind: model.ProviderCustom, Active: false},
	)
	d := newTestDispatcher(stubFactory{}, time.Second, time.Second)
	svc := NewBatchService(d, registry, nil, logger.GetLogger())

	_, err := svc.Run(context.Background(), "hello", nil, Options{}, false)
	if err == nil {
		t.Fatal("expected error when registry has no active models")
	}
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("expected VALIDATION, got %v", err)
	}
}
