package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chatlist-server/internal/config"
	"chatlist-server/internal/domain/dispatch"
	"chatlist-server/internal/domain/enhance"
	"chatlist-server/internal/domain/model"
	"chatlist-server/internal/domain/prompt"
	"chatlist-server/internal/domain/result"
	"chatlist-server/internal/domain/settings"
	"chatlist-server/internal/infrastructure/logger"
	"chatlist-server/internal/interfaces/httpserver/responses"
)

// in-memory repositories, enough to drive the handlers end to end

type memModels struct {
	nextID uint
	rows   map[uint]*model.Model
}

func (r *memModels) Create(_ context.Context, m *model.Model) error {
	r.nextID++
	m.ID = r.nextID
	cp := *m
	r.rows[m.ID] = &cp
	return nil
}
func (r *memModels) Update(_ context.Context, m *model.Model) error {
	cp := *m
	r.rows[m.ID] = &cp
	return nil
}
func (r *memModels) DeleteByID(_ context.Context, id uint) error {
	delete(r.rows, id)
	return nil
}
func (r *memModels) FindByID(_ context.Context, id uint) (*model.Model, error) {
	if m, ok := r.rows[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}
func (r *memModels) FindByDisplayName(_ context.Context, name string) (*model.Model, error) {
	for _, m := range r.rows {
		if m.DisplayName == name {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}
func (r *memModels) FindByFilter(_ context.Context, f model.ModelFilter) ([]*model.Model, error) {
	var out []*model.Model
	for id := uint(1); id <= r.nextID; id++ {
		m, ok := r.rows[id]
		if !ok {
			continue
		}
		if f.Active != nil && m.Active != *f.Active {
			continue
		}
		if f.IDs != nil {
			hit := false
			for _, want := range *f.IDs {
				if want == m.ID {
					hit = true
				}
			}
			if !hit {
				continue
			}
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}
func (r *memModels) Count(ctx context.Context, f model.ModelFilter) (int64, error) {
	rows, err := r.FindByFilter(ctx, f)
	return int64(len(rows)), err
}

type memPrompts struct {
	nextID uint
	rows   map[uint]*prompt.Prompt
}

func (r *memPrompts) Create(_ context.Context, p *prompt.Prompt) error {
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}
func (r *memPrompts) Update(_ context.Context, p *prompt.Prompt) error {
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}
func (r *memPrompts) DeleteByID(_ context.Context, id uint) error {
	delete(r.rows, id)
	return nil
}
func (r *memPrompts) FindByID(_ context.Context, id uint) (*prompt.Prompt, error) {
	if p, ok := r.rows[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}
func (r *memPrompts) FindByFilter(_ context.Context, _ prompt.PromptFilter) ([]*prompt.Prompt, error) {
	var out []*prompt.Prompt
	for id := uint(1); id <= r.nextID; id++ {
		if p, ok := r.rows[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (r *memPrompts) Count(context.Context, prompt.PromptFilter) (int64, error) { return 0, nil }

type memResults struct {
	nextID uint
	rows   map[uint]*result.Result
}

func (r *memResults) Create(_ context.Context, res *result.Result) error {
	r.nextID++
	res.ID = r.nextID
	cp := *res
	r.rows[res.ID] = &cp
	return nil
}
func (r *memResults) DeleteByID(_ context.Context, id uint) error {
	delete(r.rows, id)
	return nil
}
func (r *memResults) DeleteByPromptID(_ context.Context, promptID uint) (int64, error) {
	var n int64
	for id, res := range r.rows {
		if res.PromptID == promptID {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}
func (r *memResults) FindByID(_ context.Context, id uint) (*result.Result, error) {
	if res, ok := r.rows[id]; ok {
		cp := *res
		return &cp, nil
	}
	return nil, nil
}
func (r *memResults) FindByFilter(_ context.Context, f result.ResultFilter) ([]*result.Result, error) {
	var out []*result.Result
	for id := uint(1); id <= r.nextID; id++ {
		res, ok := r.rows[id]
		if !ok {
			continue
		}
		if f.PromptID != nil && res.PromptID != *f.PromptID {
			continue
		}
		cp := *res
		out = append(out, &cp)
	}
	return out, nil
}
func (r *memResults) Count(context.Context, result.ResultFilter) (int64, error) { return 0, nil }

type memSettings struct{ rows map[string]*settings.Setting }

func (r *memSettings) Upsert(_ context.Context, s *settings.Setting) error {
	cp := *s
	r.rows[s.Key] = &cp
	return nil
}
func (r *memSettings) DeleteByKey(_ context.Context, key string) error {
	delete(r.rows, key)
	return nil
}
func (r *memSettings) FindByKey(_ context.Context, key string) (*settings.Setting, error) {
	if s, ok := r.rows[key]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}
func (r *memSettings) FindAll(_ context.Context) ([]*settings.Setting, error) {
	var out []*settings.Setting
	for _, s := range r.rows {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

type memEnhancements struct {
	nextID uint
	rows   map[uint]*enhance.Enhancement
}

func (r *memEnhancements) Create(_ context.Context, e *enhance.Enhancement) error {
	r.nextID++
	e.ID = r.nextID
	cp := *e
	r.rows[e.ID] = &cp
	return nil
}
func (r *memEnhancements) DeleteByID(_ context.Context, id uint) error {
	delete(r.rows, id)
	return nil
}
func (r *memEnhancements) FindByID(_ context.Context, id uint) (*enhance.Enhancement, error) {
	if e, ok := r.rows[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}
func (r *memEnhancements) FindByFilter(context.Context, enhance.EnhancementFilter) ([]*enhance.Enhancement, error) {
	return nil, nil
}

type fixedAdapter struct{ text string }

func (a fixedAdapter) Complete(_ context.Context, _ dispatch.Request) (*dispatch.Completion, error) {
	return &dispatch.Completion{Text: a.text, TokensUsed: 3}, nil
}

type fixedFactory struct{ text string }

func (f fixedFactory) AdapterFor(model.Model) (dispatch.Adapter, error) {
	return fixedAdapter{text: f.text}, nil
}

func newTestServer(t *testing.T) *HttpServer {
	t.Helper()
	cfg := &config.Config{
		ServiceName:           "chatlist-server",
		Environment:           "test",
		HTTPPort:              0,
		ShutdownTimeout:       time.Second,
		MaxConcurrentRequests: 5,
		RequestTimeout:        time.Second,
		DispatchTimeout:       5 * time.Second,
		EnhanceMaxTokens:      2000,
	}
	log := logger.GetLogger()

	modelRepo := &memModels{rows: make(map[uint]*model.Model)}
	promptRepo := &memPrompts{rows: make(map[uint]*prompt.Prompt)}
	resultRepo := &memResults{rows: make(map[uint]*result.Result)}
	settingsRepo := &memSettings{rows: make(map[string]*settings.Setting)}
	enhRepo := &memEnhancements{rows: make(map[uint]*enhance.Enhancement)}

	modelSvc := model.NewService(modelRepo)
	if _, err := modelSvc.Create(context.Background(), &model.Model{
		DisplayName: "echo", RemoteName: "echo", Kind: model.ProviderCustom,
		EndpointURL: "http://localhost/v1/chat/completions", Active: true,
	}); err != nil {
		t.Fatalf("seed model: %v", err)
	}

	promptSvc := prompt.NewService(promptRepo)
	resultSvc := result.NewService(resultRepo)
	settingsSvc := settings.NewService(settingsRepo)

	factory := fixedFactory{text: "echoed"}
	dispatcher := dispatch.NewDispatcher(factory, 5, time.Second, 5*time.Second, log)
	batchSvc := dispatch.NewBatchService(dispatcher, modelSvc, nil, log)
	enhanceSvc := enhance.NewService(modelSvc, factory, enhRepo, 2000, log)

	return New(cfg, log, Services{
		Batch:    batchSvc,
		Models:   modelSvc,
		Prompts:  promptSvc,
		Results:  resultSvc,
		Enhance:  enhanceSvc,
		Settings: settingsSvc,
	})
}

func doJSON(t *testing.T, srv *HttpServer, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz", "/"} {
		rec := doJSON(t, srv, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestDispatchEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/v1/dispatch", `{"prompt":"say hi"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /v1/dispatch = %d, body %s", rec.Code, rec.Body.String())
	}
	var batch responses.BatchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &batch); err != nil {
		t.Fatalf("decode batch: %v", err)
	}
	if len(batch.Outcomes) != 1 || !batch.Outcomes[0].OK || batch.Outcomes[0].Text != "echoed" {
		t.Errorf("unexpected batch: %+v", batch)
	}
}

func TestDispatchValidation(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/v1/dispatch", `{"prompt":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty prompt = %d, want 400", rec.Code)
	}
}

func TestDispatchStreamEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/v1/dispatch", `{"prompt":"say hi","stream":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("streamed dispatch = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "event:outcome") || !strings.Contains(body, "event:done") {
		t.Errorf("SSE body missing events:\n%s", body)
	}
}

func TestModelCRUD(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/models",
		`{"display_name":"Claude","endpoint_url":"https://api.anthropic.com/v1/messages","credential_ref":"ANTHROPIC_API_KEY","active":true}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create model = %d, body %s", rec.Code, rec.Body.String())
	}
	var created responses.ModelResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode model: %v", err)
	}
	if created.Kind != "anthropic" {
		t.Errorf("kind should be inferred from URL, got %q", created.Kind)
	}

	rec = doJSON(t, srv, http.MethodPost, "/v1/models",
		`{"display_name":"Claude","endpoint_url":"https://api.anthropic.com/v1/messages"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate name = %d, want 409", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/v1/models/999", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown model = %d, want 404", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/v1/models/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id = %d, want 400", rec.Code)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/v1/settings/theme", `{"value":"dark"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put setting = %d, body %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, srv, http.MethodGet, "/v1/settings/theme", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get setting = %d", rec.Code)
	}
	var got struct {
		Key   string `json:"key"`
		Value any    `json:"value"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode setting: %v", err)
	}
	if got.Value != "dark" {
		t.Errorf("value = %v, want dark", got.Value)
	}
	rec = doJSON(t, srv, http.MethodGet, "/v1/settings/absent", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("absent setting = %d, want 404", rec.Code)
	}
}

func TestEnhanceEndpoint(t *testing.T) {
	srv := newTestServer(t)
	// fixedFactory returns non-JSON text, so enhancement must fail as a
	// bad gateway, not a panic or a 500.
	rec := doJSON(t, srv, http.MethodPost, "/v1/enhance", `{"prompt":"please improve this prompt"}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("enhance with non-JSON model reply = %d, want 502", rec.Code)
	}
}
