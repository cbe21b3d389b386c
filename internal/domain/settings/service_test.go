package settings

import (
	"context"
	"testing"

	"chatlist-server/internal/utils/platformerrors"
)

type memRepo struct {
	settings map[string]*Setting
}

func newMemRepo() *memRepo {
	return &memRepo{settings: make(map[string]*Setting)}
}

func (r *memRepo) Upsert(_ context.Context, s *Setting) error {
	cp := *s
	r.settings[s.Key] = &cp
	return nil
}

func (r *memRepo) DeleteByKey(_ context.Context, key string) error {
	delete(r.settings, key)
	return nil
}

func (r *memRepo) FindByKey(_ context.Context, key string) (*Setting, error) {
	if s, ok := r.settings[key]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *memRepo) FindAll(_ context.Context) ([]*Setting, error) {
	var out []*Setting
	for _, s := range r.settings {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func TestSetInfersType(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	tests := []struct {
		key   string
		value any
		want  ValueType
	}{
		{"theme", "dark", TypeString},
		{"auto_save", true, TypeBool},
		{"max_results", 25, TypeInt},
		{"whole_float", float64(10), TypeInt},
		{"temperature", 0.7, TypeFloat},
		{"window", map[string]any{"w": 800, "h": 600}, TypeJSON},
	}
	for _, tt := range tests {
		setting, err := svc.Set(ctx, tt.key, tt.value)
		if err != nil {
			t.Fatalf("Set(%q) returned error: %v", tt.key, err)
		}
		if setting.Type != tt.want {
			t.Errorf("Set(%q) type = %s, want %s", tt.key, setting.Type, tt.want)
		}
	}
}

func TestGetRoundTrip(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	if _, err := svc.Set(ctx, "max_results", 25); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	got, err := svc.Get(ctx, "max_results")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != int64(25) {
		t.Errorf("Get = %v (%T), want int64(25)", got, got)
	}

	if n := svc.GetInt(ctx, "max_results", 0); n != 25 {
		t.Errorf("GetInt = %d, want 25", n)
	}
	if n := svc.GetInt(ctx, "missing", 7); n != 7 {
		t.Errorf("GetInt fallback = %d, want 7", n)
	}
	if s := svc.GetString(ctx, "missing", "fallback"); s != "fallback" {
		t.Errorf("GetString fallback = %q", s)
	}
}

func TestSetRejectsEmptyKey(t *testing.T) {
	svc := NewService(newMemRepo())
	_, err := svc.Set(context.Background(), "  ", "x")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Fatalf("expected VALIDATION error, got %v", err)
	}
}

func TestDeleteUnknownKey(t *testing.T) {
	svc := NewService(newMemRepo())
	err := svc.Delete(context.Background(), "nope")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
