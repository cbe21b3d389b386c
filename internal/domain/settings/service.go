package settings

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"chatlist-server/internal/utils/platformerrors"
)

// Service provides the typed settings store.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Set stores a value under key, inferring the type tag from the Go value.
func (s *Service) Set(ctx context.Context, key string, value any) (*Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"setting key must not be empty", nil, "3f607182-93a4-b5c6-d7e8-f90a1b2c3d06")
	}

	setting := &Setting{Key: key}
	switch v := value.(type) {
	case string:
		setting.Type = TypeString
		setting.Raw = v
	case bool:
		setting.Type = TypeBool
		setting.Raw = strconv.FormatBool(v)
	case int:
		setting.Type = TypeInt
		setting.Raw = strconv.Itoa(v)
	case int64:
		setting.Type = TypeInt
		setting.Raw = strconv.FormatInt(v, 10)
	case float64:
		// JSON numbers decode as float64; keep whole values as ints so a
		// round trip through the API does not change a setting's type.
		if v == float64(int64(v)) {
			setting.Type = TypeInt
			setting.Raw = strconv.FormatInt(int64(v), 10)
		} else {
			setting.Type = TypeFloat
			setting.Raw = strconv.FormatFloat(v, 'f', -1, 64)
		}
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"setting value is not serializable", err, "4a718293-a4b5-c6d7-e8f9-0a1b2c3d4e07")
		}
		setting.Type = TypeJSON
		setting.Raw = string(raw)
	}

	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to store setting")
	}
	return setting, nil
}

// Get returns the decoded value for key or a NOT_FOUND error.
func (s *Service) Get(ctx context.Context, key string) (any, error) {
	setting, err := s.getRaw(ctx, key)
	if err != nil {
		return nil, err
	}
	return Decode(setting)
}

// GetString returns a string setting, or fallback when absent.
func (s *Service) GetString(ctx context.Context, key, fallback string) string {
	setting, err := s.getRaw(ctx, key)
	if err != nil {
		return fallback
	}
	return setting.Raw
}

// GetBool returns a bool setting, or fallback when absent or mistyped.
func (s *Service) GetBool(ctx context.Context, key string, fallback bool) bool {
	setting, err := s.getRaw(ctx, key)
	if err != nil {
		return fallback
	}
	v, err := strconv.ParseBool(setting.Raw)
	if err != nil {
		return fallback
	}
	return v
}

// GetInt returns an int setting, or fallback when absent or mistyped.
func (s *Service) GetInt(ctx context.Context, key string, fallback int) int {
	setting, err := s.getRaw(ctx, key)
	if err != nil {
		return fallback
	}
	v, err := strconv.Atoi(setting.Raw)
	if err != nil {
		return fallback
	}
	return v
}

// All returns every stored setting with decoded values, keyed by name.
func (s *Service) All(ctx context.Context) (map[string]any, error) {
	stored, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list settings")
	}
	out := make(map[string]any, len(stored))
	for _, setting := range stored {
		value, err := Decode(setting)
		if err != nil {
			return nil, err
		}
		out[setting.Key] = value
	}
	return out, nil
}

// Delete removes a setting by key.
func (s *Service) Delete(ctx context.Context, key string) error {
	if _, err := s.getRaw(ctx, key); err != nil {
		return err
	}
	if err := s.repo.DeleteByKey(ctx, key); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete setting")
	}
	return nil
}

func (s *Service) getRaw(ctx context.Context, key string) (*Setting, error) {
	setting, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load setting")
	}
	if setting == nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"setting not found", nil, "5b8293a4-b5c6-d7e8-f90a-1b2c3d4e5f08")
	}
	return setting, nil
}

// Decode turns a stored setting back into its Go value.
func Decode(s *Setting) (any, error) {
	switch s.Type {
	case TypeString:
		return s.Raw, nil
	case TypeBool:
		return strconv.ParseBool(s.Raw)
	case TypeInt:
		return strconv.ParseInt(s.Raw, 10, 64)
	case TypeFloat:
		return strconv.ParseFloat(s.Raw, 64)
	case TypeJSON:
		var v any
		err := json.Unmarshal([]byte(s.Raw), &v)
		return v, err
	default:
		return s.Raw, nil
	}
}
