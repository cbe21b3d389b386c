package settings

import (
	"context"
	"time"
)

// ValueType tags how a setting's raw value should be decoded.
type ValueType string

const (
	TypeString ValueType = "string"
	TypeInt    ValueType = "int"
	TypeFloat  ValueType = "float"
	TypeBool   ValueType = "bool"
	TypeJSON   ValueType = "json"
)

// Setting is one typed key/value pair. Raw holds the serialized form.
type Setting struct {
	Key       string    `json:"key"`
	Raw       string    `json:"raw"`
	Type      ValueType `json:"type"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository abstracts persistence for settings.
type Repository interface {
	Upsert(ctx context.Context, s *Setting) error
	DeleteByKey(ctx context.Context, key string) error
	FindByKey(ctx context.Context, key string) (*Setting, error)
	FindAll(ctx context.Context) ([]*Setting, error)
}
