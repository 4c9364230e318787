// Package pinning uploads JSON documents to content-addressed storage.
package pinning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidPayload is returned when the document is not valid JSON.
var ErrInvalidPayload = errors.New("payload is not valid JSON")

// PinResult describes a stored document.
type PinResult struct {
	// CID is the backend's content identifier.
	CID string `json:"cid"`

	// Size is the payload size in bytes as reported by the backend, or the
	// local size when the backend reports none.
	Size int64 `json:"size"`

	Backend string `json:"backend"`
}

// Pinner stores a JSON document and returns its content identifier.
type Pinner interface {
	Pin(ctx context.Context, name string, payload json.RawMessage) (*PinResult, error)
}

// Config selects and configures the pinning backend.
type Config struct {
	// Backend is one of "pinata", "minio" or "none".
	Backend string       `mapstructure:"backend"`
	Pinata  PinataConfig `mapstructure:"pinata"`
	Minio   MinioConfig  `mapstructure:"minio"`
}

// Validate checks the settings of the selected backend.
func (c Config) Validate() error {
	switch c.Backend {
	case "", "none":
	case "pinata":
		if c.Pinata.JWT == "" {
			return fmt.Errorf("pinning.pinata.jwt (or PINATA_JWT) is required for the pinata backend")
		}
	case "minio":
		if c.Minio.Endpoint == "" || c.Minio.Bucket == "" {
			return fmt.Errorf("pinning.minio.endpoint and pinning.minio.bucket are required for the minio backend")
		}
	default:
		return fmt.Errorf("unknown pinning backend: %q", c.Backend)
	}
	return nil
}

// New creates the configured Pinner. It returns nil, nil when pinning is
// disabled.
func New(cfg Config) (Pinner, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "pinata":
		p, err := NewPinataPinner(cfg.Pinata)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "minio":
		p, err := NewMinioPinner(cfg.Minio)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, fmt.Errorf("unknown pinning backend: %q", cfg.Backend)
}

func checkPayload(payload json.RawMessage) error {
	if len(payload) == 0 || !json.Valid(payload) {
		return ErrInvalidPayload
	}
	return nil
}
