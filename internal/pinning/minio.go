package pinning

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig points at an S3-compatible bucket.
type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`

	// Region skips bucket location lookups when set.
	Region string `mapstructure:"region"`
}

// MinioPinner stores documents in an S3-compatible bucket under their
// SHA-256 digest, so identical payloads map to the same object.
type MinioPinner struct {
	client *minio.Client
	bucket string
}

// NewMinioPinner creates a MinIO-backed Pinner.
func NewMinioPinner(cfg MinioConfig) (*MinioPinner, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinioPinner{client: client, bucket: cfg.Bucket}, nil
}

func (p *MinioPinner) Pin(ctx context.Context, name string, payload json.RawMessage) (*PinResult, error) {
	if err := checkPayload(payload); err != nil {
		return nil, err
	}

	digest := contentDigest(payload)
	opts := minio.PutObjectOptions{ContentType: "application/json"}
	if name != "" {
		opts.UserMetadata = map[string]string{"name": name}
	}

	info, err := p.client.PutObject(ctx, p.bucket, objectKey(digest), bytes.NewReader(payload), int64(len(payload)), opts)
	if err != nil {
		return nil, fmt.Errorf("upload to minio: %w", err)
	}

	return &PinResult{CID: "sha256:" + digest, Size: info.Size, Backend: "minio"}, nil
}

func contentDigest(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func objectKey(digest string) string {
	return "pins/" + digest + ".json"
}
