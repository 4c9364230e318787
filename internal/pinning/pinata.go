package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultPinataURL = "https://api.pinata.cloud/pinning/pinJSONToIPFS"

// PinataConfig holds Pinata credentials and endpoint settings.
type PinataConfig struct {
	JWT     string        `mapstructure:"jwt"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// PinataPinner pins JSON documents to IPFS through the Pinata API.
type PinataPinner struct {
	client *http.Client
	url    string
	jwt    string
}

// NewPinataPinner creates a Pinata-backed Pinner.
func NewPinataPinner(cfg PinataConfig) (*PinataPinner, error) {
	if cfg.JWT == "" {
		return nil, fmt.Errorf("pinata JWT is required")
	}
	url := cfg.URL
	if url == "" {
		url = defaultPinataURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &PinataPinner{
		client: &http.Client{Timeout: timeout},
		url:    url,
		jwt:    cfg.JWT,
	}, nil
}

type pinataRequest struct {
	Content  json.RawMessage `json:"pinataContent"`
	Metadata *pinataMetadata `json:"pinataMetadata,omitempty"`
}

type pinataMetadata struct {
	Name string `json:"name"`
}

type pinataResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

func (p *PinataPinner) Pin(ctx context.Context, name string, payload json.RawMessage) (*PinResult, error) {
	if err := checkPayload(payload); err != nil {
		return nil, err
	}

	body := pinataRequest{Content: payload}
	if name != "" {
		body.Metadata = &pinataMetadata{Name: name}
	}
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode pinata request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("build pinata request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.jwt)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload to pinata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("upload to pinata: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out pinataResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode pinata response: %w", err)
	}
	if out.IpfsHash == "" {
		return nil, fmt.Errorf("pinata response has no IpfsHash")
	}

	size := out.PinSize
	if size == 0 {
		size = int64(len(payload))
	}
	return &PinResult{CID: out.IpfsHash, Size: size, Backend: "pinata"}, nil
}
