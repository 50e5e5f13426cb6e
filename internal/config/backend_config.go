package config

import (
	"time"
)

// BackendConfig exposes settings for the external membership REST backend.
type BackendConfig interface {
	GetAPIBaseURL() string
	GetRequestTimeout() time.Duration
	GetPixKey() string
}

type Backend struct{}

var _ BackendConfig = Backend{}

func (Backend) GetAPIBaseURL() string {
	return GetEnv("API_BASE_URL", "https://api.cardealleme.org.br")
}

func (Backend) GetRequestTimeout() time.Duration {
	timeout := GetEnv("API_TIMEOUT", "15s")
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// GetPixKey returns the static PIX payment reference shown at checkout.
func (Backend) GetPixKey() string {
	return GetEnv("PIX_KEY", "pagamentos@cardealleme.org.br")
}
