package models

import (
	"errors"
	"os"
	"strings"
	"time"
)

// APIKeyEnv is read when no API key was given as flag or SERVICE_API_KEY.
const APIKeyEnv = "OPENROUTER_API_KEY"

var ErrMissingAPIKey = errors.New(APIKeyEnv + " not found. Check your .env file")

// Options for the CLI.
type Options struct {
	Debug                bool   `doc:"Enable debug logging" short:"d" default:"false"`
	Host                 string `doc:"Hostname to listen on" default:"0.0.0.0"`
	Port                 int    `doc:"Port to listen on" short:"p" default:"5000"`
	APIKey               string `doc:"API key for the model service (falls back to OPENROUTER_API_KEY)"`
	ModelEndpoint        string `doc:"Chat completion endpoint of the model service" default:"https://openrouter.ai/api/v1/chat/completions"`
	Model                string `doc:"Model identifier sent with every completion request" default:"deepseek/deepseek-chat"`
	ModelTimeout         int    `doc:"Seconds to wait for the model service" default:"30"`
	Tesseract            string `doc:"Tesseract OCR binary name or path" default:"tesseract"`
	TesseractLang        string `doc:"Tesseract language" default:"eng"`
	AllowedOrigins       string `doc:"Comma-separated CORS origins, * for any" default:"*"`
	EcoFallbackOnFailure bool   `doc:"Answer eco-analyze with the fallback scan when the model service fails" default:"false"`
}

// Resolve fills the API key from the environment if needed and checks that
// the options are usable.
func (o *Options) Resolve() error {
	if o.APIKey == "" {
		o.APIKey = strings.TrimSpace(os.Getenv(APIKeyEnv))
	}
	if o.APIKey == "" {
		return ErrMissingAPIKey
	}
	if o.ModelTimeout <= 0 {
		return errors.New("model timeout must be positive")
	}
	return nil
}

// Timeout is ModelTimeout as a duration.
func (o Options) Timeout() time.Duration {
	return time.Duration(o.ModelTimeout) * time.Second
}

// Origins splits AllowedOrigins into a list. A lone "*" yields nil, which
// means any origin.
func (o Options) Origins() []string {
	var out []string
	for _, s := range strings.Split(o.AllowedOrigins, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if s == "*" {
			return nil
		}
		out = append(out, s)
	}
	return out
}
