package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mpilhlt/ecobrd/internal/llm"

	huma "github.com/danielgtaylor/huma/v2"
)

type contextKey string

// Context keys
const (
	RelayKey = contextKey("relay")
)

// MaxUploadBytes bounds every request body.
const MaxUploadBytes = 5 << 20

// Error responses
var (
	ErrRelayNotFound = errors.New("relay not found in context")
)

// TextExtractor turns an uploaded file into prompt text.
type TextExtractor interface {
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}

// Relay bundles what the handlers need to serve a request. It is built once
// at startup and never modified afterwards.
type Relay struct {
	Extractor TextExtractor
	Model     llm.Completer
	Logger    *slog.Logger

	// EcoFallbackOnFailure makes eco-analyze answer with the fallback scan
	// instead of a 500 when the model service fails.
	EcoFallbackOnFailure bool
}

func (r *Relay) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// NewConfig returns the huma configuration shared by the server and the tests.
func NewConfig() huma.Config {
	config := huma.DefaultConfig("EcoCart + BRD API", "0.1.0")
	// No $schema links: response bodies are exactly what the model returned.
	config.CreateHooks = nil
	return config
}

// AddRoutes adds all the routes to the API
func AddRoutes(relay *Relay, api huma.API) error {
	err := RegisterHomeRoutes(api)
	if err != nil {
		fmt.Printf("    Unable to register Home routes: %v\n", err)
		return err
	}
	err = RegisterBRDRoutes(relay, api)
	if err != nil {
		fmt.Printf("    Unable to register BRD routes: %v\n", err)
		return err
	}
	err = RegisterEcoRoutes(relay, api)
	if err != nil {
		fmt.Printf("    Unable to register Eco routes: %v\n", err)
		return err
	}
	return nil
}

// Middleware to add the relay to the context
func addRelayToContext[I any, O any](relay *Relay, next func(context.Context, *I) (*O, error)) func(context.Context, *I) (*O, error) {
	return func(ctx context.Context, input *I) (*O, error) {
		if relay == nil {
			return nil, fmt.Errorf("provided relay is nil")
		}
		ctx = context.WithValue(ctx, RelayKey, relay)
		return next(ctx, input)
	}
}

// Get the relay from the context
// (exported helper function so that blackbox testing can access it)
func GetRelay(ctx context.Context) (*Relay, error) {
	relay, ok := ctx.Value(RelayKey).(*Relay)
	if !ok {
		return nil, huma.NewError(http.StatusInternalServerError, ErrRelayNotFound.Error())
	}
	return relay, nil
}
