package handlers

import (
	"context"
	"net/http"

	"github.com/mpilhlt/ecobrd/internal/models"
	"github.com/mpilhlt/ecobrd/internal/prompts"
	"github.com/mpilhlt/ecobrd/internal/reply"

	huma "github.com/danielgtaylor/huma/v2"
)

// Estimate the environmental footprint of a product
func postEcoAnalyzeFunc(ctx context.Context, input *models.EcoAnalyzeRequest) (*models.EcoAnalyzeResponse, error) {
	relay, err := GetRelay(ctx)
	if err != nil {
		return nil, err
	}
	var product prompts.Product
	if input.Body != nil {
		product = prompts.Product{
			URL:         input.Body.URL,
			Title:       input.Body.Title,
			Description: input.Body.Description,
		}
	}
	if product.Title == "" && product.Description == "" {
		return nil, huma.Error400BadRequest("Product title or description required")
	}

	prompt, err := prompts.ForEcoAnalysis(product)
	if err != nil {
		relay.logger().ErrorContext(ctx, "relay.prompt_failed", "route", "eco-analyze", "error", err)
		return nil, huma.Error500InternalServerError("unable to build prompt")
	}
	raw, err := relay.Model.Complete(ctx, prompt)
	if err != nil {
		if !relay.EcoFallbackOnFailure {
			return nil, relay.modelFailure(ctx, "eco-analyze", err)
		}
		relay.logger().WarnContext(ctx, "relay.eco_fallback", "reason", "model failed", "error", err)
		response := &models.EcoAnalyzeResponse{}
		response.Body = reply.Stamp(reply.EcoScanFallback(), product.URL)
		return response, nil
	}

	scan, ok := reply.EcoScan(raw, product.URL)
	if !ok {
		relay.logger().WarnContext(ctx, "relay.eco_fallback", "reason", "reply not a JSON object", "reply_chars", len(raw))
	} else {
		problems, err := reply.CheckEcoScan(scan)
		if err != nil {
			relay.logger().WarnContext(ctx, "relay.eco_schema_check_failed", "error", err)
		} else if len(problems) > 0 {
			relay.logger().WarnContext(ctx, "relay.eco_schema_mismatch", "problems", problems)
		}
	}

	response := &models.EcoAnalyzeResponse{}
	response.Body = scan
	return response, nil
}

// RegisterEcoRoutes registers the eco analysis route
func RegisterEcoRoutes(relay *Relay, api huma.API) error {
	postEcoAnalyzeOp := huma.Operation{
		OperationID:  "postEcoAnalyze",
		Method:       http.MethodPost,
		Path:         "/eco-analyze",
		Summary:      "Estimate the environmental impact of a product",
		Tags:         []string{"eco"},
		MaxBodyBytes: MaxUploadBytes,
	}

	huma.Register(api, postEcoAnalyzeOp, addRelayToContext(relay, postEcoAnalyzeFunc))
	return nil
}
