package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/mpilhlt/ecobrd/internal/extract"
	"github.com/mpilhlt/ecobrd/internal/models"
	"github.com/mpilhlt/ecobrd/internal/prompts"
	"github.com/mpilhlt/ecobrd/internal/reply"

	huma "github.com/danielgtaylor/huma/v2"
)

// Generate a BRD from free text
func postGenerateFunc(ctx context.Context, input *models.GenerateRequest) (*models.BRDResponse, error) {
	relay, err := GetRelay(ctx)
	if err != nil {
		return nil, err
	}
	if input.Body == nil || strings.TrimSpace(input.Body.Text) == "" {
		return nil, huma.Error400BadRequest("No text provided")
	}
	return relay.generate(ctx, "generate", extract.Truncate(input.Body.Text, extract.MaxChars))
}

// Generate a BRD from an uploaded document
func postUploadFileFunc(ctx context.Context, input *models.UploadFileRequest) (*models.BRDResponse, error) {
	relay, err := GetRelay(ctx)
	if err != nil {
		return nil, err
	}

	files := input.RawBody.File["file"]
	if len(files) == 0 {
		return nil, huma.Error400BadRequest("No file uploaded")
	}
	header := files[0]

	f, err := header.Open()
	if err != nil {
		return nil, huma.Error400BadRequest("Unable to open uploaded file")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes))
	if err != nil {
		return nil, huma.Error400BadRequest("Unable to read uploaded file")
	}

	// Extraction errors go back to the client and never reach the model.
	text, err := relay.Extractor.Extract(ctx, header.Filename, data)
	if err != nil {
		var xerr *extract.Error
		if errors.As(err, &xerr) {
			return nil, huma.Error400BadRequest(xerr.Error())
		}
		relay.logger().ErrorContext(ctx, "relay.extract_failed", "filename", header.Filename, "error", err)
		return nil, huma.Error400BadRequest("Unable to read uploaded file")
	}
	return relay.generate(ctx, "upload-file", text)
}

// generate runs the extraction prompt for text through the model.
func (r *Relay) generate(ctx context.Context, route string, text string) (*models.BRDResponse, error) {
	prompt, err := prompts.ForExtraction(text)
	if err != nil {
		r.logger().ErrorContext(ctx, "relay.prompt_failed", "route", route, "error", err)
		return nil, huma.Error500InternalServerError("unable to build prompt")
	}
	raw, err := r.Model.Complete(ctx, prompt)
	if err != nil {
		return nil, r.modelFailure(ctx, route, err)
	}

	body, ok := reply.ParseOr(raw, reply.InvalidJSON)
	if !ok {
		r.logger().WarnContext(ctx, "relay.reply_not_json", "route", route, "reply_chars", len(raw))
	}
	response := &models.BRDResponse{}
	response.Body = body
	return response, nil
}

// Apply an instruction to an existing BRD
func postEditFunc(ctx context.Context, input *models.EditRequest) (*models.BRDResponse, error) {
	relay, err := GetRelay(ctx)
	if err != nil {
		return nil, err
	}
	if input.Body == nil || input.Body.CurrentBRD == nil || strings.TrimSpace(input.Body.Instruction) == "" {
		return nil, huma.Error400BadRequest("Invalid request")
	}

	prompt, err := prompts.ForBRDEdit(input.Body.CurrentBRD, input.Body.Instruction)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid request")
	}
	raw, err := relay.Model.Complete(ctx, prompt)
	if err != nil {
		return nil, relay.modelFailure(ctx, "edit", err)
	}

	// No recovery into a structured BRD: bad JSON yields the error object.
	body, ok := reply.ParseOr(raw, reply.InvalidJSON)
	if !ok {
		relay.logger().WarnContext(ctx, "relay.reply_not_json", "route", "edit", "reply_chars", len(raw))
	}
	response := &models.BRDResponse{}
	response.Body = body
	return response, nil
}

// RegisterBRDRoutes registers the routes that generate and edit BRDs
func RegisterBRDRoutes(relay *Relay, api huma.API) error {
	// Define huma.Operations for each route
	postGenerateOp := huma.Operation{
		OperationID:  "postGenerate",
		Method:       http.MethodPost,
		Path:         "/generate",
		Summary:      "Generate a BRD from free text",
		Tags:         []string{"brd"},
		MaxBodyBytes: MaxUploadBytes,
	}
	postUploadFileOp := huma.Operation{
		OperationID:  "postUploadFile",
		Method:       http.MethodPost,
		Path:         "/upload-file",
		Summary:      "Generate a BRD from an uploaded txt, pdf, docx, png or jpg file",
		Tags:         []string{"brd"},
		MaxBodyBytes: MaxUploadBytes,
	}
	postEditOp := huma.Operation{
		OperationID:  "postEdit",
		Method:       http.MethodPost,
		Path:         "/edit",
		Summary:      "Update a BRD according to an instruction",
		Tags:         []string{"brd"},
		MaxBodyBytes: MaxUploadBytes,
	}

	huma.Register(api, postGenerateOp, addRelayToContext(relay, postGenerateFunc))
	huma.Register(api, postUploadFileOp, addRelayToContext(relay, postUploadFileFunc))
	huma.Register(api, postEditOp, addRelayToContext(relay, postEditFunc))
	return nil
}
