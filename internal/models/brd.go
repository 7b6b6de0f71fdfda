package models

import "mime/multipart"

// Request and Response structs for the BRD API
// The request structs must be structs with fields for the request path/query/header/cookie parameters and/or body.
// The response structs must be structs with fields for the output headers and body of the operation, if any.
// Input fields carry omitempty so that presence is checked by the handlers,
// which answer with the messages clients already rely on.

// Generate BRD from text
// POST Path: "/generate"

type GenerateRequest struct {
	Body *struct {
		_    struct{} `additionalProperties:"true"`
		Text string   `json:"text,omitempty" example:"We need a mobile app for tracking recycling pickups by Q3." doc:"Free text describing the project"`
	}
}

// Generate BRD from an uploaded file
// POST Path: "/upload-file"

type UploadFileRequest struct {
	RawBody multipart.Form
}

// BRDResponse carries whatever JSON the model produced, or the fallback
// {"error": "Invalid JSON from AI"}.
type BRDResponse struct {
	Body any
}

// Edit BRD
// POST Path: "/edit"

type EditRequest struct {
	Body *struct {
		_           struct{} `additionalProperties:"true"`
		CurrentBRD  any      `json:"current_brd,omitempty" doc:"Current BRD document"`
		Instruction string   `json:"instruction,omitempty" example:"Add a budget section of 20k EUR" doc:"Change to apply to the BRD"`
	}
}
