package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is bumped only on breaking changes to the envelope shape.
const envelopeVersion = 1

// successEnvelope wraps every successful response body.
type successEnvelope struct {
	V       int  `json:"v" doc:"Envelope schema version"`
	Success bool `json:"success" doc:"Always true for successful responses"`
	Data    any  `json:"data,omitempty" doc:"Operation result"`
}

// errorEnvelope wraps every error response body.
type errorEnvelope struct {
	V       int    `json:"v" doc:"Envelope schema version"`
	Success bool   `json:"success" doc:"Always false for error responses"`
	Error   string `json:"error" doc:"Human-readable error message"`
	Code    string `json:"code,omitempty" doc:"Machine-readable error code"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// EnvelopeTransformer wraps all API responses in a consistent envelope so
// clients can branch on a single success flag. Errors produced through
// RegisterErrorHandler arrive here as *APIError and keep their code and
// details; everything else is a success payload.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return &errorEnvelope{
			V:       envelopeVersion,
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Details: apiErr.Details,
		}, nil
	}

	return &successEnvelope{
		V:       envelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
