// Package validation validates inbound API request bodies against JSON
// schemas before they reach any handler.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

const chatRequestSchema = `{
	"type": "object",
	"properties": {
		"message": {"type": "string", "minLength": 1, "maxLength": 4000}
	},
	"required": ["message"],
	"additionalProperties": false
}`

const credentialsSchema = `{
	"type": "object",
	"properties": {
		"email": {"type": "string", "format": "email", "maxLength": 254},
		"password": {"type": "string", "minLength": 8, "maxLength": 128}
	},
	"required": ["email", "password"],
	"additionalProperties": false
}`

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type Validator struct {
	chatSchema        *gojsonschema.Schema
	credentialsSchema *gojsonschema.Schema
}

func New() (*Validator, error) {
	chat, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(chatRequestSchema))
	if err != nil {
		return nil, fmt.Errorf("compile chat schema: %w", err)
	}
	creds, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(credentialsSchema))
	if err != nil {
		return nil, fmt.Errorf("compile credentials schema: %w", err)
	}
	return &Validator{chatSchema: chat, credentialsSchema: creds}, nil
}

// ValidateChatRequest checks a raw /api/chat body.
func (v *Validator) ValidateChatRequest(body []byte) *Result {
	return v.validate(v.chatSchema, body)
}

// ValidateCredentials checks a raw signup/login body.
func (v *Validator) ValidateCredentials(body []byte) *Result {
	return v.validate(v.credentialsSchema, body)
}

func (v *Validator) validate(schema *gojsonschema.Schema, body []byte) *Result {
	res, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &Result{Valid: false, Errors: []ValidationError{{
			Field:   "body",
			Message: "request body is not valid JSON",
		}}}
	}

	if res.Valid() {
		return &Result{Valid: true}
	}

	out := &Result{Valid: false}
	for _, desc := range res.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return out
}
