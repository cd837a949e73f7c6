package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/qri-io/jsonschema"
)

// Event kinds delivered by the identity provider.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// Event is the typed form of an identity-provider delivery.
type Event struct {
	Type string   `json:"type"`
	Data UserData `json:"data"`
}

// UserData carries the user snapshot embedded in an event.
type UserData struct {
	ID             string         `json:"id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
	PhoneNumbers   []PhoneNumber  `json:"phone_numbers"`
}

type EmailAddress struct {
	EmailAddress string `json:"email_address"`
}

type PhoneNumber struct {
	PhoneNumber string `json:"phone_number"`
}

// PrimaryEmail returns the first email record, or "" when absent.
func (d UserData) PrimaryEmail() string {
	if len(d.EmailAddresses) == 0 {
		return ""
	}
	return d.EmailAddresses[0].EmailAddress
}

// PrimaryPhone returns the first phone record, or "" when absent.
func (d UserData) PrimaryPhone() string {
	if len(d.PhoneNumbers) == 0 {
		return ""
	}
	return d.PhoneNumbers[0].PhoneNumber
}

// FullName concatenates first and last name, trimmed. Empty result
// means the payload carried no usable name.
func (d UserData) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// eventSchemaJSON constrains the envelope shape only. Unknown event
// types still parse so callers can ignore them with a success reply.
const eventSchemaJSON = `{
	"type": "object",
	"required": ["type", "data"],
	"properties": {
		"type": {"type": "string"},
		"data": {"type": "object"}
	}
}`

var (
	schemaOnce  sync.Once
	eventSchema *jsonschema.Schema
)

func compiledSchema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal([]byte(eventSchemaJSON), rs); err != nil {
			panic(fmt.Sprintf("webhook: compile event schema: %v", err))
		}
		eventSchema = rs
	})
	return eventSchema
}

// ParseEvent validates the envelope shape and decodes the event.
func ParseEvent(ctx context.Context, body []byte) (*Event, error) {
	verrs, err := compiledSchema().ValidateBytes(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("validate event: %w", err)
	}
	if len(verrs) > 0 {
		var sb strings.Builder
		for _, v := range verrs {
			sb.WriteString(v.Message)
			sb.WriteString("; ")
		}
		return nil, fmt.Errorf("event does not match schema: %s", sb.String())
	}

	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	return &ev, nil
}
