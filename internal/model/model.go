// Package model contains domain entities shared across layers.
// Types here are data shapes; behaviour lives in service.
package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Severity classifies a notification.
type Severity string

const (
	SeverityError       Severity = "error"
	SeverityWarning     Severity = "warning"
	SeverityInformation Severity = "information"
)

// ParseSeverity accepts the canonical names case-insensitively.
func ParseSeverity(s string) (Severity, bool) {
	switch sev := Severity(strings.ToLower(strings.TrimSpace(s))); sev {
	case SeverityError, SeverityWarning, SeverityInformation:
		return sev, true
	default:
		return "", false
	}
}

// Notification is a diagnostic raised against a location in a bot project.
type Notification struct {
	ID        int64     `json:"id"`
	Severity  Severity  `json:"severity"`
	Location  string    `json:"location"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// BotProject is an entry of the recently opened projects list, keyed by name.
type BotProject struct {
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	DateModified time.Time `json:"date_modified"`
	// DateModifiedLabel is a relative, human-readable age ("3 days ago").
	// It is computed on read and never stored.
	DateModifiedLabel string `json:"date_modified_label,omitempty"`
}

// PublishType describes a kind of publish destination and the JSON Schema
// its configuration must satisfy.
type PublishType struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Schema      json.RawMessage `json:"schema,omitempty"`
}

// PublishTarget is a named publish profile.
type PublishTarget struct {
	Name string `json:"name"`
	Type string `json:"type"`
	// Configuration is a serialized JSON object.
	Configuration string    `json:"configuration"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PublishStatus is the outcome of one publish submission.
type PublishStatus string

const (
	PublishSucceeded PublishStatus = "succeeded"
	PublishFailed    PublishStatus = "failed"
)

// PublishRecord is one entry of a target's publish history.
type PublishRecord struct {
	ID        string        `json:"id"`
	Target    string        `json:"target"`
	Comment   string        `json:"comment"`
	Status    PublishStatus `json:"status"`
	Message   string        `json:"message,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// ErrorReport is a retryable failure shown to a user as a title and a message.
type ErrorReport struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}
