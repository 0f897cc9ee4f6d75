// Package types provides type definitions for structured data used throughout the pagesmith system.
package types

import (
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DeployRequest represents the webhook payload describing a deployment brief.
// Nonce and attachments are opaque; nonce is echoed back verbatim in the result.
type DeployRequest struct {
	Secret        string            `json:"secret"`
	Email         string            `json:"email,omitempty"`
	Task          string            `json:"task,omitempty"`
	Round         int               `json:"round,omitempty" validate:"omitempty,min=0"`
	Nonce         json.RawMessage   `json:"nonce,omitempty"`
	Brief         string            `json:"brief,omitempty"`
	EvaluationURL string            `json:"evaluation_url,omitempty" validate:"omitempty,url"`
	Attachments   []json.RawMessage `json:"attachments,omitempty"`
}

// Validate validates the DeployRequest using the validator.
func (r *DeployRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ApplyDefaults fills missing fields after authentication: a placeholder
// email, a generated short task identifier, and round 1. Email and task
// are HTML-escaped before further use.
func (r *DeployRequest) ApplyDefaults(taskID func() string) {
	if r.Email == "" {
		r.Email = "student@example.com"
	}
	if r.Task == "" {
		r.Task = taskID()
	}
	if r.Round == 0 {
		r.Round = 1
	}
	r.Email = html.EscapeString(r.Email)
	r.Task = html.EscapeString(r.Task)
}

// DeployResult is the payload returned to the caller and posted to the
// evaluation callback after a successful publish.
type DeployResult struct {
	Email     string          `json:"email"`
	Task      string          `json:"task"`
	Round     int             `json:"round"`
	Nonce     json.RawMessage `json:"nonce"`
	RepoURL   string          `json:"repo_url"`
	CommitSHA string          `json:"commit_sha"`
	PagesURL  string          `json:"pages_url"`
}

// ProjectID derives the normalized project identity used as both the
// working directory name and the remote repository name:
// lowercase, spaces replaced with hyphens, suffixed with the round.
// Identities are unique per (task, round); a collision overwrites the
// existing working directory without any check.
func ProjectID(task string, round int) string {
	name := fmt.Sprintf("%s-%s", task, strconv.Itoa(round))
	return strings.ToLower(strings.ReplaceAll(name, " ", "-"))
}
