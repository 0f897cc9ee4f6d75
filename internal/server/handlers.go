package server

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/jonathan/pagesmith/internal/schemas"
	"github.com/jonathan/pagesmith/internal/types"
)

// handleDeploy validates a webhook request and runs the deployment
// pipeline synchronously. Ordering matters: the secret is checked
// before any side-effecting component is invoked.
func (s *Server) handleDeploy(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if !s.secretMatches(req.Secret) {
		s.errorResponse(w, HTTPStatus(&ErrInvalidSecret{}), "Invalid secret")
		return
	}

	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	result, err := s.runner.Run(r.Context(), req)
	if err != nil {
		log.Printf("Deployment failed: %v", err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// decodeRequest reads and validates the webhook body: schema shape
// first, then struct decoding. Field validation runs after the secret
// check so an unauthenticated caller learns nothing beyond 403.
func (s *Server) decodeRequest(r *http.Request) (*types.DeployRequest, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, &ErrMalformedRequest{Reason: err}
	}

	if err := schemas.ValidateDeployRequest(body); err != nil {
		return nil, &ErrMalformedRequest{Reason: err}
	}

	var req types.DeployRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &ErrMalformedRequest{Reason: err}
	}

	return &req, nil
}

// secretMatches compares the request secret against the stored
// credential in constant time.
func (s *Server) secretMatches(secret string) bool {
	return subtle.ConstantTimeCompare([]byte(secret), []byte(s.storedSecret)) == 1
}
