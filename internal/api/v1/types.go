package v1

import (
	"errors"

	"github.com/stacklok/instsrc/internal/errs"
	"github.com/stacklok/instsrc/internal/source"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
}

// StartRequest is the body of POST /v1/manager/start
type StartRequest struct {
	TargetRoot string `json:"targetRoot,omitempty"`
	AutoEnable *bool  `json:"autoEnable,omitempty"`
}

// TargetRootRequest is the body of the finish and save operations
type TargetRootRequest struct {
	TargetRoot string `json:"targetRoot,omitempty"`
}

// MediaRequest names media and an optional product directory on it
type MediaRequest struct {
	URL        string `json:"url"`
	ProductDir string `json:"productDir,omitempty"`
}

// EnabledRequest is the body of PUT /v1/sources/{id}/enabled
type EnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// AutorefreshRequest is the body of PUT /v1/sources/{id}/autorefresh
type AutorefreshRequest struct {
	Autorefresh bool `json:"autorefresh"`
}

// PriorityRequest is the body of POST /v1/sources/{id}/priority
type PriorityRequest struct {
	Delta int `json:"delta"`
}

// SourceStatesRequest is the body of PUT /v1/sources
type SourceStatesRequest struct {
	Sources []source.State `json:"sources"`
}

// SourceStatesResponse lists the editable state of every source
type SourceStatesResponse struct {
	Sources []source.State `json:"sources"`
}

// FailureResponse describes one failed item of a batch operation
type FailureResponse struct {
	Item  string `json:"item"`
	Error string `json:"error"`
}

// BatchResponse reports the failed items of a best-effort operation
type BatchResponse struct {
	Failures []FailureResponse `json:"failures,omitempty"`
}

// SourceIDsResponse lists source ids
type SourceIDsResponse struct {
	IDs      []source.ID       `json:"ids"`
	Failures []FailureResponse `json:"failures,omitempty"`
}

// SourceIDResponse carries a single source id
type SourceIDResponse struct {
	ID source.ID `json:"id"`
}

// NamesResponse lists resolvable names
type NamesResponse struct {
	Names   []string `json:"names"`
	Warning string   `json:"warning,omitempty"`
}

// PackagesResponse lists package names
type PackagesResponse struct {
	Packages []string `json:"packages"`
}

// failuresOf returns the failures of a partial error, nil for anything else
func failuresOf(err error) []FailureResponse {
	var partial *errs.PartialError
	if !errors.As(err, &partial) {
		return nil
	}
	out := make([]FailureResponse, 0, len(partial.Failures))
	for _, f := range partial.Failures {
		out = append(out, FailureResponse{Item: f.Item, Error: f.Message()})
	}
	return out
}
