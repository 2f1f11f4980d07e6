package response

import (
	"encoding/json"
	"net/http"
	"time"

	"salesdesk/pkg/middleware"
)

// ApiResponse represents a standardized API response structure
type ApiResponse struct {
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Meta      *Meta       `json:"meta,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Meta contains metadata about the response
type Meta struct {
	Total int `json:"total,omitempty"`
}

// SendSuccess sends a successful API response
func SendSuccess(w http.ResponseWriter, r *http.Request, data interface{}) {
	SendSuccessWithStatus(w, r, http.StatusOK, data)
}

// SendSuccessWithStatus sends a successful API response with custom status code
func SendSuccessWithStatus(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) {
	resp := ApiResponse{
		RequestID: middleware.GetRequestID(r.Context()),
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// SendSuccessWithMeta sends a successful API response with metadata
func SendSuccessWithMeta(w http.ResponseWriter, r *http.Request, data interface{}, meta *Meta) {
	resp := ApiResponse{
		RequestID: middleware.GetRequestID(r.Context()),
		Success:   true,
		Meta:      meta,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// SendCreated sends a 201 Created response
func SendCreated(w http.ResponseWriter, r *http.Request, data interface{}) {
	SendSuccessWithStatus(w, r, http.StatusCreated, data)
}
