package service

import (
	"context"
)

// Visit event types.
const (
	VisitEventCheckedIn  = "visit.checked_in"
	VisitEventCheckedOut = "visit.checked_out"
)

// VisitEvent is published whenever a visitor enters or leaves the office.
type VisitEvent struct {
	RequestID string `json:"request_id,omitempty"` // For distributed tracing
	Type      string `json:"type"`
	Scope     string `json:"scope"`
	VisitID   int    `json:"visit_id"`
	Visitor   string `json:"visitor"`
	Purpose   string `json:"purpose"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	LoggedBy  int    `json:"logged_by"`
}

// EventPublisher defines the interface for publishing visit events to a message queue
type EventPublisher interface {
	// PublishVisitEvent publishes a visit event for downstream consumers
	PublishVisitEvent(ctx context.Context, event *VisitEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
