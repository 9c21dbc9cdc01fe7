// Package service implements the booking backend use cases: submission,
// conflict checks, the calendar feed, admin status updates and the chat
// assistant.
package service

import (
	"context"

	"github.com/alexanderramin/eventpermit/internal/contract"
)

type BookingService interface {
	// Submit classifies, conflict-checks and stores one application.
	Submit(ctx context.Context, fields map[string]string) (*contract.SubmitResponse, error)
	// CheckConflict reports whether the request overlaps an approved booking
	// at the same place.
	CheckConflict(ctx context.Context, req contract.ConflictRequest) (bool, error)
	// Feed returns every booking shaped for a calendar widget.
	Feed(ctx context.Context) ([]contract.FeedEvent, error)
	// Applications lists stored applications for review, newest first.
	// status may name an event status or a classification.
	Applications(ctx context.Context, query, status string) ([]contract.Application, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type ChatService interface {
	Reply(ctx context.Context, message string) (string, error)
}
