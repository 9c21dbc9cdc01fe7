package cli

import (
	"context"
	"strings"
	"sync"

	"github.com/alexanderramin/eventpermit/internal/contract"
)

// fakeBackend is an in-memory backend.Client. Calls return immediately so
// the synchronous TUI driver drains them.
type fakeBackend struct {
	mu sync.Mutex

	online      bool
	busyVenues  map[string]bool
	conflictErr error
	checks      []contract.ConflictRequest

	feed    []contract.FeedEvent
	apps    []contract.Application
	appsErr error
	queries [][2]string

	submitResp *contract.SubmitResponse
	submitErr  error
	submitted  map[string]string

	statusErr   error
	statusCalls [][2]string

	chatReply string
	chatErr   error
	asked     []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{online: true, busyVenues: map[string]bool{}}
}

func (f *fakeBackend) CheckConflict(_ context.Context, req contract.ConflictRequest) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks = append(f.checks, req)
	if f.conflictErr != nil {
		return false, f.conflictErr
	}
	return f.busyVenues[strings.ToLower(req.Location)], nil
}

func (f *fakeBackend) Events(context.Context) ([]contract.FeedEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.feed, nil
}

func (f *fakeBackend) Chat(_ context.Context, message string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asked = append(f.asked, message)
	return f.chatReply, f.chatErr
}

func (f *fakeBackend) Submit(_ context.Context, fields map[string]string) (*contract.SubmitResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = fields
	return f.submitResp, f.submitErr
}

func (f *fakeBackend) UpdateStatus(_ context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls = append(f.statusCalls, [2]string{id, status})
	return f.statusErr
}

func (f *fakeBackend) Applications(_ context.Context, query, status string) ([]contract.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, [2]string{query, status})
	return f.apps, f.appsErr
}

func (f *fakeBackend) Available(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.online
}

func (f *fakeBackend) checkCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.checks)
}
