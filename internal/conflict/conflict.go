// Package conflict produces the booking conflict advisory shown while the form
// is filled in. The backend oracle is authoritative; any failure to reach or
// understand it degrades to ConflictUnknown.
package conflict

import (
	"context"
	"log/slog"
	"sync"

	"github.com/alexanderramin/eventpermit/internal/contract"
	"github.com/alexanderramin/eventpermit/internal/domain"
)

// TriggerFields are the fields whose change re-runs the conflict check.
var TriggerFields = []string{
	domain.FieldStartDate,
	domain.FieldEndDate,
	domain.FieldStartTime,
	domain.FieldEndTime,
	domain.FieldVenue,
	domain.FieldFeatureID,
}

// IsTrigger reports whether a change to field id should re-run the check.
func IsTrigger(id string) bool {
	for _, f := range TriggerFields {
		if f == id {
			return true
		}
	}
	return false
}

// Candidate is the venue and time window being checked.
type Candidate struct {
	StartDate string
	EndDate   string
	StartTime string
	EndTime   string
	Venue     string
	FeatureID string
}

// CandidateFrom reads a candidate from a snapshot. A missing end date means a
// single-day event.
func CandidateFrom(s domain.FormSnapshot) Candidate {
	return Candidate{
		StartDate: s.StartDate,
		EndDate:   domain.CoalesceStr(s.EndDate, s.StartDate),
		StartTime: s.StartTime,
		EndTime:   s.FinishTime,
		Venue:     s.Venue,
		FeatureID: s.ArcGISFeatureID,
	}
}

// Ready reports whether the candidate carries enough to ask the oracle.
func (c Candidate) Ready() bool {
	if c.StartDate == "" || c.StartTime == "" || c.EndTime == "" {
		return false
	}
	return c.Venue != "" || c.FeatureID != ""
}

// Request converts the candidate to its wire form.
func (c Candidate) Request() contract.ConflictRequest {
	return contract.ConflictRequest{
		StartDate:       c.StartDate,
		EndDate:         domain.CoalesceStr(c.EndDate, c.StartDate),
		StartTime:       c.StartTime,
		EndTime:         c.EndTime,
		Venue:           c.Venue,
		Location:        c.Venue,
		ArcGISFeatureID: c.FeatureID,
	}
}

// Oracle answers whether a booking request collides with an existing one.
type Oracle interface {
	CheckConflict(ctx context.Context, req contract.ConflictRequest) (bool, error)
}

// Client turns oracle answers into advisory states. It holds no per-call
// state, so repeated calls with the same candidate are independent.
type Client struct {
	oracle Oracle
	logger *slog.Logger
}

// NewClient creates a Client. A nil logger discards log output.
func NewClient(oracle Oracle, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{oracle: oracle, logger: logger}
}

// Check asks the oracle about the candidate. It returns ConflictUnknown
// without calling the oracle when the candidate is not ready, and on any
// oracle error.
func (c *Client) Check(ctx context.Context, cand Candidate) domain.ConflictState {
	if !cand.Ready() {
		return domain.ConflictUnknown
	}
	conflicting, err := c.oracle.CheckConflict(ctx, cand.Request())
	if err != nil {
		c.logger.WarnContext(ctx, "conflict_check_failed",
			"venue", cand.Venue, "start_date", cand.StartDate, "error", err.Error())
		return domain.ConflictUnknown
	}
	if conflicting {
		return domain.ConflictConflicting
	}
	return domain.ConflictAvailable
}

// Ticket identifies one issued check.
type Ticket struct {
	Seq       uint64
	Candidate Candidate
}

// Result is the outcome of a ticket.
type Result struct {
	Seq   uint64
	State domain.ConflictState
}

// Advisor sequences checks so that only the most recently issued one may
// update the advisory. Superseded checks are not cancelled; their results
// are dropped by Accept.
type Advisor struct {
	client *Client

	mu     sync.Mutex
	issued uint64
}

// NewAdvisor creates an Advisor over client.
func NewAdvisor(client *Client) *Advisor {
	return &Advisor{client: client}
}

// Issue allocates the next sequence number for cand. Every call supersedes
// all earlier tickets, including ones that never reach the oracle.
func (a *Advisor) Issue(cand Candidate) Ticket {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.issued++
	return Ticket{Seq: a.issued, Candidate: cand}
}

// Run performs the check for a ticket. It is safe to call from any goroutine.
func (a *Advisor) Run(ctx context.Context, t Ticket) Result {
	return Result{Seq: t.Seq, State: a.client.Check(ctx, t.Candidate)}
}

// Accept reports whether r belongs to the latest issued ticket and may be
// applied.
func (a *Advisor) Accept(r Result) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return r.Seq == a.issued
}

// Latest returns the sequence number of the most recently issued ticket.
func (a *Advisor) Latest() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.issued
}
