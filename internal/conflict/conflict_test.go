package conflict

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alexanderramin/eventpermit/internal/contract"
	"github.com/alexanderramin/eventpermit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOracle struct {
	mu       sync.Mutex
	calls    []contract.ConflictRequest
	conflict bool
	err      error
}

func (f *fakeOracle) CheckConflict(_ context.Context, req contract.ConflictRequest) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	return f.conflict, f.err
}

func mainPark() Candidate {
	return CandidateFrom(domain.SnapshotFrom(domain.ValuesMap{
		domain.FieldVenue:     "Main Park",
		domain.FieldStartDate: "2024-05-01",
		domain.FieldStartTime: "09:00",
		domain.FieldEndTime:   "11:00",
	}))
}

func TestCandidateFrom_EndDateDefaultsToStart(t *testing.T) {
	c := mainPark()
	assert.Equal(t, "2024-05-01", c.EndDate)

	req := c.Request()
	assert.Equal(t, "Main Park", req.Location)
	assert.Equal(t, req.Venue, req.Location)
	assert.Equal(t, "11:00", req.EndTime)
}

func TestCandidate_Ready(t *testing.T) {
	c := mainPark()
	assert.True(t, c.Ready())

	noStart := c
	noStart.StartTime = ""
	assert.False(t, noStart.Ready())

	noPlace := c
	noPlace.Venue = ""
	assert.False(t, noPlace.Ready())

	featureOnly := noPlace
	featureOnly.FeatureID = "F-9"
	assert.True(t, featureOnly.Ready())

	noDate := c
	noDate.StartDate = ""
	assert.False(t, noDate.Ready())
}

func TestClient_MissingStartTimeSkipsOracle(t *testing.T) {
	oracle := &fakeOracle{conflict: true}
	c := NewClient(oracle, nil)

	cand := mainPark()
	cand.StartTime = ""

	assert.Equal(t, domain.ConflictUnknown, c.Check(context.Background(), cand))
	assert.Empty(t, oracle.calls)
}

func TestClient_MapsOracleAnswers(t *testing.T) {
	tests := []struct {
		name   string
		oracle *fakeOracle
		want   domain.ConflictState
	}{
		{"available", &fakeOracle{conflict: false}, domain.ConflictAvailable},
		{"conflicting", &fakeOracle{conflict: true}, domain.ConflictConflicting},
		{"transport failure", &fakeOracle{err: errors.New("connection refused")}, domain.ConflictUnknown},
		{"malformed reply", &fakeOracle{err: contract.ErrMissingConflictFlag}, domain.ConflictUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.oracle, nil)
			assert.Equal(t, tt.want, c.Check(context.Background(), mainPark()))
			assert.Len(t, tt.oracle.calls, 1)
		})
	}
}

func TestClient_RepeatedChecksAreIndependent(t *testing.T) {
	oracle := &fakeOracle{conflict: true}
	c := NewClient(oracle, nil)
	for i := 0; i < 3; i++ {
		assert.Equal(t, domain.ConflictConflicting, c.Check(context.Background(), mainPark()))
	}
	require.Len(t, oracle.calls, 3)
	assert.Equal(t, oracle.calls[0], oracle.calls[2])
}

func TestAdvisor_DiscardsSupersededResult(t *testing.T) {
	oracle := &fakeOracle{conflict: true}
	a := NewAdvisor(NewClient(oracle, nil))

	other := mainPark()
	other.Venue = "Beach Reserve"
	stale := a.Issue(other)
	fresh := a.Issue(mainPark())

	freshResult := a.Run(context.Background(), fresh)
	require.True(t, a.Accept(freshResult))
	assert.Equal(t, domain.ConflictConflicting, freshResult.State)

	// The older request completes last and must not be applied.
	oracle.conflict = false
	staleResult := a.Run(context.Background(), stale)
	assert.Equal(t, domain.ConflictAvailable, staleResult.State)
	assert.False(t, a.Accept(staleResult))
	assert.Equal(t, uint64(2), a.Latest())
}

func TestAdvisor_UnreadyTicketStillSupersedes(t *testing.T) {
	a := NewAdvisor(NewClient(&fakeOracle{}, nil))

	inFlight := a.Issue(mainPark())
	cleared := a.Issue(Candidate{})

	r := a.Run(context.Background(), cleared)
	assert.True(t, a.Accept(r))
	assert.Equal(t, domain.ConflictUnknown, r.State)
	assert.False(t, a.Accept(a.Run(context.Background(), inFlight)))
}

func TestIsTrigger(t *testing.T) {
	assert.True(t, IsTrigger(domain.FieldVenue))
	assert.True(t, IsTrigger(domain.FieldFeatureID))
	assert.False(t, IsTrigger(domain.FieldAttendance))
}
