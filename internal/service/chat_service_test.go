package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/alexanderramin/eventpermit/internal/repository"
	"github.com/alexanderramin/eventpermit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatFixture(t *testing.T, venues ...string) (ChatService, *repository.SQLiteEventRepo, *recordingUseCaseObserver) {
	t.Helper()
	events := repository.NewSQLiteEventRepo(testutil.NewTestDB(t))
	obs := &recordingUseCaseObserver{}
	svc := NewChatService(events, []string{"Community gathering", "Market or fair"}, venues, obs)
	return svc, events, obs
}

func TestChat_Greeting(t *testing.T) {
	svc, _, obs := newChatFixture(t)
	reply, err := svc.Reply(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, chatGreeting, reply)
	require.Len(t, obs.events, 1)
	assert.Equal(t, "greeting", obs.events[0].Fields["intent"])
}

func TestChat_EventTypes(t *testing.T) {
	svc, _, _ := newChatFixture(t)
	reply, err := svc.Reply(context.Background(), "What event types can I run?")
	require.NoError(t, err)
	assert.Contains(t, reply, "Available event types:")
	assert.Contains(t, reply, "• Market or fair")
}

func TestChat_VenuesMergeStoredLocations(t *testing.T) {
	svc, events, _ := newChatFixture(t, "Cotton Tree Park", "kings beach park")
	require.NoError(t, events.Create(context.Background(), testutil.NewTestEvent("x", testutil.WithLocation("Kings Beach Park"))))
	require.NoError(t, events.Create(context.Background(), testutil.NewTestEvent("y", testutil.WithLocation("Riverside Reserve"))))

	reply, err := svc.Reply(context.Background(), "which venues do you have?")
	require.NoError(t, err)
	assert.Contains(t, reply, "Common venues (sample):")
	assert.Contains(t, reply, "• Cotton Tree Park")
	assert.Contains(t, reply, "• Riverside Reserve")
	assert.Equal(t, 1, strings.Count(strings.ToLower(reply), "kings beach park"))
}

func TestChat_VenueListIsCapped(t *testing.T) {
	var venues []string
	for i := 0; i < 15; i++ {
		venues = append(venues, fmt.Sprintf("Park %02d", i))
	}
	svc, _, _ := newChatFixture(t, venues...)

	reply, err := svc.Reply(context.Background(), "list locations")
	require.NoError(t, err)
	assert.Equal(t, maxListedVenues, strings.Count(reply, "• "))
	assert.Contains(t, reply, "type to search more")
}

func TestChat_Availability(t *testing.T) {
	svc, events, obs := newChatFixture(t, "Cotton Tree Park")
	require.NoError(t, events.Create(context.Background(), testutil.NewTestEvent("Fair",
		testutil.WithLocation("Cotton Tree Park"), testutil.WithDates("2026-11-02", "2026-11-02"),
		testutil.WithTimes("09:00", "11:00"))))

	busy, err := svc.Reply(context.Background(), "Is Cotton Tree Park free on 2026-11-02 10:00-12:00?")
	require.NoError(t, err)
	assert.Contains(t, busy, "already booked")
	assert.Contains(t, busy, "2026-11-02 10:00–12:00")

	free, err := svc.Reply(context.Background(), "is cotton tree park free on 2026-11-02 11:00 to 13:00")
	require.NoError(t, err)
	assert.Contains(t, free, "Good news!")

	early, err := svc.Reply(context.Background(), "Cotton Tree Park 2026-11-02 8:00-9:30?")
	require.NoError(t, err)
	assert.Contains(t, early, "already booked")
	assert.Contains(t, early, "08:00–09:30")

	assert.Equal(t, "availability", obs.events[len(obs.events)-1].Fields["intent"])
}

func TestChat_AvailabilityNeedsKnownVenue(t *testing.T) {
	svc, _, _ := newChatFixture(t, "Cotton Tree Park")
	reply, err := svc.Reply(context.Background(), "Is the Town Square free on 2026-11-02 10:00-12:00?")
	require.NoError(t, err)
	assert.Equal(t, chatFallback, reply)
}

func TestChat_FAQs(t *testing.T) {
	svc, _, _ := newChatFixture(t)
	tests := []struct {
		msg  string
		want string
	}{
		{"what does self-assessable mean", "under 200 attendees"},
		{"how long does approval take", "5 business days"},
		{"I need help", "events team"},
		{"random words", "quick availability checks"},
	}
	for _, tt := range tests {
		reply, err := svc.Reply(context.Background(), tt.msg)
		require.NoError(t, err)
		assert.Contains(t, reply, tt.want, tt.msg)
	}
}

func TestParseAvailability_LongestVenueWins(t *testing.T) {
	q, ok := parseAvailability("Kings Beach Park North on 2026-11-02 10:00-12:00",
		[]string{"Kings Beach Park", "Kings Beach Park North"})
	require.True(t, ok)
	assert.Equal(t, "Kings Beach Park North", q.venue)
	assert.Equal(t, "10:00", q.start)
}

func TestParseAvailability_RejectsImpossibleClock(t *testing.T) {
	_, ok := parseAvailability("Cotton Tree Park 2026-11-02 25:00-26:00", []string{"Cotton Tree Park"})
	assert.False(t, ok)

	q, ok := parseAvailability("Cotton Tree Park 2026-11-02 7:15 to 9:45", []string{"Cotton Tree Park"})
	require.True(t, ok)
	assert.Equal(t, "07:15", q.start)
	assert.Equal(t, "09:45", q.end)
}
