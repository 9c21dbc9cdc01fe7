package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/eventpermit/internal/domain"
	"github.com/alexanderramin/eventpermit/internal/repository"
)

const (
	maxListedTypes  = 20
	maxListedVenues = 12
)

var (
	chatDatePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	chatTimePattern = regexp.MustCompile(`(\d{1,2}:\d{2})\s*(?:-|–|to)\s*(\d{1,2}:\d{2})`)
)

const (
	chatGreeting = "Hi! Ask me about event types, locations, or availability."
	chatFallback = "I can help with: event types, locations, and quick availability checks.\n" +
		"Try: \"Is Cotton Tree Park free on 2026-11-02 10:00-12:00?\""
)

type chatService struct {
	events     repository.EventRepo
	eventTypes []string
	venues     []string
	observer   UseCaseObserver
}

// NewChatService creates the rule-based assistant. knownVenues are merged
// with the locations already present in the store.
func NewChatService(events repository.EventRepo, eventTypes, knownVenues []string, observers ...UseCaseObserver) ChatService {
	return &chatService{
		events:     events,
		eventTypes: eventTypes,
		venues:     knownVenues,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *chatService) Reply(ctx context.Context, message string) (reply string, err error) {
	startedAt := time.Now().UTC()
	intent := "fallback"
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "chat",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"intent": intent},
		})
	}()

	msg := strings.TrimSpace(message)
	if msg == "" {
		intent = "greeting"
		return chatGreeting, nil
	}
	low := strings.ToLower(msg)

	if strings.Contains(low, "event type") || strings.Contains(low, "types") {
		intent = "event-types"
		return bulletList("Available event types:", s.eventTypes, maxListedTypes, "… (and more)"), nil
	}

	venues, err := s.knownVenues(ctx)
	if err != nil {
		return "", err
	}

	if q, ok := parseAvailability(msg, venues); ok {
		intent = "availability"
		conflict, err := hasConflict(ctx, s.events, q.booking())
		if err != nil {
			return "", err
		}
		when := fmt.Sprintf("%s %s–%s", q.date, q.start, q.end)
		if conflict {
			return fmt.Sprintf("Looks like %s is already booked on %s. Try a different time or day.", q.venue, when), nil
		}
		return fmt.Sprintf("Good news! I can't see any approved bookings at %s on %s. You can submit the form now.", q.venue, when), nil
	}

	if strings.Contains(low, "location") || strings.Contains(low, "park") || strings.Contains(low, "venue") {
		intent = "venues"
		return bulletList("Common venues (sample):", venues, maxListedVenues, "… type to search more in the form's Venue field."), nil
	}

	switch {
	case strings.Contains(low, "self-assess") || strings.Contains(low, "self assess"):
		intent = "faq-self-assess"
		return "Self-assessable generally means: under 200 attendees, no alcohol, no high-risk activities, " +
			"no traffic management, no vehicle access, and amplified sound under 95 dB. " +
			"If your answers fit and the slot is free, the booking is approved straight away.", nil
	case strings.Contains(low, "how long") || strings.Contains(low, "approval") || strings.Contains(low, "review"):
		intent = "faq-review"
		return "Council staff review assessable applications within about 5 business days.", nil
	case strings.Contains(low, "contact") || strings.Contains(low, "help"):
		intent = "faq-contact"
		return "Submit through the application form. For complex cases the Council events team can assist once you have submitted.", nil
	}
	return chatFallback, nil
}

// knownVenues merges configured venues with stored locations, deduplicated
// case-insensitively and sorted.
func (s *chatService) knownVenues(ctx context.Context) ([]string, error) {
	stored, err := s.events.DistinctLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading venues: %w", err)
	}
	seen := make(map[string]bool)
	var venues []string
	for _, v := range append(append([]string{}, s.venues...), stored...) {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		venues = append(venues, strings.TrimSpace(v))
	}
	sort.Strings(venues)
	return venues, nil
}

type availabilityQuery struct {
	venue string
	date  string
	start string
	end   string
}

func (q availabilityQuery) booking() booking {
	return booking{
		StartDate: q.date,
		EndDate:   q.date,
		StartTime: q.start,
		EndTime:   q.end,
		Location:  q.venue,
	}
}

// parseAvailability extracts a date, a time range and a known venue from
// msg. The longest matching venue name wins.
func parseAvailability(msg string, venues []string) (availabilityQuery, bool) {
	low := strings.ToLower(msg)
	date := chatDatePattern.FindStringSubmatch(msg)
	times := chatTimePattern.FindStringSubmatch(low)
	if date == nil || times == nil {
		return availabilityQuery{}, false
	}

	var venue string
	for _, v := range venues {
		if strings.Contains(low, strings.ToLower(v)) && len(v) > len(venue) {
			venue = v
		}
	}
	if venue == "" {
		return availabilityQuery{}, false
	}
	start, err := domain.ParseClock(times[1])
	if err != nil {
		return availabilityQuery{}, false
	}
	end, err := domain.ParseClock(times[2])
	if err != nil {
		return availabilityQuery{}, false
	}
	return availabilityQuery{
		venue: venue,
		date:  date[1],
		start: start,
		end:   end,
	}, true
}

func bulletList(header string, items []string, limit int, more string) string {
	shown := items
	if len(shown) > limit {
		shown = shown[:limit]
	}
	var b strings.Builder
	b.WriteString(header)
	for _, it := range shown {
		b.WriteString("\n• ")
		b.WriteString(it)
	}
	if len(items) > limit {
		b.WriteString("\n")
		b.WriteString(more)
	}
	return b.String()
}
