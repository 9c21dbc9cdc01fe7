package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/eventpermit/internal/domain"
	"github.com/alexanderramin/eventpermit/internal/repository"
	"github.com/google/uuid"
)

// sampleEvents returns the demo bookings: a small community session a week
// out and a large amplified one a fortnight out, both awaiting review.
func sampleEvents(now time.Time) []*domain.Event {
	day := func(offset int) string { return now.AddDate(0, 0, offset).Format("2006-01-02") }
	created := now.UTC().Truncate(time.Second)
	return []*domain.Event{
		{
			ID:             uuid.New().String(),
			EventType:      "Community gathering",
			ApplicantName:  "Alex Lee",
			ApplicantEmail: "alex@example.com",
			ApplicantPhone: "0400 000 000",
			EventName:      "Sunset Yoga",
			Location:       "Seaside Park",
			StartDate:      day(7),
			EndDate:        day(7),
			Attendance:     80,
			Alcohol:        domain.No,
			HighRisk:       domain.No,
			TrafficMgmt:    domain.No,
			VehicleAccess:  domain.No,
			AmplifiedSound: domain.No,
			TotalDays:      1,
			Notes:          "Sunset community yoga",
			Classification: domain.SelfAssessable,
			Status:         domain.StatusPending,
			CreatedAt:      created,
		},
		{
			ID:             uuid.New().String(),
			EventType:      "Concert or performance",
			ApplicantName:  "Pat Morgan",
			ApplicantEmail: "pat@example.com",
			ApplicantPhone: "0400 111 111",
			EventName:      "Live Bands on the Lawn",
			Location:       "Riverside Reserve",
			StartDate:      day(14),
			EndDate:        day(14),
			Attendance:     450,
			Alcohol:        domain.Yes,
			HighRisk:       domain.No,
			TrafficMgmt:    domain.Yes,
			VehicleAccess:  domain.No,
			AmplifiedSound: domain.Yes,
			NoiseLevel:     98,
			TotalDays:      1,
			Notes:          "Amplified music and bar",
			Classification: domain.Assessable,
			Status:         domain.StatusPending,
			CreatedAt:      created,
		},
	}
}

// seedSampleEvents inserts the demo bookings into an empty store and returns
// how many were written. A store that already holds events is left alone.
func seedSampleEvents(ctx context.Context, events repository.EventRepo, now time.Time) (int, error) {
	existing, err := events.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("checking store before seeding: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	samples := sampleEvents(now)
	for _, e := range samples {
		if err := events.Create(ctx, e); err != nil {
			return 0, fmt.Errorf("seeding %q: %w", e.EventName, err)
		}
	}
	return len(samples), nil
}
