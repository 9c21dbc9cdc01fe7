package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/eventpermit/internal/classification"
	"github.com/alexanderramin/eventpermit/internal/contract"
	"github.com/alexanderramin/eventpermit/internal/db"
	"github.com/alexanderramin/eventpermit/internal/domain"
	"github.com/alexanderramin/eventpermit/internal/repository"
	"github.com/google/uuid"
)

const (
	dateLayout = "2006-01-02"

	// Defaults for a candidate booking with missing times.
	defaultStartTime = "00:00"
	defaultEndTime   = "23:59"
)

type bookingService struct {
	events   repository.EventRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
	now      func() time.Time
}

func NewBookingService(events repository.EventRepo, uow db.UnitOfWork, observers ...UseCaseObserver) BookingService {
	return &bookingService{
		events:   events,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *bookingService) Submit(ctx context.Context, fields map[string]string) (resp *contract.SubmitResponse, err error) {
	startedAt := time.Now().UTC()
	obsFields := map[string]any{}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "submit",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    obsFields,
		})
	}()

	values, err := canonicalTimes(fields)
	if err != nil {
		return nil, err
	}
	snap := domain.SnapshotFrom(values)
	if !validDate(snap.StartDate) {
		return nil, fmt.Errorf("%w: start date %q", ErrInvalidSubmission, snap.StartDate)
	}
	if snap.EndDate != "" && !validDate(snap.EndDate) {
		return nil, fmt.Errorf("%w: end date %q", ErrInvalidSubmission, snap.EndDate)
	}
	if snap.EndDate != "" && snap.EndDate < snap.StartDate {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidSubmission)
	}

	ev := eventFromValues(values, snap)
	ev.ID = uuid.New().String()
	ev.Classification = classification.Classify(snap)
	ev.CreatedAt = s.now()

	var conflict bool
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txEvents := repository.NewSQLiteEventRepo(tx)
		var cerr error
		conflict, cerr = hasConflict(ctx, txEvents, candidateOf(ev))
		if cerr != nil {
			return cerr
		}
		ev.Status = statusFor(ev.Classification, conflict)
		return txEvents.Create(ctx, ev)
	})
	if err != nil {
		return nil, fmt.Errorf("storing submission: %w", err)
	}

	obsFields["event_id"] = ev.ID
	obsFields["classification"] = string(ev.Classification)
	obsFields["status"] = string(ev.Status)
	obsFields["conflict"] = conflict

	return &contract.SubmitResponse{
		ID:             ev.ID,
		Classification: string(ev.Classification),
		Status:         string(ev.Status),
		Conflict:       conflict,
		Reasons:        classification.Reasons(snap),
	}, nil
}

func (s *bookingService) CheckConflict(ctx context.Context, req contract.ConflictRequest) (conflict bool, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "check-conflict",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"conflict": conflict},
		})
	}()

	start, err := domain.ParseClock(req.StartTime)
	if err != nil {
		return false, fmt.Errorf("%w: start time: %v", ErrInvalidSubmission, err)
	}
	end, err := domain.ParseClock(req.EndTime)
	if err != nil {
		return false, fmt.Errorf("%w: end time: %v", ErrInvalidSubmission, err)
	}
	return hasConflict(ctx, s.events, booking{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		StartTime: start,
		EndTime:   end,
		Location:  domain.CoalesceStr(strings.TrimSpace(req.Location), strings.TrimSpace(req.Venue)),
		FeatureID: strings.TrimSpace(req.ArcGISFeatureID),
	})
}

func (s *bookingService) Feed(ctx context.Context) ([]contract.FeedEvent, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading events: %w", err)
	}
	feed := make([]contract.FeedEvent, 0, len(events))
	for _, e := range events {
		feed = append(feed, contract.FeedEvent{
			ID:    e.ID,
			Title: e.Title(),
			Start: e.StartISO(),
			End:   e.EndISO(),
			ExtendedProps: contract.FeedEventProps{
				Location:       e.Location,
				Status:         string(e.Status),
				Classification: string(e.Classification),
			},
			ClassName: statusClass(e.Status),
		})
	}
	return feed, nil
}

func (s *bookingService) Applications(ctx context.Context, query, status string) ([]contract.Application, error) {
	events, err := s.events.Search(ctx, repository.AdminFilter{Query: query, Status: status})
	if err != nil {
		return nil, fmt.Errorf("loading applications: %w", err)
	}
	apps := make([]contract.Application, 0, len(events))
	for _, e := range events {
		apps = append(apps, contract.Application{
			ID:             e.ID,
			EventType:      e.EventType,
			EventName:      e.EventName,
			ApplicantName:  e.ApplicantName,
			ApplicantEmail: e.ApplicantEmail,
			Location:       e.Location,
			StartDate:      e.StartDate,
			EndDate:        e.EndDate,
			StartTime:      e.StartTime,
			EndTime:        e.EndTime,
			Attendance:     e.Attendance,
			Classification: string(e.Classification),
			Status:         string(e.Status),
			CreatedAt:      e.CreatedAt.Format(time.RFC3339),
		})
	}
	return apps, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id, status string) (err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "update-status",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"event_id": id, "status": status},
		})
	}()

	st := domain.EventStatus(status)
	if !domain.ValidEventStatuses[st] {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.events.UpdateStatus(ctx, id, st)
}

// booking is the place and time span of one candidate reservation.
type booking struct {
	StartDate string
	EndDate   string
	StartTime string
	EndTime   string
	Location  string
	FeatureID string
}

func candidateOf(e *domain.Event) booking {
	return booking{
		StartDate: e.StartDate,
		EndDate:   e.EndDate,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Location:  e.Location,
		FeatureID: e.FeatureID,
	}
}

func (b booking) span() (start, end string) {
	endDate := domain.CoalesceStr(b.EndDate, b.StartDate)
	return domain.ISODateTime(b.StartDate, b.StartTime, defaultStartTime),
		domain.ISODateTime(endDate, b.EndTime, defaultEndTime)
}

// hasConflict reports whether b overlaps an approved booking at the same
// place. Candidate rows are narrowed by date in SQL, then compared as
// half-open [start, end) datetime ranges.
func hasConflict(ctx context.Context, events repository.EventRepo, b booking) (bool, error) {
	if b.StartDate == "" {
		return false, nil
	}
	rows, err := events.ListApprovedAt(ctx, repository.PlaceWindow{
		FeatureID: b.FeatureID,
		Location:  b.Location,
		StartDate: b.StartDate,
		EndDate:   domain.CoalesceStr(b.EndDate, b.StartDate),
	})
	if err != nil {
		return false, fmt.Errorf("checking conflicts: %w", err)
	}

	newStart, newEnd := b.span()
	for _, r := range rows {
		rStart, rEnd := candidateOf(r).span()
		if overlaps(newStart, newEnd, rStart, rEnd) {
			return true, nil
		}
	}
	return false, nil
}

// overlaps compares two [start, end) ranges of sortable ISO timestamps.
func overlaps(aStart, aEnd, bStart, bEnd string) bool {
	if aStart == "" || aEnd == "" || bStart == "" || bEnd == "" {
		return false
	}
	return aStart < bEnd && aEnd > bStart
}

// statusFor auto-approves only self-assessable bookings without a conflict.
func statusFor(c domain.Classification, conflict bool) domain.EventStatus {
	if c == domain.SelfAssessable && !conflict {
		return domain.StatusApproved
	}
	return domain.StatusPending
}

func statusClass(s domain.EventStatus) string {
	switch s {
	case domain.StatusApproved:
		return "fc-approved"
	case domain.StatusRejected, domain.StatusCancelled:
		return "fc-rejected"
	default:
		return "fc-pending"
	}
}

// canonicalTimes copies fields with the start and end times rewritten as
// zero-padded HH:MM, so stored times and the overlap check sort correctly.
func canonicalTimes(fields map[string]string) (domain.ValuesMap, error) {
	values := make(domain.ValuesMap, len(fields))
	for k, v := range fields {
		values[k] = v
	}
	for _, id := range []string{domain.FieldStartTime, domain.FieldEndTime} {
		c, err := domain.ParseClock(values[id])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSubmission, id, err)
		}
		values[id] = c
	}
	return values, nil
}

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func eventFromValues(v domain.Values, snap domain.FormSnapshot) *domain.Event {
	get := func(id string) string { return strings.TrimSpace(v.Get(id)) }
	return &domain.Event{
		EventType:      get(domain.FieldEventType),
		ApplicantName:  get(domain.FieldOrganizerName),
		ApplicantEmail: get(domain.FieldContactEmail),
		ApplicantPhone: get(domain.FieldContactPhone),
		EventName:      get(domain.FieldEventName),
		Location:       get(domain.FieldVenue),
		StartDate:      snap.StartDate,
		EndDate:        domain.CoalesceStr(snap.EndDate, snap.StartDate),
		StartTime:      snap.StartTime,
		EndTime:        snap.FinishTime,
		Attendance:     snap.Attendance,
		Alcohol:        snap.Alcohol,
		HighRisk:       snap.HighRisk,
		TrafficMgmt:    snap.TrafficManagement,
		VehicleAccess:  snap.VehicleAccess,
		AmplifiedSound: snap.AmplifiedNoise,
		NoiseLevel:     snap.NoiseLevel,
		TotalDays:      snap.TotalDays,
		Notes:          get(domain.FieldNotes),
		Latitude:       get(domain.FieldLatitude),
		Longitude:      get(domain.FieldLongitude),
		FeatureID:      get(domain.FieldFeatureID),
		FeatureName:    get(domain.FieldFeatureName),
		Layer:          get(domain.FieldLayer),
	}
}
