package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/eventpermit/internal/db"
	"github.com/alexanderramin/eventpermit/internal/domain"
)

// SQLiteEventRepo implements EventRepo on the events table.
type SQLiteEventRepo struct {
	db db.DBTX
}

// NewSQLiteEventRepo creates a repo over a database or a transaction.
func NewSQLiteEventRepo(conn db.DBTX) *SQLiteEventRepo {
	return &SQLiteEventRepo{db: conn}
}

const eventColumns = `id, event_type, applicant_name, applicant_email, applicant_phone,
	event_name, location, start_date, end_date, start_time, end_time,
	attendance, alcohol, high_risk, traffic_mgmt, vehicle_access, amplified_sound,
	noise_level, total_days, notes, latitude, longitude,
	arcgis_feature_id, arcgis_feature_name, arcgis_layer,
	classification, status, created_at`

func (r *SQLiteEventRepo) Create(ctx context.Context, e *domain.Event) error {
	endDate := domain.CoalesceStr(e.EndDate, e.StartDate)
	totalDays := e.TotalDays
	if totalDays < 1 {
		totalDays = 1
	}
	status := e.Status
	if status == "" {
		status = domain.StatusPending
	}

	query := `INSERT INTO events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.EventType, e.ApplicantName, e.ApplicantEmail, e.ApplicantPhone,
		e.EventName, e.Location, e.StartDate, endDate, e.StartTime, e.EndTime,
		e.Attendance,
		string(domain.ParseYesNo(string(e.Alcohol))),
		string(domain.ParseYesNo(string(e.HighRisk))),
		string(domain.ParseYesNo(string(e.TrafficMgmt))),
		string(domain.ParseYesNo(string(e.VehicleAccess))),
		string(domain.ParseYesNo(string(e.AmplifiedSound))),
		e.NoiseLevel, totalDays, e.Notes, e.Latitude, e.Longitude,
		e.FeatureID, e.FeatureName, e.Layer,
		string(e.Classification), string(status),
		timeOrNow(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return e, nil
}

func (r *SQLiteEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	return r.query(ctx, "listing events",
		`SELECT `+eventColumns+` FROM events ORDER BY start_date, start_time, created_at`)
}

func (r *SQLiteEventRepo) Search(ctx context.Context, f AdminFilter) ([]*domain.Event, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + eventColumns + ` FROM events WHERE 1=1`)
	var args []any
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + q + "%"
		b.WriteString(` AND (applicant_name LIKE ? OR event_type LIKE ? OR event_name LIKE ?)`)
		args = append(args, like, like, like)
	}
	switch status := strings.TrimSpace(f.Status); {
	case status == string(domain.SelfAssessable) || status == string(domain.Assessable):
		b.WriteString(` AND classification = ?`)
		args = append(args, status)
	case domain.ValidEventStatuses[domain.EventStatus(status)]:
		b.WriteString(` AND status = ?`)
		args = append(args, status)
	}
	b.WriteString(` ORDER BY created_at DESC, id`)
	return r.query(ctx, "searching events", b.String(), args...)
}

func (r *SQLiteEventRepo) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE events SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("updating event status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating event status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteEventRepo) ListApprovedAt(ctx context.Context, w PlaceWindow) ([]*domain.Event, error) {
	endDate := domain.CoalesceStr(w.EndDate, w.StartDate)
	loc := normalizeLocation(w.Location)
	query := `SELECT ` + eventColumns + ` FROM events
		WHERE status = 'Approved'
		  AND (
		        (? <> '' AND arcgis_feature_id = ?)
		     OR (? <> '' AND LOWER(TRIM(location)) = ?)
		  )
		  AND date(?) <= date(end_date) AND date(?) >= date(start_date)
		ORDER BY start_date, start_time`
	return r.query(ctx, "listing approved events", query,
		w.FeatureID, w.FeatureID, loc, loc, w.StartDate, endDate)
}

func (r *SQLiteEventRepo) DistinctLocations(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT TRIM(location) AS loc FROM events WHERE TRIM(location) <> '' ORDER BY loc`)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	defer rows.Close()

	var locs []string
	for rows.Next() {
		var loc string
		if err := rows.Scan(&loc); err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		locs = append(locs, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating locations: %w", err)
	}
	return locs, nil
}

func (r *SQLiteEventRepo) query(ctx context.Context, op, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (*domain.Event, error) {
	var e domain.Event
	var alcohol, highRisk, traffic, vehicle, amplified string
	var classification, status, createdAt string

	err := s.Scan(
		&e.ID, &e.EventType, &e.ApplicantName, &e.ApplicantEmail, &e.ApplicantPhone,
		&e.EventName, &e.Location, &e.StartDate, &e.EndDate, &e.StartTime, &e.EndTime,
		&e.Attendance, &alcohol, &highRisk, &traffic, &vehicle, &amplified,
		&e.NoiseLevel, &e.TotalDays, &e.Notes, &e.Latitude, &e.Longitude,
		&e.FeatureID, &e.FeatureName, &e.Layer,
		&classification, &status, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning event: %w", err)
	}

	e.Alcohol = domain.ParseYesNo(alcohol)
	e.HighRisk = domain.ParseYesNo(highRisk)
	e.TrafficMgmt = domain.ParseYesNo(traffic)
	e.VehicleAccess = domain.ParseYesNo(vehicle)
	e.AmplifiedSound = domain.ParseYesNo(amplified)
	e.Classification = domain.Classification(classification)
	e.Status = domain.EventStatus(status)

	e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &e, nil
}
