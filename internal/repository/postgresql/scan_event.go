package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/scan"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/database"
)

type scanEventRepository struct {
	db *database.DB
}

// BulkInsert implements scan.ScanEventRepository.
func (r *scanEventRepository) BulkInsert(ctx context.Context, events []scan.ScanEvent) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO scan_events (
			employee_key, device_user_id, raw_name, timestamp, source_device, site
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (device_user_id, timestamp, source_device) DO NOTHING
	`

	inserted := 0
	for _, ev := range events {
		tag, err := q.Exec(ctx, query,
			ev.EmployeeKey, ev.DeviceUserID, ev.RawName, ev.Timestamp, ev.SourceDevice, ev.Site,
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert scan event: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}

// ListByRange implements scan.ScanEventRepository.
func (r *scanEventRepository) ListByRange(ctx context.Context, start, end time.Time) ([]scan.ScanEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_key, device_user_id, raw_name, timestamp, source_device, site, created_at
		FROM scan_events
		WHERE timestamp >= $1 AND timestamp < $2
		ORDER BY timestamp
	`

	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan events: %w", err)
	}
	defer rows.Close()

	var events []scan.ScanEvent
	for rows.Next() {
		var ev scan.ScanEvent
		err := rows.Scan(
			&ev.ID, &ev.EmployeeKey, &ev.DeviceUserID, &ev.RawName,
			&ev.Timestamp, &ev.SourceDevice, &ev.Site, &ev.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, ev)
	}

	return events, nil
}

// ListByKeyRange implements scan.ScanEventRepository.
func (r *scanEventRepository) ListByKeyRange(ctx context.Context, employeeKey string, start, end time.Time) ([]scan.ScanEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_key, device_user_id, raw_name, timestamp, source_device, site, created_at
		FROM scan_events
		WHERE employee_key = $1 AND timestamp >= $2 AND timestamp < $3
		ORDER BY timestamp
	`

	rows, err := q.Query(ctx, query, employeeKey, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan events by key: %w", err)
	}
	defer rows.Close()

	var events []scan.ScanEvent
	for rows.Next() {
		var ev scan.ScanEvent
		err := rows.Scan(
			&ev.ID, &ev.EmployeeKey, &ev.DeviceUserID, &ev.RawName,
			&ev.Timestamp, &ev.SourceDevice, &ev.Site, &ev.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, ev)
	}

	return events, nil
}

func NewScanEventRepository(db *database.DB) scan.ScanEventRepository {
	return &scanEventRepository{db: db}
}
