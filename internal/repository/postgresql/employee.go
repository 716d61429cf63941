package postgresql

import (
	"context"
	"fmt"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/roster"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

// GetByID implements roster.EmployeeRepository.
func (e *employeeRepository) GetByID(ctx context.Context, id string) (roster.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, first_name, middle_name, last_name, campaign, site, is_active, created_at, updated_at
		FROM employees
		WHERE id = $1
	`

	var emp roster.Employee
	err := q.QueryRow(ctx, query, id).Scan(
		&emp.ID, &emp.FirstName, &emp.MiddleName, &emp.LastName,
		&emp.Campaign, &emp.Site, &emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return roster.Employee{}, roster.ErrEmployeeNotFound
		}
		return roster.Employee{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}

	return emp, nil
}

// ListActive implements roster.EmployeeRepository.
func (e *employeeRepository) ListActive(ctx context.Context) ([]roster.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, first_name, middle_name, last_name, campaign, site, is_active, created_at, updated_at
		FROM employees
		WHERE is_active = true
		ORDER BY last_name, first_name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []roster.Employee
	for rows.Next() {
		var emp roster.Employee
		err := rows.Scan(
			&emp.ID, &emp.FirstName, &emp.MiddleName, &emp.LastName,
			&emp.Campaign, &emp.Site, &emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	return employees, nil
}

// ListByIDs implements roster.EmployeeRepository.
func (e *employeeRepository) ListByIDs(ctx context.Context, ids []string) ([]roster.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, first_name, middle_name, last_name, campaign, site, is_active, created_at, updated_at
		FROM employees
		WHERE id = ANY($1)
		ORDER BY last_name, first_name
	`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees by IDs: %w", err)
	}
	defer rows.Close()

	var employees []roster.Employee
	for rows.Next() {
		var emp roster.Employee
		err := rows.Scan(
			&emp.ID, &emp.FirstName, &emp.MiddleName, &emp.LastName,
			&emp.Campaign, &emp.Site, &emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	return employees, nil
}

func NewEmployeeRepository(db *database.DB) roster.EmployeeRepository {
	return &employeeRepository{db: db}
}
