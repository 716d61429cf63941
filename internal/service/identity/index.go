package identity

import (
	"context"
	"fmt"
	"sort"

	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/roster"
	"github.com/shiftops-ph/timeclock-backend-go/internal/domain/scan"
)

// Index bridges biometric device names to roster employees. Identity is
// defined entirely by normalized-name equality; the device-local user IDs
// reported by different machines are never trusted.
type Index struct {
	byKey     map[string]roster.Employee
	unmatched map[string]*scan.UnmatchedName
}

// NewIndex builds an index over the given employees.
func NewIndex(employees []roster.Employee) *Index {
	byKey := make(map[string]roster.Employee, len(employees))
	for _, emp := range employees {
		byKey[emp.NameKey()] = emp
	}
	return &Index{
		byKey:     byKey,
		unmatched: make(map[string]*scan.UnmatchedName),
	}
}

// Resolve returns the employee for a raw device name. Unresolved names are
// recorded for the import summary; the event itself is retained
// unattributed and never blocks matched events.
func (ix *Index) Resolve(rawName string) (roster.Employee, bool) {
	key := roster.NormalizeName(rawName)
	emp, ok := ix.byKey[key]
	if !ok {
		if u, seen := ix.unmatched[key]; seen {
			u.Occurrences++
		} else {
			ix.unmatched[key] = &scan.UnmatchedName{RawName: rawName, Occurrences: 1}
		}
		return roster.Employee{}, false
	}
	return emp, true
}

// Unmatched returns every name that failed to resolve, most frequent first.
func (ix *Index) Unmatched() []scan.UnmatchedName {
	result := make([]scan.UnmatchedName, 0, len(ix.unmatched))
	for _, u := range ix.unmatched {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Occurrences != result[j].Occurrences {
			return result[i].Occurrences > result[j].Occurrences
		}
		return result[i].RawName < result[j].RawName
	})
	return result
}

// Service loads the roster and builds indices on demand.
type Service struct {
	roster.EmployeeRepository
}

func NewService(employeeRepo roster.EmployeeRepository) *Service {
	return &Service{EmployeeRepository: employeeRepo}
}

// BuildIndex loads every active employee and indexes them by name key.
func (s *Service) BuildIndex(ctx context.Context) (*Index, error) {
	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	return NewIndex(employees), nil
}
