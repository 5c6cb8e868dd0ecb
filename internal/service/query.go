package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aanand-mishra/student-directory/internal/types"
)

// Sort keys and directions accepted by Sort.
const (
	SortByName = "name"
	SortByAge  = "age"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Search returns every record whose name or email contains query,
// ignoring case.
func (s *Students) Search(ctx context.Context, query string) (result []types.Entry, err error) {
	defer func() { observe("search", err) }()

	table, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}

	needle := strings.ToLower(query)
	for _, e := range table.Entries() {
		if strings.Contains(strings.ToLower(e.Name), needle) ||
			strings.Contains(strings.ToLower(e.Email), needle) {
			result = append(result, e)
		}
	}

	if len(result) == 0 {
		return nil, notFound("Student not found")
	}
	return result, nil
}

// Filter returns every record whose department equals department,
// ignoring case. Records without a department never match.
func (s *Students) Filter(ctx context.Context, department string) (result []types.Entry, err error) {
	defer func() { observe("filter", err) }()

	table, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("Filter: %w", err)
	}

	for _, e := range table.Entries() {
		if e.Department != nil && strings.EqualFold(*e.Department, department) {
			result = append(result, e)
		}
	}

	if len(result) == 0 {
		return nil, notFound("No students found in this department")
	}
	return result, nil
}

// Sort returns all records ordered by sortBy ("name" or "age") in the given
// order ("asc" or "desc"). Equal keys keep their table order.
// Parameters are checked before storage is read.
func (s *Students) Sort(ctx context.Context, sortBy, order string) (result []types.Entry, err error) {
	defer func() { observe("sort", err) }()

	if sortBy != SortByName && sortBy != SortByAge {
		return nil, invalidParameter("Sorting by name and age allowed only")
	}
	if order != OrderAsc && order != OrderDesc {
		return nil, invalidParameter("Sort in ascending or descending order")
	}

	table, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("Sort: %w", err)
	}

	result = table.Entries()
	slices.SortStableFunc(result, func(a, b types.Entry) int {
		var c int
		if sortBy == SortByName {
			c = strings.Compare(a.Name, b.Name)
		} else {
			c = cmp.Compare(a.Age, b.Age)
		}
		if order == OrderDesc {
			return -c
		}
		return c
	})

	return result, nil
}

// Stats returns the record count, the mean age and the number of records
// per department.
func (s *Students) Stats(ctx context.Context) (stats types.Stats, err error) {
	defer func() { observe("stats", err) }()

	table, err := s.repo.Load(ctx)
	if err != nil {
		return types.Stats{}, fmt.Errorf("Stats: %w", err)
	}

	stats = types.Stats{
		TotalStudents:      table.Len(),
		CountPerDepartment: make(map[string]int),
	}
	if stats.TotalStudents == 0 {
		return stats, nil
	}

	totalAge := 0
	for _, e := range table.Entries() {
		totalAge += e.Age

		dept := types.NoDepartmentKey
		if e.Department != nil {
			dept = *e.Department
		}
		stats.CountPerDepartment[dept]++
	}
	stats.AverageAge = float64(totalAge) / float64(stats.TotalStudents)

	return stats, nil
}
