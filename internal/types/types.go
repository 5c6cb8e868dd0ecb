// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles —
// handlers, services, and storage can all import types without depending
// on each other.
package types

import (
	"bytes"
	"encoding/json"
	"time"
)

// Student is one stored student record.
//
// The identifier is NOT part of the record: in the backing store it is the
// key of the JSON object that holds the record. Field order matches the
// order in which records are written to disk.
type Student struct {
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Age        int       `json:"age"`
	Department *string   `json:"department"`
	CGPA       float64   `json:"CGPA"`
	CreatedAt  time.Time `json:"created_at"`
}

// DepartmentName returns the department or "" when none is set.
func (s Student) DepartmentName() string {
	if s.Department == nil {
		return ""
	}
	return *s.Department
}

// Entry is a record together with its identifier. Search, filter and sort
// responses use it: the record fields first, then "id".
type Entry struct {
	Student
	ID string `json:"id"`
}

// StudentCreate is the payload accepted by the create endpoint.
//
// Age and CGPA are pointers so that "missing" can be told apart from zero:
// validate:"required" on a pointer only checks that it is non-nil, and the
// remaining rules (gte, lte) are applied to the pointed-to value.
type StudentCreate struct {
	Name       string   `json:"name"       validate:"required,min=2,max=50"`
	Email      string   `json:"email"      validate:"required,email"`
	Age        *int     `json:"age"        validate:"required,gte=10,lte=100"`
	Department *string  `json:"department"`
	CGPA       *float64 `json:"CGPA"       validate:"required"`
}

// StudentPatch is an explicit optional-field patch for partial updates.
// A nil pointer means "leave this field alone".
//
// Department is the only field that may be cleared: ClearDepartment is set
// when the request carries "department": null.
type StudentPatch struct {
	Name            *string  `json:"name"       validate:"omitempty,min=2,max=50"`
	Email           *string  `json:"email"      validate:"omitempty,email"`
	Age             *int     `json:"age"        validate:"omitempty,gte=10,lte=100"`
	Department      *string  `json:"department"`
	CGPA            *float64 `json:"CGPA"`
	ClearDepartment bool     `json:"-"`
}

// UnmarshalJSON decodes the patch and records whether department was sent
// as an explicit null.
func (p *StudentPatch) UnmarshalJSON(data []byte) error {
	// alias drops the method set so json.Unmarshal does not recurse.
	type alias StudentPatch
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["department"]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		a.ClearDepartment = true
	}

	*p = StudentPatch(a)
	return nil
}

// IsEmpty reports whether the patch changes nothing.
func (p StudentPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Age == nil &&
		p.Department == nil && p.CGPA == nil && !p.ClearDepartment
}

// Apply merges the present fields of p into s and returns the result.
// Fields absent from the patch keep their previous values.
func (p StudentPatch) Apply(s Student) Student {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.Age != nil {
		s.Age = *p.Age
	}
	if p.ClearDepartment {
		s.Department = nil
	} else if p.Department != nil {
		dept := *p.Department
		s.Department = &dept
	}
	if p.CGPA != nil {
		s.CGPA = *p.CGPA
	}
	return s
}

// NoDepartmentKey is the count_per_department key used for records
// without a department.
const NoDepartmentKey = "unassigned"

// Stats is the response of the stats endpoint.
type Stats struct {
	TotalStudents      int            `json:"total_students"`
	AverageAge         float64        `json:"average_age"`
	CountPerDepartment map[string]int `json:"count_per_department"`
}
