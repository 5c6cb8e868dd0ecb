package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestTable_PreservesKeyOrder(t *testing.T) {
	doc := `{
		"zeta":  {"name":"Zed","email":"z@x.com","age":30,"department":"CS","CGPA":3.1,"created_at":"2024-01-02T03:04:05Z"},
		"alpha": {"name":"Al","email":"a@x.com","age":20,"department":null,"CGPA":2.5,"created_at":"2024-01-02T03:04:05Z"},
		"mid":   {"name":"Mo","email":"m@x.com","age":25,"department":"EE","CGPA":3.9,"created_at":"2024-01-02T03:04:05Z"}
	}`

	var table Table
	require.NoError(t, json.Unmarshal([]byte(doc), &table))
	require.Equal(t, 3, table.Len())

	var ids []string
	for _, e := range table.Entries() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, ids)

	alpha, ok := table.Get("alpha")
	require.True(t, ok)
	assert.Nil(t, alpha.Department)
	assert.Equal(t, "", alpha.DepartmentName())

	out, err := json.Marshal(&table)
	require.NoError(t, err)

	var again Table
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, table.Entries(), again.Entries())
}

func TestTable_EmptyEncodesAsObject(t *testing.T) {
	out, err := json.Marshal(NewTable())
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))

	var zero Table
	out, err = json.Marshal(&zero)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(out))
}

func TestTable_RejectsNonObject(t *testing.T) {
	var table Table
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), &table))
	assert.Error(t, json.Unmarshal([]byte(`{"a": 5}`), &table))
}

func TestTable_PutAndDelete(t *testing.T) {
	table := NewTable()
	table.Put("a", Student{Name: "A"})
	table.Put("b", Student{Name: "B"})
	table.Put("a", Student{Name: "A2"})

	entries := table.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "A2", entries[0].Name)

	assert.True(t, table.Delete("a"))
	assert.False(t, table.Delete("a"))
	_, ok := table.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, table.Len())
}

func TestEntry_IDComesLast(t *testing.T) {
	e := Entry{
		Student: Student{Name: "Alice", Email: "a@x.com", Age: 20, CGPA: 3.5,
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		ID: "abc",
	}
	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"name":"Alice","email":"a@x.com","age":20,"department":null,"CGPA":3.5,"created_at":"2024-01-01T00:00:00Z","id":"abc"}`,
		string(out))
	assert.Regexp(t, `"id":"abc"}$`, string(out))
}

func TestStudentPatch_Unmarshal(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantClear bool
		wantDept  *string
		wantEmpty bool
	}{
		{name: "age only", body: `{"age": 23}`},
		{name: "explicit null department", body: `{"department": null}`, wantClear: true},
		{name: "department value", body: `{"department": "EE"}`, wantDept: strPtr("EE")},
		{name: "empty object", body: `{}`, wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p StudentPatch
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			assert.Equal(t, tt.wantClear, p.ClearDepartment)
			assert.Equal(t, tt.wantDept, p.Department)
			assert.Equal(t, tt.wantEmpty, p.IsEmpty())
		})
	}
}

func TestStudentPatch_ApplyOnlyTouchesPresentFields(t *testing.T) {
	orig := Student{
		Name:       "Alice",
		Email:      "a@x.com",
		Age:        20,
		Department: strPtr("CS"),
		CGPA:       3.5,
		CreatedAt:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	var p StudentPatch
	require.NoError(t, json.Unmarshal([]byte(`{"age": 23}`), &p))
	got := p.Apply(orig)

	want := orig
	want.Age = 23
	assert.Equal(t, want, got)

	require.NoError(t, json.Unmarshal([]byte(`{"department": null, "CGPA": 0}`), &p))
	got = p.Apply(orig)
	assert.Nil(t, got.Department)
	assert.Equal(t, 0.0, got.CGPA)
	assert.Equal(t, "Alice", got.Name)
}
