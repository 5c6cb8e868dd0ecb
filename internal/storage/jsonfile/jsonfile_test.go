package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/student-directory/internal/types"
)

func sampleTable() *types.Table {
	cs := "CS"
	created := time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC)

	table := types.NewTable()
	table.Put("b-id", types.Student{Name: "Bob", Email: "b@x.com", Age: 22, Department: &cs, CGPA: 3.0, CreatedAt: created})
	table.Put("a-id", types.Student{Name: "Alice", Email: "a@x.com", Age: 20, CGPA: 3.5, CreatedAt: created})
	return table
}

func TestNew_CreatesEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "students.json")

	repo, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, path, repo.Path())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	table, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestNew_KeepsExistingDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.json")
	doc := `{"x":{"name":"Xi","email":"x@x.com","age":40,"department":"Math","CGPA":2.0,"created_at":"2024-01-01T00:00:00Z"}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	repo, err := New(path)
	require.NoError(t, err)

	table, err := repo.Load(context.Background())
	require.NoError(t, err)
	got, ok := table.Get("x")
	require.True(t, ok)
	assert.Equal(t, "Xi", got.Name)
	assert.Equal(t, "Math", got.DepartmentName())
}

func TestSaveAndLoad(t *testing.T) {
	for _, atomic := range []bool{false, true} {
		name := "in place"
		if atomic {
			name = "atomic"
		}
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "students.json")
			repo, err := New(path, WithAtomicWrites(atomic))
			require.NoError(t, err)

			ctx := context.Background()
			require.NoError(t, repo.Save(ctx, sampleTable()))

			loaded, err := repo.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, sampleTable().Entries(), loaded.Entries())

			_, err = os.Stat(path + ".tmp")
			assert.True(t, os.IsNotExist(err), "temp file must not be left behind")
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.json")
	repo, err := New(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	_, err = repo.Load(context.Background())
	assert.ErrorContains(t, err, "decode")

	require.NoError(t, os.Remove(path))
	_, err = repo.Load(context.Background())
	assert.ErrorContains(t, err, "read")
}

func TestCanceledContext(t *testing.T) {
	repo, err := New(filepath.Join(t.TempDir(), "students.json"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = repo.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, repo.Save(ctx, types.NewTable()), context.Canceled)
}
