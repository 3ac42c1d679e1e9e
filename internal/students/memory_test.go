package students

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSampleRepository_Seed(t *testing.T) {
	r := NewSampleRepository()
	ctx := context.Background()

	n, err := r.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 4, n)

	s, err := r.GetByID(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "John Doe", s.Name)
	require.Equal(t, 20, s.Age)
}

func TestSampleRepository_InsertAssignsSequentialIDs(t *testing.T) {
	r := NewSampleRepository()
	ctx := context.Background()

	s := &Student{Name: "New Student", Age: 30}
	require.NoError(t, r.Insert(ctx, s))
	require.Equal(t, "5", s.ID)

	s2 := &Student{Name: "Another", Age: 31}
	require.NoError(t, r.Insert(ctx, s2))
	require.Equal(t, "6", s2.ID)
}

func TestSampleRepository_ListIsOrdered(t *testing.T) {
	r := NewSampleRepository()
	ctx := context.Background()

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	require.Equal(t, []string{"1", "2", "3", "4"}, []string{list[0].ID, list[1].ID, list[2].ID, list[3].ID})
}

func TestSampleRepository_Delete(t *testing.T) {
	r := NewSampleRepository()
	ctx := context.Background()

	require.NoError(t, r.DeleteByID(ctx, "2"))
	_, err := r.GetByID(ctx, "2")
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, r.DeleteByID(ctx, "2"), ErrNotFound)
	require.ErrorIs(t, r.DeleteByID(ctx, "does-not-exist"), ErrNotFound)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
}

func TestSampleRepository_SearchByName(t *testing.T) {
	r := NewSampleRepository()
	ctx := context.Background()

	// case-insensitive substring
	got, err := r.SearchByName(ctx, "jane")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Jane Smith", got[0].Name)

	// substring shared by two records
	got, err = r.SearchByName(ctx, "o")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(got), 2)

	// no match yields an empty slice, not an error
	got, err = r.SearchByName(ctx, "zzz")
	require.NoError(t, err)
	require.Empty(t, got)
}
