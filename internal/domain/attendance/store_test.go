package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func TestStoreHasOpen(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	store := NewStore(mock)

	today := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("clock_out IS NULL").
		WithArgs("worker-1", today).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	open, err := store.HasOpen(context.Background(), "worker-1", today)
	require.NoError(t, err)
	require.True(t, open)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreSetReview(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	store := NewStore(mock)

	mock.ExpectExec("UPDATE timesheets").
		WithArgs(StatusApproved, "looks right", "supervisor-1", "sheet-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = store.SetReview(context.Background(), "sheet-1", StatusApproved, "looks right", "supervisor-1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
