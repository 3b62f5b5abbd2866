package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := [][]any{
		{"run-1", 1, `{"period":1}`},
		{"run-1", 2, `{"period":2}`},
	}

	mock.ExpectCopyFrom(pgx.Identifier{"snapshots"}, []string{"run_id", "period", "data"}).
		WillReturnResult(2)

	n, err := CopyFrom(context.Background(), mock, "snapshots", []string{"run_id", "period", "data"}, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFromEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	n, err := CopyFrom(context.Background(), mock, "snapshots", []string{"run_id"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFromError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"snapshots"}, []string{"run_id"}).
		WillReturnError(eris.New("copy failed"))

	_, err = CopyFrom(context.Background(), mock, "snapshots", []string{"run_id"}, [][]any{{"run-1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO snapshots")
}
