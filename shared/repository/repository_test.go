package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"hostel/infras/otel/mocks"
	"hostel/infras/postgres"
	"hostel/shared"
	"hostel/shared/dto"
	"hostel/shared/model"
	"hostel/shared/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTable  = "room_details"
	testEntity = "room"
	testID     = "room_id"
)

type roomRow struct {
	RoomID     string `db:"room_id"`
	RoomNumber string `db:"room_number"`
	Version    int    `db:"version"`
	model.Metadata
}

func newTestRepository(t *testing.T) (repository.Repository[roomRow], sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")
	conn := &postgres.Connection{Read: sqlxDB, Write: sqlxDB}

	return repository.NewRepository[roomRow](testEntity, testTable, testID, conn, mocks.NewOtel()), mock
}

func TestNewRepository_InsertColumns(t *testing.T) {
	repo, _ := newTestRepository(t)

	assert.Equal(t, []string{
		"room_id", "room_number", "version", "created_at", "modified_at", "created_by", "modified_by",
	}, repo.InsertColumns)
}

func TestRepository_Insert(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO room_details (room_id, room_number, version, created_at, modified_at, created_by, modified_by) VALUES ($1, $2, $3, $4, $5, $6, $7)",
	)).
		WithArgs("RM-000001", "A-101", 1, sqlmock.AnyArg(), sqlmock.AnyArg(), "admin", "admin").
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now()
	err := repo.Insert(context.Background(), roomRow{
		RoomID:     "RM-000001",
		RoomNumber: "A-101",
		Version:    1,
		Metadata:   model.Metadata{CreatedAt: now, ModifiedAt: now, CreatedBy: "admin", ModifiedBy: "admin"},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	query := regexp.QuoteMeta(
		"UPDATE room_details SET room_number = $1, version = version + 1 WHERE (room_details.room_id = $2)",
	)

	tests := []struct {
		name          string
		affected      int64
		expectedError error
	}{
		{name: "row updated", affected: 1},
		{name: "no matching row", affected: 0, expectedError: repository.ErrNoRowsAffected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestRepository(t)

			mock.ExpectExec(query).
				WithArgs("B-202", "RM-000001").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.Update(context.Background(),
				map[string]any{"room_number": "B-202", "version": 3},
				shared.FilterByID("RM-000001", testID, testTable),
			)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Update_SameColumnInFilterAndSet(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE room_details SET room_number = $1, version = version + 1 WHERE (room_details.room_id = $2 AND room_details.room_number = $3)",
	)).
		WithArgs("B-202", "RM-000001", "A-101").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(),
		map[string]any{"room_number": "B-202"},
		dto.FilterGroup{
			Operator: dto.FilterGroupOperatorAnd,
			Filters: []any{
				dto.Filter{Field: testID, Value: "RM-000001", Operator: dto.FilterOperatorEq, Table: testTable},
				dto.Filter{Field: "room_number", Value: "A-101", Operator: dto.FilterOperatorEq, Table: testTable},
			},
		},
	)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update_RequiresFilterAndFields(t *testing.T) {
	repo, mock := newTestRepository(t)

	err := repo.Update(context.Background(), map[string]any{"room_number": "B-202"}, dto.FilterGroup{})
	assert.Error(t, err)

	err = repo.Update(context.Background(), map[string]any{}, shared.FilterByID("RM-000001", testID, testTable))
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	tests := []struct {
		name          string
		affected      int64
		expectedError error
	}{
		{name: "row deleted", affected: 1},
		{name: "already deleted", affected: 0, expectedError: repository.ErrNoRowsAffected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestRepository(t)

			mock.ExpectExec(regexp.QuoteMeta("DELETE FROM room_details WHERE (room_details.room_id = $1)")).
				WithArgs("RM-000001").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.Delete(context.Background(), shared.FilterByID("RM-000001", testID, testTable))

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Get(t *testing.T) {
	columns := []string{"room_id", "room_number", "version", "created_at", "modified_at", "created_by", "modified_by"}
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo, mock := newTestRepository(t)

		mock.ExpectPrepare(`SELECT room_details\.room_id, .+ FROM room_details WHERE \(room_details\.room_id = \$1\)`).
			ExpectQuery().
			WithArgs("RM-000001").
			WillReturnRows(sqlmock.NewRows(columns).AddRow("RM-000001", "A-101", 2, now, now, "admin", "admin"))

		row, err := repo.Get(context.Background(), shared.FilterByID("RM-000001", testID, testTable))

		require.NoError(t, err)
		assert.Equal(t, "A-101", row.RoomNumber)
		assert.Equal(t, 2, row.Version)
		assert.Equal(t, "admin", row.CreatedBy)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row yields zero value", func(t *testing.T) {
		repo, mock := newTestRepository(t)

		mock.ExpectPrepare(`SELECT .+ FROM room_details`).
			ExpectQuery().
			WithArgs("RM-999999").
			WillReturnRows(sqlmock.NewRows(columns))

		row, err := repo.Get(context.Background(), shared.FilterByID("RM-999999", testID, testTable))

		require.NoError(t, err)
		assert.Empty(t, row.RoomID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_GetAllAndCount(t *testing.T) {
	repo, mock := newTestRepository(t)
	now := time.Now()

	filter := dto.FilterGroup{
		Filters: []any{dto.Filter{Field: "room_number", Value: "A", Operator: dto.FilterOperatorLike, Table: testTable}},
	}

	mock.ExpectPrepare(`SELECT .+ FROM room_details WHERE \(LOWER\(room_details\.room_number\) LIKE LOWER\(\$1\)\) ORDER BY room_number ASC LIMIT \$2 OFFSET \$3`).
		ExpectQuery().
		WithArgs("%A%", 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"room_id", "room_number", "version", "created_at", "modified_at", "created_by", "modified_by"}).
			AddRow("RM-000011", "A-111", 1, now, now, "admin", "admin"))

	rows, err := repo.GetAll(context.Background(), dto.QueryParams{Page: 2, Limit: 10, SortBy: "room_number", SortDir: "ASC"}, filter)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "RM-000011", rows[0].RoomID)

	mock.ExpectPrepare(regexp.QuoteMeta("SELECT COUNT(room_details.room_id) FROM room_details")).
		ExpectQuery().
		WithArgs("%A%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	count, err := repo.Count(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 11, count)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Exist(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectPrepare(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM room_details WHERE (room_details.room_id = $1))")).
		ExpectQuery().
		WithArgs("RM-000001").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exist, err := repo.Exist(context.Background(), shared.FilterByID("RM-000001", testID, testTable))
	require.NoError(t, err)
	assert.True(t, exist)

	_, err = repo.Exist(context.Background(), dto.FilterGroup{})
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
