package postgres

import (
	"testing"

	"hostel/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name     string
		endpoint config.PostgresEndpoint
		prefix   string
		expected string
	}{
		{
			name: "defaults sslmode and escapes credentials",
			endpoint: config.PostgresEndpoint{
				Host: "db", Port: "5432", Username: "hostel", Password: "p@ss/word", Name: "hostel",
			},
			expected: "postgres://hostel:p%40ss%2Fword@db:5432/hostel?sslmode=disable",
		},
		{
			name: "prefix and timezone",
			endpoint: config.PostgresEndpoint{
				Host: "db", Port: "6432", Username: "u", Password: "p", Name: "hostel",
				SSLMode: "require", Timezone: "Asia/Jakarta",
			},
			prefix:   "test_",
			expected: "postgres://u:p@db:6432/test_hostel?sslmode=require&timezone=Asia%2FJakarta",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DSN(tt.endpoint, tt.prefix))
		})
	}
}

func TestConnectionClose(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := sqlx.NewDb(raw, "sqlmock")
	mock.ExpectClose()

	conn := &Connection{Read: db, Write: db}
	require.NoError(t, conn.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
