package timezone_test

import (
	"testing"
	"time"

	"hostel/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimezoneInit(t *testing.T) {
	assert.False(t, timezone.Now().IsZero())
	assert.NotNil(t, timezone.GetLocation())
}

func TestTimezoneWithStandardLocation(t *testing.T) {
	appTime := timezone.ToAppTime(time.Now().UTC())

	assert.Equal(t, timezone.GetLocation(), appTime.Location())
}

func TestTimezoneFormat(t *testing.T) {
	testTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.NotEmpty(t, timezone.Format(testTime, "2006-01-02 15:04:05 MST"))

	parsed, err := timezone.Parse("2006-01-02", "2024-01-01")
	require.NoError(t, err)
	assert.False(t, parsed.IsZero())
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{name: "calendar date", value: "2024-03-01", want: time.Date(2024, 3, 1, 0, 0, 0, 0, timezone.GetLocation())},
		{name: "rfc3339", value: "2024-03-01T10:30:00Z", want: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)},
		{name: "garbage", value: "next week", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := timezone.ParseDate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
		})
	}
}
