package plan

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDate_MarshalUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name        string
		yamlInput   string
		expectError bool
		expectedDay string
	}{
		{
			name:        "YYYY-MM-DD format",
			yamlInput:   `start_date: "2025-06-13"`,
			expectedDay: "2025-06-13",
		},
		{
			name:        "RFC3339 format",
			yamlInput:   `start_date: 2025-05-02T00:00:00Z`,
			expectedDay: "2025-05-02",
		},
		{
			name:        "RFC3339Nano format with timezone keeps the local day",
			yamlInput:   `start_date: 2025-06-04T20:05:49.744339678-07:00`,
			expectedDay: "2025-06-04",
		},
		{
			name:        "invalid format",
			yamlInput:   `start_date: "invalid-date"`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var record struct {
				StartDate Date `yaml:"start_date"`
			}

			err := yaml.Unmarshal([]byte(tt.yamlInput), &record)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedDay, record.StartDate.String())

			data, err := yaml.Marshal(record)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.expectedDay)
			assert.NotContains(t, string(data), "T00:00:00")
		})
	}
}

func TestDate_JSON(t *testing.T) {
	m := Material{ID: "math", StartDate: monday, Deadline: datePtr(friday)}

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"startDate":"2025-06-02"`)
	assert.Contains(t, string(data), `"deadline":"2025-06-06"`)

	var got Material
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, m.StartDate, got.StartDate)
	assert.Equal(t, *m.Deadline, *got.Deadline)

	assert.Error(t, json.Unmarshal([]byte(`{"startDate":"06/02/2025"}`), &got))

	got = Material{}
	require.NoError(t, json.Unmarshal([]byte(`{"startDate":""}`), &got))
	assert.True(t, got.StartDate.IsZero())
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-06-04")
	require.NoError(t, err)
	assert.Equal(t, wednesday, got)

	_, err = ParseDate("2025/06/04")
	assert.EqualError(t, err, "unable to parse date '2025/06/04': expected YYYY-MM-DD format")
}

func TestDate_Arithmetic(t *testing.T) {
	assert.Equal(t, friday, monday.AddDays(4))
	assert.Equal(t, NewDate(2025, time.May, 31), monday.AddDays(-2))
	assert.Equal(t, 4, monday.DaysUntil(friday))
	assert.Equal(t, -4, friday.DaysUntil(monday))
	assert.Equal(t, 0, friday.DaysUntil(friday))
	assert.True(t, monday.Before(tuesday))
	assert.True(t, tuesday.After(monday))
	assert.True(t, monday.Equal(NewDate(2025, time.June, 2)))

	// Across the March DST switch a calendar day is still one day.
	assert.Equal(t, 1, NewDate(2025, time.March, 9).DaysUntil(NewDate(2025, time.March, 10)))
}

func TestDateOf(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	instant := time.Date(2025, time.June, 3, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, tuesday, DateOf(instant))
	assert.Equal(t, wednesday, DateOf(instant.In(tokyo)))
}

func TestDate_At(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	got := wednesday.At(14, tokyo)
	assert.Equal(t, time.Date(2025, time.June, 4, 14, 0, 0, 0, tokyo), got)
}
