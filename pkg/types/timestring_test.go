package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "valid morning time", input: "09:00", want: "09:00"},
		{name: "valid midnight", input: "00:00", want: "00:00"},
		{name: "valid end of day", input: "23:30", want: "23:30"},
		{name: "missing leading zero", input: "9:00", wantErr: true},
		{name: "with seconds", input: "09:00:00", wantErr: true},
		{name: "out of range hour", input: "24:00", wantErr: true},
		{name: "garbage", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("09:00").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:30"), got)

	got, err = TimeString("09:45").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), got)

	// Переход через границу суток недопустим
	_, err = TimeString("23:45").AddMinutes(30)
	assert.Error(t, err)

	_, err = TimeString("00:05").AddMinutes(-10)
	assert.Error(t, err)
}

func TestTimeString_Comparisons(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:30"))
	assert.False(t, TimeString("09:30").IsBefore("09:00"))
	assert.False(t, TimeString("09:00").IsBefore("09:00"))

	assert.True(t, TimeString("10:00").IsAfter("09:59"))
	assert.False(t, TimeString("10:00").IsAfter("10:00"))

	// Некорректные значения несравнимы
	assert.False(t, TimeString("bad").IsBefore("09:00"))
	assert.False(t, TimeString("09:00").IsAfter("bad"))
}

func TestTimeString_OnDate(t *testing.T) {
	date := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

	instant, err := TimeString("14:30").OnDate(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 3, 14, 30, 0, 0, time.UTC), instant)

	_, err = TimeString("bad").OnDate(date)
	assert.Error(t, err)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	// Postgres TIME приходит со секундами
	require.NoError(t, ts.Scan("10:00:00"))
	assert.Equal(t, TimeString("10:00"), ts)

	require.NoError(t, ts.Scan([]byte("08:30:00")))
	assert.Equal(t, TimeString("08:30"), ts)

	require.NoError(t, ts.Scan(time.Date(2025, 11, 3, 16, 45, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("16:45"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("11:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "11:00", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = TimeString("25:99").Value()
	assert.Error(t, err)
}
