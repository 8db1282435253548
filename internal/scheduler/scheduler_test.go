package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	cases := []struct {
		in        string
		hour, min int
		wantErr   bool
	}{
		{in: "09:00", hour: 9, min: 0},
		{in: "9:05", hour: 9, min: 5},
		{in: "23:59", hour: 23, min: 59},
		{in: "00:00", hour: 0, min: 0},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "9h00", wantErr: true},
		{in: "", wantErr: true},
		{in: "12:0", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			hour, min, err := parseTime(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.hour, hour)
			assert.Equal(t, tc.min, min)
		})
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New("09:00", "Mars/Olympus", func() {})
	assert.Error(t, err)

	_, err = New("morning", "UTC", func() {})
	assert.Error(t, err)
}

func TestSchedulerStartStop(t *testing.T) {
	s, err := New("09:00", "Europe/Paris", func() {})
	require.NoError(t, err)

	s.Start()
	<-s.Stop().Done()
}
