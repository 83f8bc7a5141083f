package config

import (
	"testing"
	"time"
)

func TestCutoffMinute(t *testing.T) {
	tests := []struct {
		cutoff  string
		want    int
		wantErr bool
	}{
		{cutoff: "09:00", want: 540},
		{cutoff: "00:00", want: 0},
		{cutoff: "23:59", want: 1439},
		{cutoff: "10:30", want: 630},
		{cutoff: "9", wantErr: true},
		{cutoff: "24:00", wantErr: true},
		{cutoff: "09:60", wantErr: true},
		{cutoff: "nine:zero", wantErr: true},
		{cutoff: "", wantErr: true},
	}

	for _, tc := range tests {
		got, err := Config{CheckInCutoff: tc.cutoff}.CutoffMinute()
		if tc.wantErr {
			if err == nil {
				t.Errorf("CutoffMinute(%q) succeeded, want error", tc.cutoff)
			}
			continue
		}
		if err != nil {
			t.Errorf("CutoffMinute(%q): %v", tc.cutoff, err)
			continue
		}
		if got != tc.want {
			t.Errorf("CutoffMinute(%q) = %d, want %d", tc.cutoff, got, tc.want)
		}
	}
}

func TestHalfDayThreshold(t *testing.T) {
	c := Config{HalfDayThresholdHours: 4.5}
	if got := c.HalfDayThreshold(); got != 4*time.Hour+30*time.Minute {
		t.Errorf("HalfDayThreshold() = %v, want 4h30m", got)
	}
}
