package classroom

import "testing"

func TestPercentage(t *testing.T) {
	tests := []struct {
		name     string
		active   int
		duration int
		want     float64
	}{
		{name: "zero duration", active: 30, duration: 0, want: 0},
		{name: "negative duration", active: 30, duration: -10, want: 0},
		{name: "no focus", active: 0, duration: 60, want: 0},
		{name: "half", active: 30, duration: 60, want: 50},
		{name: "full", active: 60, duration: 60, want: 100},
		{name: "overreported clamps to 100", active: 90, duration: 60, want: 100},
		{name: "negative active clamps to 0", active: -5, duration: 60, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentage(tt.active, tt.duration); got != tt.want {
				t.Errorf("Percentage(%d, %d) = %v, want %v", tt.active, tt.duration, got, tt.want)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		pct  float64
		want AttendanceStatus
	}{
		{pct: 100, want: AttendancePresent},
		{pct: 80, want: AttendancePresent},
		{pct: 79.9, want: AttendanceLate},
		{pct: 50, want: AttendanceLate},
		{pct: 49.9, want: AttendanceAbsent},
		{pct: 0, want: AttendanceAbsent},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.pct); got != tt.want {
			t.Errorf("StatusFor(%v) = %v, want %v", tt.pct, got, tt.want)
		}
	}
}

func TestSessionStatusCanTransition(t *testing.T) {
	tests := []struct {
		from SessionStatus
		to   SessionStatus
		want bool
	}{
		{from: SessionScheduled, to: SessionActive, want: true},
		{from: SessionScheduled, to: SessionCancelled, want: true},
		{from: SessionScheduled, to: SessionCompleted, want: false},
		{from: SessionActive, to: SessionCompleted, want: true},
		{from: SessionActive, to: SessionCancelled, want: true},
		{from: SessionActive, to: SessionScheduled, want: false},
		{from: SessionCompleted, to: SessionActive, want: false},
		{from: SessionCompleted, to: SessionCancelled, want: false},
		{from: SessionCancelled, to: SessionScheduled, want: false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s.CanTransition(%s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
