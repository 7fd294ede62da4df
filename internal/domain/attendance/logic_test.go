package attendance

import "testing"

func TestShiftHours(t *testing.T) {
	tests := []struct {
		name     string
		clockIn  string
		clockOut string
		want     float64
		wantErr  bool
	}{
		{name: "standard day", clockIn: "08:00:00", clockOut: "16:30:00", want: 8.5},
		{name: "short shift", clockIn: "09:15:00", clockOut: "09:45:00", want: 0.5},
		{name: "crosses midnight", clockIn: "22:00:00", clockOut: "06:00:00", want: 8},
		{name: "zero length", clockIn: "08:00:00", clockOut: "08:00:00", want: 0},
		{name: "rounds to cents of an hour", clockIn: "08:00:00", clockOut: "08:10:00", want: 0.17},
		{name: "bad clock in", clockIn: "8am", clockOut: "16:00:00", wantErr: true},
		{name: "bad clock out", clockIn: "08:00:00", clockOut: "late", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := ShiftHours(tc.clockIn, tc.clockOut)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v hours, got %v", tc.want, got)
			}
		})
	}
}

func TestCanReview(t *testing.T) {
	if !CanReview(StatusPending) {
		t.Fatal("pending timesheets must be reviewable")
	}
	if CanReview(StatusApproved) || CanReview(StatusRejected) {
		t.Fatal("reviewed timesheets must be immutable")
	}
}
