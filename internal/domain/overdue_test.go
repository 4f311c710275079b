package domain

import (
	"testing"
	"time"
)

func TestIsOverdue(t *testing.T) {
	dueDate := time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		now    time.Time
		status LoanStatus
		want   bool
	}{
		{
			name:   "active past due",
			now:    dueDate.AddDate(0, 0, 1),
			status: LoanStatusActive,
			want:   true,
		},
		{
			name:   "active before due",
			now:    dueDate.AddDate(0, 0, -1),
			status: LoanStatusActive,
			want:   false,
		},
		{
			name:   "active exactly at due",
			now:    dueDate,
			status: LoanStatusActive,
			want:   false,
		},
		{
			name:   "paid past due",
			now:    dueDate.AddDate(0, 0, 30),
			status: LoanStatusPaid,
			want:   false,
		},
		{
			name:   "cancelled past due",
			now:    dueDate.AddDate(0, 0, 30),
			status: LoanStatusCancelled,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOverdue(tt.now, dueDate, tt.status); got != tt.want {
				t.Errorf("IsOverdue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaysOverdue(t *testing.T) {
	dueDate := time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{
			name: "before due clamps to zero",
			now:  dueDate.AddDate(0, 0, -3),
			want: 0,
		},
		{
			name: "exactly at due",
			now:  dueDate,
			want: 0,
		},
		{
			name: "one day late",
			now:  dueDate.AddDate(0, 0, 1),
			want: 1,
		},
		{
			name: "partial day rounds up",
			now:  dueDate.Add(6 * time.Hour),
			want: 1,
		},
		{
			name: "one week and a bit",
			now:  dueDate.AddDate(0, 0, 7).Add(time.Minute),
			want: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysOverdue(tt.now, dueDate); got != tt.want {
				t.Errorf("DaysOverdue = %d, want %d", got, tt.want)
			}
		})
	}
}
