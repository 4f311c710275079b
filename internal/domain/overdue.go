package domain

import "time"

// IsOverdue reports whether an active loan's due date has passed. Overdue is
// always derived at read time so a loan paid after its due date immediately
// stops reporting as overdue.
func IsOverdue(now, dueDate time.Time, status LoanStatus) bool {
	return status == LoanStatusActive && now.After(dueDate)
}

// DaysOverdue returns how many days past due a loan is, rounded up to whole
// days and clamped at zero.
func DaysOverdue(now, dueDate time.Time) int {
	if !now.After(dueDate) {
		return 0
	}

	elapsed := now.Sub(dueDate)
	days := int(elapsed / (24 * time.Hour))
	if elapsed%(24*time.Hour) != 0 {
		days++
	}

	return days
}
