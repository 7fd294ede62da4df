package attendance

import "errors"

var (
	ErrTimesheetNotFound = errors.New("timesheet not found")
	ErrAlreadyClockedIn  = errors.New("an open timesheet already exists for today")
	ErrNotOpen           = errors.New("timesheet is not open for clock-out")
	ErrAlreadyReviewed   = errors.New("timesheet has already been reviewed")
)
