package attendance

import "time"

type Timesheet struct {
	ID              string     `json:"id"`
	WorkerID        string     `json:"workerId"`
	WorkerName      string     `json:"workerName,omitempty"`
	SupervisorID    string     `json:"supervisorId,omitempty"`
	Date            time.Time  `json:"date"`
	ClockIn         string     `json:"clockIn"`
	ClockOut        string     `json:"clockOut,omitempty"`
	TotalHours      *float64   `json:"totalHours,omitempty"`
	TaskDescription string     `json:"taskDescription,omitempty"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes,omitempty"`
	ApprovedBy      string     `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}
