package notifications

const (
	TypeTimesheetSubmitted = "timesheet_submitted"
	TypeTimesheetApproved  = "timesheet_approved"
	TypeTimesheetRejected  = "timesheet_rejected"
	TypePayslipPublished   = "payslip_published"
	TypeCycleStatusChanged = "cycle_status_changed"
)
