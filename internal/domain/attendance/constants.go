package attendance

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ReviewStatuses are the decisions a supervisor may record.
var ReviewStatuses = []string{StatusApproved, StatusRejected}
