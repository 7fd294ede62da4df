package payroll

const (
	// CurrentTaxYear selects the bracket schedule used for new cycles.
	CurrentTaxYear = 2026

	// FortnightsPerYear annualizes a fortnightly gross before the bracket
	// walk and de-annualizes the resulting tax.
	FortnightsPerYear = 26

	// OvertimeThresholdHours is the per-fortnight threshold beyond which
	// permanent workers earn the overtime premium.
	OvertimeThresholdHours = 80.0

	// OvertimePremiumRate is paid on top of the base rate for overtime hours.
	OvertimePremiumRate = 0.5

	EmployeeSuperRate = 0.06
	EmployerSuperRate = 0.084
)

const (
	EmploymentPermanent = "permanent"
	EmploymentTemporary = "temporary"
)

const (
	CycleStatusDraft           = "draft"
	CycleStatusVerification    = "verification"
	CycleStatusPendingApproval = "pending_approval"
	CycleStatusApproved        = "approved"
	CycleStatusPaid            = "paid"
)

const (
	PayslipStatusDraft     = "draft"
	PayslipStatusGenerated = "generated"
	PayslipStatusPaid      = "paid"
)
