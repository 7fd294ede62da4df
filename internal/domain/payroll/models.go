package payroll

import "time"

// WorkerProfile carries the pay terms the calculator reads. Identity fields
// are passed through for labeling only.
type WorkerProfile struct {
	ID             string  `json:"id"`
	FullName       string  `json:"fullName"`
	EmploymentType string  `json:"employmentType"`
	HourlyRate     float64 `json:"hourlyRate"`
}

// Result is one worker's itemized pay breakdown for one fortnight.
type Result struct {
	ApprovedHours   float64 `json:"approvedHours"`
	OvertimeHours   float64 `json:"overtimeHours"`
	BaseComponent   float64 `json:"baseComponent"`
	HourlyComponent float64 `json:"hourlyComponent"`
	GrossEarnings   float64 `json:"grossEarnings"`
	FortnightlyPaye float64 `json:"fortnightlyPaye"`
	EmployeeSuper   float64 `json:"employeeSuper"`
	EmployerSuper   float64 `json:"employerSuper"`
	OtherDeductions float64 `json:"otherDeductions"`
	NetPay          float64 `json:"netPay"`
}

// Deductions is the total withheld from gross on the payslip record.
func (r Result) Deductions() float64 {
	return r.FortnightlyPaye + r.EmployeeSuper + r.OtherDeductions
}

type Cycle struct {
	ID              string     `json:"id"`
	PeriodStart     time.Time  `json:"periodStart"`
	PeriodEnd       time.Time  `json:"periodEnd"`
	Status          string     `json:"status"`
	TotalWorkers    int        `json:"totalWorkers"`
	TotalGross      float64    `json:"totalGross"`
	TotalDeductions float64    `json:"totalDeductions"`
	TotalNet        float64    `json:"totalNet"`
	Notes           string     `json:"notes,omitempty"`
	CreatedBy       string     `json:"createdBy,omitempty"`
	VerifiedBy      string     `json:"verifiedBy,omitempty"`
	VerifiedAt      *time.Time `json:"verifiedAt,omitempty"`
	ApprovedBy      string     `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	PaidBy          string     `json:"paidBy,omitempty"`
	PaidAt          *time.Time `json:"paidAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type Payslip struct {
	ID          string    `json:"id"`
	CycleID     string    `json:"cycleId"`
	WorkerID    string    `json:"workerId"`
	WorkerName  string    `json:"workerName,omitempty"`
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
	TotalHours  float64   `json:"totalHours"`
	HourlyRate  float64   `json:"hourlyRate"`
	GrossPay    float64   `json:"grossPay"`
	Deductions  float64   `json:"deductions"`
	NetPay      float64   `json:"netPay"`
	Status      string    `json:"status"`
	GeneratedBy string    `json:"generatedBy,omitempty"`
	FilePath    string    `json:"filePath,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// WorkerPayData is one active worker's pay configuration as loaded for a
// cycle run. Resident is nil when HR has not recorded residency yet.
type WorkerPayData struct {
	WorkerID       string
	FullName       string
	EmploymentType string
	HourlyRate     float64
	Resident       *bool
	OtherDeduction float64
	Allowance      float64
}

type CycleSummary struct {
	TotalWorkers    int     `json:"totalWorkers"`
	TotalGross      float64 `json:"totalGross"`
	TotalDeductions float64 `json:"totalDeductions"`
	TotalNet        float64 `json:"totalNet"`
	Skipped         int     `json:"skipped"`
}
