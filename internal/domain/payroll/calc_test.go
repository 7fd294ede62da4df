package payroll

import (
	"math"
	"testing"
)

func TestApprovedHoursIgnoresUnapprovedLines(t *testing.T) {
	lines := []TimesheetLine{
		{Status: "approved", TotalHours: 8},
		{Status: "pending", TotalHours: 8},
		{Status: "rejected", TotalHours: 12},
		{Status: "approved", TotalHours: 7.5},
		{Status: "approved", TotalHours: 0},
	}

	if got := ApprovedHours(lines); got != 15.5 {
		t.Fatalf("expected 15.5 approved hours, got %v", got)
	}
}

func TestApprovedHoursEmpty(t *testing.T) {
	if got := ApprovedHours(nil); got != 0 {
		t.Fatalf("expected 0 hours for empty input, got %v", got)
	}
}

func TestCalculateTemporaryWorker(t *testing.T) {
	profile := WorkerProfile{EmploymentType: EmploymentTemporary, HourlyRate: 10}
	lines := []TimesheetLine{{Status: "approved", TotalHours: 40}}

	result := CalculateWorkerPayroll(profile, lines, true, 0, 0)

	if result.HourlyComponent != 400 {
		t.Fatalf("expected hourly component 400, got %v", result.HourlyComponent)
	}
	if result.BaseComponent != 0 {
		t.Fatalf("expected base component 0, got %v", result.BaseComponent)
	}
	if result.OvertimeHours != 0 {
		t.Fatalf("expected no overtime for temporary worker, got %v", result.OvertimeHours)
	}
	if result.GrossEarnings != 400 {
		t.Fatalf("expected gross 400, got %v", result.GrossEarnings)
	}
}

func TestCalculatePermanentWorkerOvertime(t *testing.T) {
	profile := WorkerProfile{EmploymentType: EmploymentPermanent, HourlyRate: 10}
	lines := []TimesheetLine{{Status: "approved", TotalHours: 100}}

	result := CalculateWorkerPayroll(profile, lines, true, 0, 0)

	if result.BaseComponent != 1000 {
		t.Fatalf("expected base component 1000, got %v", result.BaseComponent)
	}
	if result.OvertimeHours != 20 {
		t.Fatalf("expected 20 overtime hours, got %v", result.OvertimeHours)
	}
	// Overtime hours are in the base at full rate and earn a further 0.5x
	// premium here, 1.5x total.
	if result.HourlyComponent != 100 {
		t.Fatalf("expected hourly component 100, got %v", result.HourlyComponent)
	}
	if result.GrossEarnings != 1100 {
		t.Fatalf("expected gross 1100, got %v", result.GrossEarnings)
	}
}

func TestCalculateUnknownEmploymentTypeTakesPermanentBranch(t *testing.T) {
	profile := WorkerProfile{EmploymentType: "", HourlyRate: 10}
	lines := []TimesheetLine{{Status: "approved", TotalHours: 90}}

	result := CalculateWorkerPayroll(profile, lines, true, 0, 0)
	if result.BaseComponent != 900 || result.OvertimeHours != 10 {
		t.Fatalf("expected permanent branch, got base %v overtime %v", result.BaseComponent, result.OvertimeHours)
	}
}

func TestCalculateEndToEndResidentPermanent(t *testing.T) {
	profile := WorkerProfile{EmploymentType: EmploymentPermanent, HourlyRate: 25}
	lines := []TimesheetLine{
		{Status: "approved", TotalHours: 45},
		{Status: "approved", TotalHours: 45},
		{Status: "pending", TotalHours: 10},
	}

	result := CalculateWorkerPayroll(profile, lines, true, 0, 0)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"approvedHours", result.ApprovedHours, 90},
		{"baseComponent", result.BaseComponent, 2250},
		{"overtimeHours", result.OvertimeHours, 10},
		{"hourlyComponent", result.HourlyComponent, 125},
		{"grossEarnings", result.GrossEarnings, 2375},
		// annualized 61750 lands in the [33001, 70000] band:
		// 3900 + 28750*0.35 = 13962.50 a year, 537.02 a fortnight
		{"fortnightlyPaye", result.FortnightlyPaye, 537.02},
		{"employeeSuper", result.EmployeeSuper, 142.50},
		{"employerSuper", result.EmployerSuper, 199.50},
		{"netPay", result.NetPay, 1695.48},
	}
	for _, check := range checks {
		if check.got != check.want {
			t.Fatalf("%s: expected %v, got %v", check.name, check.want, check.got)
		}
	}
}

func TestCalculateZeroInputsYieldZeroResult(t *testing.T) {
	result := CalculateWorkerPayroll(WorkerProfile{EmploymentType: EmploymentPermanent, HourlyRate: 25}, nil, true, 0, 0)

	if result.GrossEarnings != 0 || result.FortnightlyPaye != 0 ||
		result.EmployeeSuper != 0 || result.EmployerSuper != 0 || result.NetPay != 0 {
		t.Fatalf("expected all-zero result, got %+v", result)
	}
}

func TestCalculateMissingRateProducesZeroGross(t *testing.T) {
	lines := []TimesheetLine{{Status: "approved", TotalHours: 80}}
	result := CalculateWorkerPayroll(WorkerProfile{EmploymentType: EmploymentPermanent}, lines, true, 0, 0)

	if result.ApprovedHours != 80 {
		t.Fatalf("expected hours preserved, got %v", result.ApprovedHours)
	}
	if result.GrossEarnings != 0 || result.NetPay != 0 {
		t.Fatalf("expected zero pay without a configured rate, got %+v", result)
	}
}

func TestCalculateDeterministic(t *testing.T) {
	profile := WorkerProfile{EmploymentType: EmploymentTemporary, HourlyRate: 17.33}
	lines := []TimesheetLine{
		{Status: "approved", TotalHours: 38.25},
		{Status: "approved", TotalHours: 41.75},
	}

	first := CalculateWorkerPayroll(profile, lines, false, 120, 35.5)
	second := CalculateWorkerPayroll(profile, lines, false, 120, 35.5)
	if first != second {
		t.Fatalf("expected identical results, got %+v vs %+v", first, second)
	}
}

func TestCalculateRoundingInvariant(t *testing.T) {
	// Every stored field is rounded before net is derived, so the persisted
	// parts must reconcile to the cent.
	profiles := []WorkerProfile{
		{EmploymentType: EmploymentPermanent, HourlyRate: 13.37},
		{EmploymentType: EmploymentTemporary, HourlyRate: 21.99},
		{EmploymentType: EmploymentPermanent, HourlyRate: 55.01},
	}
	lines := []TimesheetLine{
		{Status: "approved", TotalHours: 37.33},
		{Status: "approved", TotalHours: 44.67},
		{Status: "approved", TotalHours: 9.99},
	}

	for _, profile := range profiles {
		result := CalculateWorkerPayroll(profile, lines, true, 12.34, 5.67)
		recomputed := math.Round((result.GrossEarnings-result.FortnightlyPaye-result.EmployeeSuper-result.OtherDeductions)*100) / 100
		if result.NetPay != recomputed {
			t.Fatalf("rate %v: net %v does not reconcile with parts (%v)", profile.HourlyRate, result.NetPay, recomputed)
		}
	}
}

func TestCalculateNegativeNetNotClamped(t *testing.T) {
	profile := WorkerProfile{EmploymentType: EmploymentTemporary, HourlyRate: 10}
	lines := []TimesheetLine{{Status: "approved", TotalHours: 10}}

	result := CalculateWorkerPayroll(profile, lines, true, 0, 500)
	if result.NetPay >= 0 {
		t.Fatalf("expected negative net when deductions exceed gross, got %v", result.NetPay)
	}
}

func TestCalculateAllowancesFlowIntoGross(t *testing.T) {
	profile := WorkerProfile{EmploymentType: EmploymentTemporary, HourlyRate: 10}
	lines := []TimesheetLine{{Status: "approved", TotalHours: 40}}

	result := CalculateWorkerPayroll(profile, lines, true, 150, 0)
	if result.GrossEarnings != 550 {
		t.Fatalf("expected gross 550 with allowance, got %v", result.GrossEarnings)
	}
}

func TestCalculateNonResidentPaysFromFirstKina(t *testing.T) {
	profile := WorkerProfile{EmploymentType: EmploymentTemporary, HourlyRate: 10}
	lines := []TimesheetLine{{Status: "approved", TotalHours: 10}}

	resident := CalculateWorkerPayroll(profile, lines, true, 0, 0)
	nonResident := CalculateWorkerPayroll(profile, lines, false, 0, 0)

	if resident.FortnightlyPaye != 0 {
		t.Fatalf("expected no resident tax inside the tax-free band, got %v", resident.FortnightlyPaye)
	}
	// annualized 2600 at 22%: (2600 + 1) * 0.22 / 26
	if nonResident.FortnightlyPaye != 22.01 {
		t.Fatalf("expected non-resident paye 22.01, got %v", nonResident.FortnightlyPaye)
	}
}
