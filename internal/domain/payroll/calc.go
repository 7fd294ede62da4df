package payroll

import "math"

// TimesheetLine is the slice of an attendance record the calculator needs.
type TimesheetLine struct {
	Status     string
	TotalHours float64
}

// Approved reports whether a line contributes to paid hours.
func Approved(line TimesheetLine) bool {
	return line.Status == "approved"
}

// ApprovedHours sums hours across approved lines, rounded to 2 decimals.
// Lines in any other status contribute nothing; this is not an error.
func ApprovedHours(lines []TimesheetLine) float64 {
	var total float64
	for _, line := range lines {
		if Approved(line) {
			total += line.TotalHours
		}
	}
	return round2(total)
}

// CalculateWorkerPayroll turns a worker's approved hours for one fortnight
// into a full pay breakdown. It is pure and never fails: a missing rate or
// an empty timesheet set yields a zero result, and a net driven negative by
// deductions is reported as-is. Each monetary field is rounded to 2 decimals
// as it is finalized, so the stored parts always reconcile to the cent.
func CalculateWorkerPayroll(profile WorkerProfile, lines []TimesheetLine, resident bool, allowances, otherDeductions float64) Result {
	approvedHours := ApprovedHours(lines)
	hourlyRate := profile.HourlyRate

	var baseComponent, hourlyComponent, overtimeHours float64
	if profile.EmploymentType == EmploymentTemporary {
		hourlyComponent = round2(approvedHours * hourlyRate)
	} else {
		baseComponent = round2(approvedHours * hourlyRate)
		overtimeHours = math.Max(0, approvedHours-OvertimeThresholdHours)
		// Overtime hours are already paid at full rate inside the base
		// component; this adds the 0.5x premium, 1.5x in total.
		hourlyComponent = round2(overtimeHours * hourlyRate * OvertimePremiumRate)
	}

	grossEarnings := round2(baseComponent + hourlyComponent + allowances)
	annualizedGross := grossEarnings * FortnightsPerYear
	annualPaye := AnnualPAYE(annualizedGross, BracketsFor(CurrentTaxYear, resident))
	fortnightlyPaye := round2(annualPaye / FortnightsPerYear)
	employeeSuper := round2(grossEarnings * EmployeeSuperRate)
	employerSuper := round2(grossEarnings * EmployerSuperRate)
	netPay := round2(grossEarnings - fortnightlyPaye - employeeSuper - otherDeductions)

	return Result{
		ApprovedHours:   approvedHours,
		OvertimeHours:   round2(overtimeHours),
		BaseComponent:   baseComponent,
		HourlyComponent: hourlyComponent,
		GrossEarnings:   grossEarnings,
		FortnightlyPaye: fortnightlyPaye,
		EmployeeSuper:   employeeSuper,
		EmployerSuper:   employerSuper,
		OtherDeductions: otherDeductions,
		NetPay:          netPay,
	}
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
