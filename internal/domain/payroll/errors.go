package payroll

import "errors"

var (
	ErrCycleNotFound     = errors.New("payroll cycle not found")
	ErrPayslipNotFound   = errors.New("payslip not found")
	ErrInvalidTransition = errors.New("invalid payroll cycle status transition")
	ErrCycleNotRunnable  = errors.New("payroll cycle can only be run while in draft or verification")
)
