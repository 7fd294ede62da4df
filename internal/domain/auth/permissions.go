package auth

const (
	RoleWorker         = "worker"
	RoleSupervisor     = "supervisor"
	RolePayrollOfficer = "payroll_officer"
	RoleFinance        = "finance"
	RoleCEO            = "ceo"
)

const (
	PermAttendanceRead    = "attendance.read"
	PermAttendanceWrite   = "attendance.write"
	PermAttendanceApprove = "attendance.approve"
	PermWorkersRead       = "workers.read"
	PermWorkersWrite      = "workers.write"
	PermPayrollRead       = "payroll.read"
	PermPayrollRun        = "payroll.run"
	PermPayrollVerify     = "payroll.verify"
	PermPayrollApprove    = "payroll.approve"
	PermPayrollPay        = "payroll.pay"
	PermNotificationsRead = "notifications.read"
	PermAuditRead         = "audit.read"
	PermMetricsRead       = "metrics.read"
)

var Roles = []string{RoleWorker, RoleSupervisor, RolePayrollOfficer, RoleFinance, RoleCEO}

// RolePermissions is the static grant table. Workers see their own records;
// supervisors add team review; the payroll officer prepares and runs cycles;
// finance verifies and pays; the CEO approves and can see everything.
var RolePermissions = map[string][]string{
	RoleWorker: {
		PermAttendanceRead,
		PermAttendanceWrite,
		PermPayrollRead,
		PermNotificationsRead,
	},
	RoleSupervisor: {
		PermAttendanceRead,
		PermAttendanceWrite,
		PermAttendanceApprove,
		PermWorkersRead,
		PermPayrollRead,
		PermNotificationsRead,
	},
	RolePayrollOfficer: {
		PermAttendanceRead,
		PermWorkersRead,
		PermWorkersWrite,
		PermPayrollRead,
		PermPayrollRun,
		PermNotificationsRead,
	},
	RoleFinance: {
		PermAttendanceRead,
		PermWorkersRead,
		PermPayrollRead,
		PermPayrollVerify,
		PermPayrollPay,
		PermAuditRead,
		PermNotificationsRead,
	},
	RoleCEO: {
		PermAttendanceRead,
		PermAttendanceApprove,
		PermWorkersRead,
		PermWorkersWrite,
		PermPayrollRead,
		PermPayrollRun,
		PermPayrollVerify,
		PermPayrollApprove,
		PermPayrollPay,
		PermAuditRead,
		PermNotificationsRead,
		PermMetricsRead,
	},
}

// HasPermission checks the static grant table.
func HasPermission(role, permission string) bool {
	for _, granted := range RolePermissions[role] {
		if granted == permission {
			return true
		}
	}
	return false
}
