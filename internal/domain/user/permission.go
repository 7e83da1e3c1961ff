package user

type Permission string

const (
	// Salary
	PermissionSalaryViewOwn   Permission = "salary.view_own"
	PermissionSalaryViewAll   Permission = "salary.view_all"
	PermissionSalaryCalculate Permission = "salary.calculate"
	PermissionSalaryApprove   Permission = "salary.approve"
	PermissionSalaryConfigure Permission = "salary.configure"

	// Attendance
	PermissionAttendanceUpload  Permission = "attendance.upload"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionRulesManage       Permission = "attendance.manage_rules"

	// Invoices
	PermissionInvoiceViewOwn Permission = "invoice.view_own"
	PermissionInvoiceViewAll Permission = "invoice.view_all"
	PermissionInvoiceManage  Permission = "invoice.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionSalaryViewOwn,
		PermissionSalaryViewAll,
		PermissionSalaryCalculate,
		PermissionSalaryApprove,
		PermissionSalaryConfigure,
		PermissionAttendanceUpload,
		PermissionAttendanceViewAll,
		PermissionRulesManage,
		PermissionInvoiceViewOwn,
		PermissionInvoiceViewAll,
		PermissionInvoiceManage,
	},
	RolePrincipal: {
		// Principal approves but does not configure
		PermissionSalaryViewOwn,
		PermissionSalaryViewAll,
		PermissionSalaryCalculate,
		PermissionSalaryApprove,
		PermissionAttendanceViewAll,
		PermissionInvoiceViewOwn,
		PermissionInvoiceViewAll,
		PermissionInvoiceManage,
	},
	RoleTeacher: {
		PermissionSalaryViewOwn,
		PermissionInvoiceViewOwn,
	},
}

// HasPermission checks if role has specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
