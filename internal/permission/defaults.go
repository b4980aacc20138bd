package permission

import "errors"

// SuperRoleName is the role that always holds every permission.
const SuperRoleName = "Administrator"

var ErrNotAnObject = errors.New("permissions must be a JSON object")

// IsSuperRole is the default super-role predicate.
func IsSuperRole(role string) bool {
	return role == SuperRoleName
}

// FullAccess returns the document stored on the seeded Administrator role:
// every known entry granted, actions at scope "all".
func FullAccess() *Document {
	return &Document{
		Dashboard: &Section{
			Lists: allFields(DashboardWidgetKeys...),
		},
		EmployeeManagement: &Section{
			Lists:    allFields("employees"),
			Fields:   allFields(EmployeeFields...),
			Details:  allFields(EmployeeDetailFields...),
			Birthday: allFields(ActionView),
			Actions:  allActions(ActionView, ActionCreate, ActionEdit, ActionDelete),
			Leave:    allActions(ActionView, LeaveRequest, LeaveApprove),
			Bulk:     allActions(ActionDelete, ActionExport),
		},
		UserManagement: &Section{
			Lists:   allFields(ListUsers, ListRoles),
			Actions: allActions(ActionView, ActionCreate, ActionEdit, ActionDelete),
		},
	}
}

func allFields(keys ...string) map[string]FieldPermission {
	out := make(map[string]FieldPermission, len(keys))
	for _, k := range keys {
		out[k] = ModernField(true, true)
	}
	return out
}

func allActions(keys ...string) map[string]ActionPermission {
	out := make(map[string]ActionPermission, len(keys))
	for _, k := range keys {
		out[k] = ModernAction(true, ScopeAll)
	}
	return out
}
