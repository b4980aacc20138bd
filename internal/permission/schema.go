// Package permission holds the role permission document, the resolver that
// turns stored entries into decisions, and the aggregators built on top of it.
package permission

import (
	"bytes"
	"encoding/json"
)

// Module is a top-level key of the permission document.
type Module string

const (
	ModuleDashboard          Module = "dashboard"
	ModuleEmployeeManagement Module = "employeeManagement"
	ModuleUserManagement     Module = "userManagement"
)

// Group is a sub-object of a module.
type Group string

const (
	GroupLists    Group = "lists"
	GroupFields   Group = "fields"
	GroupDetails  Group = "details"
	GroupBirthday Group = "birthday"
	GroupActions  Group = "actions"
	GroupLeave    Group = "leave"
	GroupBulk     Group = "bulk"
)

// Entry keys of the employee module.
const (
	FieldName         = "name"
	FieldJoinDate     = "joinDate"
	FieldServiceYears = "serviceYears"
	FieldGender       = "gender"
	FieldDOB          = "dob"
	FieldPhoneNo      = "phoneNo"
	FieldPosition     = "position"

	DetailNRC     = "nrc"
	DetailAddress = "address"

	ActionView   = "view"
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionDelete = "delete"
	ActionExport = "export"

	LeaveRequest = "request"
	LeaveApprove = "approve"
)

// Dashboard widget keys, stored under dashboard.lists.
const (
	WidgetTotalEmployees       = "totalEmployees"
	WidgetGenderDistribution   = "genderDistribution"
	WidgetPositionDistribution = "positionDistribution"
	WidgetAverageAge           = "averageAge"
	WidgetAverageServiceYears  = "averageServiceYears"
	WidgetUpcomingBirthdays    = "upcomingBirthdays"
	WidgetRecentEmployees      = "recentEmployees"
)

// User management list keys.
const (
	ListUsers = "users"
	ListRoles = "roles"
)

var (
	// EmployeeFields is the canonical column order.
	EmployeeFields = []string{FieldName, FieldJoinDate, FieldServiceYears, FieldGender, FieldDOB, FieldPhoneNo, FieldPosition}

	EmployeeDetailFields = []string{DetailNRC, DetailAddress}

	// EmployeeActions is the canonical order of row actions.
	EmployeeActions = []string{ActionView, ActionEdit, ActionDelete}

	DashboardWidgetKeys = []string{
		WidgetTotalEmployees,
		WidgetGenderDistribution,
		WidgetPositionDistribution,
		WidgetAverageAge,
		WidgetAverageServiceYears,
		WidgetUpcomingBirthdays,
		WidgetRecentEmployees,
	}
)

// Section is one module of the document. Field-shaped groups hold
// FieldPermission entries, action-shaped groups hold ActionPermission entries.
type Section struct {
	Lists    map[string]FieldPermission  `json:"lists,omitempty"`
	Fields   map[string]FieldPermission  `json:"fields,omitempty"`
	Details  map[string]FieldPermission  `json:"details,omitempty"`
	Birthday map[string]FieldPermission  `json:"birthday,omitempty"`
	Actions  map[string]ActionPermission `json:"actions,omitempty"`
	Leave    map[string]ActionPermission `json:"leave,omitempty"`
	Bulk     map[string]ActionPermission `json:"bulk,omitempty"`
}

// UnmarshalJSON decodes each group independently; a group with the wrong
// shape is dropped instead of failing the whole document.
func (s *Section) UnmarshalJSON(data []byte) error {
	*s = Section{}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	for key, value := range raw {
		switch Group(key) {
		case GroupLists:
			s.Lists = decodeFieldGroup(value)
		case GroupFields:
			s.Fields = decodeFieldGroup(value)
		case GroupDetails:
			s.Details = decodeFieldGroup(value)
		case GroupBirthday:
			s.Birthday = decodeFieldGroup(value)
		case GroupActions:
			s.Actions = decodeActionGroup(value)
		case GroupLeave:
			s.Leave = decodeActionGroup(value)
		case GroupBulk:
			s.Bulk = decodeActionGroup(value)
		}
	}
	return nil
}

func decodeFieldGroup(data json.RawMessage) map[string]FieldPermission {
	var group map[string]FieldPermission
	if err := json.Unmarshal(data, &group); err != nil {
		return nil
	}
	return group
}

func decodeActionGroup(data json.RawMessage) map[string]ActionPermission {
	var group map[string]ActionPermission
	if err := json.Unmarshal(data, &group); err != nil {
		return nil
	}
	return group
}

func (s *Section) fieldGroup(g Group) map[string]FieldPermission {
	if s == nil {
		return nil
	}
	switch g {
	case GroupLists:
		return s.Lists
	case GroupFields:
		return s.Fields
	case GroupDetails:
		return s.Details
	case GroupBirthday:
		return s.Birthday
	}
	return nil
}

func (s *Section) actionGroup(g Group) map[string]ActionPermission {
	if s == nil {
		return nil
	}
	switch g {
	case GroupActions:
		return s.Actions
	case GroupLeave:
		return s.Leave
	case GroupBulk:
		return s.Bulk
	}
	return nil
}

// Document is the permissions document stored on a role.
type Document struct {
	Dashboard          *Section `json:"dashboard,omitempty"`
	EmployeeManagement *Section `json:"employeeManagement,omitempty"`
	UserManagement     *Section `json:"userManagement,omitempty"`
}

func (d *Document) UnmarshalJSON(data []byte) error {
	*d = Document{}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	for key, value := range raw {
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			continue
		}
		var section Section
		_ = json.Unmarshal(value, &section)
		switch Module(key) {
		case ModuleDashboard:
			d.Dashboard = &section
		case ModuleEmployeeManagement:
			d.EmployeeManagement = &section
		case ModuleUserManagement:
			d.UserManagement = &section
		}
	}
	return nil
}

// Section returns the module section or nil. Safe on a nil document.
func (d *Document) Section(m Module) *Section {
	if d == nil {
		return nil
	}
	switch m {
	case ModuleDashboard:
		return d.Dashboard
	case ModuleEmployeeManagement:
		return d.EmployeeManagement
	case ModuleUserManagement:
		return d.UserManagement
	}
	return nil
}

// Field looks up a raw field entry. Missing entries come back unset.
func (d *Document) Field(m Module, g Group, key string) FieldPermission {
	return d.Section(m).fieldGroup(g)[key]
}

// Action looks up a raw action entry. Missing entries come back unset.
func (d *Document) Action(m Module, g Group, key string) ActionPermission {
	return d.Section(m).actionGroup(g)[key]
}

// IsEmpty is true when no module is present.
func (d *Document) IsEmpty() bool {
	return d == nil || (d.Dashboard == nil && d.EmployeeManagement == nil && d.UserManagement == nil)
}

// Parse decodes a stored document. A JSON null (or empty input) yields nil,
// which every lookup treats as "no permissions". Anything that is not an
// object is reported as an error so writers can reject it.
func Parse(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '{' {
		return nil, ErrNotAnObject
	}
	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// MustJSON encodes the document; encoding a Document cannot fail.
func (d *Document) MustJSON() []byte {
	if d == nil {
		return []byte("null")
	}
	data, err := json.Marshal(d)
	if err != nil {
		panic(err)
	}
	return data
}
