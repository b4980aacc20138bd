package permission

// Column describes one employee table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var columnLabels = map[string]string{
	FieldName:         "Name",
	FieldJoinDate:     "Join Date",
	FieldServiceYears: "Service Years",
	FieldGender:       "Gender",
	FieldDOB:          "Date of Birth",
	FieldPhoneNo:      "Phone No",
	FieldPosition:     "Position",
}

// Policy is the employee module digested for one role.
type Policy struct {
	VisibleColumns     []Column `json:"visibleColumns"`
	AvailableActions   []string `json:"availableActions"`
	VisibleFieldCount  int      `json:"visibleFieldCount"`
	ReadableFieldCount int      `json:"readableFieldCount"`
	WritableFieldCount int      `json:"writableFieldCount"`
	HasAnyFieldAccess  bool     `json:"hasAnyFieldAccess"`
	HasAnyActionAccess bool     `json:"hasAnyActionAccess"`

	fields  map[string]FieldAccess
	actions map[string]ActionAccess
}

// EmployeePolicy aggregates the employee fields and row actions of doc.
// Output order follows EmployeeFields and EmployeeActions, never map order.
func (r *Resolver) EmployeePolicy(doc *Document, role string) Policy {
	p := Policy{
		VisibleColumns:   make([]Column, 0, len(EmployeeFields)),
		AvailableActions: make([]string, 0, len(EmployeeActions)),
		fields:           make(map[string]FieldAccess, len(EmployeeFields)+len(EmployeeDetailFields)),
		actions:          make(map[string]ActionAccess, len(EmployeeActions)+1),
	}

	for _, key := range EmployeeFields {
		access := r.Field(doc, role, ModuleEmployeeManagement, GroupFields, key)
		p.fields[key] = access
		if access.Visible {
			p.VisibleFieldCount++
			p.VisibleColumns = append(p.VisibleColumns, Column{Key: key, Label: columnLabels[key]})
		}
		if access.Read {
			p.ReadableFieldCount++
		}
		if access.Write {
			p.WritableFieldCount++
		}
	}
	for _, key := range EmployeeDetailFields {
		p.fields[key] = r.Field(doc, role, ModuleEmployeeManagement, GroupDetails, key)
	}

	for _, key := range EmployeeActions {
		access := r.Action(doc, role, ModuleEmployeeManagement, GroupActions, key)
		p.actions[key] = access
		if access.Enabled {
			p.AvailableActions = append(p.AvailableActions, key)
		}
	}
	p.actions[ActionCreate] = r.Action(doc, role, ModuleEmployeeManagement, GroupActions, ActionCreate)

	p.HasAnyFieldAccess = p.VisibleFieldCount > 0
	p.HasAnyActionAccess = len(p.AvailableActions) > 0
	return p
}

// EmployeePolicy uses the Default resolver.
func EmployeePolicy(doc *Document, role string) Policy {
	return Default.EmployeePolicy(doc, role)
}

// CanRead covers both table fields and detail fields (nrc, address).
func (p Policy) CanRead(field string) bool {
	return p.fields[field].Read
}

func (p Policy) CanWrite(field string) bool {
	return p.fields[field].Write
}

// Action returns the resolved row action, including "create".
func (p Policy) Action(name string) ActionAccess {
	return p.actions[name]
}

// DashboardWidgets lists visible dashboard widgets in canonical order.
func (r *Resolver) DashboardWidgets(doc *Document, role string) []string {
	out := make([]string, 0, len(DashboardWidgetKeys))
	for _, key := range DashboardWidgetKeys {
		if r.Field(doc, role, ModuleDashboard, GroupLists, key).Visible {
			out = append(out, key)
		}
	}
	return out
}
