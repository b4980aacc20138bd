package permission

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *Document {
	t.Helper()
	doc, err := Parse([]byte(raw))
	require.NoError(t, err)
	return doc
}

func columnKeys(cols []Column) []string {
	keys := make([]string, 0, len(cols))
	for _, c := range cols {
		keys = append(keys, c.Key)
	}
	return keys
}

func TestEmployeePolicy_MixedShapes(t *testing.T) {
	doc := mustParse(t, `{
		"employeeManagement": {
			"fields": {
				"position": {"read": true, "write": false},
				"phoneNo": false,
				"dob": {"read": false, "write": true},
				"name": true,
				"gender": {"read": true, "write": true},
				"joinDate": "broken"
			},
			"details": {"nrc": {"read": true, "write": false}},
			"actions": {
				"delete": {"enabled": true, "scope": "own"},
				"view": true,
				"edit": {"enabled": false, "scope": "all"},
				"create": {"enabled": true, "scope": "all"}
			}
		}
	}`)

	p := EmployeePolicy(doc, "Leader")

	assert.Equal(t, []string{FieldName, FieldGender, FieldPosition}, columnKeys(p.VisibleColumns))
	assert.Equal(t, "Name", p.VisibleColumns[0].Label)
	assert.Equal(t, []string{ActionView, ActionDelete}, p.AvailableActions)
	assert.Equal(t, 3, p.VisibleFieldCount)
	assert.Equal(t, 3, p.ReadableFieldCount)
	assert.Equal(t, 3, p.WritableFieldCount) // name, gender, dob
	assert.True(t, p.HasAnyFieldAccess)
	assert.True(t, p.HasAnyActionAccess)

	assert.True(t, p.CanRead(DetailNRC))
	assert.False(t, p.CanWrite(DetailNRC))
	assert.False(t, p.CanRead(DetailAddress))
	assert.True(t, p.CanWrite(FieldDOB))
	assert.False(t, p.CanRead(FieldDOB))
	assert.True(t, p.Action(ActionCreate).CanAccessAll)
}

func TestEmployeePolicy_OrderIndependentOfInput(t *testing.T) {
	a := mustParse(t, `{"employeeManagement":{"fields":{"position":true,"name":true,"dob":true},"actions":{"delete":true,"view":true}}}`)
	b := mustParse(t, `{"employeeManagement":{"fields":{"dob":true,"position":true,"name":true},"actions":{"view":true,"delete":true}}}`)

	for i := 0; i < 20; i++ {
		pa := EmployeePolicy(a, "Staff")
		pb := EmployeePolicy(b, "Staff")
		assert.Equal(t, []string{FieldName, FieldDOB, FieldPosition}, columnKeys(pa.VisibleColumns))
		assert.Equal(t, columnKeys(pa.VisibleColumns), columnKeys(pb.VisibleColumns))
		assert.Equal(t, []string{ActionView, ActionDelete}, pa.AvailableActions)
		assert.Equal(t, pa.AvailableActions, pb.AvailableActions)
	}
}

func TestEmployeePolicy_NoAccess(t *testing.T) {
	p := EmployeePolicy(nil, "Staff")

	assert.Empty(t, p.VisibleColumns)
	assert.Empty(t, p.AvailableActions)
	assert.Zero(t, p.VisibleFieldCount)
	assert.False(t, p.HasAnyFieldAccess)
	assert.False(t, p.HasAnyActionAccess)
}

func TestEmployeePolicy_Administrator(t *testing.T) {
	p := EmployeePolicy(nil, SuperRoleName)

	assert.Equal(t, EmployeeFields, columnKeys(p.VisibleColumns))
	assert.Equal(t, EmployeeActions, p.AvailableActions)
	assert.Equal(t, 7, p.WritableFieldCount)
	assert.True(t, p.CanRead(DetailAddress))
}

func TestDashboardWidgets(t *testing.T) {
	doc := mustParse(t, `{"dashboard":{"lists":{"recentEmployees":true,"totalEmployees":{"read":true},"averageAge":false}}}`)

	assert.Equal(t, []string{WidgetTotalEmployees, WidgetRecentEmployees}, Default.DashboardWidgets(doc, "Staff"))
	assert.Equal(t, DashboardWidgetKeys, Default.DashboardWidgets(doc, SuperRoleName))
}

func TestParse(t *testing.T) {
	t.Run("null is nil", func(t *testing.T) {
		doc, err := Parse([]byte("null"))
		require.NoError(t, err)
		assert.Nil(t, doc)
		assert.True(t, doc.IsEmpty())
	})

	t.Run("non object rejected", func(t *testing.T) {
		_, err := Parse([]byte(`[true]`))
		assert.ErrorIs(t, err, ErrNotAnObject)
	})

	t.Run("wrongly shaped groups are dropped", func(t *testing.T) {
		doc := mustParse(t, `{"employeeManagement":{"fields":true,"actions":{"view":true}},"dashboard":"x"}`)
		require.NotNil(t, doc.EmployeeManagement)
		assert.Nil(t, doc.EmployeeManagement.Fields)
		assert.True(t, ResolveAction(doc.Action(ModuleEmployeeManagement, GroupActions, ActionView), "Staff").Enabled)
		require.NotNil(t, doc.Dashboard)
		assert.Nil(t, doc.Dashboard.Lists)
	})
}

func TestDocument_RoundTripKeepsShape(t *testing.T) {
	in := `{"employeeManagement":{"fields":{"name":true,"dob":{"read":true,"write":false},"nrc":7},"actions":{"view":false,"edit":{"enabled":true,"scope":"team"}}}}`
	doc := mustParse(t, in)

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))

	again := mustParse(t, string(out))
	assert.True(t, again.Field(ModuleEmployeeManagement, GroupFields, FieldName).IsLegacy())
	assert.False(t, again.Action(ModuleEmployeeManagement, GroupActions, ActionEdit).IsLegacy())
}

func TestFullAccess(t *testing.T) {
	doc := FullAccess()
	p := EmployeePolicy(doc, "Anyone")

	assert.Equal(t, EmployeeFields, columnKeys(p.VisibleColumns))
	assert.Equal(t, EmployeeActions, p.AvailableActions)
	assert.True(t, Default.Action(doc, "Anyone", ModuleEmployeeManagement, GroupBulk, ActionExport).CanAccessAll)
	assert.True(t, Default.Action(doc, "Anyone", ModuleUserManagement, GroupActions, ActionDelete).Enabled)

	parsed := mustParse(t, string(doc.MustJSON()))
	assert.Equal(t, p.VisibleColumns, EmployeePolicy(parsed, "Anyone").VisibleColumns)
}
