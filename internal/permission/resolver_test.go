package permission

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeField(t *testing.T, raw string) FieldPermission {
	t.Helper()
	var v FieldPermission
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func decodeAction(t *testing.T, raw string) ActionPermission {
	t.Helper()
	var v ActionPermission
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestResolveField_SuperRoleIgnoresValue(t *testing.T) {
	values := []string{`null`, `false`, `true`, `{"read":false,"write":false}`, `{}`, `42`, `"yes"`, `[1,2]`}
	for _, raw := range values {
		t.Run(raw, func(t *testing.T) {
			got := ResolveField(decodeField(t, raw), SuperRoleName)
			assert.Equal(t, FieldAccess{Read: true, Write: true, Visible: true}, got)
		})
	}
	assert.Equal(t, FieldAccess{Read: true, Write: true, Visible: true}, ResolveField(FieldPermission{}, SuperRoleName))
}

func TestResolveField_Legacy(t *testing.T) {
	for _, b := range []bool{true, false} {
		got := ResolveField(LegacyField(b), "Staff")
		assert.Equal(t, FieldAccess{Read: b, Write: b, Visible: b}, got)
	}
}

func TestResolveField_Modern(t *testing.T) {
	tests := []struct {
		raw  string
		want FieldAccess
	}{
		{`{"read":true,"write":true}`, FieldAccess{Read: true, Write: true, Visible: true}},
		{`{"read":true,"write":false}`, FieldAccess{Read: true, Write: false, Visible: true}},
		{`{"read":false,"write":true}`, FieldAccess{Read: false, Write: true, Visible: false}},
		{`{"read":false,"write":false}`, FieldAccess{}},
		{`{"write":true}`, FieldAccess{Write: true}},
		{`{}`, FieldAccess{}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ResolveField(decodeField(t, tt.raw), "Staff")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.Read, got.Visible)
		})
	}
}

func TestResolveField_UnsetAndMalformed(t *testing.T) {
	for _, raw := range []string{`null`, `42`, `"true"`, `[true]`, `{"read":"yes"}`} {
		t.Run(raw, func(t *testing.T) {
			assert.Equal(t, FieldAccess{}, ResolveField(decodeField(t, raw), "Staff"))
		})
	}
	assert.Equal(t, FieldAccess{}, ResolveField(FieldPermission{}, "Staff"))
}

func TestResolveAction_Scopes(t *testing.T) {
	tests := []struct {
		name                 string
		raw                  string
		own, team, dept, all bool
		enabled              bool
		scope                Scope
	}{
		{"enabled own", `{"enabled":true,"scope":"own"}`, true, false, false, false, true, ScopeOwn},
		{"enabled team", `{"enabled":true,"scope":"team"}`, true, true, false, false, true, ScopeTeam},
		{"enabled department", `{"enabled":true,"scope":"department"}`, true, true, true, false, true, ScopeDepartment},
		{"enabled all", `{"enabled":true,"scope":"all"}`, true, true, true, true, true, ScopeAll},
		{"disabled all", `{"enabled":false,"scope":"all"}`, false, false, false, false, false, ScopeAll},
		{"enabled default scope", `{"enabled":true}`, true, false, false, false, true, ScopeOwn},
		{"empty object", `{}`, false, false, false, false, false, ScopeOwn},
		{"unknown scope", `{"enabled":true,"scope":"company"}`, false, false, false, false, true, Scope("company")},
		{"legacy true", `true`, true, true, true, true, true, ScopeAll},
		{"legacy false", `false`, false, false, false, false, false, ScopeOwn},
		{"null", `null`, false, false, false, false, false, ScopeOwn},
		{"malformed", `"all"`, false, false, false, false, false, ScopeOwn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveAction(decodeAction(t, tt.raw), "Staff")
			assert.Equal(t, tt.enabled, got.Enabled)
			assert.Equal(t, tt.scope, got.Scope)
			assert.Equal(t, tt.own, got.CanAccessOwn, "own")
			assert.Equal(t, tt.team, got.CanAccessTeam, "team")
			assert.Equal(t, tt.dept, got.CanAccessDepartment, "department")
			assert.Equal(t, tt.all, got.CanAccessAll, "all")
		})
	}
}

func TestResolveAction_SuperRole(t *testing.T) {
	got := ResolveAction(ModernAction(false, ScopeOwn), SuperRoleName)
	assert.True(t, got.Enabled)
	assert.Equal(t, ScopeAll, got.Scope)
	assert.True(t, got.Allows(ScopeOwn))
	assert.True(t, got.Allows(ScopeAll))
}

func TestActionAccess_Allows(t *testing.T) {
	got := ResolveAction(ModernAction(true, ScopeTeam), "Leader")
	assert.True(t, got.Allows(ScopeOwn))
	assert.True(t, got.Allows(ScopeTeam))
	assert.False(t, got.Allows(ScopeDepartment))
	assert.False(t, got.Allows(ScopeAll))
	assert.False(t, got.Allows(Scope("nope")))
}

func TestWithSuperRole(t *testing.T) {
	r := NewResolver(WithSuperRole(func(role string) bool { return role == "Owner" }))

	assert.True(t, r.ResolveField(LegacyField(false), "Owner").Write)
	assert.False(t, r.ResolveField(LegacyField(false), SuperRoleName).Read)
	assert.True(t, r.IsSuper("Owner"))
}

func TestResolver_NilDocument(t *testing.T) {
	var doc *Document
	assert.Equal(t, FieldAccess{}, Default.Field(doc, "Staff", ModuleEmployeeManagement, GroupFields, FieldName))
	assert.False(t, Default.Action(doc, "Staff", ModuleEmployeeManagement, GroupActions, ActionView).Enabled)
	assert.True(t, Default.Field(doc, SuperRoleName, ModuleEmployeeManagement, GroupFields, FieldName).Visible)
}
