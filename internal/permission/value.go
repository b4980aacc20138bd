package permission

import (
	"bytes"
	"encoding/json"
)

type valueKind uint8

const (
	kindUnset valueKind = iota
	kindLegacy
	kindModern
	kindMalformed
)

// Scope is the reach of an action grant.
type Scope string

const (
	ScopeOwn        Scope = "own"
	ScopeTeam       Scope = "team"
	ScopeDepartment Scope = "department"
	ScopeAll        Scope = "all"
)

// rank orders scopes own < team < department < all. Unknown scopes rank below own.
func (s Scope) rank() int {
	switch s {
	case ScopeOwn:
		return 0
	case ScopeTeam:
		return 1
	case ScopeDepartment:
		return 2
	case ScopeAll:
		return 3
	default:
		return -1
	}
}

// Valid reports whether s is one of the four known scopes.
func (s Scope) Valid() bool {
	return s.rank() >= 0
}

// FieldPermission is a stored per-field grant. It is either a legacy boolean
// or a modern {read, write} object; both decode into the same value.
type FieldPermission struct {
	kind  valueKind
	flag  bool
	read  bool
	write bool
	raw   json.RawMessage
}

// LegacyField builds the boolean form of a field grant.
func LegacyField(allowed bool) FieldPermission {
	return FieldPermission{kind: kindLegacy, flag: allowed}
}

// ModernField builds the {read, write} form of a field grant.
func ModernField(read, write bool) FieldPermission {
	return FieldPermission{kind: kindModern, read: read, write: write}
}

// IsSet is false for absent or null entries.
func (p FieldPermission) IsSet() bool {
	return p.kind != kindUnset
}

// IsLegacy reports whether the entry was stored as a plain boolean.
func (p FieldPermission) IsLegacy() bool {
	return p.kind == kindLegacy
}

func (p *FieldPermission) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*p = FieldPermission{}
	case bytes.Equal(trimmed, []byte("true")):
		*p = LegacyField(true)
	case bytes.Equal(trimmed, []byte("false")):
		*p = LegacyField(false)
	case trimmed[0] == '{':
		var obj struct {
			Read  *bool `json:"read"`
			Write *bool `json:"write"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			*p = malformedField(trimmed)
			return nil
		}
		*p = ModernField(obj.Read != nil && *obj.Read, obj.Write != nil && *obj.Write)
	default:
		*p = malformedField(trimmed)
	}
	return nil
}

func (p FieldPermission) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case kindLegacy:
		return json.Marshal(p.flag)
	case kindModern:
		return json.Marshal(struct {
			Read  bool `json:"read"`
			Write bool `json:"write"`
		}{p.read, p.write})
	case kindMalformed:
		return p.raw, nil
	default:
		return []byte("null"), nil
	}
}

func malformedField(data []byte) FieldPermission {
	return FieldPermission{kind: kindMalformed, raw: append(json.RawMessage(nil), data...)}
}

// ActionPermission is a stored per-action grant: a legacy boolean or a
// modern {enabled, scope} object.
type ActionPermission struct {
	kind    valueKind
	flag    bool
	enabled bool
	scope   Scope
	raw     json.RawMessage
}

func LegacyAction(allowed bool) ActionPermission {
	return ActionPermission{kind: kindLegacy, flag: allowed}
}

func ModernAction(enabled bool, scope Scope) ActionPermission {
	return ActionPermission{kind: kindModern, enabled: enabled, scope: scope}
}

func (p ActionPermission) IsSet() bool {
	return p.kind != kindUnset
}

func (p ActionPermission) IsLegacy() bool {
	return p.kind == kindLegacy
}

func (p *ActionPermission) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*p = ActionPermission{}
	case bytes.Equal(trimmed, []byte("true")):
		*p = LegacyAction(true)
	case bytes.Equal(trimmed, []byte("false")):
		*p = LegacyAction(false)
	case trimmed[0] == '{':
		var obj struct {
			Enabled *bool   `json:"enabled"`
			Scope   *string `json:"scope"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			*p = malformedAction(trimmed)
			return nil
		}
		scope := ScopeOwn
		if obj.Scope != nil {
			scope = Scope(*obj.Scope)
		}
		*p = ModernAction(obj.Enabled != nil && *obj.Enabled, scope)
	default:
		*p = malformedAction(trimmed)
	}
	return nil
}

func (p ActionPermission) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case kindLegacy:
		return json.Marshal(p.flag)
	case kindModern:
		return json.Marshal(struct {
			Enabled bool  `json:"enabled"`
			Scope   Scope `json:"scope"`
		}{p.enabled, p.scope})
	case kindMalformed:
		return p.raw, nil
	default:
		return []byte("null"), nil
	}
}

func malformedAction(data []byte) ActionPermission {
	return ActionPermission{kind: kindMalformed, raw: append(json.RawMessage(nil), data...)}
}
