package permission

// FieldAccess is the effective decision for a field entry. Visible always
// equals Read.
type FieldAccess struct {
	Read    bool `json:"read"`
	Write   bool `json:"write"`
	Visible bool `json:"visible"`
}

// ActionAccess is the effective decision for an action entry.
type ActionAccess struct {
	Enabled             bool  `json:"enabled"`
	Scope               Scope `json:"scope"`
	CanAccessOwn        bool  `json:"canAccessOwn"`
	CanAccessTeam       bool  `json:"canAccessTeam"`
	CanAccessDepartment bool  `json:"canAccessDepartment"`
	CanAccessAll        bool  `json:"canAccessAll"`
}

// Allows reports whether the grant reaches the requested scope.
func (a ActionAccess) Allows(scope Scope) bool {
	switch scope {
	case ScopeOwn:
		return a.CanAccessOwn
	case ScopeTeam:
		return a.CanAccessTeam
	case ScopeDepartment:
		return a.CanAccessDepartment
	case ScopeAll:
		return a.CanAccessAll
	}
	return false
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSuperRole replaces the predicate deciding which roles bypass the document.
func WithSuperRole(isSuper func(role string) bool) Option {
	return func(r *Resolver) {
		if isSuper != nil {
			r.isSuper = isSuper
		}
	}
}

// Resolver turns raw entries into decisions. It never fails: anything it
// cannot interpret resolves to the deny default.
type Resolver struct {
	isSuper func(role string) bool
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{isSuper: IsSuperRole}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Default uses IsSuperRole.
var Default = NewResolver()

// IsSuper reports whether role bypasses the document.
func (r *Resolver) IsSuper(role string) bool {
	return r.isSuper(role)
}

func (r *Resolver) ResolveField(v FieldPermission, role string) FieldAccess {
	if r.isSuper(role) {
		return FieldAccess{Read: true, Write: true, Visible: true}
	}
	switch v.kind {
	case kindLegacy:
		return FieldAccess{Read: v.flag, Write: v.flag, Visible: v.flag}
	case kindModern:
		return FieldAccess{Read: v.read, Write: v.write, Visible: v.read}
	default:
		return FieldAccess{}
	}
}

func (r *Resolver) ResolveAction(v ActionPermission, role string) ActionAccess {
	if r.isSuper(role) {
		return expandScope(true, ScopeAll)
	}
	switch v.kind {
	case kindLegacy:
		if v.flag {
			return expandScope(true, ScopeAll)
		}
		return expandScope(false, ScopeOwn)
	case kindModern:
		return expandScope(v.enabled, v.scope)
	default:
		return expandScope(false, ScopeOwn)
	}
}

// expandScope fills the four reach flags. Own is granted by any known scope,
// all only by "all"; unknown scopes grant nothing.
func expandScope(enabled bool, scope Scope) ActionAccess {
	rank := scope.rank()
	return ActionAccess{
		Enabled:             enabled,
		Scope:               scope,
		CanAccessOwn:        enabled && rank >= ScopeOwn.rank(),
		CanAccessTeam:       enabled && rank >= ScopeTeam.rank(),
		CanAccessDepartment: enabled && rank >= ScopeDepartment.rank(),
		CanAccessAll:        enabled && scope == ScopeAll,
	}
}

// Field resolves doc[m][g][key] for role. doc may be nil.
func (r *Resolver) Field(doc *Document, role string, m Module, g Group, key string) FieldAccess {
	return r.ResolveField(doc.Field(m, g, key), role)
}

// Action resolves doc[m][g][key] for role. doc may be nil.
func (r *Resolver) Action(doc *Document, role string, m Module, g Group, key string) ActionAccess {
	return r.ResolveAction(doc.Action(m, g, key), role)
}

func ResolveField(v FieldPermission, role string) FieldAccess {
	return Default.ResolveField(v, role)
}

func ResolveAction(v ActionPermission, role string) ActionAccess {
	return Default.ResolveAction(v, role)
}
