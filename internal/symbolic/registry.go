package symbolic

import "fmt"

// Role tags what an unknown stands for in the controller structure.
type Role int

const (
	RoleIndeterminate Role = iota
	RoleAlpha
	RoleKBeta
	RoleQZero
	RolePZero
	RolePole
	RoleScale
)

var roleNames = map[Role]string{
	RoleIndeterminate: "x",
	RoleAlpha:         "alpha",
	RoleKBeta:         "kbeta",
	RoleQZero:         "Qzero",
	RolePZero:         "Pzero",
	RolePole:          "pole",
	RoleScale:         "c",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Param is a symbolic unknown. ID is unique within its Registry.
type Param struct {
	ID    int
	Role  Role
	Index int
}

// Name renders the conventional symbol name, e.g. alpha2 or Qzero1.
// Singleton roles (x, c) carry no index.
func (p Param) Name() string {
	switch p.Role {
	case RoleIndeterminate, RoleScale:
		return p.Role.String()
	default:
		return fmt.Sprintf("%s%d", p.Role, p.Index)
	}
}

func (p Param) String() string {
	return p.Name()
}

type paramKey struct {
	role  Role
	index int
}

// Registry hands out Params in declaration order. Declaration order is also
// the variable ranking used by the solver: earlier params rank higher and
// are eliminated first.
type Registry struct {
	params []Param
	byKey  map[paramKey]int
}

func NewRegistry() *Registry {
	return &Registry{byKey: make(map[paramKey]int)}
}

// Declare returns the Param for (role, index), creating it on first use.
func (r *Registry) Declare(role Role, index int) Param {
	k := paramKey{role: role, index: index}
	if id, ok := r.byKey[k]; ok {
		return r.params[id]
	}
	p := Param{ID: len(r.params), Role: role, Index: index}
	r.params = append(r.params, p)
	r.byKey[k] = p.ID
	return p
}

// DeclareRange declares role[1..n].
func (r *Registry) DeclareRange(role Role, n int) []Param {
	out := make([]Param, n)
	for i := range out {
		out[i] = r.Declare(role, i+1)
	}
	return out
}

// Indeterminate returns the polynomial variable x.
func (r *Registry) Indeterminate() Param {
	return r.Declare(RoleIndeterminate, 0)
}

// Scale returns the free scaling constant c.
func (r *Registry) Scale() Param {
	return r.Declare(RoleScale, 0)
}

func (r *Registry) Lookup(id int) (Param, bool) {
	if id < 0 || id >= len(r.params) {
		return Param{}, false
	}
	return r.params[id], true
}

// Name implements Namer.
func (r *Registry) Name(id int) string {
	if p, ok := r.Lookup(id); ok {
		return p.Name()
	}
	return fmt.Sprintf("v%d", id)
}

func (r *Registry) Params() []Param {
	out := make([]Param, len(r.params))
	copy(out, r.params)
	return out
}
