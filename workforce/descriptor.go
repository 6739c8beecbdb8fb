package workforce

import (
	"fmt"

	"github.com/BaSui01/workforce/types"
)

// Verdict is the outcome of a task's completion predicate.
type Verdict int

const (
	VerdictAlive Verdict = iota
	VerdictDead
)

// SelfCheckFunc is the task's completion predicate.
type SelfCheckFunc func(t *Task) Verdict

// WorkFunc runs one tick of task work and returns the agent ids to release.
type WorkFunc func(t *Task) []string

// Descriptor declares the roles of a task type and its lifecycle closures.
// A descriptor is bound to exactly one Task for its whole life.
type Descriptor struct {
	kind      string
	roles     []*RoleDescription
	index     map[string]*RoleDescription
	selfCheck SelfCheckFunc
	work      WorkFunc
	bound     *Task
}

// NewDescriptor 创建任务描述
func NewDescriptor(kind string) *Descriptor {
	return &Descriptor{
		kind:  kind,
		index: make(map[string]*RoleDescription),
	}
}

// WithRole appends a role. Declaration order is the tie-break order.
func (d *Descriptor) WithRole(role RoleDescription) *Descriptor {
	r := role
	d.roles = append(d.roles, &r)
	if _, dup := d.index[r.Name]; !dup {
		d.index[r.Name] = &r
	}
	return d
}

// WithSelfCheck sets the completion predicate.
func (d *Descriptor) WithSelfCheck(f SelfCheckFunc) *Descriptor {
	d.selfCheck = f
	return d
}

// WithWork sets the per-tick work closure.
func (d *Descriptor) WithWork(f WorkFunc) *Descriptor {
	d.work = f
	return d
}

// Kind returns the task type name.
func (d *Descriptor) Kind() string {
	return d.kind
}

// Role looks up a role by name.
func (d *Descriptor) Role(name string) (*RoleDescription, bool) {
	r, ok := d.index[name]
	return r, ok
}

// Roles returns the roles in declaration order.
func (d *Descriptor) Roles() []*RoleDescription {
	return d.roles
}

// Validate returns the first configuration error found, or nil.
func (d *Descriptor) Validate() error {
	for _, err := range d.problems() {
		if err != nil {
			return err
		}
	}
	return nil
}

// problems validates every role, keyed by declaration index.
func (d *Descriptor) problems() []error {
	errs := make([]error, len(d.roles))
	seen := make(map[string]bool, len(d.roles))
	for i, r := range d.roles {
		if seen[r.Name] {
			errs[i] = types.NewError(types.ErrInvalidDescriptor, "duplicate role name").WithRole(r.Name)
			continue
		}
		seen[r.Name] = true
		errs[i] = r.validate()
	}
	return errs
}

// Bind ties the descriptor to t. Binding a second task fails.
func (d *Descriptor) Bind(t *Task) error {
	if d.bound != nil && d.bound != t {
		return types.NewError(types.ErrDescriptorShared,
			fmt.Sprintf("descriptor %q already bound", d.kind)).WithTask(d.bound.Key())
	}
	d.bound = t
	return nil
}

// Bound returns the task the descriptor is bound to, if any.
func (d *Descriptor) Bound() *Task {
	return d.bound
}
