package workforce

import "slices"

// IsRoleQualified reports whether c may take role in this task. Rules run
// in order and stop at the first failure: headcount ceiling, tag
// compatibility, then a variant-specific check.
func (t *Task) IsRoleQualified(c Candidate, role string) bool {
	i := t.roleIndex(role)
	if i < 0 || t.broken[i] != nil || c == nil {
		return false
	}
	r := t.desc.roles[i]

	if len(t.rolesInUse[role].ids) >= r.Maximum {
		return false
	}
	if !tagCompatible(r, c.Label()) {
		return false
	}

	switch v := c.(type) {
	case *Agent:
		return t.agentQualifies(r, v)
	case *Object:
		return r.Satisfies != nil && r.Satisfies(t, v)
	default:
		return false
	}
}

// agentQualifies is the mode-specific check. Tagless shrink and expand
// roles are rejected at construction and never reach here.
func (t *Task) agentQualifies(r *RoleDescription, a *Agent) bool {
	switch {
	case r.Mode.Shrinks():
		return r.Tag != "" && hasEveryKind(a, r.Requirements)
	case r.Mode == SpawnExpand:
		return r.Tag != "" && a.Tag == r.Tag
	default:
		return meetsRequirements(a, r.Requirements)
	}
}

// roleIndex returns the declaration index of the first role named role.
func (t *Task) roleIndex(role string) int {
	r, ok := t.desc.index[role]
	if !ok {
		return -1
	}
	return slices.Index(t.desc.roles, r)
}

// tagCompatible applies the tag rules shared by every candidate variant.
func tagCompatible(r *RoleDescription, tag string) bool {
	switch {
	case tag == "" && r.Tag == "":
		return true
	case r.Tag == "":
		return false
	case tag == "":
		return r.AllowEmptyTag
	case tag == r.Tag:
		return true
	default:
		return slices.Contains(r.AllowedTags, tag)
	}
}

// meetsRequirements is the strict check: every required kind in quantity.
func meetsRequirements(a *Agent, req map[Capability]int) bool {
	for kind, n := range req {
		if a.Count(kind) < n {
			return false
		}
	}
	return true
}

// hasEveryKind is the loose check: at least one part of every required kind.
func hasEveryKind(a *Agent, req map[Capability]int) bool {
	for kind := range req {
		if a.Count(kind) < 1 {
			return false
		}
	}
	return true
}

// DetermineBestRole picks the qualifying role with the strictly greatest
// profit estimate; earlier roles win ties. The duration estimator only
// runs for the winner.
func (t *Task) DetermineBestRole(c Candidate) EmployeeIdentity {
	var (
		best   *RoleDescription
		profit float64
	)
	for _, r := range t.desc.roles {
		if t.desc.index[r.Name] != r || !t.IsRoleQualified(c, r.Name) {
			continue
		}
		p := r.profit(t, c)
		if best == nil || p > profit {
			best, profit = r, p
		}
	}
	if best == nil {
		return EmployeeIdentity{}
	}
	d := best.duration(t, c)
	return EmployeeIdentity{
		Role: best.Name,
		Info: EmploymentInfo{
			ProfitPerTick:  profit,
			WorkingTicks:   d.WorkingTicks,
			CommutingTicks: d.CommutingTicks,
		},
	}
}
