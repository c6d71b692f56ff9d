// Package rules holds the versioned decision data the cross-reference engine
// is parameterized with: the (state, posture) -> priority table plus the
// static commercial catalogs (vendor costs, issue severities, industry
// keywords). Everything here is configuration, not code: tables load from
// YAML so business stakeholders can audit and replace the full decision
// surface without redeploying the engine.
package rules

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/prospectscan/prospectscan/internal/model"
)

// Key is one cell coordinate of the decision surface.
type Key struct {
	State   model.OrganizationalState
	Posture model.PostureLevel
}

// Entry is one audited row of the table, as exposed to tooling and YAML.
type Entry struct {
	State    model.OrganizationalState `yaml:"state" json:"state"`
	Posture  model.PostureLevel        `yaml:"posture" json:"posture"`
	Priority model.ActionPriority      `yaml:"priority" json:"priority"`
}

// Table is a total mapping from (organizational state, posture level) to an
// action priority. Pairs absent from the explicit entries resolve to the
// fallback priority, never to an error: insufficient context means moderate
// attention, a deliberate policy (see Lookup).
type Table struct {
	version  string
	fallback model.ActionPriority
	entries  map[Key]model.ActionPriority
}

// NewTable builds a Table from explicit entries. version tags the rule set
// for audit trails; fallback is returned for unmapped pairs.
func NewTable(version string, fallback model.ActionPriority, entries []Entry) (*Table, error) {
	if version == "" {
		return nil, fmt.Errorf("rules: table version is required")
	}
	if !fallback.Valid() {
		return nil, fmt.Errorf("rules: invalid fallback priority %q", fallback)
	}
	m := make(map[Key]model.ActionPriority, len(entries))
	for _, e := range entries {
		if !e.Priority.Valid() {
			return nil, fmt.Errorf("rules: invalid priority %q for (%s, %s)", e.Priority, e.State, e.Posture)
		}
		k := Key{State: e.State, Posture: e.Posture}
		if _, dup := m[k]; dup {
			return nil, fmt.Errorf("rules: duplicate entry for (%s, %s)", e.State, e.Posture)
		}
		m[k] = e.Priority
	}
	return &Table{version: version, fallback: fallback, entries: m}, nil
}

// Version returns the rule-set version tag stored alongside every result.
func (t *Table) Version() string { return t.version }

// Fallback returns the documented default priority for unmapped pairs.
func (t *Table) Fallback() model.ActionPriority { return t.fallback }

// Lookup resolves a (state, posture) pair to a priority. It is total: pairs
// not present in the table return the fallback with mapped=false so callers
// can log the miss as a data-quality signal without treating it as an error.
func (t *Table) Lookup(state model.OrganizationalState, posture model.PostureLevel) (priority model.ActionPriority, mapped bool) {
	if p, ok := t.entries[Key{State: state, Posture: posture}]; ok {
		return p, true
	}
	return t.fallback, false
}

// Entries returns the explicit rows sorted by state then posture, for audit
// and override tooling. The returned slice is a copy.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for k, p := range t.entries {
		out = append(out, Entry{State: k.State, Posture: k.Posture, Priority: p})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].State != out[j].State {
			return out[i].State < out[j].State
		}
		return out[i].Posture < out[j].Posture
	})
	return out
}

// DefaultTable returns the production decision surface: the fifteen explicit
// pairs over the five known organizational states. The "desconocido" state is
// intentionally absent and resolves to the MEDIA fallback: insufficient
// context warrants moderate attention, not silence and not an alarm.
func DefaultTable() *Table {
	t, err := NewTable("reglas-v2.0", model.PriorityMedium, []Entry{
		// Transition is always an opening.
		{model.StateTransitioning, model.PostureBasic, model.PriorityCritical},
		{model.StateTransitioning, model.PostureIntermediate, model.PriorityHigh},
		{model.StateTransitioning, model.PostureAdvanced, model.PriorityMedium},

		// Active M&A gets maximum attention.
		{model.StateMAActive, model.PostureBasic, model.PriorityCritical},
		{model.StateMAActive, model.PostureIntermediate, model.PriorityCritical},
		{model.StateMAActive, model.PostureAdvanced, model.PriorityHigh},

		// Growth is a moderate opening.
		{model.StateGrowing, model.PostureBasic, model.PriorityHigh},
		{model.StateGrowing, model.PostureIntermediate, model.PriorityMedium},
		{model.StateGrowing, model.PostureAdvanced, model.PriorityLow},

		// Stable depends entirely on posture.
		{model.StateStable, model.PostureBasic, model.PriorityMedium},
		{model.StateStable, model.PostureIntermediate, model.PriorityLow},
		{model.StateStable, model.PostureAdvanced, model.PriorityDiscarded},

		// Contraction means low potential.
		{model.StateContracting, model.PostureBasic, model.PriorityLow},
		{model.StateContracting, model.PostureIntermediate, model.PriorityDiscarded},
		{model.StateContracting, model.PostureAdvanced, model.PriorityDiscarded},
	})
	if err != nil {
		// The built-in table is static; a construction error is a programming
		// bug, not a runtime condition.
		panic(err)
	}
	return t
}

// tableFile is the YAML shape of a rule table.
type tableFile struct {
	Version  string               `yaml:"version"`
	Fallback model.ActionPriority `yaml:"fallback"`
	Rules    []Entry              `yaml:"rules"`
}

// LoadTable reads a rule table from a YAML file.
func LoadTable(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules: reading table %s: %w", path, err)
	}
	var f tableFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("rules: parsing table %s: %w", path, err)
	}
	return NewTable(f.Version, f.Fallback, f.Rules)
}

// MarshalYAML exports the table in the same shape LoadTable reads, so the
// running rule set can be dumped for audit.
func (t *Table) MarshalYAML() (any, error) {
	return tableFile{Version: t.version, Fallback: t.fallback, Rules: t.Entries()}, nil
}
