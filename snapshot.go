package statechart

import (
	"gopkg.in/yaml.v3"
)

// Snapshot is a read-only view of a chart instance for diagnostics. States are
// named by their dotted path. It cannot be loaded back into a chart.
type Snapshot struct {
	ChartID string            `yaml:"chart_id"`
	Chart   string            `yaml:"chart"`
	Started bool              `yaml:"started"`
	Done    bool              `yaml:"done"`
	Active  []string          `yaml:"active"`
	History map[string]string `yaml:"history,omitempty"`
}

// Snapshot captures the current configuration and history records
func (sc *Statechart) Snapshot() Snapshot {
	snap := Snapshot{
		ChartID: sc.id,
		Chart:   sc.def.name,
		Started: sc.IsStarted(),
		Done:    sc.Done(),
		Active:  make([]string, 0),
	}

	for _, id := range sc.ActiveStates() {
		snap.Active = append(snap.Active, sc.def.Path(id))
	}

	for _, n := range sc.def.states {
		if n.kind != KindHistory {
			continue
		}
		if recorded, ok := sc.rt.HistoryOf(n.id); ok {
			if snap.History == nil {
				snap.History = make(map[string]string)
			}
			snap.History[sc.def.Path(n.parent)] = sc.def.Path(recorded)
		}
	}

	return snap
}

// YAML renders the snapshot
func (s Snapshot) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}
