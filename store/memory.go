// Package store provides roster.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/pvf-engine/pvf"
	"github.com/warp/pvf-engine/roster"
)

// =============================================================================
// MEMORY STORE - Map-backed cache
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	employees map[int64]pvf.EmployeeRecord
	runs      []roster.Run // oldest first
	derived   map[string][]pvf.DerivedRecord
}

var _ roster.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		employees: make(map[int64]pvf.EmployeeRecord),
		derived:   make(map[string][]pvf.DerivedRecord),
	}
}

func (m *Memory) SaveEmployees(_ context.Context, records []pvf.EmployeeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.employees = make(map[int64]pvf.EmployeeRecord, len(records))
	for _, r := range records {
		if !r.IsValid() {
			continue
		}
		m.employees[r.EmployeeID] = r
	}
	return nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]pvf.EmployeeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]pvf.EmployeeRecord, 0, len(m.employees))
	for _, r := range m.employees {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].EmployeeID < result[j].EmployeeID
	})
	return result, nil
}

func (m *Memory) GetEmployee(_ context.Context, id int64) (*pvf.EmployeeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.employees[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *Memory) SaveRun(_ context.Context, run roster.Run, derived []pvf.DerivedRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := make([]pvf.DerivedRecord, 0, len(derived))
	for _, d := range derived {
		if !d.IsEmpty() {
			kept = append(kept, d)
		}
	}
	m.runs = append(m.runs, run)
	m.derived[run.ID] = kept
	return nil
}

func (m *Memory) LatestRun(_ context.Context) (*roster.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.runs) == 0 {
		return nil, nil
	}
	run := m.runs[len(m.runs)-1]
	return &run, nil
}

func (m *Memory) ListRuns(_ context.Context) ([]roster.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]roster.Run, len(m.runs))
	for i, r := range m.runs {
		result[len(m.runs)-1-i] = r
	}
	return result, nil
}

func (m *Memory) ListDerived(_ context.Context, runID string) ([]pvf.DerivedRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]pvf.DerivedRecord, len(m.derived[runID]))
	copy(result, m.derived[runID])
	return result, nil
}

func (m *Memory) GetDerived(_ context.Context, runID string, employeeID int64) (*pvf.DerivedRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, d := range m.derived[runID] {
		if d.EmployeeID == employeeID {
			d := d
			return &d, nil
		}
	}
	return nil, nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.employees = make(map[int64]pvf.EmployeeRecord)
	m.runs = nil
	m.derived = make(map[string][]pvf.DerivedRecord)
	return nil
}
