package llhd

import (
	"errors"
	"fmt"
)

// ErrUnitExists is returned when registering a second unit under a taken name.
var ErrUnitExists = errors.New("llhd: unit already defined")

// Module owns registered units in registration order.
type Module struct {
	units  []*UnitData
	byName map[string]int
}

func NewModule() *Module {
	return &Module{byName: make(map[string]int)}
}

// AddUnit registers a finished unit. The unit must not be modified afterwards.
func (m *Module) AddUnit(u *UnitData) error {
	key := u.Name.String()
	if _, ok := m.byName[key]; ok {
		return fmt.Errorf("%w: %s", ErrUnitExists, key)
	}
	m.byName[key] = len(m.units)
	m.units = append(m.units, u)
	return nil
}

// Has reports whether a unit with this name is registered.
func (m *Module) Has(name UnitName) bool {
	_, ok := m.byName[name.String()]
	return ok
}

// Unit looks a unit up by name.
func (m *Module) Unit(name UnitName) (*UnitData, bool) {
	i, ok := m.byName[name.String()]
	if !ok {
		return nil, false
	}
	return m.units[i], true
}

// Units returns registered units in registration order.
// ВАЖНО: срез принадлежит модулю, не модифицируйте.
func (m *Module) Units() []*UnitData { return m.units }

func (m *Module) Len() int { return len(m.units) }

// Commit moves every unit of staged into m. Either all units move or, on a
// name clash, none do and m is left untouched.
func (m *Module) Commit(staged *Module) error {
	if staged == nil {
		return nil
	}
	for _, u := range staged.units {
		if m.Has(u.Name) {
			return fmt.Errorf("%w: %s", ErrUnitExists, u.Name)
		}
	}
	for _, u := range staged.units {
		if err := m.AddUnit(u); err != nil {
			return err
		}
	}
	return nil
}
