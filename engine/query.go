package engine

import (
	"slices"

	"github.com/niello/deusexmachina-sub012/core"
)

// QueryableStore is a store the query builder can enumerate
type QueryableStore interface {
	AnyStore
	GetAllEntities() []core.Entity
}

// QueryBuilder selects entities that have every With store and none of the Without stores
// Results follow the spawn order of the smallest With store
type QueryBuilder struct {
	with     []QueryableStore
	without  []AnyStore
	executed bool
	results  []core.Entity
}

// Query starts a new selection
//
//	agents := world.Query().
//	    With(world.Components.Character).
//	    With(world.Components.NavAgent).
//	    Execute()
func (w *World) Query() *QueryBuilder {
	return &QueryBuilder{with: make([]QueryableStore, 0, 4)}
}

// With requires a component, panics once the query ran
func (qb *QueryBuilder) With(store QueryableStore) *QueryBuilder {
	qb.mustBeOpen()
	qb.with = append(qb.with, store)
	return qb
}

// Without excludes entities having a component, panics once the query ran
func (qb *QueryBuilder) Without(store AnyStore) *QueryBuilder {
	qb.mustBeOpen()
	qb.without = append(qb.without, store)
	return qb
}

func (qb *QueryBuilder) mustBeOpen() {
	if qb.executed {
		panic("engine: query modified after Execute")
	}
}

// Execute runs the selection once, later calls return the same slice
func (qb *QueryBuilder) Execute() []core.Entity {
	if qb.executed {
		return qb.results
	}
	qb.executed = true
	qb.results = []core.Entity{}
	if len(qb.with) == 0 {
		return qb.results
	}

	slices.SortStableFunc(qb.with, func(a, b QueryableStore) int {
		return a.CountEntities() - b.CountEntities()
	})

	qb.results = slices.DeleteFunc(qb.with[0].GetAllEntities(), func(e core.Entity) bool {
		for _, s := range qb.with[1:] {
			if !s.HasEntity(e) {
				return true
			}
		}
		for _, s := range qb.without {
			if s.HasEntity(e) {
				return true
			}
		}
		return false
	})
	return qb.results
}

// Each runs fn for every selected entity
func (qb *QueryBuilder) Each(fn func(e core.Entity)) {
	for _, e := range qb.Execute() {
		fn(e)
	}
}
