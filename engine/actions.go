package engine

import (
	"errors"
	"fmt"

	"github.com/niello/deusexmachina-sub012/action"
	"github.com/niello/deusexmachina-sub012/core"
	"github.com/niello/deusexmachina-sub012/vmath"
)

// ErrMissingCollaborator is returned when an entity lacks a component an operation needs
var ErrMissingCollaborator = errors.New("engine: missing collaborator")

// QueueOf returns the entity's action queue
func (w *World) QueueOf(e core.Entity) (*action.Queue, error) {
	q, ok := w.Components.Queue.GetComponent(e)
	if !ok || q == nil {
		return nil, fmt.Errorf("%w: entity %d has no action queue", ErrMissingCollaborator, e)
	}
	return q, nil
}

// EnqueueAction replaces the entity's queue content with act
func EnqueueAction[T action.Action](w *World, e core.Entity, act T) (action.Handle, error) {
	q, err := w.QueueOf(e)
	if err != nil {
		return action.InvalidHandle, err
	}
	return action.Enqueue(q, act)
}

// Navigate assigns a movement goal to a navigation agent
// facing is the desired direction on arrival, zero for don't care
func Navigate(w *World, e core.Entity, goal, facing vmath.Vec3F) (action.Handle, error) {
	if !w.Components.NavAgent.HasEntity(e) {
		return action.InvalidHandle, fmt.Errorf("%w: entity %d is not a navigation agent", ErrMissingCollaborator, e)
	}
	return EnqueueAction(w, e, action.Navigate{
		Goal:        goal,
		FinalFacing: facing,
	})
}
