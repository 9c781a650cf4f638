package engine

import (
	"github.com/niello/deusexmachina-sub012/action"
	"github.com/niello/deusexmachina-sub012/component"
)

// ComponentStore provides cached pointers to typed component stores
// Initialized once per world, pointers remain valid for the world lifetime
type ComponentStore struct {
	NavAgent  *Store[component.NavAgentComponent]
	Character *Store[component.CharacterComponent]

	// Queue stores are pointer-valued, the queue itself is the mutable per-agent state
	Queue *Store[*action.Queue]
}

func initComponentStores(w *World) {
	w.Components = ComponentStore{
		NavAgent:  NewStore[component.NavAgentComponent](),
		Character: NewStore[component.CharacterComponent](),
		Queue:     NewStore[*action.Queue](),
	}
	w.allStores = []AnyStore{
		w.Components.NavAgent,
		w.Components.Character,
		w.Components.Queue,
	}
}
