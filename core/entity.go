package core

// Entity is a unique identifier for a world entity
// Zero is never allocated and means "no entity"
type Entity uint64

// NoEntity is the null entity reference
const NoEntity Entity = 0

// Valid reports whether e refers to an allocated entity
func (e Entity) Valid() bool {
	return e != NoEntity
}
