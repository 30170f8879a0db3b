package ecs

import "strconv"

// Entity identifies an actor. The low 32 bits hold a slot index starting at
// 1, the high 32 bits a generation bumped each time the slot is recycled, so
// a stale Entity never aliases a newer one.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

// Index returns the slot index used by sparse storage.
func (e Entity) Index() int {
	return int(e.id())
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

func (e Entity) Valid() bool {
	return e.id() > 0
}
