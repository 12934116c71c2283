package snake

import (
	"math/rand"
	"time"

	"github.com/hoshinonyaruko/snake-retro/structs"
)

// Spawner picks the cell for a new apple.
type Spawner interface {
	Spawn(width, height int, occupied map[structs.GridPoint]bool) structs.GridPoint
}

// AppleSpawner samples cells uniformly until it finds a free one.
//
// A completely occupied grid never happens on the fixed playfield, so Spawn
// does not guard against it.
type AppleSpawner struct {
	rnd *rand.Rand
}

// NewAppleSpawner seeds the spawner. A zero seed uses the current time.
func NewAppleSpawner(seed int64) *AppleSpawner {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &AppleSpawner{rnd: rand.New(rand.NewSource(seed))}
}

func (s *AppleSpawner) Spawn(width, height int, occupied map[structs.GridPoint]bool) structs.GridPoint {
	for {
		candidate := structs.GridPoint{
			X: s.rnd.Intn(width),
			Y: s.rnd.Intn(height),
		}
		if !occupied[candidate] {
			return candidate
		}
	}
}

// SpawnerFunc adapts a plain function to Spawner.
type SpawnerFunc func(width, height int, occupied map[structs.GridPoint]bool) structs.GridPoint

func (f SpawnerFunc) Spawn(width, height int, occupied map[structs.GridPoint]bool) structs.GridPoint {
	return f(width, height, occupied)
}
