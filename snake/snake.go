// 关于的蛇的更新
package snake

import (
	"log"
	"time"

	"github.com/hoshinonyaruko/snake-retro/structs"
)

// ApplePoints is the score for one apple.
const ApplePoints = 10

// Outcome reports what a single Tick did.
type Outcome int

const (
	Idle    Outcome = iota // not running, nothing happened
	Moved                  // moved one cell, length unchanged
	Ate                    // moved onto the apple and grew
	HitWall                // left the grid with classic walls
	HitSelf                // ran into its own body
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case Ate:
		return "ate"
	case HitWall:
		return "hit_wall"
	case HitSelf:
		return "hit_self"
	default:
		return "idle"
	}
}

// Ended reports whether the outcome finished the game.
func (o Outcome) Ended() bool {
	return o == HitWall || o == HitSelf
}

// Options configures a GameState. Zero fields take the defaults.
type Options struct {
	Grid     Grid
	Speed    Speed
	Spawner  Spawner
	Store    Store
	WallMode structs.WallMode
}

// GameState owns the snake and the apple and advances them one tick at a time.
// It is not safe for concurrent use; a single loop drives it.
type GameState struct {
	grid    Grid
	speed   Speed
	spawner Spawner
	store   Store

	body      []structs.GridPoint // 0为蛇头
	apple     structs.GridPoint
	direction structs.Direction
	pending   structs.Direction
	score     int
	best      int
	eaten     int
	interval  time.Duration
	status    structs.Status
	wallMode  structs.WallMode
}

// New builds a running game. The best score is read from the store once.
func New(opts Options) *GameState {
	if opts.Grid.Width <= 0 || opts.Grid.Height <= 0 {
		opts.Grid = DefaultGrid()
	}
	if opts.Speed.Base <= 0 {
		opts.Speed = DefaultSpeed()
	}
	if opts.Spawner == nil {
		opts.Spawner = NewAppleSpawner(0)
	}
	if opts.Store == nil {
		opts.Store = &MemoryStore{}
	}
	g := &GameState{
		grid:     opts.Grid,
		speed:    opts.Speed,
		spawner:  opts.Spawner,
		store:    opts.Store,
		wallMode: opts.WallMode,
	}
	if best := g.store.LoadBestScore(); best > 0 {
		g.best = best
	}
	g.start()
	return g
}

// start places the initial 3-segment snake heading right.
func (g *GameState) start() {
	y := g.grid.Height / 2
	x := g.grid.Width/2 - 2
	g.body = []structs.GridPoint{{X: x, Y: y}, {X: x - 1, Y: y}, {X: x - 2, Y: y}}
	g.direction = structs.Right
	g.pending = structs.Right
	g.score = 0
	g.eaten = 0
	g.status = structs.Running
	g.interval = g.speed.Interval(0)
	g.spawnApple()
}

// Reset discards the current game and starts a new one. Wall mode and the
// best score carry over.
func (g *GameState) Reset() {
	g.start()
}

// RequestDirection queues d for the next tick unless it reverses the
// direction the snake is moving in right now.
func (g *GameState) RequestDirection(d structs.Direction) {
	if d == g.direction.Opposite() {
		return
	}
	g.pending = d
}

// TogglePause switches between running and paused. It does nothing once the
// game is over.
func (g *GameState) TogglePause() {
	switch g.status {
	case structs.Running:
		g.status = structs.Paused
	case structs.Paused:
		g.status = structs.Running
	}
}

// ToggleWallMode flips the wall mode for the following ticks. Positions are
// left as they are.
func (g *GameState) ToggleWallMode() {
	g.wallMode = g.wallMode.Toggle()
}

// Apply routes an input command to the matching transition.
func (g *GameState) Apply(cmd structs.Command) {
	if d, ok := cmd.Direction(); ok {
		g.RequestDirection(d)
		return
	}
	switch cmd {
	case structs.TogglePause:
		g.TogglePause()
	case structs.Reset:
		g.Reset()
	case structs.ToggleWallMode:
		g.ToggleWallMode()
	}
}

// Tick advances the game by one cell.
func (g *GameState) Tick() Outcome {
	if g.status != structs.Running {
		return Idle
	}

	g.direction = g.pending
	next := g.body[0].Add(g.direction.Offset())

	if g.wallMode == structs.Wrap {
		next = g.grid.Wrap(next)
	} else if !g.grid.Contains(next) {
		g.status = structs.GameOver
		return HitWall
	}

	// The whole body counts, including the tail cell that a plain move
	// would vacate this tick.
	if g.occupies(next) {
		g.status = structs.GameOver
		return HitSelf
	}

	g.body = append(g.body, structs.GridPoint{})
	copy(g.body[1:], g.body)
	g.body[0] = next

	if next == g.apple {
		g.eat()
		return Ate
	}

	g.body = g.body[:len(g.body)-1]
	return Moved
}

func (g *GameState) eat() {
	g.score += ApplePoints
	g.eaten++
	if g.score > g.best {
		g.best = g.score
		if err := g.store.SaveBestScore(g.best); err != nil {
			log.Printf("failed to save best score %d: %v", g.best, err)
		}
	}
	g.interval = g.speed.Next(g.interval, g.eaten)
	g.spawnApple()
}

func (g *GameState) spawnApple() {
	occupied := make(map[structs.GridPoint]bool, len(g.body))
	for _, p := range g.body {
		occupied[p] = true
	}
	g.apple = g.spawner.Spawn(g.grid.Width, g.grid.Height, occupied)
}

func (g *GameState) occupies(p structs.GridPoint) bool {
	for _, seg := range g.body {
		if seg == p {
			return true
		}
	}
	return false
}

// Snake returns a copy of the body, head first.
func (g *GameState) Snake() []structs.GridPoint {
	out := make([]structs.GridPoint, len(g.body))
	copy(out, g.body)
	return out
}

// Head is the first segment.
func (g *GameState) Head() structs.GridPoint { return g.body[0] }

func (g *GameState) Apple() structs.GridPoint { return g.apple }

// Direction is the direction of the last committed move.
func (g *GameState) Direction() structs.Direction { return g.direction }

// PendingDirection is the direction the next tick will commit.
func (g *GameState) PendingDirection() structs.Direction { return g.pending }

func (g *GameState) Score() int { return g.score }
func (g *GameState) BestScore() int { return g.best }
func (g *GameState) EatenApples() int { return g.eaten }
func (g *GameState) Interval() time.Duration { return g.interval }
func (g *GameState) Status() structs.Status { return g.status }
func (g *GameState) WallMode() structs.WallMode { return g.wallMode }
func (g *GameState) Grid() Grid { return g.grid }

// Shapes resolves the sprite shape of every segment.
func (g *GameState) Shapes() []structs.Shape {
	return Shapes(g.body, g.direction, g.grid)
}

// Snapshot copies the state into a plain value.
func (g *GameState) Snapshot() structs.Snapshot {
	return structs.Snapshot{
		Snake:       g.Snake(),
		Apple:       g.apple,
		Direction:   g.direction,
		Score:       g.score,
		BestScore:   g.best,
		EatenApples: g.eaten,
		IntervalMS:  g.interval.Milliseconds(),
		Status:      g.status,
		WallMode:    g.wallMode,
	}
}
