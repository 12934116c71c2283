package shell

import (
	"github.com/google/uuid"

	"github.com/hoshinonyaruko/snake-retro/snake"
	"github.com/hoshinonyaruko/snake-retro/sqlite"
	"github.com/hoshinonyaruko/snake-retro/structs"
)

// Hooks are called on the goroutine that drives the session.
type Hooks struct {
	OnOutcome func(snake.Outcome)         // 每次tick之后
	OnGameEnd func(rec sqlite.GameRecord) // 一局结束：撞墙、撞自己或中途重置
}

// Session wraps a GameState with the things a frontend needs besides the
// simulation: the apple blink flag, a per-game id and outcome hooks.
type Session struct {
	game   *snake.GameState
	hooks  Hooks
	id     string
	blink  bool
	played bool // 本局是否已经移动过
}

func NewSession(game *snake.GameState, hooks Hooks) *Session {
	return &Session{game: game, hooks: hooks, id: uuid.NewString()}
}

// Game exposes the underlying state for rendering.
func (s *Session) Game() *snake.GameState { return s.game }

// ID identifies the current game. It changes on every reset.
func (s *Session) ID() string { return s.id }

func (s *Session) Blink() bool { return s.blink }

// ToggleBlink flips the apple animation frame.
func (s *Session) ToggleBlink() { s.blink = !s.blink }

// Apply forwards cmd to the game. A reset of a game that was played but
// not finished is recorded before the new game starts.
func (s *Session) Apply(cmd structs.Command) {
	if cmd == structs.Reset {
		if s.played && s.game.Status() != structs.GameOver {
			s.finish()
		}
		s.game.Reset()
		s.id = uuid.NewString()
		s.played = false
		return
	}
	s.game.Apply(cmd)
}

// Tick advances the game once and reports what happened.
func (s *Session) Tick() snake.Outcome {
	o := s.game.Tick()
	if o != snake.Idle {
		s.played = true
	}
	if s.hooks.OnOutcome != nil && o != snake.Idle {
		s.hooks.OnOutcome(o)
	}
	if o.Ended() {
		s.finish()
	}
	return o
}

func (s *Session) finish() {
	if s.hooks.OnGameEnd == nil {
		return
	}
	s.hooks.OnGameEnd(sqlite.GameRecord{
		SessionID:   s.id,
		Score:       s.game.Score(),
		EatenApples: s.game.EatenApples(),
		WallMode:    s.game.WallMode(),
	})
}

// Snapshot is the game snapshot plus the session fields.
func (s *Session) Snapshot() structs.Snapshot {
	snap := s.game.Snapshot()
	snap.SessionID = s.id
	snap.Blink = s.blink
	return snap
}
