package structs

import (
	"fmt"
	"strings"
)

// GridPoint 描述游戏地图上的一个格子坐标。
type GridPoint struct {
	X int `json:"x"` // X坐标
	Y int `json:"y"` // Y坐标
}

// Add returns p shifted by d.
func (p GridPoint) Add(d GridPoint) GridPoint {
	return GridPoint{X: p.X + d.X, Y: p.Y + d.Y}
}

func (p GridPoint) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction 蛇头的移动方向
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

var directionNames = [...]string{"up", "right", "down", "left"}

// Directions lists every direction in declaration order.
var Directions = []Direction{Up, Right, Down, Left}

func (d Direction) String() string {
	if d < Up || d > Left {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// Opposite returns the reverse of d: Up<->Down, Left<->Right.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Offset is the one-cell step for d. Y grows downwards.
func (d Direction) Offset() GridPoint {
	switch d {
	case Up:
		return GridPoint{X: 0, Y: -1}
	case Right:
		return GridPoint{X: 1, Y: 0}
	case Down:
		return GridPoint{X: 0, Y: 1}
	default:
		return GridPoint{X: -1, Y: 0}
	}
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection accepts "up", "right", "down" or "left" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "right":
		return Right, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	}
	return Up, fmt.Errorf("invalid direction '%s' provided", s)
}

// WallMode 墙壁模式：经典（撞墙结束）或穿墙
type WallMode int

const (
	Classic WallMode = iota
	Wrap
)

func (m WallMode) String() string {
	if m == Wrap {
		return "wrap"
	}
	return "classic"
}

// Toggle flips Classic and Wrap.
func (m WallMode) Toggle() WallMode {
	if m == Classic {
		return Wrap
	}
	return Classic
}

func (m WallMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *WallMode) UnmarshalText(text []byte) error {
	parsed, err := ParseWallMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseWallMode accepts "classic" or "wrap". An empty string means Classic.
func ParseWallMode(s string) (WallMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "classic":
		return Classic, nil
	case "wrap":
		return Wrap, nil
	}
	return Classic, fmt.Errorf("invalid wall mode '%s' provided", s)
}

// Status 游戏状态
type Status int

const (
	Running Status = iota
	Paused
	GameOver
)

func (s Status) String() string {
	switch s {
	case Paused:
		return "paused"
	case GameOver:
		return "game_over"
	default:
		return "running"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Role is the sprite family used for a snake segment.
type Role int

const (
	Head Role = iota
	Body
	Turn
	Tail
)

var roleNames = [...]string{"head", "body", "turn", "tail"}

func (r Role) String() string {
	if r < Head || r > Tail {
		return fmt.Sprintf("role(%d)", int(r))
	}
	return roleNames[r]
}

// Shape selects the sprite for one segment. For Body the orientation is a
// sprite variant (Up = vertical run, Right = horizontal run); for Turn it
// names the corner sprite.
type Shape struct {
	Role        Role      `json:"role"`
	Orientation Direction `json:"orientation"`
}

// SpriteName is the sprite file name for the shape, e.g. "head_up".
func (s Shape) SpriteName() string {
	return s.Role.String() + "_" + s.Orientation.String()
}

// Command 输入层发给游戏的离散指令
type Command int

const (
	MoveUp Command = iota
	MoveRight
	MoveDown
	MoveLeft
	TogglePause
	Reset
	ToggleWallMode
)

var commandNames = [...]string{"up", "right", "down", "left", "pause", "reset", "wall"}

func (c Command) String() string {
	if c < MoveUp || c > ToggleWallMode {
		return fmt.Sprintf("command(%d)", int(c))
	}
	return commandNames[c]
}

// Direction reports the direction a move command asks for.
func (c Command) Direction() (Direction, bool) {
	switch c {
	case MoveUp:
		return Up, true
	case MoveRight:
		return Right, true
	case MoveDown:
		return Down, true
	case MoveLeft:
		return Left, true
	}
	return Up, false
}

// ParseCommand maps the names used by the HTTP shell to commands.
func ParseCommand(s string) (Command, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range commandNames {
		if n == name {
			return Command(i), nil
		}
	}
	return MoveUp, fmt.Errorf("invalid command '%s' provided", s)
}

// Snapshot 描述某一时刻的完整游戏状态，只读
type Snapshot struct {
	SessionID   string      `json:"session_id"`   // 当前局的标识
	Snake       []GridPoint `json:"snake"`        // 蛇身，0为蛇头
	Apple       GridPoint   `json:"apple"`        // 苹果位置
	Direction   Direction   `json:"direction"`    // 当前方向
	Score       int         `json:"score"`        // 分数
	BestScore   int         `json:"best_score"`   // 最高分
	EatenApples int         `json:"eaten_apples"` // 吃掉的苹果数
	IntervalMS  int64       `json:"interval_ms"`  // 当前刷新间隔，单位毫秒
	Status      Status      `json:"status"`       // 运行/暂停/结束
	WallMode    WallMode    `json:"wall_mode"`    // 墙壁模式
	Blink       bool        `json:"blink"`        // 苹果闪烁帧
}
