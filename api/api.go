package api

import (
	"fmt"
	"image"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/hoshinonyaruko/snake-retro/render"
	"github.com/hoshinonyaruko/snake-retro/shell"
	"github.com/hoshinonyaruko/snake-retro/sqlite"
	"github.com/hoshinonyaruko/snake-retro/structs"
)

// 输出尺寸上限
const maxFrameSide = 4096

// History lists finished games.
type History interface {
	RecentGames(limit int) ([]sqlite.GameRecord, error)
}

// Register mounts every handler on router.
func Register(router *gin.Engine, loop *shell.Loop, renderer *render.Renderer, history History, frameDir string) {
	// 处理玩家指令
	router.GET("/command", CommandHandler(loop))
	router.POST("/command", CommandHandler(loop))
	// 点击坐标 窗口像素
	router.GET("/click", ClickHandler(loop))
	// 渲染当前帧 返回png
	router.GET("/render-frame", RenderFrameHandler(loop, renderer, frameDir))
	router.GET("/state", StateHandler(loop))
	router.GET("/scores", ScoresHandler(history))
	router.GET("/ws", WebSocketHandler(loop))
}

func CommandHandler(loop *shell.Loop) gin.HandlerFunc {
	return func(c *gin.Context) {
		cmd, err := structs.ParseCommand(c.Query("cmd"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var snap structs.Snapshot
		err = loop.Do(c.Request.Context(), func(s *shell.Session) {
			s.Apply(cmd)
			snap = s.Snapshot()
		})
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Game loop is not running"})
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// ClickHandler maps a click in a width x height window onto the logical
// canvas and toggles the wall mode when it lands on the mode button.
func ClickHandler(loop *shell.Loop) gin.HandlerFunc {
	return func(c *gin.Context) {
		x, errX := strconv.Atoi(c.Query("x"))
		y, errY := strconv.Atoi(c.Query("y"))
		width, height, err := windowSize(c)
		if errX != nil || errY != nil || err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid query parameters: x, y, width, height"})
			return
		}

		p := render.ToLogical(image.Point{X: x, Y: y}, width, height)
		hit := render.HitModeButton(p)

		var snap structs.Snapshot
		err = loop.Do(c.Request.Context(), func(s *shell.Session) {
			if hit {
				s.Apply(structs.ToggleWallMode)
			}
			snap = s.Snapshot()
		})
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Game loop is not running"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"x": p.X, "y": p.Y, "hit": hit, "state": snap})
	}
}

// RenderFrameHandler answers with the current frame as PNG, scaled to the
// requested window size. The frame is also written to frameDir when set.
func RenderFrameHandler(loop *shell.Loop, renderer *render.Renderer, frameDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		width, height, err := windowSize(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var (
			frame     *image.RGBA
			sessionID string
			renderErr error
		)
		err = loop.View(c.Request.Context(), func(s *shell.Session) {
			frame, renderErr = renderer.Frame(s.Game(), s.Blink())
			sessionID = s.ID()
		})
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Game loop is not running"})
			return
		}
		if renderErr != nil {
			log.Printf("render failed: %v", renderErr)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to render frame"})
			return
		}

		out := render.Present(frame, width, height)
		if frameDir != "" {
			fileName := filepath.Join(frameDir, sessionID+".png")
			if err := imaging.Save(out, fileName); err != nil {
				log.Printf("failed to save frame %s: %v", fileName, err)
			}
		}

		c.Header("Content-Type", "image/png")
		c.Status(http.StatusOK)
		if err := imaging.Encode(c.Writer, out, imaging.PNG); err != nil {
			log.Printf("failed to encode frame: %v", err)
		}
	}
}

func StateHandler(loop *shell.Loop) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := loop.Snapshot(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Game loop is not running"})
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func ScoresHandler(history History) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if err != nil || limit <= 0 || limit > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		games, err := history.RecentGames(limit)
		if err != nil {
			log.Printf("failed to load games: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load games"})
			return
		}
		if games == nil {
			games = []sqlite.GameRecord{}
		}
		c.JSON(http.StatusOK, gin.H{"games": games})
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WebSocketHandler pushes a snapshot after every change. Text messages from
// the client are read as commands.
func WebSocketHandler(loop *shell.Loop) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("websocket upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		updates, cancel := loop.Subscribe()
		defer cancel()

		ctx := c.Request.Context()
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				messageType, data, err := conn.ReadMessage()
				if err != nil {
					return
				}
				if messageType != websocket.TextMessage {
					continue
				}
				cmd, err := structs.ParseCommand(string(data))
				if err != nil {
					log.Printf("websocket: %v", err)
					continue
				}
				if err := loop.Send(ctx, cmd); err != nil {
					return
				}
			}
		}()

		snap, err := loop.Snapshot(ctx)
		if err != nil {
			return
		}
		if err := writeSnapshot(conn, snap); err != nil {
			return
		}
		for {
			select {
			case <-closed:
				return
			case snap := <-updates:
				if err := writeSnapshot(conn, snap); err != nil {
					return
				}
			}
		}
	}
}

func writeSnapshot(conn *websocket.Conn, snap structs.Snapshot) error {
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteJSON(snap)
}

func windowSize(c *gin.Context) (int, int, error) {
	width, err := strconv.Atoi(c.DefaultQuery("width", strconv.Itoa(render.LogicalWidth)))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width: %w", err)
	}
	height, err := strconv.Atoi(c.DefaultQuery("height", strconv.Itoa(render.LogicalHeight)))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height: %w", err)
	}
	if width <= 0 || height <= 0 || width > maxFrameSide || height > maxFrameSide {
		return 0, 0, fmt.Errorf("window size %dx%d out of range", width, height)
	}
	return width, height, nil
}
