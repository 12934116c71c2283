package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gin-gonic/gin"

	"github.com/hoshinonyaruko/snake-retro/api"
	"github.com/hoshinonyaruko/snake-retro/audio"
	"github.com/hoshinonyaruko/snake-retro/config"
	"github.com/hoshinonyaruko/snake-retro/memimg"
	"github.com/hoshinonyaruko/snake-retro/render"
	"github.com/hoshinonyaruko/snake-retro/shell"
	"github.com/hoshinonyaruko/snake-retro/snake"
	"github.com/hoshinonyaruko/snake-retro/sqlite"
	"github.com/hoshinonyaruko/snake-retro/structs"
	"github.com/hoshinonyaruko/snake-retro/tui"
	"github.com/hoshinonyaruko/snake-retro/window"
)

func main() {
	configPath := flag.String("config", "./config.json", "config file, .json or .yaml")
	frontend := flag.String("frontend", "", "override the configured frontend: http, terminal or window")
	flag.Parse()

	// Initialize the configuration
	cfg := config.LoadConfig(*configPath)
	if *frontend != "" {
		cfg.Frontend = *frontend
	}
	EnsureFoldersExist(cfg.FrameDir)

	// 终端模式下日志会打乱画面，改写到文件
	if cfg.Frontend == "terminal" {
		logFile, err := os.OpenFile("snake.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// 载入素材，缺任何一个都无法绘图
	lib, err := memimg.Open(cfg.AssetDir)
	if err != nil {
		log.Fatalf("Failed to load assets: %v", err)
	}
	if err := lib.Preload(render.RequiredSprites()); err != nil {
		log.Fatalf("Failed to load sprites: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 检测并热更新到内存
	if cfg.WatchAssets && cfg.AssetDir != "" {
		go func() {
			if err := lib.Watch(ctx); err != nil {
				log.Printf("asset watcher stopped: %v", err)
			}
		}()
	}

	if err := play(ctx, cfg, lib); err != nil {
		log.Fatalf("%s: %v", cfg.Frontend, err)
	}
}

// play opens the store, builds the game and blocks in the chosen frontend.
// Errors are returned so the store is closed before the process exits.
func play(ctx context.Context, cfg *config.AppConfig, lib *memimg.Library) error {
	switch cfg.Frontend {
	case "window", "terminal", "http":
	default:
		return fmt.Errorf("unknown frontend %q", cfg.Frontend)
	}
	wallMode, err := structs.ParseWallMode(cfg.WallMode)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	store, err := sqlite.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database %s: %w", cfg.Database, err)
	}
	defer store.Close()

	game := snake.New(snake.Options{
		Speed: snake.Speed{
			Base:      milliseconds(cfg.TickMS),
			Step:      cfg.SpeedStep,
			Decrement: milliseconds(cfg.SpeedDecrementMS),
			Floor:     milliseconds(cfg.MinTickMS),
		},
		Spawner:  snake.NewAppleSpawner(cfg.Seed),
		Store:    store,
		WallMode: wallMode,
	})

	player := audio.New(cfg.Sound)
	session := shell.NewSession(game, shell.Hooks{
		OnOutcome: player.Play,
		OnGameEnd: func(rec sqlite.GameRecord) {
			if err := store.RecordGame(rec); err != nil {
				log.Printf("failed to record game %s: %v", rec.SessionID, err)
			}
		},
	})
	renderer := render.New(lib)
	blink := milliseconds(cfg.BlinkMS)

	switch cfg.Frontend {
	case "window":
		return window.Run(window.New(session, renderer, blink), cfg.WindowScale)
	case "terminal":
		return runTerminal(ctx, shell.NewLoop(session, blink))
	default:
		return runHTTP(ctx, shell.NewLoop(session, blink), renderer, store, cfg)
	}
}

func runTerminal(ctx context.Context, loop *shell.Loop) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go loop.Run(ctx)

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	return tui.Run(ctx, screen, loop)
}

func runHTTP(ctx context.Context, loop *shell.Loop, renderer *render.Renderer, store *sqlite.Store, cfg *config.AppConfig) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go loop.Run(ctx)

	router := gin.Default()
	api.Register(router, loop, renderer, store, cfg.FrameDir)
	if cfg.FrameDir != "" {
		router.Static("/static", cfg.FrameDir) // 静态文件服务
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func milliseconds(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// EnsureFoldersExist 检查并创建必需的文件夹
func EnsureFoldersExist(folders ...string) {
	for _, folder := range folders {
		if folder == "" {
			continue
		}
		if _, err := os.Stat(folder); os.IsNotExist(err) {
			// 文件夹不存在，尝试创建它
			err := os.MkdirAll(folder, 0755)
			if err != nil {
				log.Fatalf("Failed to create %s directory: %s", folder, err)
			}
			log.Printf("Created %s directory", folder)
		}
	}
}
