package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// AppConfig holds the structure of the configuration
type AppConfig struct {
	Port             string `json:"port" yaml:"port"`                         // http前端监听端口
	Frontend         string `json:"frontend" yaml:"frontend"`                 // http, terminal 或 window
	AssetDir         string `json:"assetdir" yaml:"assetdir"`                 // 为空时使用内置素材
	WatchAssets      bool   `json:"watchassets" yaml:"watchassets"`           // 素材热更新
	Database         string `json:"database" yaml:"database"`                 // sqlite文件
	TickMS           int    `json:"tickms" yaml:"tickms"`                     // 初始刷新间隔
	MinTickMS        int    `json:"mintickms" yaml:"mintickms"`               // 最短间隔
	SpeedStep        int    `json:"speedstep" yaml:"speedstep"`               // 每吃几个苹果加速一次
	SpeedDecrementMS int    `json:"speeddecrementms" yaml:"speeddecrementms"` // 每次加速缩短的毫秒数
	BlinkMS          int    `json:"blinkms" yaml:"blinkms"`                   // 苹果闪烁间隔
	WindowScale      int    `json:"windowscale" yaml:"windowscale"`           // 窗口放大倍数
	Sound            bool   `json:"sound" yaml:"sound"`
	WallMode         string `json:"wallmode" yaml:"wallmode"` // classic 或 wrap
	Seed             int64  `json:"seed" yaml:"seed"`         // 0 表示按时间随机
	FrameDir         string `json:"framedir" yaml:"framedir"` // 保存渲染帧的目录，为空不保存
}

var (
	instance *AppConfig
	once     sync.Once
)

// Default returns the built-in settings.
func Default() *AppConfig {
	return &AppConfig{
		Port:             "38870",
		Frontend:         "window",
		WatchAssets:      false,
		Database:         "snake.db",
		TickMS:           170,
		MinTickMS:        70,
		SpeedStep:        4,
		SpeedDecrementMS: 12,
		BlinkMS:          300,
		WindowScale:      2,
		Sound:            true,
		WallMode:         "classic",
	}
}

// LoadConfig initializes and returns the instance of AppConfig
func LoadConfig(filePath string) *AppConfig {
	once.Do(func() {
		cfg, err := Load(filePath)
		if err != nil {
			panic(err)
		}
		instance = cfg
	})
	return instance
}

// Load reads filePath on top of the defaults. A missing file is created with
// the defaults. Files ending in .yaml or .yml are YAML, everything else JSON.
func Load(filePath string) (*AppConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return cfg, saveConfig(filePath, cfg)
	}
	if err != nil {
		return nil, err
	}

	if isYAML(filePath) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filePath, err)
	}
	return cfg, cfg.validate()
}

func (c *AppConfig) validate() error {
	switch c.Frontend {
	case "http", "terminal", "window":
	default:
		return fmt.Errorf("unknown frontend %q", c.Frontend)
	}
	if c.TickMS <= 0 || c.MinTickMS <= 0 || c.BlinkMS <= 0 {
		return fmt.Errorf("tickms, mintickms and blinkms must be positive")
	}
	if c.MinTickMS > c.TickMS {
		return fmt.Errorf("mintickms %d is above tickms %d", c.MinTickMS, c.TickMS)
	}
	if c.SpeedStep <= 0 {
		return fmt.Errorf("speedstep must be positive")
	}
	if c.SpeedDecrementMS < 0 {
		return fmt.Errorf("speeddecrementms must not be negative")
	}
	if c.WindowScale <= 0 {
		c.WindowScale = 1
	}
	return nil
}

// saveConfig saves the current settings to the file
func saveConfig(filePath string, cfg *AppConfig) error {
	var (
		data []byte
		err  error
	)
	if isYAML(filePath) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

func isYAML(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	return ext == ".yaml" || ext == ".yml"
}

// GetConfigValue returns the value of the configuration by key
func GetConfigValue(key string) interface{} {
	switch key {
	case "port":
		return instance.Port
	case "frontend":
		return instance.Frontend
	case "assetdir":
		return instance.AssetDir
	case "watchassets":
		return instance.WatchAssets
	case "database":
		return instance.Database
	case "tickms":
		return instance.TickMS
	case "mintickms":
		return instance.MinTickMS
	case "speedstep":
		return instance.SpeedStep
	case "speeddecrementms":
		return instance.SpeedDecrementMS
	case "blinkms":
		return instance.BlinkMS
	case "windowscale":
		return instance.WindowScale
	case "sound":
		return instance.Sound
	case "wallmode":
		return instance.WallMode
	case "seed":
		return instance.Seed
	case "framedir":
		return instance.FrameDir
	default:
		return ""
	}
}
