package memimg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/hoshinonyaruko/snake-retro/assets"
	"github.com/hoshinonyaruko/snake-retro/structs"
)

// Asset errors. They are fatal at startup.
var (
	ErrSpriteMissing = errors.New("sprite file missing")
	ErrSpriteEmpty   = errors.New("sprite is empty")
	ErrSpriteRagged  = errors.New("sprite rows differ in width")
	ErrPalette       = errors.New("malformed palette")
)

const paletteFileName = "palette.json"

// Category is the sub-directory a sprite lives in.
type Category string

const (
	Tiles Category = "tiles"
	Items Category = "items"
	UI    Category = "ui"
	Snake Category = "snake"
)

var categories = []Category{Tiles, Items, UI, Snake}

// Sprite is a rectangular grid of palette symbols.
type Sprite struct {
	Name   string
	Pixels [][]rune
	Width  int
	Height int
}

// Ref names one sprite.
type Ref struct {
	Category Category
	Name     string
}

func (r Ref) path() string {
	return path.Join(string(r.Category), r.Name+".txt")
}

// Library loads text sprites on first use and keeps them in memory.
type Library struct {
	fsys fs.FS
	dir  string // 磁盘目录，为空时使用内嵌资源

	mu      sync.RWMutex
	palette *Palette
	sprites map[string]*Sprite
}

// Open returns a library reading from dir, or from the embedded sprite sheet
// when dir is empty.
func Open(dir string) (*Library, error) {
	if dir == "" {
		return NewLibrary(assets.FS)
	}
	lib, err := NewLibrary(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	lib.dir = dir
	return lib, nil
}

// NewLibrary reads the palette from fsys right away.
func NewLibrary(fsys fs.FS) (*Library, error) {
	lib := &Library{fsys: fsys, sprites: make(map[string]*Sprite)}
	palette, err := lib.loadPalette()
	if err != nil {
		return nil, err
	}
	lib.palette = palette
	return lib, nil
}

func (l *Library) loadPalette() (*Palette, error) {
	data, err := fs.ReadFile(l.fsys, paletteFileName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPalette, err)
	}
	return ParsePalette(data)
}

// Palette returns the current palette.
func (l *Library) Palette() *Palette {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.palette
}

// Sprite returns the named sprite of a category, loading it on first use.
func (l *Library) Sprite(category Category, name string) (*Sprite, error) {
	key := Ref{Category: category, Name: name}.path()

	l.mu.RLock()
	sprite, ok := l.sprites[key]
	l.mu.RUnlock()
	if ok {
		return sprite, nil
	}

	sprite, err := l.load(key)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.sprites[key] = sprite
	l.mu.Unlock()
	return sprite, nil
}

// SnakeSprite returns the sprite for a resolved segment shape.
func (l *Library) SnakeSprite(shape structs.Shape) (*Sprite, error) {
	return l.Sprite(Snake, shape.SpriteName())
}

// Preload loads every ref and stops at the first broken one.
func (l *Library) Preload(refs []Ref) error {
	for _, ref := range refs {
		if _, err := l.Sprite(ref.Category, ref.Name); err != nil {
			return err
		}
	}
	return nil
}

func (l *Library) load(key string) (*Sprite, error) {
	data, err := fs.ReadFile(l.fsys, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSpriteMissing, key, err)
	}
	return ParseSprite(key, data)
}

// ParseSprite decodes a text sprite. Blank lines are skipped and every
// remaining line must have the same width.
func ParseSprite(name string, data []byte) (*Sprite, error) {
	var rows [][]rune
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, []rune(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading sprite %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSpriteEmpty, name)
	}
	width := len(rows[0])
	for _, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: %s", ErrSpriteRagged, name)
		}
	}
	return &Sprite{Name: name, Pixels: rows, Width: width, Height: len(rows)}, nil
}

// reload re-reads one changed file. A broken file leaves the previous
// version in place.
func (l *Library) reload(rel string) {
	rel = filepath.ToSlash(rel)
	if rel == paletteFileName {
		palette, err := l.loadPalette()
		if err != nil {
			log.Printf("keeping previous palette: %v", err)
			return
		}
		l.mu.Lock()
		l.palette = palette
		l.mu.Unlock()
		log.Printf("palette reloaded")
		return
	}

	l.mu.RLock()
	_, cached := l.sprites[rel]
	l.mu.RUnlock()
	if !cached {
		return
	}
	sprite, err := l.load(rel)
	if err != nil {
		log.Printf("keeping previous sprite %s: %v", rel, err)
		return
	}
	l.mu.Lock()
	l.sprites[rel] = sprite
	l.mu.Unlock()
	log.Printf("sprite %s reloaded", rel)
}

// Watch reloads sprites and the palette when files in the asset directory
// change. It blocks until ctx is done. Embedded libraries have nothing to
// watch and return at once.
func (l *Library) Watch(ctx context.Context) error {
	if l.dir == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(l.dir); err != nil {
		return err
	}
	for _, c := range categories {
		sub := filepath.Join(l.dir, string(c))
		if _, err := os.Stat(sub); err == nil {
			if err := watcher.Add(sub); err != nil {
				return err
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				rel, err := filepath.Rel(l.dir, event.Name)
				if err != nil {
					continue
				}
				l.reload(rel)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Println("asset watcher error:", err)
		}
	}
}
