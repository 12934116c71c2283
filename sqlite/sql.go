package sqlite

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hoshinonyaruko/snake-retro/structs"
	_ "github.com/mattn/go-sqlite3"
)

const createBestScoreTableSQL = `
CREATE TABLE IF NOT EXISTS BestScore (
    ID INTEGER PRIMARY KEY CHECK (ID = 1),
    Score INTEGER NOT NULL
);
`

const createGamesTableSQL = `
CREATE TABLE IF NOT EXISTS Games (
    SessionID TEXT PRIMARY KEY,
    Score INTEGER,
    EatenApples INTEGER,
    WallMode TEXT,
    EndedAt TIMESTAMP
);
`

const createGamesIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_games_ended ON Games (EndedAt);
`

func executeSQL(db *sql.DB, sqlStatement string) error {
	if _, err := db.Exec(sqlStatement); err != nil {
		return fmt.Errorf("error executing SQL statement: %s: %w", sqlStatement, err)
	}
	return nil
}

// InitializeDatabase creates the tables when they are missing.
func InitializeDatabase(db *sql.DB) error {
	for _, stmt := range []string{createBestScoreTableSQL, createGamesTableSQL, createGamesIndexSQL} {
		if err := executeSQL(db, stmt); err != nil {
			return err
		}
	}
	return nil
}

// GameRecord 一局结束后的记录
type GameRecord struct {
	SessionID   string           `json:"session_id"`   // 局标识
	Score       int              `json:"score"`        // 得分
	EatenApples int              `json:"eaten_apples"` // 吃掉的苹果数
	WallMode    structs.WallMode `json:"wall_mode"`    // 墙壁模式
	EndedAt     time.Time        `json:"ended_at"`     // 结束时间
}

// Store keeps the best score and the history of finished games.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database file at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := InitializeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// LoadBestScore returns the stored best score, or 0 when there is none or
// it cannot be read.
func (s *Store) LoadBestScore() int {
	var score int
	err := s.db.QueryRow("SELECT Score FROM BestScore WHERE ID = 1").Scan(&score)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("failed to load best score: %v", err)
		}
		return 0
	}
	if score < 0 {
		return 0
	}
	return score
}

// SaveBestScore overwrites the stored best score.
func (s *Store) SaveBestScore(score int) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO BestScore (ID, Score) VALUES (1, ?)", score)
	return err
}

// RecordGame stores a finished game. A missing session id gets a fresh one
// and a zero EndedAt is set to now.
func (s *Store) RecordGame(rec GameRecord) error {
	if rec.SessionID == "" {
		rec.SessionID = uuid.NewString()
	}
	if rec.EndedAt.IsZero() {
		rec.EndedAt = time.Now()
	}

	// 开启事务
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	_, err = tx.Exec("INSERT OR REPLACE INTO Games (SessionID, Score, EatenApples, WallMode, EndedAt) VALUES (?, ?, ?, ?, ?)",
		rec.SessionID, rec.Score, rec.EatenApples, rec.WallMode.String(), rec.EndedAt.UTC())
	if err != nil {
		tx.Rollback()
		return err
	}

	// 保证最高分不低于任何一局的得分
	_, err = tx.Exec(`INSERT INTO BestScore (ID, Score) VALUES (1, ?)
		ON CONFLICT(ID) DO UPDATE SET Score = MAX(Score, excluded.Score)`, rec.Score)
	if err != nil {
		tx.Rollback()
		return err
	}

	// 提交事务
	return tx.Commit()
}

// RecentGames returns up to limit finished games, newest first.
func (s *Store) RecentGames(limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query("SELECT SessionID, Score, EatenApples, WallMode, EndedAt FROM Games ORDER BY EndedAt DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []GameRecord
	for rows.Next() {
		var rec GameRecord
		var mode string
		if err := rows.Scan(&rec.SessionID, &rec.Score, &rec.EatenApples, &mode, &rec.EndedAt); err != nil {
			return nil, err
		}
		if rec.WallMode, err = structs.ParseWallMode(mode); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
