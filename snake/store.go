package snake

// Store persists the best score between sessions.
//
// LoadBestScore returns 0 when nothing usable is stored. SaveBestScore is
// only called when a new best is reached; its error is logged and dropped.
type Store interface {
	LoadBestScore() int
	SaveBestScore(score int) error
}

// MemoryStore keeps the best score in memory.
type MemoryStore struct {
	Best  int
	Saves int
	Err   error
}

func (m *MemoryStore) LoadBestScore() int {
	return m.Best
}

func (m *MemoryStore) SaveBestScore(score int) error {
	m.Saves++
	if m.Err != nil {
		return m.Err
	}
	m.Best = score
	return nil
}
