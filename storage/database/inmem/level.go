package inmemdb

import (
	"context"
	"sort"

	"github.com/bassiony1/public-ANEES/core"
	"github.com/bassiony1/public-ANEES/core/level"
)

type levelRepository struct {
	db *levelTable
}

var _ level.Repository = (*levelRepository)(nil) // interface compliance check

func NewLevelRepository(db *DB) *levelRepository {
	return &levelRepository{db: db.level}
}

// copyLevel returns a deep copy of lvl so that callers never share game pointers with the table.
func copyLevel(lvl level.Level) level.Level {
	if g := lvl.Receptive; g != nil {
		cp := *g
		cp.Images = append([]level.Image{}, g.Images...)
		lvl.Receptive = &cp
	}
	if g := lvl.Expressive; g != nil {
		cp := *g
		lvl.Expressive = &cp
	}
	if g := lvl.Social; g != nil {
		cp := *g
		cp.Messages = append([]level.Message{}, g.Messages...)
		lvl.Social = &cp
	}
	return lvl
}

func (repo *levelRepository) sorted() []level.Level {
	levels := make([]level.Level, 0, len(repo.db.table))
	for _, lvl := range repo.db.table {
		levels = append(levels, copyLevel(*lvl))
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Num < levels[j].Num })
	return levels
}

func (repo *levelRepository) CreateLevel(_ context.Context, lvl level.Level, _ ...core.DBExecutor) (level.Level, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[lvl.Num]; ok {
		return level.Level{}, level.ErrExists
	}
	stored := copyLevel(lvl)
	repo.db.table[lvl.Num] = &stored
	return copyLevel(stored), nil
}

func (repo *levelRepository) GetLevel(_ context.Context, num int, _ ...core.DBExecutor) (level.Level, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if lvl, ok := repo.db.table[num]; ok {
		return copyLevel(*lvl), nil
	}
	return level.Level{}, level.ErrNotFound
}

func (repo *levelRepository) NextLevel(_ context.Context, num int, _ ...core.DBExecutor) (level.Level, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, lvl := range repo.sorted() {
		if lvl.Num > num {
			return lvl, nil
		}
	}
	return level.Level{}, level.ErrNotFound
}

func (repo *levelRepository) QueryLevels(_ context.Context, _ ...core.DBExecutor) ([]level.Level, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.sorted(), nil
}

func (repo *levelRepository) SetGames(_ context.Context, num int, games level.Games, _ ...core.DBExecutor) (level.Level, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	lvl, ok := repo.db.table[num]
	if !ok {
		return level.Level{}, level.ErrNotFound
	}
	updated := copyLevel(level.Level{
		Num:        lvl.Num,
		Receptive:  games.Receptive,
		Expressive: games.Expressive,
		Social:     games.Social,
		CreatedAt:  lvl.CreatedAt,
	})
	repo.db.table[num] = &updated
	return copyLevel(updated), nil
}
