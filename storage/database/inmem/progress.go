package inmemdb

import (
	"context"
	"sort"

	"github.com/bassiony1/public-ANEES/core"
	"github.com/bassiony1/public-ANEES/core/progress"
)

type childLevelRepository struct {
	db *childLevelTable
}

var _ progress.Repository = (*childLevelRepository)(nil) // interface compliance check

func NewChildLevelRepository(db *DB) *childLevelRepository {
	return &childLevelRepository{db: db.childLevel}
}

func (repo *childLevelRepository) CreateChildLevel(_ context.Context, cl progress.ChildLevel, _ ...core.DBExecutor) (progress.ChildLevel, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := childLevelKey{childID: cl.ChildID, levelNum: cl.LevelNum}
	if _, ok := repo.db.table[key]; ok {
		return progress.ChildLevel{}, progress.ErrDuplicateKey
	}
	repo.db.table[key] = &cl
	return cl, nil
}

func (repo *childLevelRepository) GetChildLevel(_ context.Context, childID string, levelNum int, _ ...core.DBExecutor) (progress.ChildLevel, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cl, ok := repo.db.table[childLevelKey{childID: childID, levelNum: levelNum}]; ok {
		return *cl, nil
	}
	return progress.ChildLevel{}, progress.ErrNotFound
}

func (repo *childLevelRepository) UpdateChildLevel(_ context.Context, cl progress.ChildLevel, _ ...core.DBExecutor) (progress.ChildLevel, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := childLevelKey{childID: cl.ChildID, levelNum: cl.LevelNum}
	orig, ok := repo.db.table[key]
	if !ok {
		return progress.ChildLevel{}, progress.ErrNotFound
	}
	cl.JoinedDate = orig.JoinedDate // immutable
	repo.db.table[key] = &cl
	return cl, nil
}

func (repo *childLevelRepository) QueryChildLevels(_ context.Context, childID string, _ ...core.DBExecutor) ([]progress.ChildLevel, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	levels := make([]progress.ChildLevel, 0)
	for key, cl := range repo.db.table {
		if key.childID == childID {
			levels = append(levels, *cl)
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].LevelNum < levels[j].LevelNum })
	return levels, nil
}

func (repo *childLevelRepository) QueryCompletedChildIDs(_ context.Context, levelNum int, _ ...core.DBExecutor) ([]string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := make([]string, 0)
	for key, cl := range repo.db.table {
		if key.levelNum == levelNum && cl.Completed() {
			ids = append(ids, key.childID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
