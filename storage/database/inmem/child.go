package inmemdb

import (
	"context"
	"sort"

	"github.com/bassiony1/public-ANEES/core"
	"github.com/bassiony1/public-ANEES/core/child"
)

type childRepository struct {
	db *childTable
}

var _ child.Repository = (*childRepository)(nil) // interface compliance check

func NewChildRepository(db *DB) *childRepository {
	return &childRepository{db: db.child}
}

func (repo *childRepository) query() []child.Child {
	children := make([]child.Child, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		children = append(children, *c)
	}
	return children
}

func (repo *childRepository) CreateChild(_ context.Context, c child.Child, _ ...core.DBExecutor) (child.Child, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[c.ID]; ok {
		return child.Child{}, child.ErrExists
	}
	for _, other := range repo.query() {
		if other.Username == c.Username {
			return child.Child{}, child.ErrUsernameExists
		}
	}
	repo.db.table[c.ID] = &c
	return c, nil
}

func (repo *childRepository) GetChild(_ context.Context, id string, _ ...core.DBExecutor) (child.Child, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.table[id]; ok {
		return *c, nil
	}
	return child.Child{}, child.ErrNotFound
}

func (repo *childRepository) QueryChildren(_ context.Context, _ ...core.DBExecutor) ([]child.Child, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	children := repo.query()
	sort.Slice(children, func(i, j int) bool { return children[i].Username < children[j].Username })
	return children, nil
}

func (repo *childRepository) QueryChildIDs(_ context.Context, _ ...core.DBExecutor) ([]string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	ids := make([]string, 0, len(repo.db.table))
	for id := range repo.db.table {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (repo *childRepository) UpdateChild(_ context.Context, c child.Child, _ ...core.DBExecutor) (child.Child, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[c.ID]
	if !ok {
		return child.Child{}, child.ErrNotFound
	}
	orig.Picture = c.Picture
	return *orig, nil
}
