package progress

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/bassiony1/public-ANEES/core"
	"github.com/bassiony1/public-ANEES/core/level"
)

// AddLevel creates a level then opens it for the children entitled to it (see LevelCreated).
func (svc *Service) AddLevel(ctx context.Context, nl level.NewLevel) (level.Level, int, error) {
	lvl, err := svc.catalog.Create(ctx, nl)
	if err != nil {
		return level.Level{}, 0, errors.Wrap(err, "creating level")
	}
	n, err := svc.LevelCreated(ctx, lvl)
	return lvl, n, err
}

// LevelCreated opens a freshly created level for existing children and returns how many got it.
//
// Level 1 is opened for every child. Any other level N is opened for the children
// who completed level N-1; a level created before its predecessor is therefore
// opened for nobody.
// Rows are created one by one: on failure, the children handled so far keep their row.
func (svc *Service) LevelCreated(ctx context.Context, lvl level.Level) (int, error) {
	var childIDs []string
	var err error
	if lvl.Num == 1 {
		childIDs, err = svc.children.QueryChildIDs(ctx)
	} else {
		childIDs, err = svc.repo.QueryCompletedChildIDs(ctx, lvl.Num-1)
	}
	if err != nil {
		return 0, errors.Wrap(err, "querying children to backfill")
	}

	var backfilled int
	for _, id := range childIDs {
		if _, err = svc.Open(ctx, id, lvl); err != nil {
			if errors.Cause(err) == ErrDuplicateKey {
				continue
			}
			return backfilled, errors.Wrapf(err, "opening level %d for child %s", lvl.Num, id)
		}
		backfilled++
	}

	svc.logger.Info(fmt.Sprintf("level %d opened for %d children", lvl.Num, backfilled))
	return backfilled, nil
}

// ChildCreated opens level 1, if it exists, for a new child.
// It reports whether a row was created.
func (svc *Service) ChildCreated(ctx context.Context, childID string, exec ...core.DBExecutor) (bool, error) {
	lvl, err := svc.catalog.Get(ctx, 1, exec...)
	if err != nil {
		if errors.Cause(err) == level.ErrNotFound {
			return false, nil
		}
		return false, errors.Wrap(err, "getting level 1")
	}
	if _, err = svc.Open(ctx, childID, lvl, exec...); err != nil {
		return false, errors.Wrap(err, "opening level 1")
	}
	return true, nil
}
