package progress

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/bassiony1/public-ANEES/core"
	"github.com/bassiony1/public-ANEES/core/level"
)

// Submit records a game score for a child and advances them to the next level once
// all three categories of levelNum are complete.
//
// It fails with ErrNotUnlocked when the child has no row for levelNum, with
// ErrGameNotFound when the level has no game of kind cat and with a validation
// error when sub is invalid, in that order.
func (svc *Service) Submit(
	ctx context.Context,
	childID string,
	levelNum int,
	cat level.Category,
	sub ScoreSubmission,
) (Result, error) {
	var res Result
	err := core.RunInTx(ctx, svc.db, func(tx core.DBExecutor) error {
		row, err := svc.repo.GetChildLevel(ctx, childID, levelNum, tx)
		if err != nil {
			if errors.Cause(err) == ErrNotFound {
				return ErrNotUnlocked
			}
			return errors.Wrap(err, "getting child level")
		}

		lvl, err := svc.catalog.Get(ctx, levelNum, tx)
		if err != nil {
			return errors.Wrap(err, "getting level")
		}
		if !lvl.HasGame(cat) {
			return ErrGameNotFound
		}

		if err = sub.Validate(svc.validate); err != nil {
			return err
		}

		res.NewHighScore = row.record(cat, *sub.Score)
		if row.Completed() && !row.CompletedDate.Valid {
			row.CompletedDate = null.TimeFrom(core.Today(svc.now()))
		}
		if row, err = svc.repo.UpdateChildLevel(ctx, row, tx); err != nil {
			return errors.Wrap(err, "updating child level")
		}
		res.Row = row

		if !row.Completed() {
			res.Outcome = GameCompleted
			return nil
		}
		res.Outcome, err = svc.advance(ctx, row, res.NewHighScore, tx)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// advance opens the level following the closed row, unless it is already open or there is none.
func (svc *Service) advance(ctx context.Context, row ChildLevel, newHighScore bool, tx core.DBExecutor) (Outcome, error) {
	next, err := svc.catalog.Next(ctx, row.LevelNum, tx)
	if err != nil {
		if errors.Cause(err) == level.ErrNotFound {
			return AllLevelsFinished, nil
		}
		return 0, errors.Wrap(err, "getting next level")
	}

	_, err = svc.repo.GetChildLevel(ctx, row.ChildID, next.Num, tx)
	switch errors.Cause(err) {
	case nil:
		if newHighScore {
			return LevelPassedWithHighScore, nil
		}
		return LevelPassed, nil
	case ErrNotFound: // pass
	default:
		return 0, errors.Wrap(err, "getting next child level")
	}

	if _, err = svc.Open(ctx, row.ChildID, next, tx); err != nil {
		if errors.Cause(err) == ErrDuplicateKey {
			svc.logger.Debug(fmt.Sprintf("level %d already opened for child %s", next.Num, row.ChildID))
			return LevelPassed, nil
		}
		return 0, errors.Wrap(err, "opening next level")
	}
	return LevelPassed, nil
}
