package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/bassiony1/public-ANEES/core"
	"github.com/bassiony1/public-ANEES/core/progress"
)

var childLevelColumns = []string{
	"child_id",
	"level_num",
	"receptive_complete",
	"expressive_complete",
	"social_complete",
	"receptive_score",
	"expressive_score",
	"social_score",
	"joined_date",
	"completed_date",
}

type childLevelRow struct {
	ChildID            string    `db:"child_id"`
	LevelNum           int       `db:"level_num"`
	ReceptiveComplete  bool      `db:"receptive_complete"`
	ExpressiveComplete bool      `db:"expressive_complete"`
	SocialComplete     bool      `db:"social_complete"`
	ReceptiveScore     int       `db:"receptive_score"`
	ExpressiveScore    int       `db:"expressive_score"`
	SocialScore        int       `db:"social_score"`
	JoinedDate         time.Time `db:"joined_date"`
	CompletedDate      null.Time `db:"completed_date"`
}

func (row childLevelRow) toChildLevel() progress.ChildLevel {
	cl := progress.ChildLevel{
		ChildID:            row.ChildID,
		LevelNum:           row.LevelNum,
		ReceptiveComplete:  row.ReceptiveComplete,
		ExpressiveComplete: row.ExpressiveComplete,
		SocialComplete:     row.SocialComplete,
		ReceptiveScore:     row.ReceptiveScore,
		ExpressiveScore:    row.ExpressiveScore,
		SocialScore:        row.SocialScore,
		JoinedDate:         core.Today(row.JoinedDate),
	}
	if row.CompletedDate.Valid {
		cl.CompletedDate = null.TimeFrom(core.Today(row.CompletedDate.Time))
	}
	return cl
}

type childLevelRepository struct {
	repository
}

var _ progress.Repository = (*childLevelRepository)(nil) // interface compliance check

func NewChildLevelRepository(db *sqlx.DB) *childLevelRepository {
	return &childLevelRepository{repository: newRepository(db)}
}

func (repo childLevelRepository) CreateChildLevel(ctx context.Context, cl progress.ChildLevel, exec ...core.DBExecutor) (progress.ChildLevel, error) {
	q := repo.sb.Insert("child_levels").
		Columns(childLevelColumns...).
		Values(
			cl.ChildID,
			cl.LevelNum,
			cl.ReceptiveComplete,
			cl.ExpressiveComplete,
			cl.SocialComplete,
			cl.ReceptiveScore,
			cl.ExpressiveScore,
			cl.SocialScore,
			cl.JoinedDate,
			cl.CompletedDate,
		).
		Suffix("ON CONFLICT (child_id, level_num) DO NOTHING")

	n, err := execAffected(ctx, repo.getExec(exec), q)
	if err != nil {
		if isUniqueViolation(err) {
			return progress.ChildLevel{}, progress.ErrDuplicateKey
		}
		return progress.ChildLevel{}, errors.Wrap(err, "inserting child level")
	}
	if n == 0 {
		return progress.ChildLevel{}, progress.ErrDuplicateKey
	}
	return cl, nil
}

func (repo childLevelRepository) GetChildLevel(ctx context.Context, childID string, levelNum int, exec ...core.DBExecutor) (progress.ChildLevel, error) {
	q := repo.sb.Select(childLevelColumns...).
		From("child_levels").
		Where(sq.Eq{"child_id": childID, "level_num": levelNum})
	row, err := getOne[childLevelRow](ctx, repo.getExec(exec), q)
	if err != nil {
		return progress.ChildLevel{}, trapNoRowsErr(err, progress.ErrNotFound)
	}
	return row.toChildLevel(), nil
}

func (repo childLevelRepository) UpdateChildLevel(ctx context.Context, cl progress.ChildLevel, exec ...core.DBExecutor) (progress.ChildLevel, error) {
	q := repo.sb.Update("child_levels").
		SetMap(map[string]interface{}{
			"receptive_complete":  cl.ReceptiveComplete,
			"expressive_complete": cl.ExpressiveComplete,
			"social_complete":     cl.SocialComplete,
			"receptive_score":     cl.ReceptiveScore,
			"expressive_score":    cl.ExpressiveScore,
			"social_score":        cl.SocialScore,
			"completed_date":      cl.CompletedDate,
		}).
		Where(sq.Eq{"child_id": cl.ChildID, "level_num": cl.LevelNum})

	n, err := execAffected(ctx, repo.getExec(exec), q)
	if err != nil {
		return progress.ChildLevel{}, errors.Wrap(err, "updating child level")
	}
	if n == 0 {
		return progress.ChildLevel{}, progress.ErrNotFound
	}
	return cl, nil
}

func (repo childLevelRepository) QueryChildLevels(ctx context.Context, childID string, exec ...core.DBExecutor) ([]progress.ChildLevel, error) {
	var rows []childLevelRow
	q := repo.sb.Select(childLevelColumns...).
		From("child_levels").
		Where(sq.Eq{"child_id": childID}).
		OrderBy(byLevelNum.String())
	if err := selectInto(ctx, repo.getExec(exec), &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting child levels")
	}

	levels := make([]progress.ChildLevel, 0, len(rows))
	for _, row := range rows {
		levels = append(levels, row.toChildLevel())
	}
	return levels, nil
}

func (repo childLevelRepository) QueryCompletedChildIDs(ctx context.Context, levelNum int, exec ...core.DBExecutor) ([]string, error) {
	var rows []struct {
		ChildID string `db:"child_id"`
	}
	q := repo.sb.Select("child_id").
		From("child_levels").
		Where(sq.Eq{
			"level_num":           levelNum,
			"receptive_complete":  true,
			"expressive_complete": true,
			"social_complete":     true,
		}).
		OrderBy(core.DBOrdering{Field: "child_id", Ascending: true}.String())
	if err := selectInto(ctx, repo.getExec(exec), &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting children who completed level")
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ChildID)
	}
	return ids, nil
}
