package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/bassiony1/public-ANEES/core"
	"github.com/bassiony1/public-ANEES/core/child"
)

var childColumns = []string{
	"id",
	"username",
	"email",
	"first_name",
	"last_name",
	"gender",
	"date_of_birth",
	"picture",
	"date_joined",
}

type childRow struct {
	ID          string    `db:"id"`
	Username    string    `db:"username"`
	Email       string    `db:"email"`
	FirstName   string    `db:"first_name"`
	LastName    string    `db:"last_name"`
	Gender      string    `db:"gender"`
	DateOfBirth null.Time `db:"date_of_birth"`
	Picture     string    `db:"picture"`
	DateJoined  time.Time `db:"date_joined"`
}

func (row childRow) toChild() child.Child {
	c := child.Child{
		ID:         row.ID,
		Username:   row.Username,
		Email:      row.Email,
		FirstName:  row.FirstName,
		LastName:   row.LastName,
		Gender:     row.Gender,
		Picture:    row.Picture,
		DateJoined: row.DateJoined.UTC(),
	}
	if row.DateOfBirth.Valid {
		c.DateOfBirth = null.TimeFrom(core.Today(row.DateOfBirth.Time))
	}
	return c
}

type childRepository struct {
	repository
}

var _ child.Repository = (*childRepository)(nil) // interface compliance check

func NewChildRepository(db *sqlx.DB) *childRepository {
	return &childRepository{repository: newRepository(db)}
}

func (repo childRepository) checkUniqueness(ctx context.Context, ex core.DBExecutor, c child.Child) error {
	var rows []childRow
	q := repo.sb.Select(childColumns...).
		From("children").
		Where(sq.Or{sq.Eq{"id": c.ID}, sq.Eq{"username": c.Username}})
	if err := selectInto(ctx, ex, &rows, q); err != nil {
		return errors.Wrap(err, "checking child uniqueness")
	}
	for _, row := range rows {
		if row.ID == c.ID {
			return child.ErrExists
		}
		if row.Username == c.Username {
			return child.ErrUsernameExists
		}
	}
	return nil
}

func (repo childRepository) CreateChild(ctx context.Context, c child.Child, exec ...core.DBExecutor) (child.Child, error) {
	ex := repo.getExec(exec)
	if err := repo.checkUniqueness(ctx, ex, c); err != nil {
		return child.Child{}, err
	}

	c.DateJoined = c.DateJoined.UTC()
	q := repo.sb.Insert("children").
		Columns(childColumns...).
		Values(c.ID, c.Username, c.Email, c.FirstName, c.LastName, c.Gender, c.DateOfBirth, c.Picture, c.DateJoined)
	if _, err := execAffected(ctx, ex, q); err != nil {
		if isUniqueViolation(err) {
			return child.Child{}, child.ErrExists
		}
		return child.Child{}, errors.Wrap(err, "inserting child")
	}
	return c, nil
}

func (repo childRepository) GetChild(ctx context.Context, id string, exec ...core.DBExecutor) (child.Child, error) {
	q := repo.sb.Select(childColumns...).From("children").Where(sq.Eq{"id": id})
	row, err := getOne[childRow](ctx, repo.getExec(exec), q)
	if err != nil {
		return child.Child{}, trapNoRowsErr(err, child.ErrNotFound)
	}
	return row.toChild(), nil
}

func (repo childRepository) QueryChildren(ctx context.Context, exec ...core.DBExecutor) ([]child.Child, error) {
	var rows []childRow
	q := repo.sb.Select(childColumns...).From("children").OrderBy(core.DBOrdering{Field: "username", Ascending: true}.String())
	if err := selectInto(ctx, repo.getExec(exec), &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting children")
	}

	children := make([]child.Child, 0, len(rows))
	for _, row := range rows {
		children = append(children, row.toChild())
	}
	return children, nil
}

func (repo childRepository) QueryChildIDs(ctx context.Context, exec ...core.DBExecutor) ([]string, error) {
	var rows []struct {
		ID string `db:"id"`
	}
	q := repo.sb.Select("id").From("children").OrderBy(core.DBOrdering{Field: "id", Ascending: true}.String())
	if err := selectInto(ctx, repo.getExec(exec), &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting child IDs")
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func (repo childRepository) UpdateChild(ctx context.Context, c child.Child, exec ...core.DBExecutor) (child.Child, error) {
	q := repo.sb.Update("children").
		Set("picture", c.Picture).
		Where(sq.Eq{"id": c.ID})
	n, err := execAffected(ctx, repo.getExec(exec), q)
	if err != nil {
		return child.Child{}, errors.Wrap(err, "updating child")
	}
	if n == 0 {
		return child.Child{}, child.ErrNotFound
	}
	return c, nil
}
