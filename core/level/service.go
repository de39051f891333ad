package level

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/bassiony1/public-ANEES/core"
)

var (
	// errors
	ErrNotFound = errors.New("level not found")
	ErrExists   = errors.New("a level with this number already exists")
)

type (
	Repository interface {
		CreateLevel(ctx context.Context, lvl Level, exec ...core.DBExecutor) (Level, error)
		GetLevel(ctx context.Context, num int, exec ...core.DBExecutor) (Level, error)
		// NextLevel returns the level with the smallest number strictly greater than num.
		NextLevel(ctx context.Context, num int, exec ...core.DBExecutor) (Level, error)
		QueryLevels(ctx context.Context, exec ...core.DBExecutor) ([]Level, error)
		SetGames(ctx context.Context, num int, games Games, exec ...core.DBExecutor) (Level, error)
	}

	Service struct {
		db       core.DB
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(db core.DB, repo Repository, validate *validator.Validate) *Service {
	return &Service{db: db, repo: repo, validate: validate}
}

// Create adds a level to the catalog, along with the games it owns.
// Existing children are not touched; see progress.Service.AddLevel.
func (svc *Service) Create(ctx context.Context, nl NewLevel) (Level, error) {
	if err := nl.Validate(svc.validate); err != nil {
		return Level{}, err
	}

	lvl := Level{
		Num:        nl.Num,
		Receptive:  nl.Receptive,
		Expressive: nl.Expressive,
		Social:     nl.Social,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
	err := core.RunInTx(ctx, svc.db, func(tx core.DBExecutor) error {
		var err error
		lvl, err = svc.repo.CreateLevel(ctx, lvl, tx)
		return err
	})
	return lvl, err
}

func (svc *Service) Get(ctx context.Context, num int, exec ...core.DBExecutor) (Level, error) {
	return svc.repo.GetLevel(ctx, num, exec...)
}

// Next returns the level following num, or ErrNotFound when num is the last level.
func (svc *Service) Next(ctx context.Context, num int, exec ...core.DBExecutor) (Level, error) {
	return svc.repo.NextLevel(ctx, num, exec...)
}

func (svc *Service) QueryAll(ctx context.Context, exec ...core.DBExecutor) ([]Level, error) {
	return svc.repo.QueryLevels(ctx, exec...)
}

// SetGames replaces the games owned by level num.
// Child levels are left untouched: a child whose row still has a removed game's
// category incomplete cannot close the level until that game is set again.
func (svc *Service) SetGames(ctx context.Context, num int, ug UpdateGames) (Level, error) {
	if err := ug.Validate(svc.validate); err != nil {
		return Level{}, err
	}

	var lvl Level
	err := core.RunInTx(ctx, svc.db, func(tx core.DBExecutor) error {
		var err error
		lvl, err = svc.repo.SetGames(ctx, num, ug.Games, tx)
		return err
	})
	return lvl, err
}
