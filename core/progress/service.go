package progress

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/bassiony1/public-ANEES/core"
	"github.com/bassiony1/public-ANEES/core/level"
)

var (
	// errors
	ErrNotFound     = errors.New("child level not found")
	ErrDuplicateKey = errors.New("child level already exists")
	ErrNotUnlocked  = errors.New("You Are Not Allowed To Access This Level")
	ErrGameNotFound = errors.New("The Game You Are Looking For Does Not Exist")
)

type (
	Repository interface {
		// CreateChildLevel fails with ErrDuplicateKey if the (child, level) pair exists.
		CreateChildLevel(ctx context.Context, cl ChildLevel, exec ...core.DBExecutor) (ChildLevel, error)
		GetChildLevel(ctx context.Context, childID string, levelNum int, exec ...core.DBExecutor) (ChildLevel, error)
		UpdateChildLevel(ctx context.Context, cl ChildLevel, exec ...core.DBExecutor) (ChildLevel, error)
		// QueryChildLevels returns the child's rows ordered by level number.
		QueryChildLevels(ctx context.Context, childID string, exec ...core.DBExecutor) ([]ChildLevel, error)
		// QueryCompletedChildIDs returns the children who completed all three categories of levelNum.
		QueryCompletedChildIDs(ctx context.Context, levelNum int, exec ...core.DBExecutor) ([]string, error)
	}

	// Catalog is the level catalog as seen by the progression.
	Catalog interface {
		Create(ctx context.Context, nl level.NewLevel) (level.Level, error)
		Get(ctx context.Context, num int, exec ...core.DBExecutor) (level.Level, error)
		Next(ctx context.Context, num int, exec ...core.DBExecutor) (level.Level, error)
	}

	ChildRepository interface {
		QueryChildIDs(ctx context.Context, exec ...core.DBExecutor) ([]string, error)
	}

	Service struct {
		db       core.DB
		repo     Repository
		catalog  Catalog
		children ChildRepository
		validate *validator.Validate
		logger   core.Logger
		now      func() time.Time
	}
)

func NewService(
	db core.DB,
	repo Repository,
	catalog Catalog,
	children ChildRepository,
	validate *validator.Validate,
	logger core.Logger,
) *Service {
	return &Service{
		db:       db,
		repo:     repo,
		catalog:  catalog,
		children: children,
		validate: validate,
		logger:   logger,
		now:      time.Now,
	}
}

func (svc *Service) Get(ctx context.Context, childID string, levelNum int) (ChildLevel, error) {
	return svc.repo.GetChildLevel(ctx, childID, levelNum)
}

func (svc *Service) QueryForChild(ctx context.Context, childID string) ([]ChildLevel, error) {
	return svc.repo.QueryChildLevels(ctx, childID)
}

// Open creates the child's row for lvl, auto-completing the categories lvl has no game for.
func (svc *Service) Open(ctx context.Context, childID string, lvl level.Level, exec ...core.DBExecutor) (ChildLevel, error) {
	cl := newChildLevel(childID, lvl, core.Today(svc.now()))
	return svc.repo.CreateChildLevel(ctx, cl, exec...)
}
