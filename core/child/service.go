package child

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/bassiony1/public-ANEES/core"
	"github.com/bassiony1/public-ANEES/core/level"
	"github.com/bassiony1/public-ANEES/core/progress"
)

var (
	// errors
	ErrNotFound       = errors.New("child not found")
	ErrExists         = errors.New("a child with this ID already exists")
	ErrUsernameExists = errors.New("a child with this username already exists")
)

type (
	Repository interface {
		// CreateChild fails with ErrExists or ErrUsernameExists on duplicates.
		CreateChild(ctx context.Context, c Child, exec ...core.DBExecutor) (Child, error)
		GetChild(ctx context.Context, id string, exec ...core.DBExecutor) (Child, error)
		QueryChildren(ctx context.Context, exec ...core.DBExecutor) ([]Child, error)
		QueryChildIDs(ctx context.Context, exec ...core.DBExecutor) ([]string, error)
		UpdateChild(ctx context.Context, c Child, exec ...core.DBExecutor) (Child, error)
	}

	// Progress is the part of the progression a child profile needs.
	Progress interface {
		QueryForChild(ctx context.Context, childID string) ([]progress.ChildLevel, error)
		ChildCreated(ctx context.Context, childID string, exec ...core.DBExecutor) (bool, error)
	}

	Catalog interface {
		QueryAll(ctx context.Context, exec ...core.DBExecutor) ([]level.Level, error)
	}

	Service struct {
		db       core.DB
		repo     Repository
		progress Progress
		catalog  Catalog
		validate *validator.Validate
		now      func() time.Time
	}
)

func NewService(db core.DB, repo Repository, prg Progress, catalog Catalog, validate *validator.Validate) *Service {
	return &Service{
		db:       db,
		repo:     repo,
		progress: prg,
		catalog:  catalog,
		validate: validate,
		now:      time.Now,
	}
}

// Create stores a new child and opens level 1 for them, if it exists, in one transaction.
func (svc *Service) Create(ctx context.Context, nc NewChild) (Child, error) {
	if err := nc.Validate(svc.validate); err != nil {
		return Child{}, err
	}
	if nc.ID == "" {
		nc.ID = uuid.New().String()
	}

	c := Child{
		ID:          nc.ID,
		Username:    nc.Username,
		Email:       nc.Email,
		FirstName:   nc.FirstName,
		LastName:    nc.LastName,
		Gender:      nc.Gender,
		DateOfBirth: nc.DateOfBirth,
		DateJoined:  svc.now().UTC().Truncate(time.Microsecond),
	}
	err := core.RunInTx(ctx, svc.db, func(tx core.DBExecutor) error {
		var err error
		if c, err = svc.repo.CreateChild(ctx, c, tx); err != nil {
			switch errors.Cause(err) {
			case ErrExists:
				return core.NewValidationError(err, core.FieldError{Field: "id", Error: err.Error()})
			case ErrUsernameExists:
				return core.NewValidationError(err, core.FieldError{Field: "username", Error: err.Error()})
			}
			return errors.Wrap(err, "creating child")
		}
		_, err = svc.progress.ChildCreated(ctx, c.ID, tx)
		return err
	})
	if err != nil {
		return Child{}, err
	}
	return c, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Child, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Child{}, ErrNotFound
	}
	return svc.repo.GetChild(ctx, id)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Child, error) {
	return svc.repo.QueryChildren(ctx)
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateChild) (Child, error) {
	if err := uc.Validate(svc.validate); err != nil {
		return Child{}, err
	}
	c, err := svc.Get(ctx, id)
	if err != nil {
		return Child{}, err
	}
	c.Picture = uc.Picture
	return svc.repo.UpdateChild(ctx, c)
}

// Profile computes the child's progress summary.
func (svc *Service) Profile(ctx context.Context, c Child) (Profile, error) {
	rows, err := svc.progress.QueryForChild(ctx, c.ID)
	if err != nil {
		return Profile{}, errors.Wrap(err, "querying child levels")
	}

	now := svc.now()
	return Profile{
		Child:              c,
		Age:                c.Age(now),
		CurrentLevel:       len(rows),
		JoinDurationInDays: core.DaysBetween(c.DateJoined, now),
		Accuracy:           accuracy(rows),
	}, nil
}

func accuracy(rows []progress.ChildLevel) Accuracy {
	var acc Accuracy
	var completed int
	for _, row := range rows {
		if !row.Completed() {
			continue
		}
		completed++
		acc.Receptive += float64(row.ReceptiveScore)
		acc.Expressive += float64(row.ExpressiveScore)
		acc.Social += float64(row.SocialScore)
	}
	if completed == 0 {
		return Accuracy{}
	}
	n := float64(completed)
	return Accuracy{Receptive: acc.Receptive / n, Expressive: acc.Expressive / n, Social: acc.Social / n}
}

// Words collects the answers of the receptive & expressive games the child completed.
// Categories completed only because their level had no such game contribute nothing.
func (svc *Service) Words(ctx context.Context, childID string) (Words, error) {
	rows, err := svc.progress.QueryForChild(ctx, childID)
	if err != nil {
		return Words{}, errors.Wrap(err, "querying child levels")
	}
	levels, err := svc.catalog.QueryAll(ctx)
	if err != nil {
		return Words{}, errors.Wrap(err, "querying levels")
	}
	byNum := make(map[int]level.Level, len(levels))
	for _, lvl := range levels {
		byNum[lvl.Num] = lvl
	}

	words := Words{Receptive: []string{}, Expressive: []string{}}
	for _, row := range rows {
		lvl, ok := byNum[row.LevelNum]
		if !ok {
			continue
		}
		if row.ReceptiveComplete && lvl.Receptive != nil {
			words.Receptive = append(words.Receptive, lvl.Receptive.Answer)
		}
		if row.ExpressiveComplete && lvl.Expressive != nil {
			words.Expressive = append(words.Expressive, lvl.Expressive.Answer)
		}
	}
	return words, nil
}
