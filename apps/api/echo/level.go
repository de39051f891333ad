package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/bassiony1/public-ANEES/core"
	"github.com/bassiony1/public-ANEES/core/level"
	"github.com/bassiony1/public-ANEES/core/progress"
)

type levelApi struct {
	levels   *level.Service
	progress *progress.Service
}

func registerLevelAPI(g *echo.Group, jwt echo.MiddlewareFunc, levels *level.Service, prg *progress.Service) {
	api := levelApi{levels: levels, progress: prg}

	lg := g.Group("/levels", jwt)
	lg.GET("", api.query)
	lg.POST("", api.create, staffMiddleware)
	lg.GET("/:num", api.retrieve)
	lg.PUT("/:num", api.setGames, staffMiddleware)
	lg.GET("/:num/:category", api.retrieveGame)
	lg.POST("/:num/:category", api.submit)
}

func levelNumParam(ctx echo.Context) (int, error) {
	num, err := strconv.Atoi(ctx.Param("num"))
	if err != nil {
		return 0, errLevelNotFound
	}
	return num, nil
}

// Handlers

// query lists the levels unlocked by the authenticated child.
func (api *levelApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	rows, err := api.progress.QueryForChild(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "querying child levels")
	}
	levels := make([]LevelSummary, 0, len(rows))
	for _, row := range rows {
		levels = append(levels, LevelSummary{
			LevelNum: row.LevelNum,
			Level:    absURL(ctx, "/api/levels/%d", row.LevelNum),
		})
	}
	return ctx.JSON(http.StatusOK, levels)
}

func (api *levelApi) create(ctx echo.Context) error {
	var data level.NewLevel
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLevel")
	}

	lvl, backfilled, err := api.progress.AddLevel(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == level.ErrExists {
			return core.NewValidationError(err, core.FieldError{Field: "level_num", Error: level.ErrExists.Error()})
		}
		return errors.Wrap(err, "adding level")
	}
	return ctx.JSON(http.StatusCreated, NewLevelResponse{Level: lvl, Backfilled: backfilled})
}

// retrieve shows the authenticated child's progress through a level.
func (api *levelApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	num, err := levelNumParam(ctx)
	if err != nil {
		return err
	}

	row, err := api.progress.Get(ctx.Request().Context(), claims.Subject, num)
	if err != nil {
		if errors.Cause(err) == progress.ErrNotFound {
			if claims.IsStaff {
				return errLevelNotFound
			}
			return progress.ErrNotUnlocked
		}
		return errors.Wrap(err, "getting child level")
	}
	lvl, err := api.levels.Get(ctx.Request().Context(), num)
	if err != nil {
		return errors.Wrap(err, "getting level")
	}
	return ctx.JSON(http.StatusOK, newLevelDetail(ctx, row, lvl))
}

func (api *levelApi) setGames(ctx echo.Context) error {
	num, err := levelNumParam(ctx)
	if err != nil {
		return err
	}
	var data level.UpdateGames
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGames")
	}

	lvl, err := api.levels.SetGames(ctx.Request().Context(), num, data)
	if err != nil {
		return errors.Wrap(err, "setting games")
	}
	return ctx.JSON(http.StatusOK, lvl)
}

// retrieveGame shows the content of a game of a level unlocked by the authenticated child.
func (api *levelApi) retrieveGame(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	num, err := levelNumParam(ctx)
	if err != nil {
		return err
	}
	cat, err := level.ParseCategory(ctx.Param("category"))
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	if _, err = api.progress.Get(reqCtx, claims.Subject, num); err != nil {
		if errors.Cause(err) == progress.ErrNotFound {
			return progress.ErrNotUnlocked
		}
		return errors.Wrap(err, "getting child level")
	}
	lvl, err := api.levels.Get(reqCtx, num)
	if err != nil {
		return errors.Wrap(err, "getting level")
	}
	if !lvl.HasGame(cat) {
		return progress.ErrGameNotFound
	}
	return ctx.JSON(http.StatusOK, GameResponse{LevelNum: num, Category: cat, Game: lvl.Game(cat)})
}

// submit records the authenticated child's score for a game.
func (api *levelApi) submit(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	num, err := levelNumParam(ctx)
	if err != nil {
		return err
	}
	cat, err := level.ParseCategory(ctx.Param("category"))
	if err != nil {
		return err
	}

	// a payload that does not decode is reported once the level & game are known to exist
	var data progress.ScoreSubmission
	if err = ctx.Bind(&data); err != nil {
		data = progress.ScoreSubmission{Malformed: true}
	}

	res, err := api.progress.Submit(ctx.Request().Context(), claims.Subject, num, cat, data)
	if err != nil {
		return errors.Wrap(err, "submitting score")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: res.Outcome.String()})
}
