package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/bassiony1/public-ANEES/core/child"
)

const meParam = "me"

type childApi struct {
	svc *child.Service
}

func registerChildAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *child.Service) {
	api := childApi{svc: svc}

	cg := g.Group("/children", jwt)
	cg.GET("", api.query, staffMiddleware)
	cg.POST("", api.create, staffMiddleware)
	cg.GET("/me", api.profile)
	cg.PUT("/me", api.update)
	cg.GET("/me/words", api.words)
	cg.GET("/:id", api.profile)
	cg.GET("/:id/words", api.words)
}

// target returns the child designated by the id param ("me" when absent).
// Children may only access their own profile; staff may access any.
func (api *childApi) target(ctx echo.Context) (child.Child, string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return child.Child{}, "", errors.Wrap(err, "getting context claims")
	}

	id := ctx.Param("id")
	if id == "" || id == meParam {
		id = meParam
	} else if id != claims.Subject && !claims.IsStaff {
		return child.Child{}, "", errProfileForbidden
	}

	childID := id
	if id == meParam {
		childID = claims.Subject
	}
	c, err := api.svc.Get(ctx.Request().Context(), childID)
	if err != nil {
		return child.Child{}, "", errors.Wrap(err, "getting child")
	}
	return c, id, nil
}

// Handlers

func (api *childApi) query(ctx echo.Context) error {
	children, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying children")
	}
	return ctx.JSON(http.StatusOK, children)
}

func (api *childApi) create(ctx echo.Context) error {
	var data child.NewChild
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewChild")
	}

	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating child")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *childApi) profile(ctx echo.Context) error {
	c, id, err := api.target(ctx)
	if err != nil {
		return err
	}

	p, err := api.svc.Profile(ctx.Request().Context(), c)
	if err != nil {
		return errors.Wrap(err, "computing profile")
	}
	return ctx.JSON(http.StatusOK, newProfileResponse(ctx, p, "/api/children/"+id+"/words"))
}

func (api *childApi) update(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	var data child.UpdateChild
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateChild")
	}

	c, err := api.svc.Update(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		return errors.Wrap(err, "updating child")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *childApi) words(ctx echo.Context) error {
	c, _, err := api.target(ctx)
	if err != nil {
		return err
	}

	words, err := api.svc.Words(ctx.Request().Context(), c.ID)
	if err != nil {
		return errors.Wrap(err, "collecting words")
	}
	return ctx.JSON(http.StatusOK, WordsResponse{Words: words})
}
