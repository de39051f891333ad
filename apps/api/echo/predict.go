package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/bassiony1/public-ANEES/core"
)

type predictApi struct {
	predictor core.Predictor
}

func registerPredictAPI(g *echo.Group, jwt echo.MiddlewareFunc, predictor core.Predictor) {
	api := predictApi{predictor: predictor}

	g.POST("/predict", api.predict, jwt)
}

// predict relays the uploaded file to the classifier and answers with whatever it answered.
func (api *predictApi) predict(ctx echo.Context) error {
	label := core.CleanString(ctx.FormValue("label"))
	if label == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "label", Error: "Please Provide A Label"})
	}
	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "file", Error: "Please Provide A File"})
	}

	file, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer file.Close()

	resp, err := api.predictor.Predict(ctx.Request().Context(), label, fh.Filename, file)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, errPredictionFailure.Message).SetInternal(err)
	}
	return ctx.JSONBlob(resp.StatusCode, resp.Body)
}
