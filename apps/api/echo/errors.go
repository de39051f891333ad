package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/bassiony1/public-ANEES/core"
	"github.com/bassiony1/public-ANEES/core/child"
	"github.com/bassiony1/public-ANEES/core/level"
	"github.com/bassiony1/public-ANEES/core/progress"
)

var (
	errUnauthorized      = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errHttpForbidden     = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errProfileForbidden  = echo.NewHTTPError(http.StatusForbidden, "You Are Not Allowed To Access This Profile")
	errHttpNotFound      = echo.NewHTTPError(http.StatusNotFound, "not found")
	errLevelNotFound     = echo.NewHTTPError(http.StatusNotFound, "Level Does Not Exist")
	errChildNotFound     = echo.NewHTTPError(http.StatusNotFound, "Child Does Not Exist")
	errPredictionFailure = echo.NewHTTPError(http.StatusBadGateway, "Prediction Service Unavailable")

	// domainErrors maps the services' sentinel errors to their HTTP response.
	domainErrors = map[error]*echo.HTTPError{
		progress.ErrNotUnlocked:  echo.NewHTTPError(http.StatusUnauthorized, progress.ErrNotUnlocked.Error()),
		progress.ErrGameNotFound: echo.NewHTTPError(http.StatusNotFound, progress.ErrGameNotFound.Error()),
		level.ErrNotFound:        errLevelNotFound,
		level.ErrUnknownCategory: errHttpNotFound,
		child.ErrNotFound:        errChildNotFound,
	}
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// Unexpected errors are logged and answered with a 500; none of them stops the server.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		if herr, ok := domainErrors[cause]; ok {
			cause = herr
		}

		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			var c child.Child
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				c.ID = claims.Subject
				c.Username = claims.Username
				c.Email = claims.Email
			}
			logger.Error(msg, errors.Wrap(err, msg), c)
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
