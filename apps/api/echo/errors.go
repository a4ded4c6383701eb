package echoapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/course"
	"github.com/trezcool/gradebook/core/grade"
	"github.com/trezcool/gradebook/core/student"
)

var (
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound  = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// formErrors returns the status and messages of errors a form can display; ok is false for any other error.
func formErrors(err error) (code int, messages []string, ok bool) {
	var vErr *core.ValidationError
	switch {
	case errors.As(err, &vErr):
		code = http.StatusBadRequest
		if errors.Is(err, student.ErrDuplicateIdentity) || errors.Is(err, grade.ErrDuplicateGrade) {
			code = http.StatusConflict
		}
		return code, vErr.Messages(), true
	case errors.Is(err, student.ErrAuthenticationFailed):
		return http.StatusUnauthorized, []string{student.ErrAuthenticationFailed.Error()}, true
	}
	return 0, nil, false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message string

		var httpErr *echo.HTTPError
		var vErr *core.ValidationError
		switch {
		case errors.As(err, &httpErr):
			if httpErr.Internal != nil {
				if herr, ok := httpErr.Internal.(*echo.HTTPError); ok {
					httpErr = herr
				}
			}
			code = httpErr.Code
			message = fmt.Sprint(httpErr.Message)
		case errors.As(err, &vErr):
			code = http.StatusBadRequest
			message = strings.Join(vErr.Messages(), "; ")
		case errors.Is(err, grade.ErrNotFound), errors.Is(err, course.ErrNotFound), errors.Is(err, student.ErrNotFound):
			code = errHttpNotFound.Code
			message = fmt.Sprint(errHttpNotFound.Message)
		case errors.Is(err, grade.ErrForbidden):
			code = errHttpForbidden.Code
			message = fmt.Sprint(errHttpForbidden.Message)
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(http.StatusInternalServerError)

			std, _ := getContextStudent(ctx)
			logger.Error(message, errors.Wrap(err, message), std)
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else if rErr := render(ctx, code, "error", echo.Map{"title": http.StatusText(code), "code": code, "message": message}); rErr != nil {
				err = ctx.String(code, message)
			} else {
				err = nil
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
