package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/session"
	"github.com/trezcool/gradebook/core/student"
)

var (
	contextStudentKey = "student"
	loginPath         = "/auth/login"
)

type sessionCookie struct {
	name   string
	maxAge time.Duration
	secure bool
}

func (sc sessionCookie) value(ctx echo.Context) string {
	if cookie, err := ctx.Cookie(sc.name); err == nil {
		return cookie.Value
	}
	return ""
}

func (sc sessionCookie) set(ctx echo.Context, value string) {
	ctx.SetCookie(&http.Cookie{
		Name:     sc.name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(sc.maxAge / time.Second),
		HttpOnly: true,
		Secure:   sc.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (sc sessionCookie) clear(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     sc.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sc.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// loadCurrentStudentMiddleware resolves the session cookie to a Student and stores it in the echo.Context.
// Requests without a live session (or whose student no longer exists) stay anonymous.
func loadCurrentStudentMiddleware(sessions *session.Manager, svc *student.Service, cookie sessionCookie) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			value := cookie.value(ctx)
			if value == "" {
				return next(ctx)
			}

			reqCtx := ctx.Request().Context()
			sess, err := sessions.Resolve(reqCtx, value)
			if err != nil {
				if errors.Is(err, session.ErrNoSession) {
					cookie.clear(ctx)
					return next(ctx)
				}
				return errors.Wrap(err, "resolving session")
			}

			std, err := svc.Get(reqCtx, sess.StudentID)
			if err != nil {
				if errors.Is(err, student.ErrNotFound) {
					return next(ctx)
				}
				return errors.Wrap(err, "finding session student")
			}
			ctx.Set(contextStudentKey, std)
			return next(ctx)
		}
	}
}

// loginRequiredMiddleware redirects anonymous requests to the login page.
func loginRequiredMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if _, ok := getContextStudent(ctx); !ok {
			return ctx.Redirect(http.StatusFound, loginPath)
		}
		return next(ctx)
	}
}

func getContextStudent(ctx echo.Context) (student.Student, bool) {
	std, ok := ctx.Get(contextStudentKey).(student.Student)
	return std, ok
}

// mustContextStudent is used by handlers behind loginRequiredMiddleware.
func mustContextStudent(ctx echo.Context) student.Student {
	std, _ := getContextStudent(ctx)
	return std
}
