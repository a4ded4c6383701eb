package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/session"
	"github.com/trezcool/gradebook/core/student"
)

type authApi struct {
	svc      *student.Service
	sessions *session.Manager
	cookie   sessionCookie
}

func registerAuthAPI(g *echo.Group, svc *student.Service, sessions *session.Manager, cookie sessionCookie) {
	api := authApi{
		svc:      svc,
		sessions: sessions,
		cookie:   cookie,
	}

	g.GET("/register", api.registerForm)
	g.POST("/register", api.register)
	g.GET("/login", api.loginForm)
	g.POST("/login", api.login)
	g.GET("/logout", api.logout)
}

// Handlers

func (api *authApi) registerForm(ctx echo.Context) error {
	return render(ctx, http.StatusOK, "register", echo.Map{"title": "Register", "form": student.NewStudent{}})
}

func (api *authApi) register(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}

	if _, err := api.svc.Register(ctx.Request().Context(), data); err != nil {
		if code, msgs, ok := formErrors(err); ok {
			data.Password, data.PasswordConfirm = "", ""
			return render(ctx, code, "register", echo.Map{"title": "Register", "form": data}, msgs...)
		}
		return errors.Wrap(err, "registering student")
	}
	return ctx.Redirect(http.StatusFound, loginPath)
}

func (api *authApi) loginForm(ctx echo.Context) error {
	return render(ctx, http.StatusOK, "login", echo.Map{"title": "Log In", "form": student.Credentials{}})
}

func (api *authApi) login(ctx echo.Context) error {
	var data student.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	reRender := func(err error) error {
		if code, msgs, ok := formErrors(err); ok {
			data.Password = ""
			return render(ctx, code, "login", echo.Map{"title": "Log In", "form": data}, msgs...)
		}
		return err
	}
	if err := api.svc.ValidateCredentials(&data); err != nil {
		return reRender(err)
	}

	reqCtx := ctx.Request().Context()
	std, err := api.svc.Authenticate(reqCtx, data.Identifier, data.Password)
	if err != nil {
		return reRender(errors.Wrap(err, "authenticating"))
	}

	// any previous session is ended before the new one starts
	value, _, err := api.sessions.Start(reqCtx, std.ID, api.cookie.value(ctx))
	if err != nil {
		return errors.Wrap(err, "starting session")
	}
	api.cookie.set(ctx, value)
	return ctx.Redirect(http.StatusFound, "/")
}

func (api *authApi) logout(ctx echo.Context) error {
	if err := api.sessions.End(ctx.Request().Context(), api.cookie.value(ctx)); err != nil {
		return errors.Wrap(err, "ending session")
	}
	api.cookie.clear(ctx)
	return ctx.Redirect(http.StatusFound, "/")
}
