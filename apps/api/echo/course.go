package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/course"
)

type courseApi struct {
	svc *course.Service
}

func registerCourseAPI(e *echo.Echo, svc *course.Service) {
	api := courseApi{svc: svc}

	e.GET("/courses", api.list, loginRequiredMiddleware)
	e.GET("/create_course", api.createForm, loginRequiredMiddleware)
	e.POST("/create_course", api.create, loginRequiredMiddleware)
	e.GET("/:id/update_course", api.updateForm, loginRequiredMiddleware)
	e.POST("/:id/update_course", api.update, loginRequiredMiddleware)
	e.POST("/:id/delete_course", api.destroy, loginRequiredMiddleware)
}

func (api *courseApi) renderForm(ctx echo.Context, code int, title, action string, form course.CourseForm, msgs ...string) error {
	rules, err := api.svc.Rules(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying rules")
	}
	data := echo.Map{"title": title, "action": action, "form": form, "rules": rules}
	return render(ctx, code, "course_form", data, msgs...)
}

// Handlers

func (api *courseApi) list(ctx echo.Context) error {
	var ord Ordering
	ord.Bind(ctx)

	courses, err := api.svc.List(ctx.Request().Context(), ord.Orderings...)
	if err != nil {
		return errors.Wrap(err, "listing courses")
	}
	return render(ctx, http.StatusOK, "courses", echo.Map{"title": "Courses", "courses": courses})
}

func (api *courseApi) createForm(ctx echo.Context) error {
	return api.renderForm(ctx, http.StatusOK, "New Course", "/create_course", course.CourseForm{})
}

func (api *courseApi) create(ctx echo.Context) error {
	var data course.CourseForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CourseForm")
	}

	if _, err := api.svc.Create(ctx.Request().Context(), data); err != nil {
		if code, msgs, ok := formErrors(err); ok {
			return api.renderForm(ctx, code, "New Course", "/create_course", data, msgs...)
		}
		return errors.Wrap(err, "creating course")
	}
	return ctx.Redirect(http.StatusFound, "/courses")
}

func (api *courseApi) updateForm(ctx echo.Context) error {
	crs, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting course")
	}
	form := course.CourseForm{Code: crs.Code, Name: crs.Name, PassingGrade: crs.PassingGrade}
	return api.renderForm(ctx, http.StatusOK, "Edit "+crs.Code, "/"+crs.ID+"/update_course", form)
}

func (api *courseApi) update(ctx echo.Context) error {
	id := ctx.Param("id")
	var data course.CourseForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CourseForm")
	}

	if _, err := api.svc.Update(ctx.Request().Context(), id, data); err != nil {
		if code, msgs, ok := formErrors(err); ok {
			return api.renderForm(ctx, code, "Edit Course", "/"+id+"/update_course", data, msgs...)
		}
		return errors.Wrap(err, "updating course")
	}
	return ctx.Redirect(http.StatusFound, "/courses")
}

func (api *courseApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.Redirect(http.StatusFound, "/")
}
