package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/course"
	"github.com/trezcool/gradebook/core/grade"
	"github.com/trezcool/gradebook/core/student"
)

type gradeApi struct {
	svc        *grade.Service
	courseSvc  *course.Service
	studentSvc *student.Service
}

func registerGradeAPI(e *echo.Echo, svc *grade.Service, courseSvc *course.Service, studentSvc *student.Service) {
	api := gradeApi{
		svc:        svc,
		courseSvc:  courseSvc,
		studentSvc: studentSvc,
	}

	e.GET("/:id/grades", api.list, loginRequiredMiddleware)
	e.POST("/:id/grades", api.list, loginRequiredMiddleware)
	e.GET("/create_grade", api.createForm, loginRequiredMiddleware)
	e.POST("/create_grade", api.create, loginRequiredMiddleware)
	e.GET("/:id/update_grade", api.updateForm, loginRequiredMiddleware)
	e.POST("/:id/update_grade", api.update, loginRequiredMiddleware)
	e.POST("/:id/delete_grade", api.destroy, loginRequiredMiddleware)
}

func gradesPath(studentID string) string {
	return "/" + studentID + "/grades"
}

func (api *gradeApi) renderForm(ctx echo.Context, code int, title, action string, form grade.GradeForm, msgs ...string) error {
	courses, err := api.courseSvc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing courses")
	}
	data := echo.Map{"title": title, "action": action, "form": form, "courses": courses}
	return render(ctx, code, "grade_form", data, msgs...)
}

// Handlers

func (api *gradeApi) list(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	owner, err := api.studentSvc.Get(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting student")
	}

	grades, err := api.svc.ListForStudent(reqCtx, owner.ID)
	if err != nil {
		return errors.Wrap(err, "listing grades")
	}
	data := echo.Map{
		"title":   "Grades",
		"owner":   owner,
		"isOwner": owner.ID == mustContextStudent(ctx).ID,
		"grades":  grades,
	}
	return render(ctx, http.StatusOK, "grades", data)
}

func (api *gradeApi) createForm(ctx echo.Context) error {
	return api.renderForm(ctx, http.StatusOK, "New Grade", "/create_grade", grade.GradeForm{})
}

func (api *gradeApi) create(ctx echo.Context) error {
	std := mustContextStudent(ctx)
	var data grade.GradeForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeForm")
	}

	// the owner always comes from the session, never from the form
	if _, err := api.svc.Create(ctx.Request().Context(), std.ID, data); err != nil {
		if code, msgs, ok := formErrors(err); ok {
			return api.renderForm(ctx, code, "New Grade", "/create_grade", data, msgs...)
		}
		return errors.Wrap(err, "creating grade")
	}
	return ctx.Redirect(http.StatusFound, gradesPath(std.ID))
}

func (api *gradeApi) updateForm(ctx echo.Context) error {
	std := mustContextStudent(ctx)
	grd, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"), std.ID, true)
	if err != nil {
		return errors.Wrap(err, "getting grade")
	}
	form := grade.GradeForm{CourseID: grd.CourseID, Score: strconv.Itoa(grd.Score)}
	return api.renderForm(ctx, http.StatusOK, "Edit Grade", "/"+grd.ID+"/update_grade", form)
}

func (api *gradeApi) update(ctx echo.Context) error {
	std := mustContextStudent(ctx)
	id := ctx.Param("id")
	var data grade.GradeForm
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeForm")
	}

	if _, err := api.svc.Update(ctx.Request().Context(), std.ID, id, data); err != nil {
		if code, msgs, ok := formErrors(err); ok {
			return api.renderForm(ctx, code, "Edit Grade", "/"+id+"/update_grade", data, msgs...)
		}
		return errors.Wrap(err, "updating grade")
	}
	return ctx.Redirect(http.StatusFound, gradesPath(std.ID))
}

func (api *gradeApi) destroy(ctx echo.Context) error {
	std := mustContextStudent(ctx)
	if err := api.svc.Delete(ctx.Request().Context(), std.ID, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	return ctx.Redirect(http.StatusFound, gradesPath(std.ID))
}
