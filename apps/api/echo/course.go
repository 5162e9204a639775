package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/elimuhq/elimu/core/course"
	"github.com/elimuhq/elimu/core/user"
)

var errCrsNotFoundInCtx = errors.New("course object not found in echo.Context")

// overrunWarning is returned alongside a timetable that hit a safety bound
// before covering every topic.
const overrunWarning = "the plan may be incomplete; consider a longer date range or fewer topics"

type courseAPI struct {
	svc      course.Service
	usrSvc   user.Service
	validate *validator.Validate
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc course.Service, usrSvc user.Service, validate *validator.Validate) {
	api := courseAPI{
		svc:      svc,
		usrSvc:   usrSvc,
		validate: validate,
	}

	cg := g.Group("/courses", jwt)
	cg.POST("", api.create)
	cg.GET("", api.query)
	cg.DELETE("", api.destroyMultiple, adminMiddleware())

	// detail endpoints
	dg := cg.Group("/:id", api.ownerOrStaffMiddleware())
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.POST("/timetable", api.generateTimetable)
	dg.PUT("/timetable/complete", api.completeSession)
	dg.GET("/progress", api.progress)
}

// ownerOrStaffMiddleware loads the course under :id into the context; only
// its owner, teachers and admins get through.
func (api *courseAPI) ownerOrStaffMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctxUsr, err := getContextUser(ctx, api.usrSvc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}

			crs, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == course.ErrNotFound {
					return errHTTPNotFound
				}
				return errors.Wrap(err, "finding course by ID")
			}
			if crs.OwnerID != ctxUsr.ID && !ctxUsr.IsAdmin() && !ctxUsr.IsTeacher() {
				return errHTTPNotFound
			}

			ctx.Set("object", crs)
			return next(ctx)
		}
	}
}

func (api *courseAPI) contextCourse(ctx echo.Context) (course.Course, error) {
	crs, ok := ctx.Get("object").(course.Course)
	if !ok {
		return course.Course{}, errors.Wrap(errCrsNotFoundInCtx, "retrieving object from context")
	}
	return crs, nil
}

// Handlers

func (api *courseAPI) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	crs, err := api.svc.Create(ctx.Request().Context(), ctxUsr.ID, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseAPI) query(ctx echo.Context) error {
	filter := new(course.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []course.Course{})
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	// students only see their own courses
	if !ctxUsr.IsAdmin() && !ctxUsr.IsTeacher() {
		filter.OwnerID = ctxUsr.ID
	}

	ordering := new(Ordering)
	ordering.Bind(ctx, courseOrderingFields)

	courses, err := api.svc.Filter(ctx.Request().Context(), *filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseAPI) retrieve(ctx echo.Context) error {
	crs, err := api.contextCourse(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseAPI) update(ctx echo.Context) error {
	crs, err := api.contextCourse(ctx)
	if err != nil {
		return err
	}

	var data course.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err := data.Validate(api.validate, crs); err != nil {
		return err
	}

	crs, err = api.svc.Update(ctx.Request().Context(), crs.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseAPI) destroy(ctx echo.Context) error {
	crs, err := api.contextCourse(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), crs.ID); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseAPI) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting courses")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseAPI) generateTimetable(ctx echo.Context) error {
	crs, err := api.contextCourse(ctx)
	if err != nil {
		return err
	}

	var data course.TimetableRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TimetableRequest")
	}
	start, end, err := data.Validate(api.validate)
	if err != nil {
		return err
	}

	crs, overrun, err := api.svc.GenerateTimetable(ctx.Request().Context(), crs.ID, start, end)
	if err != nil {
		return err
	}

	res := TimetableResponse{Course: crs}
	if overrun {
		res.Warning = overrunWarning
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *courseAPI) completeSession(ctx echo.Context) error {
	crs, err := api.contextCourse(ctx)
	if err != nil {
		return err
	}

	var data course.CompleteSessionRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CompleteSessionRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	crs, err = api.svc.CompleteSession(ctx.Request().Context(), crs.ID, data)
	if err != nil {
		if errors.Cause(err) == course.ErrSessionNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "session not found on "+data.Date+" at index "+strconv.Itoa(data.Index))
		}
		return errors.Wrap(err, "completing session")
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseAPI) progress(ctx echo.Context) error {
	crs, err := api.contextCourse(ctx)
	if err != nil {
		return err
	}
	prog, err := api.svc.Progress(ctx.Request().Context(), crs.ID)
	if err != nil {
		return errors.Wrap(err, "computing progress")
	}
	return ctx.JSON(http.StatusOK, prog)
}

type TimetableResponse struct {
	course.Course
	Warning string `json:"warning,omitempty"`
}
