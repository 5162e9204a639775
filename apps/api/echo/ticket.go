package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/elimuhq/elimu/core/ticket"
	"github.com/elimuhq/elimu/core/user"
)

var errTckNotFoundInCtx = errors.New("ticket object not found in echo.Context")

type ticketAPI struct {
	svc      ticket.Service
	usrSvc   user.Service
	validate *validator.Validate
}

func registerTicketAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc ticket.Service, usrSvc user.Service, validate *validator.Validate) {
	api := ticketAPI{
		svc:      svc,
		usrSvc:   usrSvc,
		validate: validate,
	}

	tg := g.Group("/tickets", jwt)
	tg.POST("", api.create)
	tg.GET("", api.query)

	// detail endpoints
	dg := tg.Group("/:id", api.authorOrStaffMiddleware())
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, staffMiddleware())
	dg.PUT("/close", api.close)
	dg.DELETE("", api.destroy, adminMiddleware())
}

// authorOrStaffMiddleware loads the ticket under :id into the context; only
// its author, teachers and admins get through.
func (api *ticketAPI) authorOrStaffMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctxUsr, err := getContextUser(ctx, api.usrSvc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}

			tck, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == ticket.ErrNotFound {
					return errHTTPNotFound
				}
				return errors.Wrap(err, "finding ticket by ID")
			}
			if tck.AuthorID != ctxUsr.ID && !ctxUsr.IsAdmin() && !ctxUsr.IsTeacher() {
				return errHTTPNotFound
			}

			ctx.Set("object", tck)
			return next(ctx)
		}
	}
}

func (api *ticketAPI) contextTicket(ctx echo.Context) (ticket.Ticket, error) {
	tck, ok := ctx.Get("object").(ticket.Ticket)
	if !ok {
		return ticket.Ticket{}, errors.Wrap(errTckNotFoundInCtx, "retrieving object from context")
	}
	return tck, nil
}

// Handlers

func (api *ticketAPI) create(ctx echo.Context) error {
	var data ticket.NewTicket
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTicket")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	tck, err := api.svc.Create(ctx.Request().Context(), ctxUsr.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating ticket")
	}
	return ctx.JSON(http.StatusCreated, tck)
}

func (api *ticketAPI) query(ctx echo.Context) error {
	filter := new(ticket.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []ticket.Ticket{})
	}

	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	// students only see their own tickets
	if !ctxUsr.IsAdmin() && !ctxUsr.IsTeacher() {
		filter.AuthorID = ctxUsr.ID
	}

	ordering := new(Ordering)
	ordering.Bind(ctx, ticketOrderingFields)

	tickets, err := api.svc.Filter(ctx.Request().Context(), *filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying tickets")
	}
	if tickets == nil {
		tickets = []ticket.Ticket{}
	}
	return ctx.JSON(http.StatusOK, tickets)
}

func (api *ticketAPI) retrieve(ctx echo.Context) error {
	tck, err := api.contextTicket(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tck)
}

func (api *ticketAPI) update(ctx echo.Context) error {
	tck, err := api.contextTicket(ctx)
	if err != nil {
		return err
	}

	var data ticket.UpdateTicket
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTicket")
	}
	if err := data.Validate(api.validate, tck); err != nil {
		return err
	}

	tck, err = api.svc.Update(ctx.Request().Context(), tck.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating ticket")
	}
	return ctx.JSON(http.StatusOK, tck)
}

func (api *ticketAPI) close(ctx echo.Context) error {
	tck, err := api.contextTicket(ctx)
	if err != nil {
		return err
	}
	tck, err = api.svc.Close(ctx.Request().Context(), tck.ID)
	if err != nil {
		return errors.Wrap(err, "closing ticket")
	}
	return ctx.JSON(http.StatusOK, tck)
}

func (api *ticketAPI) destroy(ctx echo.Context) error {
	tck, err := api.contextTicket(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), tck.ID); err != nil {
		return errors.Wrap(err, "deleting ticket")
	}
	return ctx.NoContent(http.StatusNoContent)
}
