package ticket

import (
	"context"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/elimuhq/elimu/core"
)

var ErrNotFound = errors.New("ticket not found")

type (
	Repository interface {
		CreateTicket(ctx context.Context, tck Ticket) (Ticket, error)
		QueryAllTickets(ctx context.Context, ordering ...core.DBOrdering) ([]Ticket, error)
		GetTicketByID(ctx context.Context, id string) (Ticket, error)
		FilterTickets(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Ticket, error)
		UpdateTicket(ctx context.Context, tck Ticket) (Ticket, error)
		DeleteTicketsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Create(ctx context.Context, authorID string, nt NewTicket) (Ticket, error)
		QueryAll(ctx context.Context, ordering ...core.DBOrdering) ([]Ticket, error)
		GetByID(ctx context.Context, id string) (Ticket, error)
		Filter(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Ticket, error)
		Update(ctx context.Context, id string, upd UpdateTicket) (Ticket, error)
		Close(ctx context.Context, id string) (Ticket, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

var nowFunc func() time.Time = time.Now

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, authorID string, nt NewTicket) (Ticket, error) {
	now := nowFunc().UTC()
	tck := Ticket{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Subject:   nt.Subject,
		Body:      nt.Body,
		Status:    StatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateTicket(ctx, tck)
}

func (svc *service) QueryAll(ctx context.Context, ordering ...core.DBOrdering) ([]Ticket, error) {
	return svc.repo.QueryAllTickets(ctx, ordering...)
}

func (svc *service) GetByID(ctx context.Context, id string) (Ticket, error) {
	return svc.repo.GetTicketByID(ctx, id)
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Ticket, error) {
	filter.Clean()
	if filter.IsEmpty() {
		return svc.repo.QueryAllTickets(ctx, ordering...)
	}
	return svc.repo.FilterTickets(ctx, filter, ordering...)
}

func (svc *service) Update(ctx context.Context, id string, upd UpdateTicket) (Ticket, error) {
	tck, err := svc.repo.GetTicketByID(ctx, id)
	if err != nil {
		return Ticket{}, err
	}
	tck.Subject = upd.Subject
	tck.Body = upd.Body
	tck.Status = upd.Status
	tck.AssigneeID = upd.AssigneeID
	tck.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateTicket(ctx, tck)
}

func (svc *service) Close(ctx context.Context, id string) (Ticket, error) {
	tck, err := svc.repo.GetTicketByID(ctx, id)
	if err != nil {
		return Ticket{}, err
	}
	tck.Status = StatusClosed
	tck.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateTicket(ctx, tck)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteTicketsByID(ctx, ids...)
}

// RegisterValidators registers ticket-specific validators and their translations.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	if err := validate.RegisterValidation("ticketstatus", statusValidation); err != nil {
		panic(err)
	}
	core.RegisterCustomTranslation(validate, translator, "ticketstatus", "{0} must be one of: open, in_progress, closed")
}

func statusValidation(fl validator.FieldLevel) bool {
	val := Status(fl.Field().String())
	for _, status := range Statuses {
		if val == status {
			return true
		}
	}
	return false
}
