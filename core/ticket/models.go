package ticket

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/elimuhq/elimu/core"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
)

var Statuses = []Status{StatusOpen, StatusInProgress, StatusClosed}

type Ticket struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AssigneeID string    `json:"assignee_id,omitempty"` // staff member handling the ticket
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

func (t *Ticket) IsOpen() bool { return t.Status != StatusClosed }

// NewTicket contains information needed to open a new Ticket.
type NewTicket struct {
	Subject string `json:"subject" validate:"required,notblank"`
	Body    string `json:"body" validate:"required,notblank"`
}

func (nt *NewTicket) Validate(validate *validator.Validate) error {
	nt.Subject = core.CleanString(nt.Subject)
	nt.Body = core.CleanString(nt.Body)
	return validate.Struct(nt)
}

// UpdateTicket defines what information may be provided to modify an
// existing Ticket.
type UpdateTicket struct {
	Subject    string `json:"subject" validate:"omitempty,notblank"`
	Body       string `json:"body" validate:"omitempty,notblank"`
	Status     Status `json:"status" validate:"omitempty,ticketstatus"`
	AssigneeID string `json:"assignee_id"`
}

func (ut *UpdateTicket) Validate(validate *validator.Validate, orig Ticket) error {
	if subject := core.CleanString(ut.Subject); subject != "" {
		ut.Subject = subject
	} else {
		ut.Subject = orig.Subject
	}
	if body := core.CleanString(ut.Body); body != "" {
		ut.Body = body
	} else {
		ut.Body = orig.Body
	}
	if ut.Status == "" {
		ut.Status = orig.Status
	}
	if ut.AssigneeID == "" {
		ut.AssigneeID = orig.AssigneeID
	}
	return validate.Struct(ut)
}

type QueryFilter struct {
	Search      string    `query:"search"`
	AuthorID    string    `query:"author_id"`
	Status      Status    `query:"status"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.AuthorID == "" && qf.Status == "" && qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
