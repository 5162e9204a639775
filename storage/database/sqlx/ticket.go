package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/elimuhq/elimu/core"
	"github.com/elimuhq/elimu/core/ticket"
)

type ticketRepository struct {
	db *sqlx.DB
}

var _ ticket.Repository = (*ticketRepository)(nil)

func NewTicketRepository(db *sqlx.DB) ticket.Repository {
	return &ticketRepository{db: db}
}

type dbTicket struct {
	ID         string         `db:"id"`
	AuthorID   string         `db:"author_id"`
	AssigneeID sql.NullString `db:"assignee_id"`
	Subject    string         `db:"subject"`
	Body       string         `db:"body"`
	Status     string         `db:"status"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func toDBTicket(tck ticket.Ticket) dbTicket {
	return dbTicket{
		ID:         tck.ID,
		AuthorID:   tck.AuthorID,
		AssigneeID: sql.NullString{String: tck.AssigneeID, Valid: tck.AssigneeID != ""},
		Subject:    tck.Subject,
		Body:       tck.Body,
		Status:     string(tck.Status),
		CreatedAt:  tck.CreatedAt,
		UpdatedAt:  tck.UpdatedAt,
	}
}

func (dt dbTicket) toTicket() ticket.Ticket {
	return ticket.Ticket{
		ID:         dt.ID,
		AuthorID:   dt.AuthorID,
		AssigneeID: dt.AssigneeID.String,
		Subject:    dt.Subject,
		Body:       dt.Body,
		Status:     ticket.Status(dt.Status),
		CreatedAt:  dt.CreatedAt,
		UpdatedAt:  dt.UpdatedAt,
	}
}

const ticketColumns = `id, author_id, assignee_id, subject, body, status, created_at, updated_at`

func (repo *ticketRepository) CreateTicket(ctx context.Context, tck ticket.Ticket) (ticket.Ticket, error) {
	_, err := repo.db.NamedExecContext(
		ctx,
		`INSERT INTO ticket (`+ticketColumns+`)
		 VALUES (:id, :author_id, :assignee_id, :subject, :body, :status, :created_at, :updated_at)`,
		toDBTicket(tck),
	)
	if err != nil {
		return ticket.Ticket{}, errors.Wrap(err, "creating ticket")
	}
	return tck, nil
}

func (repo *ticketRepository) QueryAllTickets(ctx context.Context, ordering ...core.DBOrdering) ([]ticket.Ticket, error) {
	var dts []dbTicket
	err := repo.db.SelectContext(ctx, &dts, `SELECT `+ticketColumns+` FROM ticket`+orderBy(ordering))
	if err != nil {
		return nil, errors.Wrap(err, "querying tickets")
	}
	return toTickets(dts), nil
}

func (repo *ticketRepository) GetTicketByID(ctx context.Context, id string) (ticket.Ticket, error) {
	var dt dbTicket
	err := repo.db.GetContext(ctx, &dt, `SELECT `+ticketColumns+` FROM ticket WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return ticket.Ticket{}, ticket.ErrNotFound
	}
	if err != nil {
		return ticket.Ticket{}, errors.Wrap(err, "getting ticket")
	}
	return dt.toTicket(), nil
}

func (repo *ticketRepository) FilterTickets(ctx context.Context, filter ticket.QueryFilter, ordering ...core.DBOrdering) ([]ticket.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM ticket WHERE 1=1`
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		query += ` AND (subject ILIKE ` + p + ` OR body ILIKE ` + p + `)`
	}
	if filter.AuthorID != "" {
		query += ` AND author_id = ` + arg(filter.AuthorID)
	}
	if filter.Status != "" {
		query += ` AND status = ` + arg(string(filter.Status))
	}
	if !filter.CreatedFrom.IsZero() {
		query += ` AND created_at >= ` + arg(filter.CreatedFrom)
	}
	if !filter.CreatedTo.IsZero() {
		query += ` AND created_at <= ` + arg(filter.CreatedTo)
	}
	query += orderBy(ordering)

	var dts []dbTicket
	if err := repo.db.SelectContext(ctx, &dts, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering tickets")
	}
	return toTickets(dts), nil
}

func (repo *ticketRepository) UpdateTicket(ctx context.Context, tck ticket.Ticket) (ticket.Ticket, error) {
	res, err := repo.db.NamedExecContext(
		ctx,
		`UPDATE ticket SET subject = :subject, body = :body, status = :status, assignee_id = :assignee_id,
		     updated_at = :updated_at
		 WHERE id = :id`,
		toDBTicket(tck),
	)
	if err != nil {
		return ticket.Ticket{}, errors.Wrap(err, "updating ticket")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ticket.Ticket{}, ticket.ErrNotFound
	}
	return tck, nil
}

func (repo *ticketRepository) DeleteTicketsByID(ctx context.Context, ids ...string) error {
	query, args, err := sqlx.In(`DELETE FROM ticket WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting tickets")
	}
	_, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...)
	return errors.Wrap(err, "deleting tickets")
}

func toTickets(dts []dbTicket) []ticket.Ticket {
	tickets := make([]ticket.Ticket, 0, len(dts))
	for _, dt := range dts {
		tickets = append(tickets, dt.toTicket())
	}
	return tickets
}
