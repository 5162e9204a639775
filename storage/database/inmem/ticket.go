package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/elimuhq/elimu/core"
	"github.com/elimuhq/elimu/core/ticket"
)

type ticketRepository struct {
	db *ticketTable
}

var _ ticket.Repository = (*ticketRepository)(nil)

func NewTicketRepository(db *DB) ticket.Repository {
	return &ticketRepository{db: db.ticket}
}

func (repo *ticketRepository) query() []ticket.Ticket {
	tickets := make([]ticket.Ticket, 0, len(repo.db.table))
	for _, tck := range repo.db.table {
		tickets = append(tickets, *tck)
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].CreatedAt.Before(tickets[j].CreatedAt) })
	return tickets
}

func (repo *ticketRepository) CreateTicket(ctx context.Context, tck ticket.Ticket) (ticket.Ticket, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[tck.ID] = &tck
	return tck, nil
}

func (repo *ticketRepository) QueryAllTickets(ctx context.Context, ordering ...core.DBOrdering) ([]ticket.Ticket, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *ticketRepository) GetTicketByID(ctx context.Context, id string) (ticket.Ticket, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if tck, ok := repo.db.table[id]; ok {
		return *tck, nil
	}
	return ticket.Ticket{}, ticket.ErrNotFound
}

func (repo *ticketRepository) FilterTickets(ctx context.Context, filter ticket.QueryFilter, ordering ...core.DBOrdering) ([]ticket.Ticket, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	tickets := make([]ticket.Ticket, 0)
	for _, tck := range repo.query() {
		if matchesTicket(tck, filter) {
			tickets = append(tickets, tck)
		}
	}
	return tickets, nil
}

func matchesTicket(tck ticket.Ticket, filter ticket.QueryFilter) bool {
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(tck.Subject), search) &&
			!strings.Contains(strings.ToLower(tck.Body), search) {
			return false
		}
	}
	if filter.AuthorID != "" && tck.AuthorID != filter.AuthorID {
		return false
	}
	if filter.Status != "" && tck.Status != filter.Status {
		return false
	}
	if !filter.CreatedFrom.IsZero() && tck.CreatedAt.Before(filter.CreatedFrom) {
		return false
	}
	if !filter.CreatedTo.IsZero() && tck.CreatedAt.After(filter.CreatedTo) {
		return false
	}
	return true
}

func (repo *ticketRepository) UpdateTicket(ctx context.Context, tck ticket.Ticket) (ticket.Ticket, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[tck.ID]
	if !ok {
		return ticket.Ticket{}, ticket.ErrNotFound
	}
	orig.Subject = tck.Subject
	orig.Body = tck.Body
	orig.Status = tck.Status
	orig.AssigneeID = tck.AssigneeID
	orig.UpdatedAt = tck.UpdatedAt

	repo.db.table[tck.ID] = orig
	return *orig, nil
}

func (repo *ticketRepository) DeleteTicketsByID(ctx context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
