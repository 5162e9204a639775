// Package inmemdb provides in-memory repository implementations; used in
// tests and local development.
package inmemdb

import (
	"sync"

	"github.com/elimuhq/elimu/core/course"
	"github.com/elimuhq/elimu/core/ticket"
	"github.com/elimuhq/elimu/core/user"
)

type (
	DB struct {
		user   *userTable
		course *courseTable
		ticket *ticketTable
	}

	userTable struct {
		table map[string]*user.User
		mutex sync.RWMutex
	}

	courseTable struct {
		table map[string]*course.Course
		mutex sync.RWMutex
	}

	ticketTable struct {
		table map[string]*ticket.Ticket
		mutex sync.RWMutex
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:   &userTable{table: make(map[string]*user.User)},
		course: &courseTable{table: make(map[string]*course.Course)},
		ticket: &ticketTable{table: make(map[string]*ticket.Ticket)},
	}
	return db, nil
}
