package core

// DBOrdering describes an ORDER BY term; bound from the `ordering` query
// param by the API layer and consumed by the repositories.
type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}
