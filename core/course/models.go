package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/elimuhq/elimu/core"
	"github.com/elimuhq/elimu/core/studyplan"
)

type Course struct {
	ID          string               `json:"id"`
	OwnerID     string               `json:"owner_id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Difficulty  studyplan.Difficulty `json:"difficulty"`
	Topics      []studyplan.RawTopic `json:"topics"`
	Timetable   studyplan.Schedule   `json:"timetable,omitempty"`
	CreatedAt   time.Time            `json:"created_at"` // UTC
	UpdatedAt   time.Time            `json:"updated_at"` // UTC
}

// Progress is the completion ratio of a course's timetable.
type Progress struct {
	TotalSessions     int     `json:"total_sessions"`
	CompletedSessions int     `json:"completed_sessions"`
	Percent           float64 `json:"percent"`
}

// NewCourse contains information needed to create a new Course. When
// GenerateTopics is set (or no topics are supplied) the content generator
// authors the topic list.
type NewCourse struct {
	Title          string               `json:"title" validate:"required,notblank"`
	Description    string               `json:"description"`
	Difficulty     studyplan.Difficulty `json:"difficulty" validate:"omitempty,difficulty"`
	Topics         []studyplan.RawTopic `json:"topics"`
	GenerateTopics bool                 `json:"generate_topics"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	if nc.Difficulty == "" {
		nc.Difficulty = studyplan.Intermediate
	}
	return validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
type UpdateCourse struct {
	Title       string               `json:"title" validate:"omitempty,notblank"`
	Description string               `json:"description"`
	Difficulty  studyplan.Difficulty `json:"difficulty" validate:"omitempty,difficulty"`
	Topics      []studyplan.RawTopic `json:"topics"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate, orig Course) error {
	if title := core.CleanString(uc.Title); title != "" {
		uc.Title = title
	} else {
		uc.Title = orig.Title
	}
	if desc := core.CleanString(uc.Description); desc != "" {
		uc.Description = desc
	} else {
		uc.Description = orig.Description
	}
	if uc.Difficulty == "" {
		uc.Difficulty = orig.Difficulty
	}
	if uc.Topics == nil {
		uc.Topics = orig.Topics
	}
	return validate.Struct(uc)
}

// TimetableRequest asks for a study timetable between two dates.
type TimetableRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

const dateFormat = "2006-01-02"

// Validate checks the date formats and returns the parsed range. Range
// ordering is validated by the scheduler itself.
func (tr *TimetableRequest) Validate(validate *validator.Validate) (start, end time.Time, err error) {
	tr.StartDate = core.CleanString(tr.StartDate)
	tr.EndDate = core.CleanString(tr.EndDate)
	if err = validate.Struct(tr); err != nil {
		return
	}

	if start, err = time.Parse(dateFormat, tr.StartDate); err != nil {
		err = core.NewValidationError(err, core.FieldError{Field: "start_date", Error: "invalid date, expected YYYY-MM-DD"})
		return
	}
	if end, err = time.Parse(dateFormat, tr.EndDate); err != nil {
		err = core.NewValidationError(err, core.FieldError{Field: "end_date", Error: "invalid date, expected YYYY-MM-DD"})
	}
	return
}

// CompleteSessionRequest flips the completed flag of one timetable session.
type CompleteSessionRequest struct {
	Date      string `json:"date" validate:"required"`
	Index     int    `json:"index" validate:"min=0"`
	Completed *bool  `json:"completed"` // defaults to true
}

func (cs *CompleteSessionRequest) Validate(validate *validator.Validate) error {
	cs.Date = core.CleanString(cs.Date)
	if err := validate.Struct(cs); err != nil {
		return err
	}
	if _, err := time.Parse(dateFormat, cs.Date); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "date", Error: "invalid date, expected YYYY-MM-DD"})
	}
	if cs.Completed == nil {
		done := true
		cs.Completed = &done
	}
	return nil
}

type QueryFilter struct {
	Search      string               `query:"search"`
	OwnerID     string               `query:"owner_id"`
	Difficulty  studyplan.Difficulty `query:"difficulty"`
	CreatedFrom time.Time            `query:"created_from"`
	CreatedTo   time.Time            `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.OwnerID == "" && qf.Difficulty == "" && qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
