package course

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/elimuhq/elimu/core"
	"github.com/elimuhq/elimu/core/studyplan"
)

var (
	ErrNotFound        = errors.New("course not found")
	ErrSessionNotFound = errors.New("session not found")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		QueryAllCourses(ctx context.Context, ordering ...core.DBOrdering) ([]Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		FilterCourses(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Course, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		SaveTimetable(ctx context.Context, courseID string, timetable studyplan.Schedule) (Course, error)
		DeleteCoursesByID(ctx context.Context, ids ...string) error
	}

	// ContentGenerator authors a topic list for a course. Implementations
	// live in services/content.
	ContentGenerator interface {
		GenerateTopics(ctx context.Context, title, description string, diff studyplan.Difficulty) ([]studyplan.RawTopic, error)
	}

	Service interface {
		Create(ctx context.Context, ownerID string, nc NewCourse) (Course, error)
		QueryAll(ctx context.Context, ordering ...core.DBOrdering) ([]Course, error)
		GetByID(ctx context.Context, id string) (Course, error)
		Filter(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Course, error)
		Update(ctx context.Context, id string, uc UpdateCourse) (Course, error)
		Delete(ctx context.Context, ids ...string) error
		GenerateTimetable(ctx context.Context, id string, start, end time.Time) (Course, bool, error)
		CompleteSession(ctx context.Context, id string, req CompleteSessionRequest) (Course, error)
		Progress(ctx context.Context, id string) (Progress, error)
	}

	service struct {
		repo   Repository
		gen    ContentGenerator
		logger core.Logger
	}
)

var _ Service = (*service)(nil)

// nowFunc abstracts time for tests.
var nowFunc func() time.Time = time.Now

func NewService(repo Repository, gen ContentGenerator, logger core.Logger) Service {
	return &service{
		repo:   repo,
		gen:    gen,
		logger: logger,
	}
}

func (svc *service) Create(ctx context.Context, ownerID string, nc NewCourse) (Course, error) {
	topics := nc.Topics
	if (nc.GenerateTopics || len(topics) == 0) && svc.gen != nil {
		generated, err := svc.gen.GenerateTopics(ctx, nc.Title, nc.Description, nc.Difficulty)
		if err == nil && len(generated) > 0 {
			topics = generated
		} else if err != nil {
			svc.logger.Warn("topic generation failed", err)
		}
	}
	if len(topics) == 0 {
		return Course{}, core.NewValidationError(errors.New("topic list is required"), core.FieldError{Field: "topics", Error: "topic list is required"})
	}

	now := nowFunc().UTC()
	crs := Course{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       nc.Title,
		Description: nc.Description,
		Difficulty:  nc.Difficulty,
		Topics:      topics,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *service) QueryAll(ctx context.Context, ordering ...core.DBOrdering) ([]Course, error) {
	return svc.repo.QueryAllCourses(ctx, ordering...)
}

func (svc *service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Course, error) {
	filter.Clean()
	if filter.IsEmpty() {
		return svc.repo.QueryAllCourses(ctx, ordering...)
	}
	return svc.repo.FilterCourses(ctx, filter, ordering...)
}

func (svc *service) Update(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}
	crs.Title = uc.Title
	crs.Description = uc.Description
	crs.Difficulty = uc.Difficulty
	crs.Topics = uc.Topics
	crs.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateCourse(ctx, crs)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteCoursesByID(ctx, ids...)
}

// GenerateTimetable builds and persists a study timetable for the course.
// The second return value reports whether the plan was truncated before
// covering every topic.
func (svc *service) GenerateTimetable(ctx context.Context, id string, start, end time.Time) (Course, bool, error) {
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, false, err
	}
	if len(crs.Topics) == 0 {
		return Course{}, false, core.NewValidationError(studyplan.ErrEmptyTopics, core.FieldError{Field: "topics", Error: "course has no topics"})
	}
	if end.Before(start) {
		return Course{}, false, core.NewValidationError(studyplan.ErrInvalidRange, core.FieldError{Field: "end_date", Error: "end date must not precede start date"})
	}

	res := svc.buildPlan(crs.Topics, start, end, crs.Difficulty)
	crs, err = svc.repo.SaveTimetable(ctx, crs.ID, res.Schedule)
	if err != nil {
		return Course{}, false, err
	}
	return crs, res.Overrun, nil
}

var buildFunc = studyplan.Build // mockable

// buildPlan never fails: should the scheduler panic on unexpected input,
// the even-split fallback plan is returned instead.
func (svc *service) buildPlan(topics []studyplan.RawTopic, start, end time.Time, diff studyplan.Difficulty) (res studyplan.Result) {
	defer func() {
		if r := recover(); r != nil {
			svc.logger.Error("scheduler failed, using fallback plan", r)
			res = studyplan.Result{Schedule: studyplan.BuildFallback(studyplan.NormalizeTopics(topics, diff), start, end)}
		}
	}()

	res, err := buildFunc(topics, start, end, diff)
	if err != nil {
		// input errors are rejected upfront by GenerateTimetable; anything
		// else degrades to the fallback plan
		svc.logger.Error("scheduler failed, using fallback plan", err)
		res = studyplan.Result{Schedule: studyplan.BuildFallback(studyplan.NormalizeTopics(topics, diff), start, end)}
	}
	return res
}

func (svc *service) CompleteSession(ctx context.Context, id string, req CompleteSessionRequest) (Course, error) {
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}

	found := false
	for di, day := range crs.Timetable {
		if day.Date != req.Date {
			continue
		}
		if req.Index >= len(day.Sessions) {
			break
		}
		crs.Timetable[di].Sessions[req.Index].Completed = *req.Completed
		found = true
		break
	}
	if !found {
		return Course{}, ErrSessionNotFound
	}
	return svc.repo.SaveTimetable(ctx, crs.ID, crs.Timetable)
}

// Progress reports timetable completion; breaks do not count.
func (svc *service) Progress(ctx context.Context, id string) (Progress, error) {
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Progress{}, err
	}

	var prog Progress
	for _, day := range crs.Timetable {
		for _, sess := range day.Sessions {
			if sess.IsBreak {
				continue
			}
			prog.TotalSessions++
			if sess.Completed {
				prog.CompletedSessions++
			}
		}
	}
	if prog.TotalSessions > 0 {
		prog.Percent = float64(prog.CompletedSessions) / float64(prog.TotalSessions) * 100
	}
	return prog, nil
}
