package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/elimuhq/elimu/core"
	"github.com/elimuhq/elimu/core/course"
	"github.com/elimuhq/elimu/core/studyplan"
)

type courseRepository struct {
	db *courseTable
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.course}
}

func (repo *courseRepository) query() []course.Course {
	courses := make([]course.Course, 0, len(repo.db.table))
	for _, crs := range repo.db.table {
		courses = append(courses, *crs)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.Before(courses[j].CreatedAt) })
	return courses
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) QueryAllCourses(ctx context.Context, ordering ...core.DBOrdering) ([]course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if crs, ok := repo.db.table[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) FilterCourses(ctx context.Context, filter course.QueryFilter, ordering ...core.DBOrdering) ([]course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	courses := make([]course.Course, 0)
	for _, crs := range repo.query() {
		if matchesCourse(crs, filter) {
			courses = append(courses, crs)
		}
	}
	return courses, nil
}

func matchesCourse(crs course.Course, filter course.QueryFilter) bool {
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(crs.Title), search) &&
			!strings.Contains(strings.ToLower(crs.Description), search) {
			return false
		}
	}
	if filter.OwnerID != "" && crs.OwnerID != filter.OwnerID {
		return false
	}
	if filter.Difficulty != "" && crs.Difficulty != filter.Difficulty {
		return false
	}
	if !filter.CreatedFrom.IsZero() && crs.CreatedAt.Before(filter.CreatedFrom) {
		return false
	}
	if !filter.CreatedTo.IsZero() && crs.CreatedAt.After(filter.CreatedTo) {
		return false
	}
	return true
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[crs.ID]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	orig.Title = crs.Title
	orig.Description = crs.Description
	orig.Difficulty = crs.Difficulty
	orig.Topics = crs.Topics
	orig.Timetable = crs.Timetable
	orig.UpdatedAt = crs.UpdatedAt

	repo.db.table[crs.ID] = orig
	return *orig, nil
}

func (repo *courseRepository) SaveTimetable(ctx context.Context, courseID string, timetable studyplan.Schedule) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	crs, ok := repo.db.table[courseID]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	crs.Timetable = timetable
	return *crs, nil
}

func (repo *courseRepository) DeleteCoursesByID(ctx context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
