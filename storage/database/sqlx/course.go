package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/elimuhq/elimu/core"
	"github.com/elimuhq/elimu/core/course"
	"github.com/elimuhq/elimu/core/studyplan"
)

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *sqlx.DB) course.Repository {
	return &courseRepository{db: db}
}

// dbCourse maps a course table row; topics and timetable are JSONB.
type dbCourse struct {
	ID          string    `db:"id"`
	OwnerID     string    `db:"owner_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Difficulty  string    `db:"difficulty"`
	Topics      []byte    `db:"topics"`
	Timetable   []byte    `db:"timetable"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func toDBCourse(crs course.Course) (dbCourse, error) {
	topics, err := json.Marshal(crs.Topics)
	if err != nil {
		return dbCourse{}, errors.Wrap(err, "encoding topics")
	}
	timetable := []byte("[]")
	if crs.Timetable != nil {
		if timetable, err = json.Marshal(crs.Timetable); err != nil {
			return dbCourse{}, errors.Wrap(err, "encoding timetable")
		}
	}
	return dbCourse{
		ID:          crs.ID,
		OwnerID:     crs.OwnerID,
		Title:       crs.Title,
		Description: crs.Description,
		Difficulty:  string(crs.Difficulty),
		Topics:      topics,
		Timetable:   timetable,
		CreatedAt:   crs.CreatedAt,
		UpdatedAt:   crs.UpdatedAt,
	}, nil
}

func (dc dbCourse) toCourse() (course.Course, error) {
	crs := course.Course{
		ID:          dc.ID,
		OwnerID:     dc.OwnerID,
		Title:       dc.Title,
		Description: dc.Description,
		Difficulty:  studyplan.Difficulty(dc.Difficulty),
		CreatedAt:   dc.CreatedAt,
		UpdatedAt:   dc.UpdatedAt,
	}
	if err := json.Unmarshal(dc.Topics, &crs.Topics); err != nil {
		return course.Course{}, errors.Wrap(err, "decoding topics")
	}
	if err := json.Unmarshal(dc.Timetable, &crs.Timetable); err != nil {
		return course.Course{}, errors.Wrap(err, "decoding timetable")
	}
	if len(crs.Timetable) == 0 {
		crs.Timetable = nil
	}
	return crs, nil
}

const courseColumns = `id, owner_id, title, description, difficulty, topics, timetable, created_at, updated_at`

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	dc, err := toDBCourse(crs)
	if err != nil {
		return course.Course{}, err
	}
	_, err = repo.db.NamedExecContext(
		ctx,
		`INSERT INTO course (`+courseColumns+`)
		 VALUES (:id, :owner_id, :title, :description, :difficulty, :topics, :timetable, :created_at, :updated_at)`,
		dc,
	)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "creating course")
	}
	return crs, nil
}

func (repo *courseRepository) QueryAllCourses(ctx context.Context, ordering ...core.DBOrdering) ([]course.Course, error) {
	var dcs []dbCourse
	err := repo.db.SelectContext(ctx, &dcs, `SELECT `+courseColumns+` FROM course`+orderBy(ordering))
	if err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return toCourses(dcs)
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	var dc dbCourse
	err := repo.db.GetContext(ctx, &dc, `SELECT `+courseColumns+` FROM course WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return course.Course{}, course.ErrNotFound
	}
	if err != nil {
		return course.Course{}, errors.Wrap(err, "getting course")
	}
	return dc.toCourse()
}

func (repo *courseRepository) FilterCourses(ctx context.Context, filter course.QueryFilter, ordering ...core.DBOrdering) ([]course.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM course WHERE 1=1`
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		query += ` AND (title ILIKE ` + p + ` OR description ILIKE ` + p + `)`
	}
	if filter.OwnerID != "" {
		query += ` AND owner_id = ` + arg(filter.OwnerID)
	}
	if filter.Difficulty != "" {
		query += ` AND difficulty = ` + arg(string(filter.Difficulty))
	}
	if !filter.CreatedFrom.IsZero() {
		query += ` AND created_at >= ` + arg(filter.CreatedFrom)
	}
	if !filter.CreatedTo.IsZero() {
		query += ` AND created_at <= ` + arg(filter.CreatedTo)
	}
	query += orderBy(ordering)

	var dcs []dbCourse
	if err := repo.db.SelectContext(ctx, &dcs, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering courses")
	}
	return toCourses(dcs)
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	dc, err := toDBCourse(crs)
	if err != nil {
		return course.Course{}, err
	}
	res, err := repo.db.NamedExecContext(
		ctx,
		`UPDATE course SET title = :title, description = :description, difficulty = :difficulty,
		 topics = :topics, timetable = :timetable, updated_at = :updated_at
		 WHERE id = :id`,
		dc,
	)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return crs, nil
}

func (repo *courseRepository) SaveTimetable(ctx context.Context, courseID string, timetable studyplan.Schedule) (course.Course, error) {
	data := []byte("[]")
	if timetable != nil {
		var err error
		if data, err = json.Marshal(timetable); err != nil {
			return course.Course{}, errors.Wrap(err, "encoding timetable")
		}
	}
	res, err := repo.db.ExecContext(
		ctx,
		`UPDATE course SET timetable = $2, updated_at = $3 WHERE id = $1`,
		courseID, data, time.Now().UTC(),
	)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "saving timetable")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return repo.GetCourseByID(ctx, courseID)
}

func (repo *courseRepository) DeleteCoursesByID(ctx context.Context, ids ...string) error {
	query, args, err := sqlx.In(`DELETE FROM course WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting courses")
	}
	_, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...)
	return errors.Wrap(err, "deleting courses")
}

func toCourses(dcs []dbCourse) ([]course.Course, error) {
	courses := make([]course.Course, 0, len(dcs))
	for _, dc := range dcs {
		crs, err := dc.toCourse()
		if err != nil {
			return nil, err
		}
		courses = append(courses, crs)
	}
	return courses, nil
}

// orderBy renders an ORDER BY clause; defaults to creation order.
func orderBy(ordering []core.DBOrdering) string {
	if len(ordering) == 0 {
		return ` ORDER BY created_at`
	}
	clause := ` ORDER BY `
	for i, ord := range ordering {
		if i > 0 {
			clause += ", "
		}
		clause += ord.String()
	}
	return clause
}
