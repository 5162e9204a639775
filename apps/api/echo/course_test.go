package echoapi

import (
	"net/http"
	"testing"

	"github.com/elimuhq/elimu/core/course"
	"github.com/elimuhq/elimu/core/user"
)

func TestCourseAPI(t *testing.T) {
	env := setup(t)

	teacher := env.createUser(t, "Prof", "teacher1", "prof@elimu.cd", "TiaAningo#92", []string{user.RoleTeacher})
	alice := env.createUser(t, "Alice", "alice123", "alice@elimu.cd", "TiaAningo#92", []string{user.RoleStudent})
	bob := env.createUser(t, "Bob", "bobby123", "bob@elimu.cd", "TiaAningo#92", []string{user.RoleStudent})

	t.Run("create requires auth", func(t *testing.T) {
		body := marshalObj(t, course.NewCourse{Title: "Go Basics"})
		req, rec := newRequest(http.MethodPost, "/v1/courses", body)
		env.server.ServeHTTP(rec, req)

		checkError(t, rec, http.StatusUnauthorized, errMissingToken)
	})

	t.Run("create with explicit topics", func(t *testing.T) {
		nc := course.NewCourse{Title: "Go Basics", Difficulty: "beginner"}
		nc.Topics = append(nc.Topics, rawTopic("Syntax", 2), rawTopic("Slices", 1))
		req, rec := newAuthRequest(http.MethodPost, "/v1/courses", getToken(t, alice), marshalObj(t, nc))
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusCreated)
		var crs course.Course
		decodeBody(t, rec, &crs)
		if crs.OwnerID != alice.ID || len(crs.Topics) != 2 {
			t.Errorf("unexpected course %+v", crs)
		}
	})

	t.Run("create without topics generates them", func(t *testing.T) {
		body := marshalObj(t, course.NewCourse{Title: "Databases"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/courses", getToken(t, alice), body)
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusCreated)
		var crs course.Course
		decodeBody(t, rec, &crs)
		if len(crs.Topics) == 0 {
			t.Error("expected generated topics")
		}
	})

	t.Run("blank title is rejected", func(t *testing.T) {
		body := marshalObj(t, course.NewCourse{Title: "   "})
		req, rec := newAuthRequest(http.MethodPost, "/v1/courses", getToken(t, alice), body)
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusBadRequest)
	})

	t.Run("students only see their own courses", func(t *testing.T) {
		env.createCourse(t, bob, "Bob's Secret Course", "Topic A")

		req, rec := newAuthRequest(http.MethodGet, "/v1/courses", getToken(t, alice))
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusOK)
		var courses []course.Course
		decodeBody(t, rec, &courses)
		for _, crs := range courses {
			if crs.OwnerID != alice.ID {
				t.Errorf("leaked course %+v", crs)
			}
		}
	})

	t.Run("teacher sees all courses", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/courses", getToken(t, teacher))
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusOK)
		var courses []course.Course
		decodeBody(t, rec, &courses)
		if len(courses) < 3 {
			t.Errorf("expected at least 3 courses, got %d", len(courses))
		}
	})

	t.Run("student cannot retrieve another student's course", func(t *testing.T) {
		crs := env.createCourse(t, bob, "Bob's Other Course", "Topic A")

		req, rec := newAuthRequest(http.MethodGet, "/v1/courses/"+crs.ID, getToken(t, alice))
		env.server.ServeHTTP(rec, req)

		checkError(t, rec, http.StatusNotFound, httpErr{Error: "not found"})
	})

	t.Run("timetable lifecycle", func(t *testing.T) {
		crs := env.createCourse(t, alice, "Scheduling 101", "Syntax", "Slices")
		token := getToken(t, alice)

		// generate: 2024-01-01 is a Monday
		body := marshalObj(t, course.TimetableRequest{StartDate: "2024-01-01", EndDate: "2024-01-05"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/courses/"+crs.ID+"/timetable", token, body)
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusOK)
		var res TimetableResponse
		decodeBody(t, rec, &res)
		if len(res.Timetable) == 0 {
			t.Fatal("expected a timetable")
		}
		if res.Warning != "" {
			t.Errorf("unexpected warning %q", res.Warning)
		}
		day := res.Timetable[0]
		if day.Date != "2024-01-01" || day.Sessions[0].StartTime != "09:00" {
			t.Errorf("unexpected first day %+v", day)
		}

		// complete the first session
		body = marshalObj(t, course.CompleteSessionRequest{Date: day.Date, Index: 0})
		req, rec = newAuthRequest(http.MethodPut, "/v1/courses/"+crs.ID+"/timetable/complete", token, body)
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusOK)
		var updated course.Course
		decodeBody(t, rec, &updated)
		if !updated.Timetable[0].Sessions[0].Completed {
			t.Error("session not marked completed")
		}

		// progress
		req, rec = newAuthRequest(http.MethodGet, "/v1/courses/"+crs.ID+"/progress", token)
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusOK)
		var prog course.Progress
		decodeBody(t, rec, &prog)
		if prog.TotalSessions != 2 || prog.CompletedSessions != 1 || prog.Percent != 50 {
			t.Errorf("unexpected progress %+v", prog)
		}
	})

	t.Run("timetable with malformed date is rejected", func(t *testing.T) {
		crs := env.createCourse(t, alice, "Bad Dates", "Topic A")

		body := marshalObj(t, course.TimetableRequest{StartDate: "01/02/2024", EndDate: "2024-02-05"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/courses/"+crs.ID+"/timetable", getToken(t, alice), body)
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusBadRequest)
	})

	t.Run("timetable with inverted range is rejected", func(t *testing.T) {
		crs := env.createCourse(t, alice, "Inverted", "Topic A")

		body := marshalObj(t, course.TimetableRequest{StartDate: "2024-02-05", EndDate: "2024-02-01"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/courses/"+crs.ID+"/timetable", getToken(t, alice), body)
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusBadRequest)
	})

	t.Run("completing an unknown session fails", func(t *testing.T) {
		crs := env.createCourse(t, alice, "No Plan Yet", "Topic A")

		body := marshalObj(t, course.CompleteSessionRequest{Date: "2024-01-01", Index: 0})
		req, rec := newAuthRequest(http.MethodPut, "/v1/courses/"+crs.ID+"/timetable/complete", getToken(t, alice), body)
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusNotFound)
	})

	t.Run("update course", func(t *testing.T) {
		crs := env.createCourse(t, alice, "Old Title", "Topic A")

		body := marshalObj(t, course.UpdateCourse{Title: "New Title", Difficulty: "advanced"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/courses/"+crs.ID, getToken(t, alice), body)
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusOK)
		var updated course.Course
		decodeBody(t, rec, &updated)
		if updated.Title != "New Title" || updated.Difficulty != "advanced" {
			t.Errorf("unexpected course %+v", updated)
		}
	})

	t.Run("delete course", func(t *testing.T) {
		crs := env.createCourse(t, alice, "Doomed", "Topic A")
		token := getToken(t, alice)

		req, rec := newAuthRequest(http.MethodDelete, "/v1/courses/"+crs.ID, token)
		env.server.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusNoContent)

		req, rec = newAuthRequest(http.MethodGet, "/v1/courses/"+crs.ID, token)
		env.server.ServeHTTP(rec, req)
		checkError(t, rec, http.StatusNotFound, httpErr{Error: "not found"})
	})
}
