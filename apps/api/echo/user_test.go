package echoapi

import (
	"net/http"
	"testing"

	"github.com/elimuhq/elimu/core/user"
)

func TestUserAPI(t *testing.T) {
	env := setup(t)

	admin := env.createUser(t, "God", "admin", "admin@elimu.cd", "LordHaveMercy!", []string{user.RoleAdmin})
	student := env.createUser(t, "Jane Student", "janedoe", "jane@elimu.cd", "TiaAningo#92", []string{user.RoleStudent})

	t.Run("login succeeds", func(t *testing.T) {
		body := marshalObj(t, user.LoginRequest{Username: "janedoe", Password: "TiaAningo#92"})
		req, rec := newRequest(http.MethodPost, "/v1/users/login", body)
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusOK)
		var res LoginResponse
		decodeBody(t, rec, &res)
		if res.Token == "" {
			t.Error("expected a token")
		}
	})

	t.Run("login with email succeeds", func(t *testing.T) {
		body := marshalObj(t, user.LoginRequest{Username: "jane@elimu.cd", Password: "TiaAningo#92"})
		req, rec := newRequest(http.MethodPost, "/v1/users/login", body)
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusOK)
	})

	t.Run("login with wrong password fails", func(t *testing.T) {
		body := marshalObj(t, user.LoginRequest{Username: "janedoe", Password: "nope"})
		req, rec := newRequest(http.MethodPost, "/v1/users/login", body)
		env.server.ServeHTTP(rec, req)

		checkError(t, rec, http.StatusBadRequest, httpErr{Error: "authentication failed"})
	})

	t.Run("query requires auth", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/users")
		env.server.ServeHTTP(rec, req)

		checkError(t, rec, http.StatusUnauthorized, errMissingToken)
	})

	t.Run("query requires admin", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/users", getToken(t, student))
		env.server.ServeHTTP(rec, req)

		checkError(t, rec, http.StatusForbidden, httpErr{Error: "permission denied"})
	})

	t.Run("admin queries all users", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/users", getToken(t, admin))
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusOK)
		var users []user.User
		decodeBody(t, rec, &users)
		if len(users) != 2 {
			t.Errorf("expected 2 users, got %d", len(users))
		}
	})

	t.Run("admin lists roles", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/users/roles", getToken(t, admin))
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusOK)
		checkData(t, rec, marshalObj(t, user.Roles))
	})

	t.Run("user retrieves own profile", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/users/"+student.ID, getToken(t, student))
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusOK)
		var usr user.User
		decodeBody(t, rec, &usr)
		if usr.ID != student.ID || usr.Username != "janedoe" {
			t.Errorf("unexpected user %+v", usr)
		}
	})

	t.Run("user cannot retrieve another profile", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/users/"+admin.ID, getToken(t, student))
		env.server.ServeHTTP(rec, req)

		checkError(t, rec, http.StatusNotFound, httpErr{Error: "not found"})
	})

	t.Run("admin retrieves any profile", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/users/"+student.ID, getToken(t, admin))
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusOK)
	})

	t.Run("password reset request always succeeds", func(t *testing.T) {
		body := marshalObj(t, user.PasswordResetRequest{Email: "unknown@elimu.cd"})
		req, rec := newRequest(http.MethodPost, "/v1/users/password-reset", body)
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusOK)
	})

	t.Run("token refresh", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", getToken(t, student))
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusOK)
		var res LoginResponse
		decodeBody(t, rec, &res)
		if res.Token == "" {
			t.Error("expected a token")
		}
	})

	t.Run("student cannot register users", func(t *testing.T) {
		body := marshalObj(t, user.NewUser{
			Name: "X", Username: "xavier1", Email: "x@elimu.cd",
			Password: "Str0ng&pwd!", PasswordConfirm: "Str0ng&pwd!",
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", getToken(t, student), body)
		env.server.ServeHTTP(rec, req)

		checkError(t, rec, http.StatusForbidden, httpErr{Error: "permission denied"})
	})

	t.Run("admin registers a user", func(t *testing.T) {
		body := marshalObj(t, user.NewUser{
			Name: "John Doe", Username: "johndoe", Email: "john@elimu.cd",
			Password: "Str0ng&pwd!", PasswordConfirm: "Str0ng&pwd!",
			Roles: []string{user.RoleStudent},
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", getToken(t, admin), body)
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusCreated)
		var usr user.User
		decodeBody(t, rec, &usr)
		if usr.Username != "johndoe" || !usr.IsActive {
			t.Errorf("unexpected user %+v", usr)
		}
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		body := marshalObj(t, user.NewUser{
			Name: "Jane Bis", Username: "janedoe", Email: "jane2@elimu.cd",
			Password: "Str0ng&pwd!", PasswordConfirm: "Str0ng&pwd!",
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", getToken(t, admin), body)
		env.server.ServeHTTP(rec, req)

		checkCode(t, rec, http.StatusBadRequest)
	})

	t.Run("admin cannot delete themselves", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/users/"+admin.ID, getToken(t, admin))
		env.server.ServeHTTP(rec, req)

		checkError(t, rec, http.StatusForbidden, httpErr{Error: "permission denied"})
	})
}
