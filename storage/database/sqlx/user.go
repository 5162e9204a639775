// Package sqlxrepos implements the domain repositories on PostgreSQL via sqlx.
package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/elimuhq/elimu/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

// dbUser maps a "user" table row.
type dbUser struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	IsActive     bool           `db:"is_active"`
	Roles        pq.StringArray `db:"roles"`
	PasswordHash []byte         `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	LastLogin    sql.NullTime   `db:"last_login"`
}

func toDBUser(usr user.User) dbUser {
	du := dbUser{
		ID:           usr.ID,
		Name:         usr.Name,
		Username:     usr.Username,
		Email:        usr.Email,
		IsActive:     usr.IsActive,
		Roles:        usr.Roles,
		PasswordHash: usr.PasswordHash,
		CreatedAt:    usr.CreatedAt,
		UpdatedAt:    usr.UpdatedAt,
	}
	if !usr.LastLogin.IsZero() {
		du.LastLogin = sql.NullTime{Time: usr.LastLogin, Valid: true}
	}
	return du
}

func (du dbUser) toUser() user.User {
	usr := user.User{
		ID:           du.ID,
		Name:         du.Name,
		Username:     du.Username,
		Email:        du.Email,
		IsActive:     du.IsActive,
		Roles:        du.Roles,
		PasswordHash: du.PasswordHash,
		CreatedAt:    du.CreatedAt,
		UpdatedAt:    du.UpdatedAt,
	}
	if du.LastLogin.Valid {
		usr.LastLogin = du.LastLogin.Time
	}
	return usr
}

const userColumns = `id, name, username, email, is_active, roles, password_hash, created_at, updated_at, last_login`

func (repo *userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	exclIDs := make([]string, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		exclIDs = append(exclIDs, usr.ID)
	}

	var taken []dbUser
	err := repo.db.SelectContext(
		ctx, &taken,
		`SELECT `+userColumns+` FROM "user" WHERE (username = $1 OR email = $2) AND NOT (id = ANY($3))`,
		username, email, pq.Array(exclIDs),
	)
	if err != nil {
		return errors.Wrap(err, "checking username uniqueness")
	}
	for _, du := range taken {
		if username != "" && du.Username == username {
			return user.ErrUsernameExists
		}
		if email != "" && du.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	_, err := repo.db.NamedExecContext(
		ctx,
		`INSERT INTO "user" (`+userColumns+`)
		 VALUES (:id, :name, :username, :email, :is_active, :roles, :password_hash, :created_at, :updated_at, :last_login)`,
		toDBUser(usr),
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var dus []dbUser
	err := repo.db.SelectContext(ctx, &dus, `SELECT `+userColumns+` FROM "user" ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return toUsers(dus), nil
}

func (repo *userRepository) getUser(ctx context.Context, query string, args ...interface{}) (user.User, error) {
	var du dbUser
	err := repo.db.GetContext(ctx, &du, query, args...)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return du.toUser(), nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	return repo.getUser(ctx, `SELECT `+userColumns+` FROM "user" WHERE id = $1`, id)
}

func (repo *userRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	return repo.getUser(ctx, `SELECT `+userColumns+` FROM "user" WHERE username = $1`, username)
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.getUser(ctx, `SELECT `+userColumns+` FROM "user" WHERE email = $1`, email)
}

func (repo *userRepository) GetUserByUsernameOrEmail(ctx context.Context, username string) (user.User, error) {
	return repo.getUser(ctx, `SELECT `+userColumns+` FROM "user" WHERE username = $1 OR email = $1`, username)
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	query := `SELECT ` + userColumns + ` FROM "user" WHERE 1=1`
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		query += ` AND (name ILIKE ` + p + ` OR username ILIKE ` + p + ` OR email ILIKE ` + p + `)`
	}
	if filter.Roles != nil {
		query += ` AND roles && ` + arg(pq.Array(filter.Roles))
	}
	if filter.IsActive != nil {
		query += ` AND is_active = ` + arg(*filter.IsActive)
	}
	if !filter.CreatedFrom.IsZero() {
		query += ` AND created_at >= ` + arg(filter.CreatedFrom)
	}
	if !filter.CreatedTo.IsZero() {
		query += ` AND created_at <= ` + arg(filter.CreatedTo)
	}
	query += ` ORDER BY created_at`

	var dus []dbUser
	if err := repo.db.SelectContext(ctx, &dus, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	return toUsers(dus), nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	// only save set fields
	orig, err := repo.GetUserByID(ctx, usr.ID)
	if err != nil {
		return user.User{}, err
	}
	if usr.Roles != nil {
		orig.Roles = usr.Roles
	}
	if usr.PasswordHash != nil {
		orig.PasswordHash = usr.PasswordHash
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}
	orig.Name = usr.Name
	orig.Username = usr.Username
	orig.Email = usr.Email
	orig.UpdatedAt = usr.UpdatedAt

	_, err = repo.db.NamedExecContext(
		ctx,
		`UPDATE "user" SET name = :name, username = :username, email = :email, is_active = :is_active,
		 roles = :roles, password_hash = :password_hash, updated_at = :updated_at, last_login = :last_login
		 WHERE id = :id`,
		toDBUser(orig),
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return orig, nil
}

func (repo *userRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	_, err := repo.db.NamedExecContext(
		ctx,
		`INSERT INTO "user" (`+userColumns+`)
		 VALUES (:id, :name, :username, :email, :is_active, :roles, :password_hash, :created_at, :updated_at, :last_login)
		 ON CONFLICT (id) DO UPDATE SET
		 name = EXCLUDED.name, username = EXCLUDED.username, email = EXCLUDED.email,
		 is_active = EXCLUDED.is_active, roles = EXCLUDED.roles, password_hash = EXCLUDED.password_hash,
		 updated_at = EXCLUDED.updated_at, last_login = EXCLUDED.last_login`,
		toDBUser(usr),
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "upserting user")
	}
	return usr, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM "user" WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting users")
}

func toUsers(dus []dbUser) []user.User {
	users := make([]user.User, 0, len(dus))
	for _, du := range dus {
		users = append(users, du.toUser())
	}
	return users
}
