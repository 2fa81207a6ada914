package user

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type PostgresRepository struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	listUsersQuery = `
		SELECT id, name, email, phone, city, state, country, gender, created_at
		FROM users
		WHERE name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	countUsersQuery = `
		SELECT COUNT(*)
		FROM users
		WHERE name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
	`
	countAllUsersQuery = `SELECT COUNT(*) FROM users`
	getUserByIDQuery   = `
		SELECT id, name, email, phone, city, state, country, gender, created_at
		FROM users
		WHERE id = $1
	`
	getUserByEmailQuery = `
		SELECT id, name, email, phone, city, state, country, gender, created_at
		FROM users
		WHERE email = $1
	`
	insertUserQuery = `
		INSERT INTO users (id, name, email, phone, city, state, country, gender, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	updateUserQuery = `
		UPDATE users
		SET name = $1,
			email = $2,
			phone = $3,
			city = $4,
			state = $5,
			country = $6,
			gender = $7
		WHERE id = $8
	`
	deleteUserQuery = `DELETE FROM users WHERE id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(user User) (User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	_, err := r.db.Exec(
		insertUserQuery,
		user.ID,
		user.Name,
		user.Email,
		nullable(user.Phone),
		nullable(user.Location.City),
		nullable(user.Location.State),
		nullable(user.Location.Country),
		user.Gender,
		user.CreatedAt,
	)
	if err != nil {
		return User{}, err
	}

	return user, nil
}

func (r *PostgresRepository) List(q ListQuery) ([]User, int, error) {
	offset := (q.Page - 1) * q.Limit

	rows, err := r.db.Query(listUsersQuery, q.Search, q.Limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRow(countUsersQuery, q.Search).Scan(&total); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *PostgresRepository) GetByID(id string) (User, error) {
	row := r.db.QueryRow(getUserByIDQuery, id)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	row := r.db.QueryRow(getUserByEmailQuery, email)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	return user, nil
}

func (r *PostgresRepository) Update(id string, update User) (User, error) {
	result, err := r.db.Exec(
		updateUserQuery,
		update.Name,
		update.Email,
		nullable(update.Phone),
		nullable(update.Location.City),
		nullable(update.Location.State),
		nullable(update.Location.Country),
		update.Gender,
		id,
	)
	if err != nil {
		return User{}, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return User{}, err
	}
	if affected == 0 {
		return User{}, ErrNotFound
	}

	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id string) error {
	result, err := r.db.Exec(deleteUserQuery, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *PostgresRepository) Count() (int, error) {
	var total int
	if err := r.db.QueryRow(countAllUsersQuery).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

// Aggregate translates the declarative pipeline into a GROUP BY query. A
// secondary order on the group columns keeps result order deterministic when
// counts tie.
func (r *PostgresRepository) Aggregate(p Pipeline) ([]Group, error) {
	if len(p.GroupBy) == 0 {
		return nil, fmt.Errorf("aggregate: empty group specification")
	}

	exprs := make([]string, 0, len(p.GroupBy))
	for _, field := range p.GroupBy {
		expr, err := fieldExpr(field)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}

	cols := strings.Join(exprs, ", ")
	query := "SELECT " + cols + ", COUNT(*) AS count FROM users GROUP BY " + cols
	if p.Sort == SortCountDesc {
		query += " ORDER BY count DESC, " + cols
	} else {
		query += " ORDER BY " + cols
	}

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]Group, 0)
	for rows.Next() {
		var group Group
		dest := make([]any, 0, len(p.GroupBy)+1)
		for _, field := range p.GroupBy {
			switch field {
			case FieldCity:
				dest = append(dest, &group.Key.City)
			case FieldState:
				dest = append(dest, &group.Key.State)
			case FieldCountry:
				dest = append(dest, &group.Key.Country)
			case FieldGender:
				dest = append(dest, &group.Key.Gender)
			case FieldSignupMonth:
				dest = append(dest, &group.Key.Month)
			}
		}
		dest = append(dest, &group.Count)

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return groups, nil
}

func fieldExpr(field Field) (string, error) {
	switch field {
	case FieldCity:
		return "COALESCE(city, '')", nil
	case FieldState:
		return "COALESCE(state, '')", nil
	case FieldCountry:
		return "COALESCE(country, '')", nil
	case FieldGender:
		return "gender", nil
	case FieldSignupMonth:
		return "EXTRACT(MONTH FROM created_at)::int", nil
	default:
		return "", fmt.Errorf("aggregate: unknown field %q", field)
	}
}

func nullable(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func scanUser(scanner rowScanner) (User, error) {
	user := User{}
	var phone, city, state, country sql.NullString
	var createdAt time.Time

	if err := scanner.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&phone,
		&city,
		&state,
		&country,
		&user.Gender,
		&createdAt,
	); err != nil {
		return User{}, err
	}

	user.Phone = phone.String
	user.Location.City = city.String
	user.Location.State = state.String
	user.Location.Country = country.String
	user.CreatedAt = createdAt

	return user, nil
}
