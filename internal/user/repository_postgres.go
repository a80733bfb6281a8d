package user

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	getUserByIDQuery     = `SELECT id, name, number, password FROM users WHERE id = $1`
	getUserByNumberQuery = `SELECT id, name, number, password FROM users WHERE number = $1`
	insertUserQuery      = `INSERT INTO users (name, number, password) VALUES ($1, $2, $3) RETURNING id`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(id int) (User, error) {
	return r.get(getUserByIDQuery, id)
}

func (r *PostgresRepository) GetByNumber(number string) (User, error) {
	return r.get(getUserByNumberQuery, number)
}

func (r *PostgresRepository) get(query string, arg any) (User, error) {
	var user User
	err := r.db.QueryRow(query, arg).Scan(&user.ID, &user.Name, &user.Number, &user.Password)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (r *PostgresRepository) Create(user User) (User, error) {
	err := r.db.QueryRow(insertUserQuery, user.Name, user.Number, user.Password).Scan(&user.ID)
	if err != nil {
		return User{}, err
	}
	return user, nil
}
