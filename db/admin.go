package db

import (
	"database/sql"

	"github.com/findhari93-sketch/NeramNewApp-sub004/models"
)

type AdminStorage interface {
	GetAdminByEmail(email string) (*models.AdminUser, error)
}

const (
	getAdminByEmail = `
	SELECT
		admin_user.id,
		admin_user.name,
		admin_user.email,
		admin_user.password,
		admin_user.created,
		admin_user.active
	FROM admin_user
	WHERE admin_user.email = :email
	AND admin_user.active = true
	`
)

func (db *DB) GetAdminByEmail(email string) (*models.AdminUser, error) {
	stmt, err := db.PrepareNamed(getAdminByEmail)
	if err != nil {
		return nil, err
	}

	args := map[string]interface{}{
		"email": email,
	}

	row := stmt.QueryRow(args)

	var admin models.AdminUser
	if err := row.Scan(
		&admin.ID,
		&admin.Name,
		&admin.Email,
		&admin.Password,
		&admin.Created,
		&admin.Active,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &admin, nil
}
