package repository

import (
	"database/sql"

	"bytebank-api/logger"
	"bytebank-api/model"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// IAccountRepository defines the contract for account database operations.
// Read operations only see active accounts; Deactivate and Delete operate
// regardless of the current flag.
type IAccountRepository interface {
	Insert(account *model.Account) error
	FindActiveByNumber(number int64) (*model.Account, error)
	ListActive() ([]*model.Account, error)
	UpdateBalance(number int64, newBalance decimal.Decimal) error
	Deactivate(number int64) error
	Delete(number int64) error
}

// AccountRepository implements IAccountRepository on top of *sql.DB. The
// pool hands out one connection per statement and reclaims it on every exit
// path, so no connection management happens here.
type AccountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

// Insert adds a new account to the database.
func (r *AccountRepository) Insert(account *model.Account) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_number": account.Number,
		"owner_name":     account.Owner.Name,
	})
	log.Info("Executing query to insert a new account")

	query := `INSERT INTO accounts (number, balance, owner_name, owner_tax_id, owner_email, active)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
	err := r.DB.QueryRow(query,
		account.Number,
		account.Balance,
		account.Owner.Name,
		account.Owner.TaxID,
		account.Owner.Email,
		account.Active,
	).Scan(&account.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute insert account query")
		return err
	}
	return nil
}

// FindActiveByNumber retrieves an active account by its number. Absence is
// reported as sql.ErrNoRows; translating that into a business error is the
// service's job.
func (r *AccountRepository) FindActiveByNumber(number int64) (*model.Account, error) {
	log := logger.Log.WithField("account_number", number)
	log.Info("Executing query to find active account by number")

	account := &model.Account{}
	query := `SELECT number, balance, owner_name, owner_tax_id, owner_email, active, created_at
		FROM accounts WHERE number = $1 AND active = TRUE`
	err := r.DB.QueryRow(query, number).Scan(
		&account.Number,
		&account.Balance,
		&account.Owner.Name,
		&account.Owner.TaxID,
		&account.Owner.Email,
		&account.Active,
		&account.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Info("No active account found for number")
		} else {
			log.WithError(err).Error("Failed to execute find active account query")
		}
		return nil, err
	}
	return account, nil
}

// ListActive retrieves all currently active accounts.
func (r *AccountRepository) ListActive() ([]*model.Account, error) {
	log := logger.Log
	log.Info("Executing query to list active accounts")

	query := `SELECT number, balance, owner_name, owner_tax_id, owner_email, active, created_at
		FROM accounts WHERE active = TRUE`
	rows, err := r.DB.Query(query)
	if err != nil {
		log.WithError(err).Error("Failed to execute list active accounts query")
		return nil, err
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		var acc model.Account
		if err := rows.Scan(
			&acc.Number,
			&acc.Balance,
			&acc.Owner.Name,
			&acc.Owner.TaxID,
			&acc.Owner.Email,
			&acc.Active,
			&acc.CreatedAt,
		); err != nil {
			log.WithError(err).Error("Failed to scan account row")
			return nil, err
		}
		accounts = append(accounts, &acc)
	}
	return accounts, rows.Err()
}

// UpdateBalance persists a new balance for the given account number.
func (r *AccountRepository) UpdateBalance(number int64, newBalance decimal.Decimal) error {
	log := logger.Log.WithFields(logrus.Fields{
		"account_number": number,
		"new_balance":    newBalance.String(),
	})
	log.Info("Executing query to update account balance")

	query := `UPDATE accounts SET balance = $1 WHERE number = $2`
	_, err := r.DB.Exec(query, newBalance, number)
	if err != nil {
		log.WithError(err).Error("Failed to execute update account balance query")
		return err
	}
	return nil
}

// Deactivate marks an account as inactive, keeping its record.
func (r *AccountRepository) Deactivate(number int64) error {
	log := logger.Log.WithField("account_number", number)
	log.Info("Executing query to deactivate account")

	query := `UPDATE accounts SET active = FALSE WHERE number = $1`
	_, err := r.DB.Exec(query, number)
	if err != nil {
		log.WithError(err).Error("Failed to execute deactivate account query")
		return err
	}
	return nil
}

// Delete permanently removes an account record.
func (r *AccountRepository) Delete(number int64) error {
	log := logger.Log.WithField("account_number", number)
	log.Info("Executing query to delete account")

	query := `DELETE FROM accounts WHERE number = $1`
	_, err := r.DB.Exec(query, number)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete account query")
		return err
	}
	return nil
}
