// Package storage persists accounts, subcategories, transactions and
// recurring obligations in SQLite. The projection engine never touches
// the database directly; it consumes immutable snapshots loaded here.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"bilancio/internal/core"
	"bilancio/internal/forecast"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports database reachability, used by the health endpoint.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// --- accounts ---

func (r *Repository) CreateAccount(ctx context.Context, a core.Account) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertAccount, a.Name, a.InitialBalance.Cents, a.IsActive)
	if err != nil {
		return 0, fmt.Errorf("create account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("account id: %w", err)
	}

	slog.InfoContext(ctx, "Account created", "id", id, "name", a.Name)
	return id, nil
}

func (r *Repository) GetAccount(ctx context.Context, id int64) (*core.Account, error) {
	var (
		a      core.Account
		active int64
	)
	err := r.db.QueryRowContext(ctx, selectAccount, id).
		Scan(&a.ID, &a.Name, &a.InitialBalance.Cents, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account %d: %w", id, err)
	}
	a.IsActive = active != 0
	return &a, nil
}

func (r *Repository) ListAccounts(ctx context.Context, onlyActive bool) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx, selectAccounts, boolToInt(onlyActive))
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var (
			a      core.Account
			active int64
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.InitialBalance.Cents, &active); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.IsActive = active != 0
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) SetAccountActive(ctx context.Context, id int64, active bool) error {
	return r.exec(ctx, "set account active", updateAccountActive, boolToInt(active), id)
}

// --- subcategories ---

func (r *Repository) CreateSubCategory(ctx context.Context, name string) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertSubCategory, name)
	if err != nil {
		return 0, fmt.Errorf("create subcategory: %w", err)
	}
	return res.LastInsertId()
}

func (r *Repository) ListSubCategories(ctx context.Context) ([]core.SubCategory, error) {
	rows, err := r.db.QueryContext(ctx, selectSubCategories)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var out []core.SubCategory
	for rows.Next() {
		var sc core.SubCategory
		if err := rows.Scan(&sc.ID, &sc.Name); err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// --- obligations ---

func (r *Repository) CreateObligation(ctx context.Context, ob core.RecurringObligation) (int64, error) {
	if err := ob.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, insertObligation,
		ob.Label, ob.Amount.Cents, ob.DayOfMonth, string(ob.Frequency),
		ob.AccountID, ob.SubCategoryID, int64(ob.Flow), ob.IsActive)
	if err != nil {
		return 0, fmt.Errorf("create obligation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("obligation id: %w", err)
	}

	slog.InfoContext(ctx, "Obligation created",
		"id", id,
		"label", ob.Label,
		"frequency", ob.Frequency,
		"amount_cents", ob.Amount.Cents)
	return id, nil
}

func (r *Repository) UpdateObligation(ctx context.Context, ob core.RecurringObligation) error {
	if err := ob.Validate(); err != nil {
		return err
	}
	return r.exec(ctx, "update obligation", updateObligation,
		ob.Label, ob.Amount.Cents, ob.DayOfMonth, string(ob.Frequency),
		ob.SubCategoryID, int64(ob.Flow), ob.IsActive, ob.ID)
}

// SetObligationActive soft-deactivates (or reactivates) an obligation.
// Obligations are never hard-deleted while transactions reference them.
func (r *Repository) SetObligationActive(ctx context.Context, id int64, active bool) error {
	return r.exec(ctx, "set obligation active", updateObligationActive, boolToInt(active), id)
}

func (r *Repository) GetObligation(ctx context.Context, id int64) (*core.RecurringObligation, error) {
	row := r.db.QueryRowContext(ctx, selectObligation, id)
	ob, err := scanObligation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get obligation %d: %w", id, err)
	}
	return &ob, nil
}

func (r *Repository) ListObligations(ctx context.Context, accountID int64, onlyActive bool) ([]core.RecurringObligation, error) {
	rows, err := r.db.QueryContext(ctx, selectObligations, accountID, boolToInt(onlyActive))
	if err != nil {
		return nil, fmt.Errorf("list obligations: %w", err)
	}
	defer rows.Close()

	var out []core.RecurringObligation
	for rows.Next() {
		ob, err := scanObligation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan obligation: %w", err)
		}
		out = append(out, ob)
	}
	return out, rows.Err()
}

// --- transactions ---

func (r *Repository) CreateTransaction(ctx context.Context, tx core.Transaction) (int64, error) {
	if err := tx.Validate(); err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, insertTransaction,
		tx.Date.ISO(), tx.Amount.Cents, tx.AccountID, int64(tx.Flow),
		tx.SubCategoryID, nullableID(tx.ObligationID))
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"id", id,
		"date", tx.Date.ISO(),
		"amount_cents", tx.Amount.Cents,
		"account_id", tx.AccountID)
	return id, nil
}

func (r *Repository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	return r.exec(ctx, "update transaction", updateTransaction,
		tx.Date.ISO(), tx.Amount.Cents, int64(tx.Flow),
		tx.SubCategoryID, nullableID(tx.ObligationID), tx.ID)
}

// DeleteTransaction removes the row permanently. Deletion does not
// cascade to the obligation the transaction may have realized.
func (r *Repository) DeleteTransaction(ctx context.Context, id int64) error {
	return r.exec(ctx, "delete transaction", deleteTransaction, id)
}

func (r *Repository) ListTransactions(ctx context.Context, accountID int64) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, selectTransactions, accountID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// --- snapshots ---

// LoadSnapshot assembles the forecast input for one account: the account
// row, its active obligations and its full transaction history.
func (r *Repository) LoadSnapshot(ctx context.Context, accountID int64, today core.Date) (forecast.Snapshot, error) {
	account, err := r.GetAccount(ctx, accountID)
	if err != nil {
		return forecast.Snapshot{}, err
	}
	obligations, err := r.ListObligations(ctx, accountID, true)
	if err != nil {
		return forecast.Snapshot{}, err
	}
	transactions, err := r.ListTransactions(ctx, accountID)
	if err != nil {
		return forecast.Snapshot{}, err
	}
	return forecast.Snapshot{
		Account:      account,
		Obligations:  obligations,
		Transactions: transactions,
		Today:        today,
	}, nil
}

// --- helpers ---

type scanner interface {
	Scan(dest ...any) error
}

func scanObligation(row scanner) (core.RecurringObligation, error) {
	var (
		ob        core.RecurringObligation
		frequency string
		flow      int64
		active    int64
	)
	err := row.Scan(&ob.ID, &ob.Label, &ob.Amount.Cents, &ob.DayOfMonth,
		&frequency, &ob.AccountID, &ob.SubCategoryID, &ob.SubCategory, &flow, &active)
	if err != nil {
		return core.RecurringObligation{}, err
	}
	ob.Frequency = core.Frequency(frequency)
	ob.Flow = core.Flow(flow)
	ob.IsActive = active != 0
	return ob, nil
}

func scanTransaction(row scanner) (core.Transaction, error) {
	var (
		tx           core.Transaction
		date         string
		flow         int64
		obligationID sql.NullInt64
	)
	err := row.Scan(&tx.ID, &date, &tx.Amount.Cents, &tx.AccountID, &flow, &tx.SubCategoryID, &obligationID)
	if err != nil {
		return core.Transaction{}, err
	}
	parsed, err := parseISODate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d date: %w", tx.ID, err)
	}
	tx.Date = parsed
	tx.Flow = core.Flow(flow)
	if obligationID.Valid {
		tx.ObligationID = obligationID.Int64
	}
	return tx, nil
}

func (r *Repository) exec(ctx context.Context, op, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableID(id int64) sql.NullInt64 {
	if id == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: id, Valid: true}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
