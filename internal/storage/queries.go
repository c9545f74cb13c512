package storage

import (
	"time"

	"bilancio/internal/core"
)

const (
	insertAccount = `
INSERT INTO accounts (name, initial_balance_cents, is_active)
VALUES (?, ?, ?)`

	selectAccount = `
SELECT id, name, initial_balance_cents, is_active
FROM accounts
WHERE id = ?`

	selectAccounts = `
SELECT id, name, initial_balance_cents, is_active
FROM accounts
WHERE (? = 0 OR is_active = 1)
ORDER BY id`

	updateAccountActive = `
UPDATE accounts SET is_active = ? WHERE id = ?`

	insertSubCategory = `
INSERT INTO sub_categories (name) VALUES (?)`

	selectSubCategories = `
SELECT id, name FROM sub_categories ORDER BY name`

	insertObligation = `
INSERT INTO obligations
    (label, amount_cents, day_of_month, frequency, account_id, sub_category_id, flow_id, is_active)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	updateObligation = `
UPDATE obligations
SET label = ?, amount_cents = ?, day_of_month = ?, frequency = ?,
    sub_category_id = ?, flow_id = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`

	updateObligationActive = `
UPDATE obligations SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	selectObligation = `
SELECT o.id, o.label, o.amount_cents, o.day_of_month, o.frequency,
       o.account_id, o.sub_category_id, COALESCE(s.name, ''), o.flow_id, o.is_active
FROM obligations o
LEFT JOIN sub_categories s ON s.id = o.sub_category_id
WHERE o.id = ?`

	selectObligations = `
SELECT o.id, o.label, o.amount_cents, o.day_of_month, o.frequency,
       o.account_id, o.sub_category_id, COALESCE(s.name, ''), o.flow_id, o.is_active
FROM obligations o
LEFT JOIN sub_categories s ON s.id = o.sub_category_id
WHERE o.account_id = ? AND (? = 0 OR o.is_active = 1)
ORDER BY o.id`

	insertTransaction = `
INSERT INTO transactions (tx_date, amount_cents, account_id, flow_id, sub_category_id, obligation_id)
VALUES (?, ?, ?, ?, ?, ?)`

	updateTransaction = `
UPDATE transactions
SET tx_date = ?, amount_cents = ?, flow_id = ?, sub_category_id = ?, obligation_id = ?
WHERE id = ?`

	deleteTransaction = `
DELETE FROM transactions WHERE id = ?`

	selectTransactions = `
SELECT id, tx_date, amount_cents, account_id, flow_id, sub_category_id, obligation_id
FROM transactions
WHERE account_id = ?
ORDER BY tx_date, id`
)

func parseISODate(s string) (core.Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return core.Date{}, err
	}
	return core.DateOf(t), nil
}
