package store

// SQL queries for the PostgresStore. Position defines insertion order; the
// offset subquery in queryDeleteAt maps a zero-based positional index onto
// the ordered rows the same way the CSV store does.
const (
	queryListItems = `
		SELECT id, url, name, current_price, target_price, last_checked, recipient_email
		FROM tracked_items
		ORDER BY position`

	queryAppendItem = `
		INSERT INTO tracked_items
			(id, url, name, current_price, target_price, last_checked, recipient_email)
		VALUES
			(@id, @url, @name, @current_price, @target_price, @last_checked, @recipient_email)`

	queryDeleteAt = `
		DELETE FROM tracked_items
		WHERE position = (
			SELECT position FROM tracked_items
			ORDER BY position
			OFFSET $1 LIMIT 1
		)`
)
