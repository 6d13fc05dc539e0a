package store

const (
	getItem = `SELECT value
		FROM kv_items
		WHERE key = ?;`

	setItem = `INSERT INTO kv_items (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE
		SET value = excluded.value, updated_at = excluded.updated_at;`

	removeItem = `DELETE FROM kv_items
		WHERE key = ?;`
)
