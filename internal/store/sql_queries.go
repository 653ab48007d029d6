package store

const (
	deleteAllCards = `DELETE FROM cards;`

	saveCardRow = `
		INSERT INTO cards (
			game,
			set_id,
			instance_id,
			quantity
		) VALUES (?, ?, ?, ?);`

	getAllCards = `
		SELECT
			game,
			set_id,
			instance_id,
			quantity
		FROM cards
		ORDER BY rowid;`
)
