package store

import (
	"context"
	"fmt"

	"github.com/cardkeep/cardkeep/internal/logger"
	"github.com/cardkeep/cardkeep/models"
)

type snapshotRepository struct {
	*DB
	logger *logger.Logger
}

// NewSnapshotRepository wires a SnapshotRepository over the given
// SQLite connection.
func NewSnapshotRepository(db *DB, logger *logger.Logger) SnapshotRepository {
	return &snapshotRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *snapshotRepository) Load(ctx context.Context) (models.CollectionSnapshot, error) {
	snap := models.CollectionSnapshot{Games: make(map[models.Game]models.GameCollection)}

	rows, err := r.DB.QueryContext(ctx, getAllCards)
	if err != nil {
		r.logger.Err(err).
			Str("func", "snapshotRepository.Load").
			Msg("failed to query persisted cards")
		return models.CollectionSnapshot{}, fmt.Errorf("failed to query persisted cards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			game       string
			setID      string
			instanceID string
			quantity   int
		)
		if err := rows.Scan(&game, &setID, &instanceID, &quantity); err != nil {
			r.logger.Err(err).
				Str("func", "snapshotRepository.Load").
				Msg("failed to scan card row")
			return models.CollectionSnapshot{}, fmt.Errorf("failed to scan card row: %w", err)
		}

		g := models.Game(game)
		sets, ok := snap.Games[g]
		if !ok {
			sets = make(models.GameCollection)
			snap.Games[g] = sets
		}
		for i := 0; i < quantity; i++ {
			sets[setID] = append(sets[setID], instanceID)
		}
	}
	if err := rows.Err(); err != nil {
		return models.CollectionSnapshot{}, fmt.Errorf("failed to iterate card rows: %w", err)
	}

	return snap, nil
}

func (r *snapshotRepository) Save(ctx context.Context, snap models.CollectionSnapshot) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Err(err).
			Str("func", "snapshotRepository.Save").
			Msg("failed to begin snapshot transaction")
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, deleteAllCards); err != nil {
		return fmt.Errorf("failed to clear persisted cards: %w", err)
	}

	// Iterate games in fixed order so the persisted rowid order, and
	// therefore the multiset order restored by Load, is deterministic.
	for _, game := range models.Games {
		sets, ok := snap.Games[game]
		if !ok {
			continue
		}
		for setID, instanceIDs := range sets {
			counts := make(map[string]int, len(instanceIDs))
			order := make([]string, 0, len(instanceIDs))
			for _, id := range instanceIDs {
				if counts[id] == 0 {
					order = append(order, id)
				}
				counts[id]++
			}
			for _, id := range order {
				if _, err = tx.ExecContext(ctx, saveCardRow, string(game), setID, id, counts[id]); err != nil {
					r.logger.Err(err).
						Str("func", "snapshotRepository.Save").
						Str("set_id", setID).
						Str("instance_id", id).
						Msg("failed to insert card row")
					return fmt.Errorf("failed to insert card row (instance_id=%s): %w", id, err)
				}
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot transaction: %w", err)
	}
	return nil
}

func (r *snapshotRepository) Close() error {
	return r.DB.Close()
}
