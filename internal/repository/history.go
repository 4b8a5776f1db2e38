package repository

import (
	"context"

	"github.com/LordKnossus/crm-cobranca/internal/domain"
)

type HistoryRepository struct {
	db Querier
}

func NewHistoryRepository(db Querier) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Append inserts one audit entry. There is deliberately no update or delete:
// the trail is write-once.
func (r *HistoryRepository) Append(ctx context.Context, e *domain.HistoryEntry) error {
	query := `
		INSERT INTO note_history (id, note_id, action, description, actor_id)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.NoteID,
		string(e.Action),
		e.Description,
		e.ActorID,
	)
	if err != nil {
		return storageErr("append history", err)
	}
	return nil
}

func (r *HistoryRepository) ListByNote(ctx context.Context, noteID string) ([]domain.HistoryEntry, error) {
	query := `
		SELECT id, note_id, action, description, actor_id, created_at
		FROM note_history
		WHERE note_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, noteID)
	if err != nil {
		return nil, storageErr("list history", err)
	}
	defer rows.Close()

	var out []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		if err := rows.Scan(
			&e.ID,
			&e.NoteID,
			&e.Action,
			&e.Description,
			&e.ActorID,
			&e.CreatedAt,
		); err != nil {
			return nil, storageErr("scan history entry", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list history", err)
	}
	return out, nil
}
