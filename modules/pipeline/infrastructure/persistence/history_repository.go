package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/entities/history"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/domain/entities/status"
	"github.com/iota-uz/recruiting-crm/modules/pipeline/infrastructure/persistence/models"
	"github.com/iota-uz/recruiting-crm/pkg/composables"
	"github.com/iota-uz/recruiting-crm/pkg/repo"
)

const (
	historyInsertQuery = `
		INSERT INTO candidate_status_history (history_id, candidate_id, from_status_id, to_status_id, change_date, changed_by)
		VALUES ($1, $2, $3, $4, clock_timestamp(), $5)
		RETURNING change_date`

	historyListQuery = `
		SELECT h.history_id, h.candidate_id, h.from_status_id, h.to_status_id, h.change_date, h.changed_by,
		       fs.name, ts.name
		FROM candidate_status_history h
		LEFT JOIN status_configs fs ON fs.status_id = h.from_status_id
		LEFT JOIN status_configs ts ON ts.status_id = h.to_status_id
		WHERE h.candidate_id = $1
		ORDER BY h.change_date DESC, h.history_id`

	placementsQuery = `
		SELECT date_trunc('month', h.change_date) AS month, s.name, count(*)
		FROM candidate_status_history h
		JOIN status_configs s ON s.status_id = h.to_status_id
		WHERE s.is_terminal
		GROUP BY month, s.name
		ORDER BY month DESC, s.name`
)

type HistoryRepository struct{}

func NewHistoryRepository() history.Repository {
	return &HistoryRepository{}
}

func (r *HistoryRepository) Append(ctx context.Context, e history.Entry) (history.Entry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return history.Entry{}, errors.Wrap(err, "failed to get transaction")
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	err = tx.QueryRow(ctx, historyInsertQuery,
		e.ID,
		e.CandidateID,
		toDBUUID(e.FromStatusID),
		e.ToStatusID,
		e.ChangedBy,
	).Scan(&e.ChangeDate)
	if err != nil {
		if repo.IsForeignKeyViolation(err,
			"candidate_status_history_to_status_id_fkey",
			"candidate_status_history_from_status_id_fkey",
		) {
			return history.Entry{}, status.ErrNotFound
		}
		return history.Entry{}, errors.Wrap(err, "failed to insert status history")
	}
	return e, nil
}

func (r *HistoryRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]history.View, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	rows, err := tx.Query(ctx, historyListQuery, candidateID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	entries := make([]history.View, 0)
	for rows.Next() {
		var m models.HistoryEntry
		if err := rows.Scan(
			&m.ID,
			&m.CandidateID,
			&m.FromStatusID,
			&m.ToStatusID,
			&m.ChangeDate,
			&m.ChangedBy,
			&m.FromStatusName,
			&m.ToStatusName,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan history row")
		}
		entries = append(entries, toDomainHistory(&m))
	}
	return entries, rows.Err()
}

func (r *HistoryRepository) PlacementsByMonth(ctx context.Context) ([]history.MonthlyPlacements, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	rows, err := tx.Query(ctx, placementsQuery)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	defer rows.Close()

	out := make([]history.MonthlyPlacements, 0)
	for rows.Next() {
		var p history.MonthlyPlacements
		if err := rows.Scan(&p.Month, &p.StatusName, &p.Count); err != nil {
			return nil, errors.Wrap(err, "failed to scan placement row")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
