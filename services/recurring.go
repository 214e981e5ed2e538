package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fintrack/fintrack-api/models"
	"github.com/fintrack/fintrack-api/utils"
)

// ============================================================================
// SCHEDULER
// Daily housekeeping: materializes due recurring transactions and prunes
// expired refresh sessions.
// ============================================================================

type Scheduler struct {
	db   *sql.DB
	cron *cron.Cron
}

func NewScheduler(db *sql.DB) *Scheduler {
	return &Scheduler{db: db, cron: cron.New()}
}

// Start registers the daily jobs and launches the cron loop. Jobs also
// run once at startup so a restarted instance catches up immediately.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("15 3 * * *", s.runDaily); err != nil {
		return fmt.Errorf("failed to schedule daily job: %w", err)
	}
	s.cron.Start()
	go s.runDaily()
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) runDaily() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if n, err := s.MaterializeRecurring(ctx, time.Now()); err != nil {
		utils.SafeError("recurring materialization failed: %v", err)
	} else if n > 0 {
		utils.SafeInfo("🔁 Materialized %d recurring transactions", n)
	}

	if err := s.PruneExpiredSessions(ctx); err != nil {
		utils.SafeError("session pruning failed: %v", err)
	}
}

// recurringTemplate is the head row of a recurring series.
type recurringTemplate struct {
	id          string
	userID      string
	accountID   string
	categoryID  sql.NullString
	toAccountID sql.NullString
	txType      string
	amount      float64
	description sql.NullString
	notes       sql.NullString
	date        time.Time
	frequency   string
}

// MaterializeRecurring inserts instances for every recurring series whose
// next occurrence is due, catching up on missed days. The newest instance
// becomes the series head; the old head loses its recurring flag.
func (s *Scheduler) MaterializeRecurring(ctx context.Context, now time.Time) (int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, account_id, category_id, to_account_id,
		       type, amount, description, notes, date, recurring_frequency
		FROM transactions
		WHERE is_recurring = true AND recurring_frequency IS NOT NULL
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch recurring templates: %w", err)
	}
	defer rows.Close()

	var templates []recurringTemplate
	for rows.Next() {
		var t recurringTemplate
		if err := rows.Scan(&t.id, &t.userID, &t.accountID, &t.categoryID, &t.toAccountID,
			&t.txType, &t.amount, &t.description, &t.notes, &t.date, &t.frequency); err != nil {
			return 0, err
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	created := 0

	for _, t := range templates {
		due := dueOccurrences(t.date, t.frequency, today)
		if len(due) == 0 {
			continue
		}

		// Materialized instances move balances like any other insert,
		// otherwise stored balances drift from the ledger.
		instance := models.Transaction{
			AccountID: t.accountID,
			Type:      t.txType,
			Amount:    t.amount,
		}
		if t.toAccountID.Valid {
			to := t.toAccountID.String
			instance.ToAccountID = &to
		}

		err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
			lastID := t.id
			for _, date := range due {
				var newID string
				err := tx.QueryRowContext(ctx, `
					INSERT INTO transactions
						(user_id, account_id, category_id, to_account_id, type, amount,
						 description, notes, date, is_recurring, recurring_frequency)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, true, $10)
					RETURNING id
				`, t.userID, t.accountID, t.categoryID, t.toAccountID, t.txType, t.amount,
					t.description, t.notes, date, t.frequency).Scan(&newID)
				if err != nil {
					return err
				}

				if err := ApplyBalanceEffect(tx, instance, 1); err != nil {
					return err
				}

				// The previous head stays in history as a plain transaction.
				if _, err := tx.ExecContext(ctx,
					`UPDATE transactions SET is_recurring = false WHERE id = $1`, lastID); err != nil {
					return err
				}
				lastID = newID
			}
			return nil
		})
		if err != nil {
			return created, fmt.Errorf("failed to materialize series %s: %w", t.id, err)
		}
		created += len(due)
	}

	return created, nil
}

// PruneExpiredSessions deletes refresh sessions past their expiry.
func (s *Scheduler) PruneExpiredSessions(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < NOW()`)
	if err != nil {
		return fmt.Errorf("failed to prune sessions: %w", err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		utils.SafeInfo("🧹 Pruned %d expired sessions", n)
	}
	return nil
}

// dueOccurrences lists the occurrence dates after the series head up to
// and including today.
func dueOccurrences(head time.Time, frequency string, today time.Time) []time.Time {
	var due []time.Time
	next := nextOccurrence(head, frequency)
	for !next.After(today) {
		due = append(due, next)
		next = nextOccurrence(next, frequency)
	}
	return due
}

func nextOccurrence(date time.Time, frequency string) time.Time {
	switch frequency {
	case "daily":
		return date.AddDate(0, 0, 1)
	case "weekly":
		return date.AddDate(0, 0, 7)
	case "monthly":
		return date.AddDate(0, 1, 0)
	case "yearly":
		return date.AddDate(1, 0, 0)
	default:
		// Unknown frequency: never due.
		return date.AddDate(100, 0, 0)
	}
}
