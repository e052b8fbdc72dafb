package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/vsinha/cpq/pkg/domain/entities"
	"github.com/vsinha/cpq/pkg/domain/repositories"
)

// QuoteRepository implements the quote repository with SQLite.
type QuoteRepository struct {
	db *sql.DB
}

// NewQuoteRepository creates a new SQLite quote repository.
func NewQuoteRepository(db *sql.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

var _ repositories.QuoteRepository = (*QuoteRepository)(nil)

// Save upserts a quote and replaces its lines.
func (r *QuoteRepository) Save(ctx context.Context, quote *entities.Quote) error {
	if quote.ID == "" {
		return fmt.Errorf("quote id cannot be empty")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO quotes (id, customer, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			customer = excluded.customer,
			status = excluded.status,
			updated_at = excluded.updated_at`,
		quote.ID, quote.Customer, string(quote.Status), quote.CreatedAt.UTC(), quote.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save quote %s: %w", quote.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM quote_lines WHERE quote_id = ?`, quote.ID); err != nil {
		return fmt.Errorf("failed to clear lines for %s: %w", quote.ID, err)
	}
	for _, line := range quote.Lines {
		cards := make([]string, len(line.Cards))
		for i, c := range line.Cards {
			cards[i] = string(c)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO quote_lines (quote_id, line_number, part_number, chassis_id, cards, quantity, unit_price, unit_cost)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			quote.ID, line.LineNumber, line.PartNumber, string(line.ChassisTypeID), strings.Join(cards, ","),
			line.Quantity, line.UnitPrice.String(), line.UnitCost.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to save line %d of %s: %w", line.LineNumber, quote.ID, err)
		}
	}

	return tx.Commit()
}

// Get retrieves a quote with its lines.
func (r *QuoteRepository) Get(ctx context.Context, id entities.QuoteID) (*entities.Quote, error) {
	quote := &entities.Quote{}
	var status string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, customer, status, created_at, updated_at FROM quotes WHERE id = ?`, id,
	).Scan(&quote.ID, &quote.Customer, &status, &quote.CreatedAt, &quote.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("quote %s: %w", id, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	if quote.Status, err = entities.ParseQuoteStatus(status); err != nil {
		return nil, err
	}

	if quote.Lines, err = r.loadLines(ctx, quote.ID); err != nil {
		return nil, err
	}
	return quote, nil
}

// List retrieves all quotes, newest first.
func (r *QuoteRepository) List(ctx context.Context) ([]*entities.Quote, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM quotes ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	var ids []entities.QuoteID
	for rows.Next() {
		var id entities.QuoteID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	quotes := make([]*entities.Quote, 0, len(ids))
	for _, id := range ids {
		q, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// UpdateStatus sets the status of a stored quote.
func (r *QuoteRepository) UpdateStatus(ctx context.Context, id entities.QuoteID, status entities.QuoteStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE quotes SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update quote status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("quote %s: %w", id, repositories.ErrNotFound)
	}
	return nil
}

func (r *QuoteRepository) loadLines(ctx context.Context, id entities.QuoteID) ([]entities.QuoteLine, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT line_number, part_number, chassis_id, cards, quantity, unit_price, unit_cost
		 FROM quote_lines WHERE quote_id = ? ORDER BY line_number`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for %s: %w", id, err)
	}
	defer rows.Close()

	var lines []entities.QuoteLine
	for rows.Next() {
		var (
			line  entities.QuoteLine
			cards string
		)
		err := rows.Scan(&line.LineNumber, &line.PartNumber, &line.ChassisTypeID, &cards, &line.Quantity,
			&line.UnitPrice, &line.UnitCost)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line: %w", err)
		}
		if cards != "" {
			for _, c := range strings.Split(cards, ",") {
				line.Cards = append(line.Cards, entities.CardID(c))
			}
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
