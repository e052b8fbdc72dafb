package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vsinha/cpq/pkg/domain/entities"
	"github.com/vsinha/cpq/pkg/domain/repositories"
)

// CatalogRepository implements the catalog repository with SQLite.
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new SQLite catalog repository.
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

var _ repositories.CatalogRepository = (*CatalogRepository)(nil)
var _ repositories.CatalogWriter = (*CatalogRepository)(nil)

// SaveChassisType upserts a chassis type and replaces its placement pairs.
func (r *CatalogRepository) SaveChassisType(ctx context.Context, chassis *entities.ChassisType) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO chassis_types (id, description, total_slots, reserved_slots, price, cost)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			total_slots = excluded.total_slots,
			reserved_slots = excluded.reserved_slots,
			price = excluded.price,
			cost = excluded.cost`,
		chassis.ID, chassis.Description, chassis.TotalSlots, joinInts(chassis.ReservedSlots),
		chassis.Price.String(), chassis.Cost.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save chassis type %s: %w", chassis.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM chassis_pairs WHERE chassis_id = ?`, chassis.ID); err != nil {
		return fmt.Errorf("failed to clear pairs for %s: %w", chassis.ID, err)
	}
	for class, pairs := range chassis.MultiSlotPairs {
		for priority, pair := range pairs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO chassis_pairs (chassis_id, card_class, priority, first_slot, second_slot) VALUES (?, ?, ?, ?, ?)`,
				chassis.ID, string(class), priority, pair.First, pair.Second,
			)
			if err != nil {
				return fmt.Errorf("failed to save pair %s for %s: %w", pair, chassis.ID, err)
			}
		}
	}

	return tx.Commit()
}

// SaveCardDefinition upserts a card and replaces its specification.
func (r *CatalogRepository) SaveCardDefinition(ctx context.Context, card *entities.CardDefinition) error {
	if err := card.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO cards (id, description, card_class, slot_span, standard, pinned_slot, designated_only,
			allowed_slots, outside_chassis, remote_enable, template, sort_order, price, cost)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			card_class = excluded.card_class,
			slot_span = excluded.slot_span,
			standard = excluded.standard,
			pinned_slot = excluded.pinned_slot,
			designated_only = excluded.designated_only,
			allowed_slots = excluded.allowed_slots,
			outside_chassis = excluded.outside_chassis,
			remote_enable = excluded.remote_enable,
			template = excluded.template,
			sort_order = excluded.sort_order,
			price = excluded.price,
			cost = excluded.cost`,
		card.ID, card.Description, string(card.Class), card.Span(), boolToInt(card.Standard), card.PinnedSlot,
		boolToInt(card.DesignatedOnly), joinInts(card.AllowedSlots), boolToInt(card.OutsideChassis),
		boolToInt(card.RemoteEnable), card.Template, card.SortOrder, card.Price.String(), card.Cost.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to save card %s: %w", card.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM card_specs WHERE card_id = ?`, card.ID); err != nil {
		return fmt.Errorf("failed to clear specification for %s: %w", card.ID, err)
	}
	for key, value := range card.Specification {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO card_specs (card_id, spec_key, spec_value) VALUES (?, ?, ?)`,
			card.ID, key, value.Raw(),
		)
		if err != nil {
			return fmt.Errorf("failed to save specification %s for %s: %w", key, card.ID, err)
		}
	}

	return tx.Commit()
}

// SavePartNumberConfig upserts the part-number config of a chassis type.
func (r *CatalogRepository) SavePartNumberConfig(ctx context.Context, config *entities.PartNumberConfig) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO part_number_configs (chassis_id, prefix, slot_placeholder, slot_count, suffix_separator,
			remote_off_code, remote_on_code, outside_order)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(chassis_id) DO UPDATE SET
			prefix = excluded.prefix,
			slot_placeholder = excluded.slot_placeholder,
			slot_count = excluded.slot_count,
			suffix_separator = excluded.suffix_separator,
			remote_off_code = excluded.remote_off_code,
			remote_on_code = excluded.remote_on_code,
			outside_order = excluded.outside_order`,
		config.ChassisTypeID, config.Prefix, config.SlotPlaceholder, config.SlotCount, config.SuffixSeparator,
		config.RemoteOffCode, config.RemoteOnCode, string(config.OutsideOrder),
	)
	if err != nil {
		return fmt.Errorf("failed to save part number config for %s: %w", config.ChassisTypeID, err)
	}
	return nil
}

// GetChassisType retrieves a chassis type with its placement pairs.
func (r *CatalogRepository) GetChassisType(ctx context.Context, id entities.ChassisTypeID) (*entities.ChassisType, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, description, total_slots, reserved_slots, price, cost FROM chassis_types WHERE id = ?`, id)
	chassis, err := r.scanChassis(ctx, row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("chassis type %s: %w", id, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chassis type: %w", err)
	}
	return chassis, nil
}

// ListChassisTypes retrieves all chassis types ordered by ID.
func (r *CatalogRepository) ListChassisTypes(ctx context.Context) ([]*entities.ChassisType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM chassis_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list chassis types: %w", err)
	}
	var ids []entities.ChassisTypeID
	for rows.Next() {
		var id entities.ChassisTypeID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan chassis type: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	chassis := make([]*entities.ChassisType, 0, len(ids))
	for _, id := range ids {
		c, err := r.GetChassisType(ctx, id)
		if err != nil {
			return nil, err
		}
		chassis = append(chassis, c)
	}
	return chassis, nil
}

func (r *CatalogRepository) scanChassis(ctx context.Context, row *sql.Row) (*entities.ChassisType, error) {
	var (
		id          entities.ChassisTypeID
		description string
		totalSlots  int
		reservedRaw string
		c           entities.ChassisType
	)
	if err := row.Scan(&id, &description, &totalSlots, &reservedRaw, &c.Price, &c.Cost); err != nil {
		return nil, err
	}
	reserved, err := splitInts(reservedRaw)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT card_class, first_slot, second_slot FROM chassis_pairs WHERE chassis_id = ? ORDER BY card_class, priority`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load pairs for %s: %w", id, err)
	}
	defer rows.Close()

	pairs := make(map[entities.CardClass][]entities.SlotPair)
	for rows.Next() {
		var (
			class entities.CardClass
			pair  entities.SlotPair
		)
		if err := rows.Scan(&class, &pair.First, &pair.Second); err != nil {
			return nil, fmt.Errorf("failed to scan pair: %w", err)
		}
		pairs[class] = append(pairs[class], pair)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	chassis, err := entities.NewChassisType(id, totalSlots, reserved, pairs)
	if err != nil {
		return nil, err
	}
	chassis.Description = description
	chassis.Price = c.Price
	chassis.Cost = c.Cost
	return chassis, nil
}

const cardColumns = `id, description, card_class, slot_span, standard, pinned_slot, designated_only,
	allowed_slots, outside_chassis, remote_enable, template, sort_order, price, cost`

// GetCardDefinition retrieves a card with its specification.
func (r *CatalogRepository) GetCardDefinition(ctx context.Context, id entities.CardID) (*entities.CardDefinition, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	cards, err := r.scanCards(ctx, rows)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("card %s: %w", id, repositories.ErrNotFound)
	}
	return cards[0], nil
}

// ListCards retrieves all cards ordered by sort order, then ID.
func (r *CatalogRepository) ListCards(ctx context.Context) ([]*entities.CardDefinition, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+cardColumns+` FROM cards ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return r.scanCards(ctx, rows)
}

func (r *CatalogRepository) scanCards(ctx context.Context, rows *sql.Rows) ([]*entities.CardDefinition, error) {
	var cards []*entities.CardDefinition
	for rows.Next() {
		var (
			card       entities.CardDefinition
			allowedRaw string
		)
		err := rows.Scan(&card.ID, &card.Description, &card.Class, &card.SlotSpan, &card.Standard, &card.PinnedSlot,
			&card.DesignatedOnly, &allowedRaw, &card.OutsideChassis, &card.RemoteEnable, &card.Template,
			&card.SortOrder, &card.Price, &card.Cost)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		if card.AllowedSlots, err = splitInts(allowedRaw); err != nil {
			rows.Close()
			return nil, fmt.Errorf("card %s: %w", card.ID, err)
		}
		cards = append(cards, &card)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, card := range cards {
		spec, err := r.loadSpecification(ctx, card.ID)
		if err != nil {
			return nil, err
		}
		card.Specification = spec
	}
	return cards, nil
}

func (r *CatalogRepository) loadSpecification(ctx context.Context, id entities.CardID) (map[string]entities.SpecValue, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT spec_key, spec_value FROM card_specs WHERE card_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load specification for %s: %w", id, err)
	}
	defer rows.Close()

	spec := make(map[string]entities.SpecValue)
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan specification: %w", err)
		}
		spec[key] = entities.ParseSpecValue(raw)
	}
	return spec, rows.Err()
}

// GetPartNumberConfig retrieves the part-number config of a chassis type.
func (r *CatalogRepository) GetPartNumberConfig(ctx context.Context, chassisTypeID entities.ChassisTypeID) (*entities.PartNumberConfig, error) {
	var (
		cfg   entities.PartNumberConfig
		order string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT chassis_id, prefix, slot_placeholder, slot_count, suffix_separator, remote_off_code, remote_on_code, outside_order
		 FROM part_number_configs WHERE chassis_id = ?`, chassisTypeID,
	).Scan(&cfg.ChassisTypeID, &cfg.Prefix, &cfg.SlotPlaceholder, &cfg.SlotCount, &cfg.SuffixSeparator,
		&cfg.RemoteOffCode, &cfg.RemoteOnCode, &order)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("part number config for %s: %w", chassisTypeID, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get part number config: %w", err)
	}
	if cfg.OutsideOrder, err = entities.ParseOutsideOrder(order); err != nil {
		return nil, err
	}
	return &cfg, nil
}
