package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/cpq/pkg/domain/entities"
)

// Loader handles loading catalog data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

var (
	chassisHeader = []string{"chassis_id", "description", "total_slots", "reserved_slots", "pair_class", "pairs", "price", "cost"}
	cardsHeader   = []string{
		"card_id", "description", "class", "slot_span", "standard", "pinned_slot", "designated_only",
		"allowed_slots", "outside_chassis", "remote_enable", "template", "specification", "sort_order", "price", "cost",
	}
	partNumberHeader = []string{
		"chassis_id", "prefix", "slot_placeholder", "slot_count", "suffix_separator",
		"remote_off_code", "remote_on_code", "outside_order",
	}
)

// LoadChassisTypes loads chassis slot tables from a CSV file. A chassis with
// several pair classes appears on several rows; later rows add pairs.
func (l *Loader) LoadChassisTypes(filename string) ([]*entities.ChassisType, error) {
	records, err := readRecords(filename, "chassis", chassisHeader)
	if err != nil {
		return nil, err
	}

	var (
		order   []entities.ChassisTypeID
		byID    = make(map[entities.ChassisTypeID]*entities.ChassisType)
		pending = make(map[entities.ChassisTypeID]map[entities.CardClass][]entities.SlotPair)
	)
	for i, record := range records {
		row := i + 2
		id := entities.ChassisTypeID(strings.TrimSpace(record[0]))
		totalSlots, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			return nil, fmt.Errorf("chassis CSV row %d: invalid total_slots %q", row, record[2])
		}
		reserved, err := parseSlotList(record[3])
		if err != nil {
			return nil, fmt.Errorf("chassis CSV row %d: %w", row, err)
		}
		pairs, err := parsePairs(record[5])
		if err != nil {
			return nil, fmt.Errorf("chassis CSV row %d: %w", row, err)
		}
		price, cost, err := parseMoney(record[6], record[7])
		if err != nil {
			return nil, fmt.Errorf("chassis CSV row %d: %w", row, err)
		}

		if _, seen := byID[id]; !seen {
			order = append(order, id)
			pending[id] = make(map[entities.CardClass][]entities.SlotPair)
		}
		if class := entities.CardClass(strings.TrimSpace(record[4])); class != "" {
			pending[id][class] = append(pending[id][class], pairs...)
		}

		chassis, err := entities.NewChassisType(id, totalSlots, reserved, pending[id])
		if err != nil {
			return nil, fmt.Errorf("chassis CSV row %d: %w", row, err)
		}
		chassis.Description = strings.TrimSpace(record[1])
		chassis.Price = price
		chassis.Cost = cost
		byID[id] = chassis
	}

	chassis := make([]*entities.ChassisType, 0, len(order))
	for _, id := range order {
		chassis = append(chassis, byID[id])
	}
	return chassis, nil
}

// LoadCards loads card definitions from a CSV file
func (l *Loader) LoadCards(filename string) ([]*entities.CardDefinition, error) {
	records, err := readRecords(filename, "cards", cardsHeader)
	if err != nil {
		return nil, err
	}

	cards := make([]*entities.CardDefinition, 0, len(records))
	for i, record := range records {
		card, err := parseCard(record)
		if err != nil {
			return nil, fmt.Errorf("cards CSV row %d: %w", i+2, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// LoadPartNumberConfigs loads per-chassis part-number rules from a CSV file
func (l *Loader) LoadPartNumberConfigs(filename string) ([]*entities.PartNumberConfig, error) {
	records, err := readRecords(filename, "part number", partNumberHeader)
	if err != nil {
		return nil, err
	}

	configs := make([]*entities.PartNumberConfig, 0, len(records))
	for i, record := range records {
		// prefix, separator and codes are taken verbatim; spaces may be significant
		cfg, err := entities.NewPartNumberConfig(
			entities.ChassisTypeID(strings.TrimSpace(record[0])),
			record[1], record[2], record[4], record[5], record[6],
		)
		if err != nil {
			return nil, fmt.Errorf("part number CSV row %d: %w", i+2, err)
		}
		if s := strings.TrimSpace(record[3]); s != "" {
			if cfg.SlotCount, err = strconv.Atoi(s); err != nil {
				return nil, fmt.Errorf("part number CSV row %d: invalid slot_count %q", i+2, s)
			}
		}
		// a blank order is left for the importer's default
		cfg.OutsideOrder = ""
		if s := strings.TrimSpace(record[7]); s != "" {
			if cfg.OutsideOrder, err = entities.ParseOutsideOrder(s); err != nil {
				return nil, fmt.Errorf("part number CSV row %d: %w", i+2, err)
			}
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// readRecords opens filename, checks the header and returns the data rows
func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseCard(record []string) (*entities.CardDefinition, error) {
	card, err := entities.NewCardDefinition(entities.CardID(strings.TrimSpace(record[0])), strings.TrimSpace(record[10]))
	if err != nil {
		return nil, err
	}
	card.Description = strings.TrimSpace(record[1])
	card.Class = entities.CardClass(strings.TrimSpace(record[2]))

	if s := strings.TrimSpace(record[3]); s != "" {
		if card.SlotSpan, err = strconv.Atoi(s); err != nil {
			return nil, fmt.Errorf("invalid slot_span %q", s)
		}
	}
	if card.Standard, err = parseBool(record[4]); err != nil {
		return nil, fmt.Errorf("invalid standard: %w", err)
	}
	if s := strings.TrimSpace(record[5]); s != "" {
		if card.PinnedSlot, err = strconv.Atoi(s); err != nil {
			return nil, fmt.Errorf("invalid pinned_slot %q", s)
		}
	}
	if card.DesignatedOnly, err = parseBool(record[6]); err != nil {
		return nil, fmt.Errorf("invalid designated_only: %w", err)
	}
	if card.AllowedSlots, err = parseSlotList(record[7]); err != nil {
		return nil, err
	}
	if card.OutsideChassis, err = parseBool(record[8]); err != nil {
		return nil, fmt.Errorf("invalid outside_chassis: %w", err)
	}
	if card.RemoteEnable, err = parseBool(record[9]); err != nil {
		return nil, fmt.Errorf("invalid remote_enable: %w", err)
	}
	if card.Specification, err = parseSpecification(record[11]); err != nil {
		return nil, err
	}
	if s := strings.TrimSpace(record[12]); s != "" {
		if card.SortOrder, err = strconv.Atoi(s); err != nil {
			return nil, fmt.Errorf("invalid sort_order %q", s)
		}
	}
	if card.Price, card.Cost, err = parseMoney(record[13], record[14]); err != nil {
		return nil, err
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}
	return card, nil
}

// parseSlotList parses "1;8" into []int{1, 8}
func parseSlotList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var slots []int
	for _, part := range strings.Split(s, ";") {
		slot, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid slot list %q", s)
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// parsePairs parses "6-7;13-14" into ordered slot pairs
func parsePairs(s string) ([]entities.SlotPair, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var pairs []entities.SlotPair
	for _, part := range strings.Split(s, ";") {
		ends := strings.Split(strings.TrimSpace(part), "-")
		if len(ends) != 2 {
			return nil, fmt.Errorf("invalid pair %q (expected FIRST-SECOND)", part)
		}
		first, err1 := strconv.Atoi(ends[0])
		second, err2 := strconv.Atoi(ends[1])
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("invalid pair %q (expected FIRST-SECOND)", part)
		}
		pairs = append(pairs, entities.SlotPair{First: first, Second: second})
	}
	return pairs, nil
}

// parseSpecification parses "inputs=6;opts=A|B"
func parseSpecification(s string) (map[string]entities.SpecValue, error) {
	spec := make(map[string]entities.SpecValue)
	s = strings.TrimSpace(s)
	if s == "" {
		return spec, nil
	}
	for _, part := range strings.Split(s, ";") {
		key, value, ok := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid specification entry %q (expected key=value)", part)
		}
		spec[key] = entities.ParseSpecValue(value)
	}
	return spec, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no", "n":
		return false, nil
	case "1", "true", "yes", "y":
		return true, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}

func parseMoney(priceStr, costStr string) (decimal.Decimal, decimal.Decimal, error) {
	parse := func(s string) (decimal.Decimal, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(s)
	}
	price, err := parse(priceStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid price %q", priceStr)
	}
	cost, err := parse(costStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid cost %q", costStr)
	}
	return price, cost, nil
}
