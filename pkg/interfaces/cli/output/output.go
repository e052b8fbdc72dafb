package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/vsinha/cpq/pkg/application/dto"
	"github.com/vsinha/cpq/pkg/domain/entities"
	"github.com/vsinha/cpq/pkg/infrastructure/events"
)

// Supported formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

var (
	partNumberColor = color.New(color.FgHiGreen, color.Bold)
	headingColor    = color.New(color.FgHiBlue, color.Bold)
	warnColor       = color.New(color.FgYellow)
	dimColor        = color.New(color.FgHiBlack)
)

// ValidateFormat rejects formats other than text and json
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// writeJSON marshals v indented
func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// Configuration prints a configuration result
func Configuration(w io.Writer, result *dto.ConfigurationResult, chassis *entities.ChassisType, format string) error {
	if format == FormatJSON {
		return writeJSON(w, result)
	}

	fmt.Fprintf(w, "%s %s\n", headingColor.Sprint("Chassis:"), chassis.ID)
	fmt.Fprintf(w, "%s %s\n\n", headingColor.Sprint("Part Number:"), partNumberColor.Sprint(result.PartNumber))

	bySlot := make(map[int]dto.PlacedCard)
	for _, p := range result.Placed {
		for _, slot := range p.Slots {
			bySlot[slot] = p
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tCARD\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t----\t-----------")
	for slot := 1; slot <= chassis.TotalSlots; slot++ {
		p, ok := bySlot[slot]
		switch {
		case ok:
			fmt.Fprintf(tw, "%d\t%s\t%s\n", slot, p.CardID, p.Description)
		case chassis.IsReserved(slot):
			fmt.Fprintf(tw, "%d\t%s\t\n", slot, dimColor.Sprint("reserved"))
		default:
			fmt.Fprintf(tw, "%d\t%s\t\n", slot, dimColor.Sprint("-"))
		}
	}
	tw.Flush()

	if len(result.Outside) > 0 {
		ids := make([]string, len(result.Outside))
		for i, id := range result.Outside {
			ids[i] = string(id)
		}
		fmt.Fprintf(w, "\nOutside chassis: %s\n", strings.Join(ids, ", "))
	}

	fmt.Fprintf(w, "\nPrice: %s  Cost: %s\n", result.Price.StringFixed(2), result.Cost.StringFixed(2))

	for _, u := range result.Unresolved {
		fmt.Fprintln(w, warnColor.Sprintf("warning: card %s has no value for {%s}", u.CardID, u.Key))
	}
	return nil
}

// Event prints a single configuration or quote event as one line
func Event(w io.Writer, e events.Event) {
	fmt.Fprintf(w, "%s %-20s %s\n", dimColor.Sprintf("#%d", e.Version()), e.Type(), describeEvent(e))
}

func describeEvent(e events.Event) string {
	switch d := e.Data().(type) {
	case events.CardPlaced:
		if d.Outside {
			return fmt.Sprintf("%s outside chassis", d.CardID)
		}
		return fmt.Sprintf("%s in slots %v", d.CardID, d.Slots)
	case events.CardRemoved:
		if d.Outside {
			return fmt.Sprintf("%s outside chassis", d.CardID)
		}
		return fmt.Sprintf("%s from slots %v", d.CardID, d.Slots)
	case events.CardEvicted:
		return fmt.Sprintf("%s from slots %v by %s", d.CardID, d.Slots, d.EvictedBy)
	case events.PartNumberChanged:
		return fmt.Sprintf("%s -> %s", d.Old, d.New)
	case events.QuoteStatusChanged:
		return fmt.Sprintf("%s -> %s", d.From, d.To)
	default:
		return fmt.Sprintf("%v", d)
	}
}

// QuoteSummary prints a quote with totals
func QuoteSummary(w io.Writer, summary *dto.QuoteSummary, format string) error {
	if format == FormatJSON {
		return writeJSON(w, summary)
	}

	fmt.Fprintf(w, "%s %s\n", headingColor.Sprint("Quote:"), summary.QuoteID)
	fmt.Fprintf(w, "Customer: %s\n", summary.Customer)
	fmt.Fprintf(w, "Status: %s\n\n", statusLabel(summary.Status))

	if len(summary.Lines) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "LINE\tPART NUMBER\tQTY\tUNIT PRICE\tEXTENDED\t")
		for _, l := range summary.Lines {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t\n",
				l.LineNumber, l.PartNumber, l.Quantity, l.UnitPrice.StringFixed(2), l.ExtendedPrice.StringFixed(2))
		}
		tw.Flush()
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total: %s  Cost: %s  Margin: %s (%s%%)\n",
		summary.TotalPrice.StringFixed(2),
		summary.TotalCost.StringFixed(2),
		summary.Margin.StringFixed(2),
		summary.MarginPercent.StringFixed(2),
	)
	return nil
}

// Quotes prints a quote list
func Quotes(w io.Writer, quotes []*entities.Quote, format string) error {
	if format == FormatJSON {
		return writeJSON(w, quotes)
	}
	if len(quotes) == 0 {
		fmt.Fprintln(w, "No quotes found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tSTATUS\tLINES\tUPDATED")
	fmt.Fprintln(tw, "--\t--------\t------\t-----\t-------")
	for _, q := range quotes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			q.ID, q.Customer, statusLabel(q.Status), len(q.Lines), q.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

// Catalog prints chassis types and cards
func Catalog(w io.Writer, chassis []*entities.ChassisType, cards []*entities.CardDefinition) error {
	fmt.Fprintln(w, headingColor.Sprint("Chassis types"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSLOTS\tRESERVED\tPAIRS\tDESCRIPTION")
	for _, c := range chassis {
		classes := make([]string, 0, len(c.MultiSlotPairs))
		for class := range c.MultiSlotPairs {
			classes = append(classes, string(class))
		}
		sort.Strings(classes)
		var pairs []string
		for _, class := range classes {
			for _, p := range c.MultiSlotPairs[entities.CardClass(class)] {
				pairs = append(pairs, fmt.Sprintf("%s%s", class, p))
			}
		}
		fmt.Fprintf(tw, "%s\t%d\t%v\t%s\t%s\n", c.ID, c.TotalSlots, c.ReservedSlots, strings.Join(pairs, " "), c.Description)
	}
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingColor.Sprint("Cards"))
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSPAN\tRULES\tTEMPLATE\tPRICE\tDESCRIPTION")
	for _, card := range cards {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			card.ID, card.Span(), cardRules(card), card.Template, card.Price.StringFixed(2), card.Description)
	}
	return tw.Flush()
}

func cardRules(card *entities.CardDefinition) string {
	var rules []string
	if card.Standard {
		rules = append(rules, "standard")
	}
	if card.PinnedSlot > 0 {
		rules = append(rules, fmt.Sprintf("pinned:%d", card.PinnedSlot))
	}
	if card.DesignatedOnly {
		rules = append(rules, fmt.Sprintf("slots:%v", card.AllowedSlots))
	}
	if card.Class != "" {
		rules = append(rules, "class:"+string(card.Class))
	}
	if card.OutsideChassis {
		rules = append(rules, "outside")
	}
	if card.RemoteEnable {
		rules = append(rules, "remote")
	}
	if len(rules) == 0 {
		return "-"
	}
	return strings.Join(rules, ",")
}

func statusLabel(status entities.QuoteStatus) string {
	switch status {
	case entities.QuoteApproved:
		return color.New(color.FgHiGreen).Sprint(status)
	case entities.QuoteRejected:
		return color.New(color.FgRed).Sprint(status)
	case entities.QuotePendingApproval:
		return color.New(color.FgYellow).Sprint(status)
	default:
		return color.New(color.FgWhite).Sprint(status)
	}
}

// Warnf prints a highlighted warning line
func Warnf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, warnColor.Sprintf(format, args...))
}
