package services

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/vsinha/cpq/pkg/domain/entities"
)

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z0-9_.-]+)\}`)

// UnresolvedPlaceholder records a template key the card's specification lacks
type UnresolvedPlaceholder struct {
	CardID entities.CardID
	Key    string
}

// Rendering is an assembled part number plus data-quality findings
type Rendering struct {
	PartNumber string
	Segments   []string // one entry per rendered slot position
	Unresolved []UnresolvedPlaceholder
}

// PartNumberAssembler renders part numbers from a finalized slot assignment
type PartNumberAssembler struct {
	logger *zap.Logger
}

// NewPartNumberAssembler creates an assembler. A nil logger discards output.
func NewPartNumberAssembler(logger *zap.Logger) *PartNumberAssembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartNumberAssembler{logger: logger}
}

// AssemblePartNumber returns the part number string for the configuration
func (a *PartNumberAssembler) AssemblePartNumber(
	chassis *entities.ChassisType,
	config *entities.PartNumberConfig,
	assignment entities.SlotAssignment,
	outsideCards []*entities.CardDefinition,
) string {
	return a.Render(chassis, config, assignment, outsideCards).PartNumber
}

// Render assembles the part number and reports unresolved template keys.
// The result depends only on the arguments.
func (a *PartNumberAssembler) Render(
	chassis *entities.ChassisType,
	config *entities.PartNumberConfig,
	assignment entities.SlotAssignment,
	outsideCards []*entities.CardDefinition,
) Rendering {
	var (
		r      Rendering
		sb     strings.Builder
		remote bool
	)

	sb.WriteString(config.Prefix)

	slotCount := config.SlotsFor(chassis)
	for slot := 1; slot <= slotCount; slot++ {
		p, ok := assignment.At(slot)
		if !ok {
			r.Segments = append(r.Segments, config.SlotPlaceholder)
			continue
		}
		if p.StartSlot() != slot {
			continue
		}

		remote = remote || p.Card.RemoteEnable
		code := a.renderTemplate(p.Card, &r)
		if p.Span() > 1 && len([]rune(code)) == 1 {
			for i := 0; i < p.Span(); i++ {
				r.Segments = append(r.Segments, code)
			}
			continue
		}
		r.Segments = append(r.Segments, code)
	}
	for _, seg := range r.Segments {
		sb.WriteString(seg)
	}

	ordered := orderOutsideCards(outsideCards, config.OutsideOrder)
	for _, card := range ordered {
		remote = remote || card.RemoteEnable
	}

	sb.WriteString(config.SuffixSeparator)
	if remote {
		sb.WriteString(config.RemoteOnCode)
	} else {
		sb.WriteString(config.RemoteOffCode)
	}
	for _, card := range ordered {
		sb.WriteString(a.renderTemplate(card, &r))
	}

	r.PartNumber = sb.String()
	return r
}

// renderTemplate substitutes {key} placeholders from the card specification.
// Missing keys render empty and are recorded on r.
func (a *PartNumberAssembler) renderTemplate(card *entities.CardDefinition, r *Rendering) string {
	return placeholderPattern.ReplaceAllStringFunc(card.Template, func(match string) string {
		key := match[1 : len(match)-1]
		if v, ok := card.Spec(key); ok {
			return v.Render()
		}
		r.Unresolved = append(r.Unresolved, UnresolvedPlaceholder{CardID: card.ID, Key: key})
		a.logger.Warn("unresolved part number placeholder",
			zap.String("card", string(card.ID)),
			zap.String("placeholder", key),
			zap.String("template", card.Template),
		)
		return ""
	})
}

func orderOutsideCards(cards []*entities.CardDefinition, order entities.OutsideOrder) []*entities.CardDefinition {
	ordered := append([]*entities.CardDefinition(nil), cards...)
	if order == entities.OutsideByCatalog {
		sort.SliceStable(ordered, func(i, j int) bool {
			if ordered[i].SortOrder != ordered[j].SortOrder {
				return ordered[i].SortOrder < ordered[j].SortOrder
			}
			return ordered[i].ID < ordered[j].ID
		})
	}
	return ordered
}
