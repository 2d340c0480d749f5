package deckrules

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUnknownSeverity = errors.New("unknown severity")
	ErrUnknownCard     = errors.New("unknown card")
)

// Severity controls where a soft rule reports its violations.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityOff     Severity = "off"
)

// ParseSeverity parses a severity name. An empty string means SeverityError.
func ParseSeverity(s string) (Severity, error) {
	switch severity := Severity(strings.ToLower(strings.TrimSpace(s))); severity {
	case "":
		return SeverityError, nil
	case SeverityError, SeverityWarning, SeverityOff:
		return severity, nil
	}

	return "", errors.Wrapf(ErrUnknownSeverity, "%q", s)
}

// Result is the outcome of validating a deck.
type Result struct {
	Errors   []Violation `json:"errors"`
	Warnings []Violation `json:"warnings"`
}

// Legal reports whether the deck has no errors.
func (result Result) Legal() bool {
	return len(result.Errors) == 0
}

// Messages returns the error messages in reporting order.
func (result Result) Messages() []string {
	messages := make([]string, 0, len(result.Errors))
	for _, violation := range result.Errors {
		messages = append(messages, violation.Message)
	}

	return messages
}

// Options configures an Engine.
type Options struct {
	// DrawPileSeverity decides how a short draw pile is reported. The zero value means SeverityError.
	DrawPileSeverity Severity

	// Groups overrides DefaultGroups when non-nil.
	Groups []ExclusiveGroup
}

// Engine validates decks. It holds no state between calls and is safe for concurrent use.
type Engine struct {
	errorRules   []Rule
	warningRules []Rule
}

// NewEngine returns an engine configured by opts.
func NewEngine(opts Options) *Engine {
	groups := opts.Groups
	if groups == nil {
		groups = DefaultGroups
	}

	engine := &Engine{
		errorRules: []Rule{
			checkCharacterCap,
			checkMissionCap,
			checkLocationCap,
		},
	}

	switch opts.DrawPileSeverity {
	case SeverityWarning:
		engine.warningRules = append(engine.warningRules, checkDrawPile)
	case SeverityOff:
	default:
		engine.errorRules = append(engine.errorRules, checkDrawPile)
	}

	engine.errorRules = append(engine.errorRules, checkOnePerDeck)
	for _, group := range groups {
		engine.errorRules = append(engine.errorRules, groupRule(group))
	}

	engine.warningRules = append(engine.warningRules,
		checkThreat,
		checkUnusableSpecials,
		checkAngryMobLimit,
		checkMissionSet,
		checkUnusableEvents,
		checkUnusablePowers,
		checkUnusableUniverse,
	)

	return engine
}

var defaultEngine = NewEngine(Options{})

// Validate runs every rule of the default engine against the deck.
func Validate(catalog *Catalog, deck Deck) Result {
	return defaultEngine.Validate(catalog, deck)
}

// Validate runs every rule against the deck. Rules never short-circuit each other.
func (engine *Engine) Validate(catalog *Catalog, deck Deck) Result {
	composition := Tally(catalog, deck)

	result := Result{
		Errors:   []Violation{},
		Warnings: []Violation{},
	}

	for _, rule := range engine.errorRules {
		result.Errors = append(result.Errors, rule(catalog, deck, composition)...)
	}
	for _, rule := range engine.warningRules {
		result.Warnings = append(result.Warnings, rule(catalog, deck, composition)...)
	}

	return result
}

// CheckAdd returns the errors that adding one copy of the card would introduce, using the default engine.
func CheckAdd(catalog *Catalog, deck Deck, cardID string) ([]Violation, error) {
	return defaultEngine.CheckAdd(catalog, deck, cardID)
}

// CheckAdd returns the errors that adding one copy of the card would introduce.
// The deck itself is left untouched.
func (engine *Engine) CheckAdd(catalog *Catalog, deck Deck, cardID string) ([]Violation, error) {
	card, ok := catalog.Lookup(cardID)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCard, "%q", cardID)
	}

	before := engine.Validate(catalog, deck)
	after := engine.Validate(catalog, deck.With(card))

	existing := map[string]bool{}
	for _, violation := range before.Errors {
		existing[violationKey(violation)] = true
	}

	introduced := []Violation{}
	for _, violation := range after.Errors {
		if violation.Rule == RuleDrawPileMinimum {
			continue
		}
		if existing[violationKey(violation)] {
			continue
		}
		if !involves(violation, cardID) {
			continue
		}

		introduced = append(introduced, violation)
	}

	return introduced, nil
}

// involves reports whether the violation concerns the card. Violations without card ids concern every card.
func involves(violation Violation, cardID string) bool {
	if len(violation.CardIDs) == 0 {
		return true
	}

	for _, id := range violation.CardIDs {
		if id == cardID {
			return true
		}
	}

	return false
}

// violationKey identifies a violation including its counts, so a cap that is already broken
// still reports when it would be broken further.
func violationKey(violation Violation) string {
	return string(violation.Rule) + "\x00" + violation.Message + "\x00" + strings.Join(violation.CardIDs, "\x00")
}
