package usecase

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/peximo/slack-llm-translate/internal/biz/domain"
)

// messageOverhead models the per-message formatting cost (marker, role
// label, newline) counted against the character budget.
const messageOverhead = 30

const (
	contextHeader    = "[Previous conversation - for reference]"
	contextSeparator = "---"
	recentMarker     = ">"
	olderMarker      = "-"
)

// ContextConfig controls context selection. Loaded once at startup and
// passed by value; never mutated afterwards.
type ContextConfig struct {
	MaxContextChars    int
	MinRecentMessages  int
	MaxRelevantOlder   int
	MinKeywordLength   int
	RelevanceThreshold float64
}

// DefaultContextConfig contains the default selection parameters.
var DefaultContextConfig = ContextConfig{
	MaxContextChars:    2000,
	MinRecentMessages:  3,
	MaxRelevantOlder:   5,
	MinKeywordLength:   4,
	RelevanceThreshold: 0.3,
}

// ContextBuilder selects which prior conversation turns accompany a new
// prompt and renders them into a context block. The whole pipeline is
// pure: no I/O, no shared mutable state, safe for concurrent use.
type ContextBuilder struct {
	cfg ContextConfig
}

// NewContextBuilder creates a context builder with the given configuration.
func NewContextBuilder(cfg ContextConfig) *ContextBuilder {
	return &ContextBuilder{cfg: cfg}
}

// BuildContext runs the full pipeline: keyword extraction, relevance
// selection, budgeting, formatting. Returns an empty string for empty
// history.
func (b *ContextBuilder) BuildContext(history []domain.Message, prompt string) string {
	selected := b.SelectMessages(history, prompt)
	budgeted := b.budgetMessages(selected)
	return b.FormatContext(budgeted)
}

// scoreMessage scores one historical message against the prompt keywords.
// Result is in [0,1]: the fraction of keywords found in the message. A
// keyword matches when it appears in the message's token set, or anywhere
// in the lowercased content as a substring. The substring fallback catches
// keywords embedded in longer words, at the cost of occasional false
// matches for short keywords ("art" inside "start").
func (b *ContextBuilder) scoreMessage(msg domain.Message, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}

	content := strings.ToLower(msg.Content)
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(content) {
		tok = nonWordPattern.ReplaceAllString(tok, "")
		if len(tok) >= b.cfg.MinKeywordLength {
			tokens[tok] = struct{}{}
		}
	}

	matches := 0
	for _, kw := range keywords {
		if _, ok := tokens[kw]; ok {
			matches++
			continue
		}
		if strings.Contains(content, kw) {
			matches++
		}
	}
	return float64(matches) / float64(len(keywords))
}

type scoredMessage struct {
	msg   domain.Message
	score float64
}

// SelectMessages merges the always-kept recent window with relevant older
// messages, returned in chronological order. The recent window and older
// candidates are disjoint slices of the history, so the merge never needs
// deduplication.
func (b *ContextBuilder) SelectMessages(history []domain.Message, prompt string) []domain.Message {
	if len(history) == 0 {
		return nil
	}

	recentCount := b.cfg.MinRecentMessages
	if recentCount > len(history) {
		recentCount = len(history)
	}
	older := history[:len(history)-recentCount]
	recent := history[len(history)-recentCount:]

	if len(older) == 0 {
		return append([]domain.Message(nil), recent...)
	}

	keywords := b.ExtractKeywords(prompt)

	var kept []scoredMessage
	for _, m := range older {
		if s := b.scoreMessage(m, keywords); s >= b.cfg.RelevanceThreshold {
			kept = append(kept, scoredMessage{msg: m, score: s})
		}
	}

	// Highest score first; ties keep chronological order.
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].score > kept[j].score
	})
	if len(kept) > b.cfg.MaxRelevantOlder {
		kept = kept[:b.cfg.MaxRelevantOlder]
	}

	merged := make([]domain.Message, 0, len(kept)+len(recent))
	for _, s := range kept {
		merged = append(merged, s.msg)
	}
	merged = append(merged, recent...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreateTime.Before(merged[j].CreateTime)
	})
	return merged
}

// budgetMessages trims the selection to the character budget, walking
// newest to oldest. The budget is a soft cap: the newest message is always
// included even when it alone exceeds it. Output is a contiguous suffix of
// the input, still in chronological order.
func (b *ContextBuilder) budgetMessages(msgs []domain.Message) []domain.Message {
	if len(msgs) == 0 {
		return msgs
	}

	total := 0
	start := len(msgs)
	for i := len(msgs) - 1; i >= 0; i-- {
		cost := len(msgs[i].Content) + messageOverhead
		if start < len(msgs) && total+cost > b.cfg.MaxContextChars {
			break
		}
		total += cost
		start = i
	}
	return msgs[start:]
}

// FormatContext renders the budgeted selection into the text block that is
// prepended to the outgoing LLM prompt. The last MinRecentMessages entries
// of the output carry the recency marker; earlier ones the bullet marker.
// Empty input yields an empty string.
func (b *ContextBuilder) FormatContext(msgs []domain.Message) string {
	if len(msgs) == 0 {
		return ""
	}

	recentStart := len(msgs) - b.cfg.MinRecentMessages
	if recentStart < 0 {
		recentStart = 0
	}

	var sb strings.Builder
	sb.WriteString(contextHeader)
	sb.WriteString("\n")
	for i, m := range msgs {
		marker := olderMarker
		if i >= recentStart {
			marker = recentMarker
		}
		sb.WriteString(fmt.Sprintf("%s %s: %s\n", marker, m.Role.Label(), m.Content))
	}
	sb.WriteString(contextSeparator)
	sb.WriteString("\n")
	return sb.String()
}

// ContextStats describes one selection run for logging and diagnostics.
type ContextStats struct {
	HistorySize    int
	SelectedCount  int
	BudgetedCount  int
	BudgetedChars  int
	UtilizationPct float64
}

func (s ContextStats) String() string {
	return fmt.Sprintf("history=%d selected=%d budgeted=%d chars=%d utilization=%.1f%%",
		s.HistorySize, s.SelectedCount, s.BudgetedCount, s.BudgetedChars, s.UtilizationPct)
}

// Stats runs the selection pipeline for the same inputs as BuildContext
// and reports sizes at each stage. Read-only; it never affects the
// pipeline's output.
func (b *ContextBuilder) Stats(history []domain.Message, prompt string) ContextStats {
	selected := b.SelectMessages(history, prompt)
	budgeted := b.budgetMessages(selected)

	chars := 0
	for _, m := range budgeted {
		chars += len(m.Content) + messageOverhead
	}

	utilization := 0.0
	if b.cfg.MaxContextChars > 0 {
		utilization = math.Round(float64(chars)/float64(b.cfg.MaxContextChars)*1000) / 10
	}

	return ContextStats{
		HistorySize:    len(history),
		SelectedCount:  len(selected),
		BudgetedCount:  len(budgeted),
		BudgetedChars:  chars,
		UtilizationPct: utilization,
	}
}
