// Package cardfmt turns a card's front text into a question and its
// multiple-choice options.
//
// The grammar is informal: everything before the first "A:" is the question,
// and the rest is cut before every single uppercase letter followed by a
// colon ("B:", "C:", ...). Text without an "A:" marker is a plain question.
package cardfmt

import (
	"regexp"
	"strings"

	"github.com/vytor/flashdeck/internal/models"
)

const firstOptionMarker = "A:"

var (
	optionStartRe = regexp.MustCompile(`[A-Z]:`)
	optionLabelRe = regexp.MustCompile(`^[A-Z]:\s*`)
)

// Format builds the display view of a stored card.
func Format(c models.FlashCard) models.FormattedFlashCard {
	return models.FormattedFlashCard{
		ID:       c.ID,
		Front:    ParseFront(c.Front),
		Back:     c.Back,
		Favorite: c.Favorite,
	}
}

// FormatAll formats cards preserving their order.
func FormatAll(cards []models.FlashCard) []models.FormattedFlashCard {
	out := make([]models.FormattedFlashCard, 0, len(cards))
	for _, c := range cards {
		out = append(out, Format(c))
	}
	return out
}

// ParseFront splits front text into question and options. It never fails.
func ParseFront(front string) models.CardFront {
	idx := strings.Index(front, firstOptionMarker)
	if idx < 0 {
		return models.CardFront{
			Question: strings.TrimSpace(front),
			Options:  []string{},
			Raw:      front,
		}
	}

	return models.CardFront{
		Question: strings.TrimSpace(front[:idx]),
		Options:  splitOptions(front[idx+len(firstOptionMarker):]),
		Raw:      front,
	}
}

func splitOptions(raw string) []string {
	var pieces []string
	start := 0
	for _, loc := range optionStartRe.FindAllStringIndex(raw, -1) {
		if loc[0] > start {
			pieces = append(pieces, raw[start:loc[0]])
		}
		start = loc[0]
	}
	pieces = append(pieces, raw[start:])

	options := make([]string, 0, len(pieces))
	for _, p := range pieces {
		opt := strings.TrimSpace(optionLabelRe.ReplaceAllString(p, ""))
		if opt != "" {
			options = append(options, opt)
		}
	}
	return options
}
