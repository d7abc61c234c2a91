package models

import "time"

// FlashCard is a single stored card. Front may carry multiple-choice options
// using the "A: ... B: ..." marker grammar understood by the cardfmt package.
type FlashCard struct {
	ID        int64     `json:"id" yaml:"id"`
	Front     string    `json:"front" yaml:"front"`
	Back      string    `json:"back" yaml:"back"`
	Favorite  bool      `json:"favorite" yaml:"favorite"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewFlashCard holds the user-supplied fields of a card that has not been
// stored yet.
type NewFlashCard struct {
	Front    string `json:"front" validate:"required"`
	Back     string `json:"back" validate:"required"`
	Favorite bool   `json:"favorite"`
}

// CardFront is the parsed view of a card's front text.
type CardFront struct {
	Question string   `json:"question" yaml:"question"`
	Options  []string `json:"options" yaml:"options"`
	Raw      string   `json:"raw" yaml:"raw"`
}

type FormattedFlashCard struct {
	ID       int64     `json:"id" yaml:"id"`
	Front    CardFront `json:"front" yaml:"front"`
	Back     string    `json:"back" yaml:"back"`
	Favorite bool      `json:"favorite" yaml:"favorite"`
}
