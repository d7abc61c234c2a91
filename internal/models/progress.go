package models

// CurrentPositionKey is the fixed key of the single progress row.
const CurrentPositionKey = "currentPosition"

// Progress is the persisted browsing position: an index into the ordered
// deck, not a card id.
type Progress struct {
	Key          string `json:"key"`
	CurrentIndex int    `json:"current_index"`
}

// DeckSession is everything the presentation layer needs to show the deck.
type DeckSession struct {
	Cards        []FormattedFlashCard `json:"cards" yaml:"cards"`
	CurrentIndex int                  `json:"current_index" yaml:"current_index"`
	Total        int                  `json:"total" yaml:"total"`
	Current      *FormattedFlashCard  `json:"current,omitempty" yaml:"current,omitempty"`
}
