package models

// OrderEntry places one flashcard at a slot of the shuffled deck. Only the
// relative order of Position values is meaningful.
type OrderEntry struct {
	ID          int64 `json:"id"`
	FlashCardID int64 `json:"flashcard_id"`
	Position    int   `json:"position"`
}
