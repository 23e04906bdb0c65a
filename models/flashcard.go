package models

type Flashcard struct {
	Q string `json:"q"`
	A string `json:"a"`
}
