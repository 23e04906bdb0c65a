package services

import "HaloBackend/models"

var safetyFlashcards = []models.Flashcard{
	{Q: "Is it safe to click links from strangers?", A: "No"},
	{Q: "Should you share your password?", A: "No"},
	{Q: "If someone asks for your location, what should you do?", A: "Ask a parent"},
}

// Flashcards returns the static online-safety quiz.
func Flashcards() []models.Flashcard {
	return append([]models.Flashcard(nil), safetyFlashcards...)
}
