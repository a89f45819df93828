package models

// Error — тело JSON-ответа об ошибке.
type Error struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
