package events

import "time"

// Event is a calendar entry rendered on the public and member schedules.
type Event struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Date               time.Time `json:"date"`
	Location           string    `json:"location"`
	IsOnline           bool      `json:"isOnline"`
	RequiresMembership bool      `json:"requiresMembership"`
}

// Registration records a member's place at an event.
type Registration struct {
	ID      string `json:"id"`
	EventID string `json:"eventId"`
	Status  string `json:"status"`
}

var mockEvents = []Event{
	{
		ID:          "retiro-pentecostes",
		Title:       "Retiro Espiritual de Pentecostes",
		Description: "Fim de semana de silêncio, pregações e direção espiritual.",
		Date:        time.Date(2023, 6, 10, 9, 0, 0, 0, time.UTC),
		Location:    "Casa de Retiros Sagrado Coração, Petrópolis",
	},
	{
		ID:                 "seminario-doutrina-social",
		Title:              "Seminário de Doutrina Social",
		Description:        "Encontro anual do SEC sobre a doutrina social aplicada aos negócios.",
		Date:               time.Date(2023, 7, 22, 14, 0, 0, 0, time.UTC),
		Location:           "Rio de Janeiro",
		RequiresMembership: true,
	},
}

// MockEvents returns a copy of the fallback calendar.
func MockEvents() []Event {
	out := make([]Event, len(mockEvents))
	copy(out, mockEvents)
	return out
}
