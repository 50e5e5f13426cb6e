package notify

import "time"

// Notification is a member-facing message. Read state is the only
// attribute the client mutates.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// mockNotifications is the fixed fallback list served when the backend is
// unreachable.
var mockNotifications = []Notification{
	{
		ID:        "1",
		Title:     "Novo curso disponível",
		Message:   `O curso "Vida e Obra do Cardeal Leme" já está disponível na plataforma.`,
		Read:      false,
		CreatedAt: time.Date(2023, 5, 10, 8, 0, 0, 0, time.UTC),
	},
	{
		ID:        "2",
		Title:     "Lembrete de evento",
		Message:   "O Retiro Espiritual de Pentecostes acontecerá em 2 dias.",
		Read:      true,
		CreatedAt: time.Date(2023, 6, 8, 12, 0, 0, 0, time.UTC),
	},
	{
		ID:        "3",
		Title:     "Atualização de curso",
		Message:   `Novos materiais foram adicionados ao curso "Doutrina Social da Igreja".`,
		Read:      false,
		CreatedAt: time.Date(2023, 5, 5, 9, 30, 0, 0, time.UTC),
	},
	{
		ID:        "4",
		Title:     "Confirmação de inscrição",
		Message:   "Sua inscrição para o Seminário de Doutrina Social foi confirmada.",
		Read:      true,
		CreatedAt: time.Date(2023, 4, 27, 18, 0, 0, 0, time.UTC),
	},
}

// MockNotifications returns a copy of the fallback list.
func MockNotifications() []Notification {
	out := make([]Notification, len(mockNotifications))
	copy(out, mockNotifications)
	return out
}
