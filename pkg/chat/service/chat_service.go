package service

import (
	"context"
	"errors"

	"micampo/entities"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	// ErrSuperseded is returned by a Send whose transcript was cleared
	// while the reply was in flight. The reply is discarded.
	ErrSuperseded = errors.New("transcript cleared while waiting for reply")
)

const (
	WelcomeMessage = "¡Hola! Soy tu asistente de MiCampo. Puedo ayudarte con información sobre tus lotes, " +
		"animales, clima, y responder preguntas sobre tu operación. ¿Qué necesitas saber?"
	ClearedMessage = "¡Hola! Soy tu asistente de MiCampo. ¿En qué puedo ayudarte?"
	ApologyMessage = "Lo siento, hubo un error al procesar tu consulta. Por favor, verifica tu conexión e intenta nuevamente."
)

// ChatService keeps one append-only transcript.
type ChatService interface {
	State() entities.ChatState
	// Send appends the user message, then the assistant reply (or the
	// apology when the completion call fails, returning that error).
	Send(ctx context.Context, text string) (entities.ChatMessage, error)
	Clear()
}
