// Package i18n holds the user-facing strings of the terminal UI and their
// translations.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	NoConversations       = "No conversations yet"
	ConversationsFailed   = "Couldn't load conversations"
	RefreshFailed         = "Could not refresh conversations: %v"
	OpenFailed            = "Could not open conversation: %v"
	CreateFailed          = "Could not create conversation: %v"
	SendFailed            = "Could not send message: %v"
	MaintenanceTitle      = "Maintenance in progress"
	MaintenanceBody       = "agentdash is temporarily unavailable. We'll be back shortly."
	MaintenanceRetry      = "Checking again every %v. Press r to retry or q to quit."
	LinkCopied            = "Link copied: %s"
	CopyFailed            = "Copy failed: %v"
	ExpandSidebar         = "Expand sidebar"
	ThreadsHeading        = "Threads"
	OpenNavigation        = "Open navigation"
	WelcomeTitle          = "Welcome to agentdash"
	WelcomeBody           = "Select a conversation from the sidebar or press %s to start a new one."
	NoMessages            = "No messages yet"
	ComposePlaceholder    = "Type a message and press enter"
	NewConversationName   = "New conversation"
	MessageCount          = "%d messages"
	ConversationNotLoaded = "Loading conversation"
	FeedbackSaved         = "Feedback saved"
	FeedbackFailed        = "Could not save feedback: %v"
	NothingToRate         = "No agent reply to rate yet"
)

var translations = map[language.Tag]map[string]string{
	language.Spanish: {
		NoConversations:       "Todavía no hay conversaciones",
		ConversationsFailed:   "No se pudieron cargar las conversaciones",
		RefreshFailed:         "No se pudieron actualizar las conversaciones: %v",
		OpenFailed:            "No se pudo abrir la conversación: %v",
		CreateFailed:          "No se pudo crear la conversación: %v",
		SendFailed:            "No se pudo enviar el mensaje: %v",
		MaintenanceTitle:      "Mantenimiento en curso",
		MaintenanceBody:       "agentdash no está disponible temporalmente. Volveremos pronto.",
		MaintenanceRetry:      "Se volverá a comprobar cada %v. Pulsa r para reintentar o q para salir.",
		LinkCopied:            "Enlace copiado: %s",
		CopyFailed:            "Error al copiar: %v",
		ExpandSidebar:         "Expandir barra lateral",
		ThreadsHeading:        "Conversaciones",
		OpenNavigation:        "Abrir navegación",
		WelcomeTitle:          "Bienvenido a agentdash",
		WelcomeBody:           "Elige una conversación en la barra lateral o pulsa %s para empezar una nueva.",
		NoMessages:            "Todavía no hay mensajes",
		ComposePlaceholder:    "Escribe un mensaje y pulsa enter",
		NewConversationName:   "Nueva conversación",
		MessageCount:          "%d mensajes",
		ConversationNotLoaded: "Cargando conversación",
		FeedbackSaved:         "Valoración guardada",
		FeedbackFailed:        "No se pudo guardar la valoración: %v",
		NothingToRate:         "Todavía no hay respuesta del agente para valorar",
	},
	language.German: {
		NoConversations:       "Noch keine Unterhaltungen",
		ConversationsFailed:   "Unterhaltungen konnten nicht geladen werden",
		RefreshFailed:         "Unterhaltungen konnten nicht aktualisiert werden: %v",
		OpenFailed:            "Unterhaltung konnte nicht geöffnet werden: %v",
		CreateFailed:          "Unterhaltung konnte nicht erstellt werden: %v",
		SendFailed:            "Nachricht konnte nicht gesendet werden: %v",
		MaintenanceTitle:      "Wartungsarbeiten",
		MaintenanceBody:       "agentdash ist vorübergehend nicht verfügbar. Wir sind bald zurück.",
		MaintenanceRetry:      "Erneute Prüfung alle %v. r zum Wiederholen, q zum Beenden.",
		LinkCopied:            "Link kopiert: %s",
		CopyFailed:            "Kopieren fehlgeschlagen: %v",
		ExpandSidebar:         "Seitenleiste ausklappen",
		ThreadsHeading:        "Unterhaltungen",
		OpenNavigation:        "Navigation öffnen",
		WelcomeTitle:          "Willkommen bei agentdash",
		WelcomeBody:           "Wähle eine Unterhaltung in der Seitenleiste oder drücke %s für eine neue.",
		NoMessages:            "Noch keine Nachrichten",
		ComposePlaceholder:    "Nachricht eingeben und Enter drücken",
		NewConversationName:   "Neue Unterhaltung",
		MessageCount:          "%d Nachrichten",
		ConversationNotLoaded: "Unterhaltung wird geladen",
		FeedbackSaved:         "Bewertung gespeichert",
		FeedbackFailed:        "Bewertung konnte nicht gespeichert werden: %v",
		NothingToRate:         "Noch keine Antwort des Agenten zum Bewerten",
	},
}

var (
	supported = []language.Tag{language.English, language.Spanish, language.German}
	matcher   = language.NewMatcher(supported)
	builder   = newCatalog()
)

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range translations {
		for key, value := range entries {
			_ = b.SetString(tag, key, value)
		}
	}
	return b
}

type Printer struct {
	tag     language.Tag
	printer *message.Printer
}

// NewPrinter resolves locale (a BCP 47 tag such as "es" or "de-AT") against
// the supported languages. Unknown locales fall back to English.
func NewPrinter(locale string) *Printer {
	tag := Resolve(locale)
	return &Printer{tag: tag, printer: message.NewPrinter(tag, message.Catalog(builder))}
}

func Resolve(locale string) language.Tag {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return language.English
	}
	_, index, confidence := matcher.Match(language.Make(locale))
	if confidence == language.No {
		return language.English
	}
	return supported[index]
}

func (p *Printer) Tag() language.Tag {
	if p == nil {
		return language.English
	}
	return p.tag
}

func (p *Printer) Sprintf(key string, args ...any) string {
	if p == nil || p.printer == nil {
		return message.NewPrinter(language.English).Sprintf(key, args...)
	}
	return p.printer.Sprintf(key, args...)
}
