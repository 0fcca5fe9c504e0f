// Package locale translates the few fixed strings the relay emits on its own.
package locale

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// InvalidToken replaces a syslog message whose template could not be rendered.
const InvalidToken = "Invalid token in syslog format."

func init() {
	translations := map[language.Tag]string{
		language.French:  "Jeton invalide dans le format syslog.",
		language.German:  "Ungültiges Token im Syslog-Format.",
		language.Spanish: "Token no válido en el formato de syslog.",
	}
	for tag, s := range translations {
		message.SetString(tag, InvalidToken, s)
	}
}

// Translator renders fixed strings in one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New creates a Translator for tag.
func New(tag language.Tag) *Translator {
	return &Translator{tag: tag, printer: message.NewPrinter(tag)}
}

// Parse converts a BCP 47 code such as "fr" or "de-CH" to a language tag.
func Parse(code string) (language.Tag, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, fmt.Errorf("locale: %w", err)
	}
	return tag, nil
}

// Language returns the translator's tag.
func (t *Translator) Language() language.Tag { return t.tag }

// T returns key translated, or key itself when no translation exists.
func (t *Translator) T(key string) string {
	if t == nil {
		return key
	}
	return t.printer.Sprintf(key)
}
