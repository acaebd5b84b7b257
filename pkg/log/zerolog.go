package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/gradkit/pkg/errors"
)

// EnableZerologWarnings routes gradkit's numerical warnings onto a zerolog
// logger writing to stderr. Warning types that implement
// zerolog.LogObjectMarshaler are emitted as structured events.
func EnableZerologWarnings() {
	SetZerologWarningWriter(os.Stderr)
}

// SetZerologWarningWriter routes warnings onto a zerolog logger writing to w.
// Tests use this to capture warning output.
func SetZerologWarningWriter(w io.Writer) {
	logger := zerolog.New(w).With().Timestamp().Logger()
	errors.SetZerologWarnFunc(func(warning error) {
		ev := logger.Warn()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev = ev.EmbedObject(obj)
		}
		ev.Msg(warning.Error())
	})
}

// DisableZerologWarnings restores the plain warning handler.
func DisableZerologWarnings() {
	errors.SetZerologWarnFunc(nil)
}
