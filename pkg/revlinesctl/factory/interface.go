package factory

import (
	"io"
	"log/slog"

	"github.com/go-resty/resty/v2"
)

// Encoder writes structured output.
type Encoder interface {
	Encode(v any) error
}

type Factory interface {
	RESTClient() *resty.Client
	// Encoder returns nil when no structured output format was requested.
	Encoder(w io.Writer) (Encoder, error)
	Logger() *slog.Logger
}
