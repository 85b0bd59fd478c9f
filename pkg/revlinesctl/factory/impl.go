package factory

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/pflag"
	"sigs.k8s.io/yaml"

	"github.com/ustclug/revlines/pkg/revlinesctl/globalflag"
)

type factoryImpl struct {
	*globalflag.FlagSet
}

func (f *factoryImpl) RESTClient() *resty.Client {
	return resty.New().SetBaseURL(f.Remote())
}

func (f *factoryImpl) Encoder(w io.Writer) (Encoder, error) {
	switch f.Output() {
	case "":
		return nil, nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc, nil
	case "yaml":
		return yamlEncoder{w}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %q", f.Output())
	}
}

func (f *factoryImpl) Logger() *slog.Logger {
	level := slog.LevelWarn
	if f.Debug() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

type yamlEncoder struct {
	w io.Writer
}

func (e yamlEncoder) Encode(v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = e.w.Write(data)
	return err
}

// New registers the global flags on flags and returns a Factory reading them.
func New(flags *pflag.FlagSet) Factory {
	g := globalflag.New()
	g.AddFlags(flags)
	return &factoryImpl{
		FlagSet: g,
	}
}
