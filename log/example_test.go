package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/compose/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithTimeLayout("none"))

	logger.Info("expanded", slog.String("file", "lib.rs"), slog.Int("sites", 2))
	// Output: level=INFO msg=expanded file=lib.rs sites=2
}

func Example_pretty() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatPretty),
		log.WithLevel(log.LevelDebug),
		log.WithTimeLayout(""))

	logger.Debug("pass started", slog.Int("pass", 1))
	// Output: DEBUG pass started pass=1
}

func Example_withContext() {
	type requestKey struct{}

	ctx := context.WithValue(context.Background(), requestKey{}, "r-1")

	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithTimeLayout("none")).
		With(slog.String("component", "expander"))

	logger.WarnContext(ctx, "deprecated separator")
	// Output: {"level":"WARN","msg":"deprecated separator","component":"expander"}
}
