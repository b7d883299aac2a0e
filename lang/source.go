package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/klauspost/readahead"

	"github.com/ardnew/compose/log"
)

// ReadSource reads all of r through an asynchronous read-ahead buffer.
func ReadSource(ctx context.Context, name string, r io.Reader, logger log.Logger) ([]byte, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", name))
	}

	logger.TraceContext(ctx, "read input",
		slog.String("source", name),
		slog.Int("source_bytes", len(data)),
	)

	return data, nil
}
