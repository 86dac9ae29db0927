package export

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dealspot/dealspot/internal/core/domain"
)

const (
	// StreamThreshold is the record count at which callers switch from a
	// direct download to the event stream.
	StreamThreshold = 1000
	// BatchSize is the window used while reporting stream progress.
	BatchSize = 500
)

// File is an encoded export ready to be served.
type File struct {
	Data        []byte
	ContentType string
	Filename    string
	Rows        int
}

// Job is a configured export, independent of the record type.
type Job interface {
	Count(ctx context.Context) (int64, error)
	Direct(ctx context.Context) (*File, error)
	Stream(ctx context.Context, sink Sink) error
}

// Pipeline exports records of type T from a Source through an Exporter.
type Pipeline[T any] struct {
	source    Source[T]
	exporter  Exporter[T]
	sort      domain.Sort
	format    Format
	batchSize int64
	now       func() time.Time
	log       zerolog.Logger
}

// Option customises a Pipeline.
type Option func(*pipelineOptions)

type pipelineOptions struct {
	batchSize int64
	now       func() time.Time
	log       zerolog.Logger
}

// WithBatchSize overrides BatchSize.
func WithBatchSize(n int) Option {
	return func(o *pipelineOptions) {
		if n > 0 {
			o.batchSize = int64(n)
		}
	}
}

// WithClock sets the clock used for file names.
func WithClock(now func() time.Time) Option {
	return func(o *pipelineOptions) { o.now = now }
}

// WithLogger attaches a logger for stream diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(o *pipelineOptions) { o.log = log }
}

// New builds a Pipeline. It satisfies Job.
func New[T any](src Source[T], exp Exporter[T], sort domain.Sort, format Format, opts ...Option) *Pipeline[T] {
	o := pipelineOptions{batchSize: BatchSize, now: time.Now, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Pipeline[T]{
		source:    src,
		exporter:  exp,
		sort:      sort,
		format:    format,
		batchSize: o.batchSize,
		now:       o.now,
		log:       o.log,
	}
}

// Count returns the number of records the export would contain.
func (p *Pipeline[T]) Count(ctx context.Context) (int64, error) {
	n, err := p.source.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("export %s: count: %w", p.exporter.Name(), err)
	}
	return n, nil
}

// Direct fetches every record in one sorted query and encodes it.
// It returns domain.ErrNoExportData when nothing matches.
func (p *Pipeline[T]) Direct(ctx context.Context) (*File, error) {
	items, err := p.source.Find(ctx, p.sort, domain.Page{})
	if err != nil {
		return nil, fmt.Errorf("export %s: load: %w", p.exporter.Name(), err)
	}
	if len(items) == 0 {
		return nil, domain.ErrNoExportData
	}

	data, err := p.encode(items)
	if err != nil {
		return nil, fmt.Errorf("export %s: encode: %w", p.exporter.Name(), err)
	}

	return &File{
		Data:        data,
		ContentType: p.format.ContentType(),
		Filename:    p.filename(),
		Rows:        len(items),
	}, nil
}

func (p *Pipeline[T]) encode(items []T) ([]byte, error) {
	headers := p.exporter.Headers()
	switch p.format {
	case FormatXLSX:
		rows := make([][]any, len(items))
		for i, item := range items {
			rows[i] = p.exporter.SheetRow(item)
		}
		return encodeXLSX(p.exporter.Name(), headers, rows)
	case FormatTXT:
		rows := make([][]string, len(items))
		for i, item := range items {
			rows[i] = p.exporter.TextRow(item)
		}
		return encodeText(headers, rows), nil
	}
	return nil, fmt.Errorf("unsupported format %q", p.format)
}

func (p *Pipeline[T]) filename() string {
	return fmt.Sprintf("%s_%s.%s", p.exporter.Name(), p.now().UTC().Format("20060102_150405"), p.format)
}

// Stream reports batch progress to sink, then delivers the full file as a
// CompleteEvent. The batches only drive progress; the payload comes from a
// separate Direct pass over the same query. On failure a single ErrorEvent
// is sent and the error returned.
func (p *Pipeline[T]) Stream(ctx context.Context, sink Sink) error {
	if err := p.stream(ctx, sink); err != nil {
		p.log.Error().Err(err).Str("export", p.exporter.Name()).Msg("export stream failed")
		if sendErr := sink.Send(ErrorEvent{Error: publicMessage(err)}); sendErr != nil {
			p.log.Warn().Err(sendErr).Msg("failed to deliver export error event")
		}
		return err
	}
	return nil
}

func (p *Pipeline[T]) stream(ctx context.Context, sink Sink) error {
	total, err := p.Count(ctx)
	if err != nil {
		return err
	}
	if total == 0 {
		return domain.ErrNoExportData
	}

	batches := (total + p.batchSize - 1) / p.batchSize
	var processed int64
	lastPct := -1

	for i := int64(0); i < batches; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		items, err := p.source.Find(ctx, p.sort, domain.Page{Skip: i * p.batchSize, Limit: p.batchSize})
		if err != nil {
			return fmt.Errorf("export %s: batch %d: %w", p.exporter.Name(), i+1, err)
		}
		processed += int64(len(items))

		pct := percent(processed, total)
		if pct < lastPct {
			pct = lastPct
		}
		lastPct = pct
		if err := sink.Send(ProgressEvent{Progress: pct, Total: total, Current: processed}); err != nil {
			return fmt.Errorf("export %s: send progress: %w", p.exporter.Name(), err)
		}
	}

	// Records removed mid-export leave the counter short of total.
	if lastPct < 100 {
		if err := sink.Send(ProgressEvent{Progress: 100, Total: total, Current: processed}); err != nil {
			return fmt.Errorf("export %s: send progress: %w", p.exporter.Name(), err)
		}
	}

	file, err := p.Direct(ctx)
	if err != nil {
		return err
	}

	return sink.Send(CompleteEvent{
		Done:        true,
		File:        base64.StdEncoding.EncodeToString(file.Data),
		ContentType: file.ContentType,
		Filename:    file.Filename,
	})
}

func percent(current, total int64) int {
	if total <= 0 {
		return 100
	}
	pct := int(current * 100 / total)
	if pct > 100 {
		return 100
	}
	return pct
}
