package json2pdf

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Adoubf/json2pdf/internal/dateutil"
	"github.com/Adoubf/json2pdf/internal/fileutil"
	"github.com/Adoubf/json2pdf/internal/pipeline"
	"github.com/Adoubf/json2pdf/internal/records"
)

// Job defaults.
const (
	DefaultBatchSize = 1500
	DefaultSeparator = "----"
	DefaultPrefix    = "records"
	DefaultOutputDir = "./output/pdfs"
)

// ValueFormat selects how field values are written into the markup.
type ValueFormat = pipeline.ValueFormat

// Value formats.
const (
	ValueFormatText     = pipeline.ValueFormatText
	ValueFormatMarkdown = pipeline.ValueFormatMarkdown
)

// ParseValueFormat returns the ValueFormat named by s. Empty selects text.
func ParseValueFormat(s string) (ValueFormat, error) {
	return pipeline.ParseValueFormat(s)
}

// Source is where a run's records come from: a file path, or records
// already in memory (for example the outcome of Repair). Records win when
// both are set.
type Source struct {
	Path    string
	Records []Record
}

// Job describes one pipeline run.
type Job struct {
	OutputDir string   // created if absent
	Fields    []string // ordered; duplicates are ignored
	BatchSize int      // records per document
	Separator string   // written after each record; empty writes none
}

// Progress reports one completed batch.
type Progress struct {
	Batch   int // 1-based
	Total   int
	Records int // records in this batch
	Path    string
	Elapsed time.Duration // time spent on this batch
}

// DocumentRenderer renders one batch of markup to a file.
// *Converter implements it.
type DocumentRenderer interface {
	RenderToFile(ctx context.Context, input Input, path string) (*ConvertResult, error)
}

var _ DocumentRenderer = (*Converter)(nil)

// Processor runs the batch pipeline: load, partition, project, render.
type Processor struct {
	renderer        DocumentRenderer
	projector       pipeline.MarkupProjector
	logger          *slog.Logger
	prefix          string
	timestampFormat string
	batchTimeout    time.Duration
	writeHTML       bool
	template        Input
	progress        func(Progress)
	now             func() time.Time
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithLogger sets the logger for JSONL skip warnings and per-batch lines.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithValueFormat selects how field values are projected.
func WithValueFormat(f ValueFormat) ProcessorOption {
	return func(p *Processor) {
		p.projector = &pipeline.Projector{Format: f}
	}
}

// WithPrefix sets the artifact name prefix (default "records").
func WithPrefix(prefix string) ProcessorOption {
	return func(p *Processor) {
		p.prefix = prefix
	}
}

// WithTimestampFormat sets the artifact timestamp format using dateutil
// tokens (default "YYYYMMDDHHmmss").
func WithTimestampFormat(format string) ProcessorOption {
	return func(p *Processor) {
		p.timestampFormat = format
	}
}

// WithBatchTimeout bounds the rendering of each batch. Zero means no bound
// beyond the parent context.
func WithBatchTimeout(d time.Duration) ProcessorOption {
	return func(p *Processor) {
		p.batchTimeout = d
	}
}

// WithRenderInput sets the style, page, footer and CSS applied to every
// batch. Markup and HTMLOnly are ignored.
func WithRenderInput(in Input) ProcessorOption {
	return func(p *Processor) {
		p.template = in
	}
}

// WithHTMLOutput also writes each batch's HTML next to its PDF.
func WithHTMLOutput(enabled bool) ProcessorOption {
	return func(p *Processor) {
		p.writeHTML = enabled
	}
}

// WithProgress registers a callback invoked after each completed batch.
func WithProgress(fn func(Progress)) ProcessorOption {
	return func(p *Processor) {
		p.progress = fn
	}
}

// NewProcessor creates a Processor rendering through r.
// Fails with ErrInvalidPrefix if the prefix or timestamp format would not
// produce a plain file name.
func NewProcessor(r DocumentRenderer, opts ...ProcessorOption) (*Processor, error) {
	p := &Processor{
		renderer:        r,
		projector:       &pipeline.Projector{Format: ValueFormatText},
		logger:          slog.New(slog.DiscardHandler),
		prefix:          DefaultPrefix,
		timestampFormat: dateutil.DefaultTimestampFormat,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.prefix == "" || fileutil.IsFilePath(p.prefix) || strings.ContainsRune(p.prefix, 0) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPrefix, p.prefix)
	}
	sample, err := dateutil.FormatTimestamp(p.timestampFormat, p.now())
	if err != nil {
		return nil, err
	}
	if fileutil.IsFilePath(sample) {
		return nil, fmt.Errorf("%w: timestamp format %q produces path separators", ErrInvalidPrefix, p.timestampFormat)
	}

	return p, nil
}

// Process renders one document per batch of src into job.OutputDir and
// returns the number of documents written.
//
// Batches are rendered strictly in order. The first failure stops the run;
// documents already written stay on disk and the count so far is returned
// with the error.
func (p *Processor) Process(ctx context.Context, src Source, job Job) (int, error) {
	fields, err := validateJob(job)
	if err != nil {
		return 0, err
	}

	recs, err := p.loadSource(src)
	if err != nil {
		return 0, err
	}
	if len(recs) == 0 {
		return 0, fmt.Errorf("%w: source has no records", ErrEmptyOrInvalidInput)
	}

	if err := os.MkdirAll(job.OutputDir, fileutil.DirPermissions); err != nil {
		return 0, fmt.Errorf("%w: creating output directory: %v", ErrWriteArtifact, err)
	}

	// Taken once: all artifacts of a run share the timestamp
	stamp, err := dateutil.FormatTimestamp(p.timestampFormat, p.now())
	if err != nil {
		return 0, err
	}

	batches := pipeline.Partition(recs, job.BatchSize)
	p.logger.Info("processing records",
		"records", len(recs),
		"batches", len(batches),
		"batch_size", job.BatchSize,
		"output_dir", job.OutputDir)

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		path := filepath.Join(job.OutputDir, ArtifactName(p.prefix, stamp, batch.Index))
		start := time.Now()
		if err := p.renderBatch(ctx, batch, fields, job.Separator, path); err != nil {
			p.logger.Error("batch failed", "batch", batch.Index, "path", path, "error", err)
			return i, fmt.Errorf("batch %d of %d: %w", batch.Index, len(batches), err)
		}
		elapsed := time.Since(start)

		p.logger.Info("batch rendered",
			"batch", batch.Index,
			"total", len(batches),
			"records", len(batch.Records),
			"path", path,
			"duration", elapsed.Round(time.Millisecond))
		if p.progress != nil {
			p.progress(Progress{
				Batch:   batch.Index,
				Total:   len(batches),
				Records: len(batch.Records),
				Path:    path,
				Elapsed: elapsed,
			})
		}
	}

	return len(batches), nil
}

// ArtifactName returns "{prefix}_{stamp}_batch{index}.pdf".
func ArtifactName(prefix, stamp string, index int) string {
	return fmt.Sprintf("%s_%s_batch%d.pdf", prefix, stamp, index)
}

func (p *Processor) renderBatch(ctx context.Context, batch pipeline.Batch, fields []string, separator, path string) error {
	if p.batchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.batchTimeout)
		defer cancel()
	}

	input := p.template
	input.Markup = p.projector.Project(batch.Records, fields, separator)
	input.HTMLOnly = false

	res, err := p.renderer.RenderToFile(ctx, input, path)
	if err != nil {
		return err
	}

	if p.writeHTML {
		htmlPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".html"
		if err := fileutil.WriteFileAtomic(htmlPath, res.HTML); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteArtifact, err)
		}
	}
	return nil
}

func (p *Processor) loadSource(src Source) ([]Record, error) {
	if src.Records != nil {
		return src.Records, nil
	}
	if src.Path == "" {
		return nil, ErrNoSource
	}
	return records.Load(src.Path, p.logger)
}

// validateJob checks the job at the trust boundary and returns the field
// list with duplicates removed.
func validateJob(job Job) ([]string, error) {
	if job.BatchSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, job.BatchSize)
	}
	if strings.TrimSpace(job.OutputDir) == "" {
		return nil, ErrNoOutputDir
	}
	if len(job.Fields) == 0 {
		return nil, ErrNoFields
	}

	seen := make(map[string]bool, len(job.Fields))
	fields := make([]string, 0, len(job.Fields))
	for _, f := range job.Fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		fields = append(fields, f)
	}
	return fields, nil
}
