// Package exporter sequences one annotation export end to end:
// login, queue export, annotation filter, transform, encode and relay.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rezonia/invoice-exporter/internal/builder"
	"github.com/rezonia/invoice-exporter/internal/logging"
	"github.com/rezonia/invoice-exporter/internal/model"
	xmlparser "github.com/rezonia/invoice-exporter/internal/parser/xml"
	"github.com/rezonia/invoice-exporter/internal/postbin"
)

// DocumentAPI is the document-processing service
type DocumentAPI interface {
	Login(ctx context.Context) (string, error)
	ExportAnnotations(ctx context.Context, token string, queueID int64) ([]byte, error)
}

// RelayAPI is the temporary bin service
type RelayAPI interface {
	CreateBin(ctx context.Context) (string, error)
	PostJSON(ctx context.Context, url string, payload any) (*postbin.PostResult, error)
}

// Observer receives the outcome of every export; kind is empty on success
type Observer interface {
	ObserveExport(kind string, duration time.Duration)
}

// Result is the body returned for every export request
type Result struct {
	Success bool   `json:"success"`
	BinURL  string `json:"bin_url,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Payload is what gets posted to the relay bin
type Payload struct {
	AnnotationID int64  `json:"annotationId"`
	Content      string `json:"content"`
}

// Exporter runs exports. It holds no per-request state and is safe for
// concurrent use.
type Exporter struct {
	docs     DocumentAPI
	relay    RelayAPI
	baseURL  string
	observer Observer
}

// Option configures the exporter
type Option func(*Exporter)

// WithObserver reports export outcomes to o
func WithObserver(o Observer) Option {
	return func(e *Exporter) {
		e.observer = o
	}
}

// New creates an exporter. baseURL is the document-processing API root that
// annotation urls in exports start with.
func New(docs DocumentAPI, relay RelayAPI, baseURL string, opts ...Option) *Exporter {
	e := &Exporter{
		docs:    docs,
		relay:   relay,
		baseURL: baseURL,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export runs every step once, in order. Any failure ends the run and is
// reported in the result; nothing already relayed is rolled back.
func (e *Exporter) Export(ctx context.Context, queueID, annotationID int64) (result Result) {
	start := time.Now()
	logger := logging.FromContext(ctx).With("queue_id", queueID, "annotation_id", annotationID)

	defer func() {
		if r := recover(); r != nil {
			err := model.NewInternalError(fmt.Sprintf("export aborted: %v", r), nil)
			logger.Error("export panicked", "panic", r)
			result = e.fail(err, start)
		}
	}()

	binURL, err := e.run(ctx, queueID, annotationID)
	if err != nil {
		logger.Warn("export failed", "kind", model.KindOf(err), "error", err)
		return e.fail(err, start)
	}

	logger.Info("export relayed", "bin_url", PublicBinURL(binURL), "duration_ms", time.Since(start).Milliseconds())
	if e.observer != nil {
		e.observer.ObserveExport("", time.Since(start))
	}
	return Result{Success: true, BinURL: PublicBinURL(binURL)}
}

func (e *Exporter) fail(err error, start time.Time) Result {
	var exportErr *model.ExportError
	if !errors.As(err, &exportErr) {
		err = model.NewInternalError(err.Error(), err)
	}
	if e.observer != nil {
		e.observer.ObserveExport(string(model.KindOf(err)), time.Since(start))
	}
	return Result{Success: false, Error: err.Error()}
}

func (e *Exporter) run(ctx context.Context, queueID, annotationID int64) (string, error) {
	logger := logging.FromContext(ctx)

	logger.Debug("export step", "step", "authenticate")
	token, err := e.docs.Login(ctx)
	if err != nil {
		return "", err
	}

	logger.Debug("export step", "step", "fetch")
	exportXML, err := e.docs.ExportAnnotations(ctx, token, queueID)
	if err != nil {
		return "", err
	}

	logger.Debug("export step", "step", "filter")
	annotation, err := xmlparser.FilterByAnnotationID(exportXML, e.baseURL, annotationID)
	if err != nil {
		return "", err
	}

	logger.Debug("export step", "step", "transform")
	content, err := Transform(annotation)
	if err != nil {
		return "", err
	}

	logger.Debug("export step", "step", "create_bin")
	binURL, err := e.relay.CreateBin(ctx)
	if err != nil {
		return "", err
	}

	logger.Debug("export step", "step", "post", "bin_url", binURL)
	payload := Payload{AnnotationID: annotationID, Content: content}
	if _, err := e.relay.PostJSON(ctx, SubmissionURL(binURL), payload); err != nil {
		return "", err
	}
	return binURL, nil
}

// Transform maps a single-annotation export document into the payable
// register XML and returns it base64 encoded.
func Transform(annotationXML string) (string, error) {
	inv, err := xmlparser.ParseInvoice(strings.NewReader(annotationXML))
	if err != nil {
		return "", err
	}
	doc, err := builder.BuildInvoiceXML(inv)
	if err != nil {
		return "", model.NewInternalError(err.Error(), err)
	}
	return builder.EncodeBase64(doc), nil
}

// SubmissionURL is where payloads for a bin are posted
func SubmissionURL(binURL string) string {
	return strings.ReplaceAll(binURL, "api/bin/", "")
}

// PublicBinURL is the human-facing page of a bin
func PublicBinURL(binURL string) string {
	return strings.ReplaceAll(binURL, "api/bin", "b")
}
