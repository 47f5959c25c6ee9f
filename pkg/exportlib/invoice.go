// Package exportlib provides a public API for turning Rossum annotation
// exports into InvoiceRegisters documents.
//
// Everything in this package is offline: no credentials and no network.
//
// Example usage:
//
//	annotation, err := exportlib.Filter(exportXML, baseURL, 3427896)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc, err := exportlib.Transform([]byte(annotation))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(exportlib.Encode(doc))
package exportlib

import "github.com/rezonia/invoice-exporter/internal/model"

// Re-export core types for public API
type (
	Invoice     = model.Invoice
	LineItem    = model.LineItem
	HeaderField = model.HeaderField
)

// Re-export error types
type (
	ExportError = model.ExportError
	ParseError  = model.ParseError
	ErrorKind   = model.ErrorKind
)

// Re-export error kinds
const (
	KindAuthenticationFailed = model.KindAuthenticationFailed
	KindNotFound             = model.KindNotFound
	KindConflict             = model.KindConflict
	KindUpstreamHTTP         = model.KindUpstreamHTTP
	KindTransport            = model.KindTransport
	KindInternal             = model.KindInternal
	KindUnexpected           = model.KindUnexpected
)

// KindOf classifies an error returned by this package
func KindOf(err error) ErrorKind {
	return model.KindOf(err)
}
