package exportlib

import (
	"bytes"
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/rezonia/invoice-exporter/internal/builder"
	"github.com/rezonia/invoice-exporter/internal/model"
	xmlparser "github.com/rezonia/invoice-exporter/internal/parser/xml"
)

// Filter isolates one annotation from a queue export. baseURL is the API
// root the annotation urls start with.
func Filter(exportXML []byte, baseURL string, annotationID int64) (string, error) {
	return xmlparser.FilterByAnnotationID(exportXML, baseURL, annotationID)
}

// Parse maps an annotation export onto an Invoice
func Parse(annotationXML []byte) (*Invoice, error) {
	return xmlparser.ParseInvoice(bytes.NewReader(annotationXML))
}

// Build renders inv as an InvoiceRegisters document
func Build(inv *Invoice) (string, error) {
	return builder.BuildInvoiceXML(inv)
}

// Transform maps an annotation export straight to an InvoiceRegisters document
func Transform(annotationXML []byte) (string, error) {
	inv, err := Parse(annotationXML)
	if err != nil {
		return "", err
	}
	return Build(inv)
}

// Encode returns the standard base64 encoding of doc's UTF-8 bytes
func Encode(doc string) string {
	return builder.EncodeBase64(doc)
}

// Decode reverses Encode
func Decode(encoded string) (string, error) {
	return builder.DecodeBase64(encoded)
}

// TransformBatch transforms every input concurrently. Results keep the
// input order; the first failure cancels the remaining work.
func TransformBatch(ctx context.Context, inputs [][]byte) ([]string, error) {
	results := make([]string, len(inputs))
	g, ctx := errgroup.WithContext(ctx)

	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := Transform(input)
			if err != nil {
				return model.NewInternalError(err.Error(), err)
			}
			results[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
