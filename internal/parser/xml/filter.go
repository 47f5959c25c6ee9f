package xml

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/rezonia/invoice-exporter/internal/model"
)

// AnnotationURL returns the url attribute an annotation carries in an export
func AnnotationURL(baseURL string, annotationID int64) string {
	return fmt.Sprintf("%sannotations/%d", baseURL, annotationID)
}

// FilterByAnnotationID isolates exactly one annotation from a queue export.
// The result is a new export document holding the matched annotation and a
// copy of the original pagination element.
func FilterByAnnotationID(exportXML []byte, baseURL string, annotationID int64) (string, error) {
	root, err := readRoot(bytes.NewReader(exportXML))
	if err != nil {
		return "", err
	}

	results := root.SelectElement("results")
	if results == nil {
		return "", model.NewInternalError("Export document has no results element", nil)
	}

	target := AnnotationURL(baseURL, annotationID)
	annotations := results.SelectElements("annotation")

	var matches []*etree.Element
	for _, a := range annotations {
		if a.SelectAttrValue("url", "") == target {
			matches = append(matches, a)
		}
	}

	switch len(matches) {
	case 0:
		return "", model.NewNotFoundError("Annotation id not found, available annotations: " +
			strings.Join(annotationIDs(annotations), ", "))
	case 1:
	default:
		return "", model.NewConflictError(fmt.Sprintf(
			"Expected exactly one annotation to match the target ID, but found %d", len(matches)))
	}

	pagination := root.SelectElement("pagination")
	if pagination == nil {
		return "", model.NewInternalError("Export document has no pagination element", nil)
	}

	out := etree.NewDocument()
	export := out.CreateElement("export")
	export.CreateElement("results").AddChild(matches[0].Copy())
	export.AddChild(pagination.Copy())

	s, err := out.WriteToString()
	if err != nil {
		return "", model.NewInternalError("failed to serialize filtered export", err)
	}
	return s, nil
}

// annotationIDs takes the final path segment of every annotation url
func annotationIDs(annotations []*etree.Element) []string {
	ids := make([]string, 0, len(annotations))
	for _, a := range annotations {
		url := a.SelectAttrValue("url", "")
		ids = append(ids, url[strings.LastIndex(url, "/")+1:])
	}
	return ids
}
