package xml

import (
	"fmt"

	"github.com/beevik/etree"
)

// Path addresses a datapoint nested under a section
type Path struct {
	Section   string
	Datapoint string
}

// find returns the first matching datapoint below root. Sections are visited
// in document order; a section's own datapoints come before nested sections.
func (p Path) find(root *etree.Element) *etree.Element {
	for _, child := range root.ChildElements() {
		if child.Tag == "section" && child.SelectAttrValue("schema_id", "") == p.Section {
			for _, dp := range child.SelectElements("datapoint") {
				if dp.SelectAttrValue("schema_id", "") == p.Datapoint {
					return dp
				}
			}
		}
		if found := p.find(child); found != nil {
			return found
		}
	}
	return nil
}

// ExtractScalar returns the text of the first datapoint matching primary.
// When it is empty or absent, each fallback is tried in order.
// A miss on every path yields an empty string.
func ExtractScalar(root *etree.Element, primary Path, fallbacks ...Path) string {
	if root == nil {
		return ""
	}
	for _, p := range append([]Path{primary}, fallbacks...) {
		if p.Section == "" || p.Datapoint == "" {
			continue
		}
		if found := p.find(root); found != nil && found.Text() != "" {
			return found.Text()
		}
	}
	return ""
}

// ExtractScalarFromItem looks up sibling datapoints of a single line item tuple
func ExtractScalarFromItem(item *etree.Element, datapoint string, fallbacks ...string) string {
	if item == nil {
		return ""
	}
	for _, id := range append([]string{datapoint}, fallbacks...) {
		if id == "" {
			continue
		}
		if v := findText(item, fmt.Sprintf("datapoint[@schema_id='%s']", id)); v != "" {
			return v
		}
	}
	return ""
}

func findText(el *etree.Element, path string) string {
	found := el.FindElement(path)
	if found == nil {
		return ""
	}
	return found.Text()
}
