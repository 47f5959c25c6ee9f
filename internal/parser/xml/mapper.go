package xml

import (
	"io"

	"github.com/beevik/etree"

	"github.com/rezonia/invoice-exporter/internal/decimal"
	"github.com/rezonia/invoice-exporter/internal/model"
)

// Section identifiers of the annotation content
const (
	SectionBasicInfo   = "basic_info_section"
	SectionAmounts     = "amounts_section"
	SectionTotals      = "totals_section"
	SectionPaymentInfo = "payment_info_section"
	SectionVendor      = "vendor_section"
	SectionOthers      = "others_section"
	SectionLineItems   = "line_items_section"
)

type headerRule struct {
	primary  Path
	fallback []Path
	assign   func(inv *model.Invoice, value string)
}

var headerRules = []headerRule{
	{
		primary: Path{SectionBasicInfo, "document_id"},
		assign:  func(inv *model.Invoice, v string) { inv.DocumentID = v },
	},
	{
		primary: Path{SectionBasicInfo, "date_issue"},
		assign:  func(inv *model.Invoice, v string) { inv.InvoiceDate = v },
	},
	{
		primary: Path{SectionBasicInfo, "date_due"},
		assign:  func(inv *model.Invoice, v string) { inv.InvoiceDue = v },
	},
	{
		primary: Path{SectionAmounts, "amount_total"},
		assign:  func(inv *model.Invoice, v string) { inv.TotalAmount = v },
	},
	{
		primary: Path{SectionPaymentInfo, "iban"},
		assign:  func(inv *model.Invoice, v string) { inv.IBAN = v },
	},
	{
		primary:  Path{SectionAmounts, "currency"},
		fallback: []Path{{SectionTotals, "currency"}},
		assign:   func(inv *model.Invoice, v string) { inv.Currency = v },
	},
	{
		primary: Path{SectionVendor, "sender_name"},
		assign:  func(inv *model.Invoice, v string) { inv.Vendor = v },
	},
	{
		primary: Path{SectionVendor, "sender_address"},
		assign:  func(inv *model.Invoice, v string) { inv.VendorAddress = v },
	},
	{
		primary:  Path{SectionAmounts, "amount_due"},
		fallback: []Path{{SectionTotals, "amount_due"}},
		assign:   func(inv *model.Invoice, v string) { inv.AmountDue = v },
	},
	{
		primary: Path{SectionOthers, "notes"},
		assign:  func(inv *model.Invoice, v string) { inv.Notes = v },
	},
}

var lineItemsPath = etree.MustCompilePath(".//section[@schema_id='" + SectionLineItems + "']/multivalue/tuple")

// MapInvoice maps an annotation document tree into the normalized invoice.
// Missing datapoints are left empty. The only failure is a derived total
// whose components are not decimal numbers.
func MapInvoice(root *etree.Element) (*model.Invoice, error) {
	inv := &model.Invoice{}
	for _, rule := range headerRules {
		rule.assign(inv, ExtractScalar(root, rule.primary, rule.fallback...))
	}

	inv.InvoiceDate += model.DateTimeSuffix
	inv.InvoiceDue += model.DateTimeSuffix

	if inv.TotalAmount == "" {
		base := ExtractScalar(root, Path{SectionTotals, "amount_total_base"})
		tax := ExtractScalar(root, Path{SectionTotals, "amount_total_tax"})
		total, err := decimal.SumStrings(base, tax)
		if err != nil {
			return nil, model.NewParseError("total_amount", "amount_total_base and amount_total_tax must be decimal numbers", err)
		}
		inv.TotalAmount = total
	}

	inv.LineItems = mapLineItems(root)
	return inv, nil
}

func mapLineItems(root *etree.Element) []model.LineItem {
	if root == nil {
		return nil
	}
	tuples := root.FindElementsPath(lineItemsPath)
	items := make([]model.LineItem, 0, len(tuples))
	for _, tuple := range tuples {
		items = append(items, model.LineItem{
			Amount:      ExtractScalarFromItem(tuple, "item_total_base", "item_amount_total"),
			Quantity:    ExtractScalarFromItem(tuple, "item_quantity"),
			Description: ExtractScalarFromItem(tuple, "item_description"),
			AccountID:   ExtractScalarFromItem(tuple, "account_id"),
		})
	}
	return items
}

// ParseInvoice reads an annotation document and maps it
func ParseInvoice(r io.Reader) (*model.Invoice, error) {
	root, err := readRoot(r)
	if err != nil {
		return nil, err
	}
	return MapInvoice(root)
}

func readRoot(r io.Reader) (*etree.Element, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, model.NewParseError("xml", "failed to parse XML", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, model.NewParseError("xml", "empty XML document", nil)
	}
	return root, nil
}
