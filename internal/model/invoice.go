package model

// DateTimeSuffix is appended to issue and due dates
const DateTimeSuffix = "T00:00:00"

// Invoice is the normalized invoice record mapped from one annotation.
// Every field is a plain string; absent source values stay empty.
type Invoice struct {
	DocumentID    string `json:"document_id"`
	InvoiceDate   string `json:"invoice_date"`
	InvoiceDue    string `json:"invoice_due"`
	TotalAmount   string `json:"total_amount"`
	IBAN          string `json:"iban"`
	Currency      string `json:"currency"`
	Vendor        string `json:"vendor"`
	VendorAddress string `json:"vendor_address"`
	AmountDue     string `json:"amount_due"`
	Notes         string `json:"notes"`

	LineItems []LineItem `json:"line_items"`
}

// LineItem represents a single tuple of the line items section
type LineItem struct {
	Amount      string `json:"item_amount"`
	Quantity    string `json:"item_quantity"`
	Description string `json:"item_description"`
	AccountID   string `json:"account_id"`
}

// HeaderField pairs a header field name with its value
type HeaderField struct {
	Name  string
	Value string
}

// HeaderFields returns the header fields in mapping order
func (inv *Invoice) HeaderFields() []HeaderField {
	return []HeaderField{
		{"document_id", inv.DocumentID},
		{"invoice_date", inv.InvoiceDate},
		{"invoice_due", inv.InvoiceDue},
		{"total_amount", inv.TotalAmount},
		{"iban", inv.IBAN},
		{"currency", inv.Currency},
		{"vendor", inv.Vendor},
		{"vendor_address", inv.VendorAddress},
		{"amount_due", inv.AmountDue},
		{"notes", inv.Notes},
	}
}

// MissingFields lists header fields without a value.
// Dates only carrying the time suffix count as missing.
func (inv *Invoice) MissingFields() []string {
	var missing []string
	for _, f := range inv.HeaderFields() {
		if f.Value == "" || f.Value == DateTimeSuffix {
			missing = append(missing, f.Name)
		}
	}
	return missing
}
