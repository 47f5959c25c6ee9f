// Package builder serializes normalized invoices into the payable register
// schema consumed by the relay target.
//
//	<InvoiceRegisters><Invoices><Payable>
//	  <InvoiceNumber/><InvoiceDate/><DueDate/><TotalAmount/><Notes/>
//	  <Iban/><Amount/><Currency/><Vendor/><VendorAddress/>
//	  <Details><Detail><Amount/><AccountId/><Quantity/><Notes/></Detail>*</Details>
//	</Payable></Invoices></InvoiceRegisters>
package builder

import (
	"encoding/base64"
	"fmt"

	"github.com/beevik/etree"

	"github.com/rezonia/invoice-exporter/internal/model"
)

// BuildInvoiceXML renders the invoice as an InvoiceRegisters document.
// The output has no XML declaration and no indentation.
func BuildInvoiceXML(inv *model.Invoice) (string, error) {
	if inv == nil {
		return "", fmt.Errorf("build invoice xml: nil invoice")
	}

	doc := etree.NewDocument()
	doc.WriteSettings.CanonicalText = true
	payable := doc.CreateElement("InvoiceRegisters").
		CreateElement("Invoices").
		CreateElement("Payable")

	addElement(payable, "InvoiceNumber", inv.DocumentID)
	addElement(payable, "InvoiceDate", inv.InvoiceDate)
	addElement(payable, "DueDate", inv.InvoiceDue)
	addElement(payable, "TotalAmount", inv.TotalAmount)
	addElement(payable, "Notes", inv.Notes)
	addElement(payable, "Iban", inv.IBAN)
	addElement(payable, "Amount", inv.AmountDue)
	addElement(payable, "Currency", inv.Currency)
	addElement(payable, "Vendor", inv.Vendor)
	addElement(payable, "VendorAddress", inv.VendorAddress)

	details := payable.CreateElement("Details")
	for _, item := range inv.LineItems {
		detail := details.CreateElement("Detail")
		addElement(detail, "Amount", item.Amount)
		addElement(detail, "AccountId", item.AccountID)
		addElement(detail, "Quantity", item.Quantity)
		addElement(detail, "Notes", item.Description)
	}

	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("build invoice xml: %w", err)
	}
	return out, nil
}

// addElement appends a child element; empty text leaves it self-closing
func addElement(parent *etree.Element, tag, text string) *etree.Element {
	el := parent.CreateElement(tag)
	if text != "" {
		el.SetText(text)
	}
	return el
}

// EncodeBase64 encodes the UTF-8 bytes of the document
func EncodeBase64(document string) string {
	return base64.StdEncoding.EncodeToString([]byte(document))
}

// DecodeBase64 reverses EncodeBase64
func DecodeBase64(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
