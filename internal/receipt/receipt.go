// Package receipt renders payment receipts as PDF files.
package receipt

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"go-insurance-admin/internal/model"
	"go-insurance-admin/internal/util"
)

type Renderer struct {
	dir string
	now func() time.Time
}

func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir, now: time.Now}
}

// Filename is Receipt_<email>_<payment id>.pdf with the email made safe for
// the file system.
func Filename(customerEmail string, paymentID int64) string {
	return fmt.Sprintf("Receipt_%s_%d.pdf", util.FilenamePart(customerEmail), paymentID)
}

// Render writes the receipt into the receipt directory and returns its
// location. The file is written under a temporary name and renamed into
// place, so readers never observe a partial PDF.
func (r *Renderer) Render(payment model.Payment, policy model.Policy, customerEmail string) (model.Receipt, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return model.Receipt{}, fmt.Errorf("prepare receipt directory: %w", err)
	}

	name := Filename(customerEmail, payment.ID)
	path := filepath.Join(r.dir, name)

	tmp, err := os.CreateTemp(r.dir, ".receipt-*.pdf")
	if err != nil {
		return model.Receipt{}, fmt.Errorf("create receipt file: %w", err)
	}
	defer os.Remove(tmp.Name())

	doc := r.build(payment, policy, customerEmail)
	if err := doc.Output(tmp); err != nil {
		tmp.Close()
		return model.Receipt{}, fmt.Errorf("write receipt: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return model.Receipt{}, fmt.Errorf("close receipt: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return model.Receipt{}, fmt.Errorf("publish receipt: %w", err)
	}

	return model.Receipt{Path: path, Filename: name}, nil
}

func (r *Renderer) build(payment model.Payment, policy model.Policy, customerEmail string) *fpdf.Fpdf {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetTitle(fmt.Sprintf("Receipt %d", payment.ID), true)
	doc.AddPage()
	tr := doc.UnicodeTranslatorFromDescriptor("")

	// Letter is 792pt tall; rows are laid out top-down from y=42.
	doc.SetFont("Helvetica", "B", 16)
	doc.Text(100, 42, "Receipt/Invoice")
	doc.Line(100, 47, 500, 47)

	doc.SetFont("Helvetica", "", 12)
	rows := []string{
		"Customer Email: " + customerEmail,
		"Policy Name: " + policy.Details,
		fmt.Sprintf("Policy ID: %d", policy.ID),
		fmt.Sprintf("Payment ID: %d", payment.ID),
		"Payment Date: " + payment.PaymentDate.String(),
		fmt.Sprintf("Amount Paid: $ %.2f", payment.Amount),
		"Generated on: " + r.now().UTC().Format("2006-01-02 15:04:05"),
	}
	y := 72.0
	for _, row := range rows {
		doc.Text(100, y, tr(row))
		y += 20
	}

	return doc
}
