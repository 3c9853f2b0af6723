package helpers

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"strings"
	"text/template"
	"unicode"

	"github.com/findhari93-sketch/NeramNewApp-sub004/models"
	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type RequestPdf struct {
	bodies []string
}

func (r *RequestPdf) ParseTemplate(templateFileName string, data interface{}) error {
	t, err := template.ParseFiles(templateFileName)
	if err != nil {
		return err
	}
	buf := new(bytes.Buffer)
	if err = t.Execute(buf, data); err != nil {
		return err
	}
	r.bodies = append(r.bodies, buf.String())
	return nil
}

const (
	ConstHTMLNewPage = `
	<div class="new-page"></div>
	`
)

func (r *RequestPdf) GeneratePDF() (*bytes.Buffer, error) {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, err
	}

	pdfg.AddPage(wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(strings.Join(r.bodies, ConstHTMLNewPage)))))

	err = pdfg.Create()
	if err != nil {
		return nil, err
	}

	return pdfg.Buffer(), nil
}

// GenerateInvoicePDF renders the receipt for one settled payment. The QR
// encodes the hosted payment-link URL so the printed invoice stays tied to
// the Razorpay record.
func GenerateInvoicePDF(invoice *models.Invoice) (*bytes.Buffer, error) {
	r := RequestPdf{}

	var qrImage string
	if invoice.PaymentLink != "" {
		img, err := qrcode.New(invoice.PaymentLink, qrcode.Medium)
		if err != nil {
			return nil, err
		}

		qrImage, err = EncodeImage(img.Image(256))
		if err != nil {
			return nil, err
		}
	}

	if err := r.ParseTemplate("./templates/pdf/invoice.html", models.InvoiceHTML{
		Number:      invoice.Number,
		StudentName: RemoveAccents(invoice.StudentName),
		CourseName:  invoice.CourseName,
		Amount:      invoice.Amount,
		Currency:    invoice.Currency,
		PaymentID:   invoice.PaymentID,
		Method:      invoice.Method,
		PaidAt:      invoice.PaidAt.Format("02-01-2006 15:04"),
		QRImage:     qrImage,
	}); err != nil {
		return nil, err
	}

	mem, err := r.GeneratePDF()
	if err != nil {
		return nil, err
	}

	return mem, nil
}

func EncodeImage(m image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, m); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// RemoveAccents strips combining marks; wkhtmltopdf renders plain ASCII
// names more reliably across fonts.
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
