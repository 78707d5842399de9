package printer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/dematic-gent/prodreg/internal/models"
)

// GenerateLabelsPDF renders one A4 page per product: title, wrapped
// product name, a centered QR code and the code value with the print
// date underneath. Products without a QR code are skipped.
func GenerateLabelsPDF(products []models.Product) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	pageWidth, _ := pdf.GetPageSize()
	printed := 0

	for i, product := range products {
		if product.QRCode == "" {
			continue
		}
		pdf.AddPage()
		printed++

		pdf.SetFont("Arial", "B", 24)
		pdf.SetXY(0, 20)
		pdf.CellFormat(pageWidth, 12, "QR Code", "", 0, "C", false, 0, "")

		pdf.SetFont("Arial", "", 14)
		pdf.SetXY(20, 45)
		pdf.MultiCell(pageWidth-40, 8, product.Name, "", "C", false)

		qrPng, err := qrcode.Encode(product.QRCode, qrcode.Medium, 512)
		if err != nil {
			return nil, fmt.Errorf("encode qr for %s: %w", product.Name, err)
		}
		imgName := fmt.Sprintf("qr_%d", i)
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(qrPng))

		qrSize := 100.0
		qrX := (pageWidth - qrSize) / 2
		qrY := 90.0
		pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, opts, 0, "")

		pdf.SetFont("Arial", "", 11)
		pdf.SetXY(0, qrY+qrSize+10)
		pdf.CellFormat(pageWidth, 6, fmt.Sprintf("QR Code: %s", product.QRCode), "", 0, "C", false, 0, "")

		pdf.SetFont("Arial", "", 9)
		pdf.SetXY(0, qrY+qrSize+18)
		pdf.CellFormat(pageWidth, 5, time.Now().Format("02-01-2006"), "", 0, "C", false, 0, "")
	}

	if printed == 0 {
		return nil, fmt.Errorf("geen producten met QR codes gevonden")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
