package printer

import (
	"archive/zip"
	"bytes"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/dematic-gent/prodreg/internal/models"
)

func TestGenerateQRValueFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{0,10}_\d{6}$`)
	cases := []struct {
		name   string
		prefix string
	}{
		{"Interflon Metal Clean spray 500ml", "INTERFLONM"},
		{"Fin Super", "FINSUPER"},
		{"", ""},
	}
	for _, tc := range cases {
		got := GenerateQRValue(tc.name)
		if !pattern.MatchString(got) {
			t.Errorf("GenerateQRValue(%q) = %q, bad format", tc.name, got)
		}
		if !strings.HasPrefix(got, tc.prefix+"_") {
			t.Errorf("GenerateQRValue(%q) = %q, want prefix %q", tc.name, got, tc.prefix)
		}
	}
}

func TestEncodeQRPNG(t *testing.T) {
	png, err := EncodeQRPNG("IFLS001_123456", 0)
	if err != nil {
		t.Fatalf("EncodeQRPNG failed: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestGenerateLabelsPDF(t *testing.T) {
	products := []models.Product{
		{ID: "1", Name: "Interflon Fin Super", QRCode: "IFMK006"},
		{ID: "2", Name: "Zonder Code"},
	}
	pdf, err := GenerateLabelsPDF(products)
	if err != nil {
		t.Fatalf("GenerateLabelsPDF failed: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestGenerateLabelsPDFNoCodes(t *testing.T) {
	if _, err := GenerateLabelsPDF([]models.Product{{ID: "1", Name: "Zonder Code"}}); err == nil {
		t.Error("expected an error when no product has a QR code")
	}
}

func TestGenerateLabelPackContents(t *testing.T) {
	products := []models.Product{
		{ID: "1", Name: "Interflon Fin Super", QRCode: "IFMK006"},
		{ID: "2", Name: "Zonder Code"},
	}
	data, err := GenerateLabelPack(products, "Tom Peckstadt")
	if err != nil {
		t.Fatalf("GenerateLabelPack failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a zip: %v", err)
	}
	contents := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		raw, _ := io.ReadAll(rc)
		rc.Close()
		contents[f.Name] = string(raw)
	}

	csvData, ok := contents["qr_labels_data.csv"]
	if !ok {
		t.Fatal("qr_labels_data.csv missing from pack")
	}
	if !strings.Contains(csvData, "ProductNaam") || !strings.Contains(csvData, "IFMK006") {
		t.Errorf("label csv incomplete:\n%s", csvData)
	}
	if strings.Contains(csvData, "Zonder Code") {
		t.Error("product without QR code must be skipped")
	}

	instructions, ok := contents["INSTRUCTIES_ATP300_Pro.txt"]
	if !ok {
		t.Fatal("instruction sheet missing from pack")
	}
	if !strings.Contains(instructions, "AANTAL LABELS: 1") || !strings.Contains(instructions, "Tom Peckstadt") {
		t.Error("instruction sheet incomplete")
	}

	if zpl, ok := contents["zebra_template.zpl"]; !ok || !strings.Contains(zpl, "^XA") {
		t.Error("zebra template missing or invalid")
	}
}
