package printer

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/dematic-gent/prodreg/internal/models"
)

// labelRow is one line of the ATP-300 Pro import file. Dimensions are
// millimeters: 50x30 labels with a 20mm QR code.
type labelRow struct {
	ProductNaam  string `csv:"ProductNaam"`
	QRCode       string `csv:"QRCode"`
	LabelBreedte string `csv:"LabelBreedte"`
	LabelHoogte  string `csv:"LabelHoogte"`
	QRGrootte    string `csv:"QRGrootte"`
}

// zebraTemplate is the ZPL skeleton for Zebra printers; the label
// software substitutes the placeholders per row.
const zebraTemplate = `^XA
^FO50,200^A0N,30,30^FD{ProductNaam}^FS
^FO300,50^BQN,2,8^FDQA,{QRCode}^FS
^XZ`

// GenerateLabelPack bundles the label-printer export: the CSV data
// file, an operator instruction sheet for the ATP-300 Pro and a ZPL
// template, zipped together. Products without a QR code are skipped;
// adminName lands in the instruction sheet's contact section.
func GenerateLabelPack(products []models.Product, adminName string) ([]byte, error) {
	rows := make([]labelRow, 0, len(products))
	for _, p := range products {
		if p.QRCode == "" {
			continue
		}
		rows = append(rows, labelRow{
			ProductNaam:  p.Name,
			QRCode:       p.QRCode,
			LabelBreedte: "50",
			LabelHoogte:  "30",
			QRGrootte:    "20",
		})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("geen producten met QR codes gevonden")
	}

	csvContent, err := gocsv.MarshalString(&rows)
	if err != nil {
		return nil, fmt.Errorf("marshal label csv: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := []struct {
		name    string
		content string
	}{
		{"qr_labels_data.csv", csvContent},
		{"INSTRUCTIES_ATP300_Pro.txt", instructionSheet(len(rows), adminName)},
		{"zebra_template.zpl", zebraTemplate},
	}
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(f.content)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func instructionSheet(labelCount int, adminName string) string {
	now := time.Now()
	return fmt.Sprintf(`LABELPRINTER INSTRUCTIES - ATP-300 Pro van Altec
=================================================

BESTAND: qr_labels_data.csv
DATUM: %s
AANTAL LABELS: %d

PRINTER INSTELLINGEN ATP-300 Pro:
---------------------------------
- Label formaat: 50mm x 30mm
- QR code grootte: 20mm x 20mm
- Print snelheid: Medium (150mm/s)
- Print temperatuur: 200 graden C
- Label type: Thermisch transfer
- Ribbon type: Wax/Resin

STAPPEN VOOR ATP-300 PRO:
-------------------------
1. Installeer Altec LabelMark software
2. Open LabelMark en maak nieuwe template:
   - Label grootte: 50mm x 30mm
   - Voeg QR code object toe (20mm x 20mm)
   - Voeg tekst object toe voor productnaam
3. Importeer CSV bestand via "Data Import"
4. Koppel velden:
   - ProductNaam -> Tekst object
   - QRCode -> QR code object
5. Test print 1 label
6. Start batch print voor alle %d labels

ANDERE PRINTERS:
---------------
- Brother QL-serie: Gebruik Brother P-touch Editor
- Zebra ZD-serie: Gebruik ZebraDesigner (zie zebra_template.zpl)
- DYMO LabelWriter: Gebruik DYMO Connect

CSV FORMAAT:
-----------
Kolom 1: ProductNaam (tekst voor op label)
Kolom 2: QRCode (data voor QR code)
Kolom 3: LabelBreedte (50mm)
Kolom 4: LabelHoogte (30mm)
Kolom 5: QRGrootte (20mm)

TROUBLESHOOTING:
---------------
- QR codes niet leesbaar: Vergroot QRGrootte naar 25mm
- Tekst te klein: Gebruik font grootte 8-10pt
- Labels scheef: Controleer label uitlijning in printer
- Print kwaliteit slecht: Verhoog print temperatuur

DEMATIC CONTACT:
---------------
Voor vragen over dit systeem:
- IT Support: it-support@dematic.com
- Systeembeheer: %s

=================================================
Gegenereerd door Dematic Product Registratie App
%s
`, now.Format("02-01-2006"), labelCount, labelCount, adminName, now.Format("02-01-2006 15:04:05"))
}
