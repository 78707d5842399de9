// Package printer produces the printable artifacts: QR code images,
// PDF label sheets and the label-printer export pack.
package printer

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/skip2/go-qrcode"
)

// GenerateQRValue builds a product code in the long format scanners in
// the warehouse already know: the first ten alphanumeric characters of
// the uppercased product name, an underscore and six random digits.
func GenerateQRValue(productName string) string {
	var prefix strings.Builder
	for _, r := range strings.ToUpper(productName) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			prefix.WriteRune(r)
			if prefix.Len() == 10 {
				break
			}
		}
	}
	return fmt.Sprintf("%s_%06d", prefix.String(), 100000+rand.Intn(900000))
}

// EncodeQRPNG renders the QR value as a PNG image.
func EncodeQRPNG(value string, size int) ([]byte, error) {
	if size <= 0 {
		size = 300
	}
	png, err := qrcode.Encode(value, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr %q: %w", value, err)
	}
	return png, nil
}
