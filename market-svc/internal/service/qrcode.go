package service

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(orderID int) ([]byte, error)
}

type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(orderID int) ([]byte, error) {
	return qrcode.Encode(g.ReceiptURL(orderID), qrcode.Medium, 256)
}

func (g DefaultQRGenerator) ReceiptURL(orderID int) string {
	return fmt.Sprintf("%s/orders/%d", g.BaseURL, orderID)
}
