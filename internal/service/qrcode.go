package core

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	models "inventario/admin/internal/model"
)

// qrPayload is the compact product summary encoded into the QR code,
// sized for quick reads from a phone.
type qrPayload struct {
	ID          int      `json:"id"`
	Nombre      string   `json:"nombre"`
	Precio      float64  `json:"precio"`
	Stock       int      `json:"stock"`
	Min         int      `json:"min"`
	Categorias  []string `json:"categorias,omitempty"`
	Proveedores []string `json:"proveedores,omitempty"`
	Loc         *string  `json:"loc,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// BuildProductQR renders a PNG data URL with the product's key fields.
func BuildProductQR(p *models.Product, categorias, proveedores []string, url string) (string, error) {
	payload := qrPayload{
		ID:          p.ID,
		Nombre:      p.Nombre,
		Precio:      p.Precio,
		Stock:       p.Stock,
		Min:         p.StockMinimo,
		Categorias:  categorias,
		Proveedores: proveedores,
		Loc:         p.Localizacion,
		URL:         url,
	}

	text, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal qr payload: %w", err)
	}

	// 256px renders comfortably on an A6 label.
	png, err := qrcode.Encode(string(text), qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
