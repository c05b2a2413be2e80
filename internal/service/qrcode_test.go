package core

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	testutil "inventario/admin/internal/testing"
)

func TestBuildProductQR(t *testing.T) {
	p := testutil.NewFixtures().ValidProduct()

	qr, err := BuildProductQR(p, []string{"Tornillería"}, []string{"Ferretería Sur"}, "http://localhost:3000/productos/1")

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(qr, "data:image/png;base64,"))
	assert.Greater(t, len(qr), len("data:image/png;base64,"))
}

func TestQRPayloadShape(t *testing.T) {
	p := testutil.NewFixtures().ValidProduct()

	payload := qrPayload{
		ID:          p.ID,
		Nombre:      p.Nombre,
		Precio:      p.Precio,
		Stock:       p.Stock,
		Min:         p.StockMinimo,
		Categorias:  []string{"Tornillería"},
		Loc:         p.Localizacion,
		URL:         "http://localhost:3000/productos/1",
	}

	data, err := json.Marshal(payload)
	assert.NoError(t, err)

	var decoded map[string]interface{}
	assert.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, float64(1), decoded["id"])
	assert.Equal(t, "Tornillo M4", decoded["nombre"])
	assert.Equal(t, float64(20), decoded["min"])
	assert.Equal(t, "Almacén A", decoded["loc"])
	assert.NotContains(t, decoded, "proveedores", "empty lists are omitted")
}
