package qrcode

import (
	"encoding/json"
	"testing"

	"elogbook/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
		{"Default size", 0, "M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewQRCodeService(tt.size, tt.errorCorrectionLevel, "")
			assert.NotNil(t, svc)
		})
	}
}

func TestQRCodeService_GenerateVisitPass(t *testing.T) {
	svc := NewQRCodeService(256, "M", "http://localhost:8080/")

	pngBytes, err := svc.GenerateVisitPass(&service.VisitPass{VisitID: 3, Visitor: "Eduardo Bautista", Date: "2024-01-15"})
	require.NoError(t, err)
	require.Greater(t, len(pngBytes), 4)

	// PNG magic number
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, pngBytes[:4])
}

func TestQRCodeService_GenerateVisitPass_RequiresID(t *testing.T) {
	svc := NewQRCodeService(256, "M", "")

	_, err := svc.GenerateVisitPass(&service.VisitPass{})
	assert.Error(t, err)

	_, err = svc.GenerateVisitPass(nil)
	assert.Error(t, err)
}

func TestQRCodeService_ParseVisitPass(t *testing.T) {
	svc := NewQRCodeService(256, "M", "")

	payload, err := json.Marshal(service.VisitPass{VisitID: 7, Visitor: "Ricardo Torres", Date: "2024-01-13", Type: "visit_pass"})
	require.NoError(t, err)

	pass, err := svc.ParseVisitPass(string(payload))
	require.NoError(t, err)
	assert.Equal(t, 7, pass.VisitID)
	assert.Equal(t, "Ricardo Torres", pass.Visitor)
}

func TestQRCodeService_ParseVisitPass_Invalid(t *testing.T) {
	svc := NewQRCodeService(256, "M", "")

	tests := []struct {
		name string
		data string
	}{
		{"Invalid JSON", "not json"},
		{"Wrong type", `{"visit_id":1,"type":"subscription"}`},
		{"Missing id", `{"type":"visit_pass"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ParseVisitPass(tt.data)
			assert.Error(t, err)
		})
	}
}
