package service

import (
	"testing"

	"elogbook/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockQRCodeService is a mock of service.QRCodeService.
type MockQRCodeService struct {
	mock.Mock
}

// NewMockQRCodeService creates a mock that asserts its expectations when t finishes.
func NewMockQRCodeService(t *testing.T) *MockQRCodeService {
	m := &MockQRCodeService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockQRCodeService) GenerateVisitPass(pass *service.VisitPass) ([]byte, error) {
	args := m.Called(pass)

	var png []byte
	if v := args.Get(0); v != nil {
		png = v.([]byte)
	}

	return png, args.Error(1)
}

func (m *MockQRCodeService) ParseVisitPass(qrData string) (*service.VisitPass, error) {
	args := m.Called(qrData)

	var pass *service.VisitPass
	if v := args.Get(0); v != nil {
		pass = v.(*service.VisitPass)
	}

	return pass, args.Error(1)
}
