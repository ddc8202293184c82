package hwkey

import (
	"context"

	"github.com/pth-demo-orga/trusty-lib/interfaces"
	"github.com/stretchr/testify/mock"
)

// MockKeystore mocks the interfaces.Keystore interface
type MockKeystore struct {
	mock.Mock
}

// Open mocks the Open method
func (m *MockKeystore) Open(ctx context.Context) (interfaces.KeystoreSession, error) {
	args := m.Called(ctx)
	session, _ := args.Get(0).(interfaces.KeystoreSession)
	return session, args.Error(1)
}

// MockKeystoreSession mocks the interfaces.KeystoreSession interface
type MockKeystoreSession struct {
	mock.Mock
}

// GetKeyslotData mocks the GetKeyslotData method
func (m *MockKeystoreSession) GetKeyslotData(slot interfaces.KeyslotID, dest []byte) (int, error) {
	args := m.Called(slot, dest)
	return args.Int(0), args.Error(1)
}

// Close mocks the Close method
func (m *MockKeystoreSession) Close() error {
	args := m.Called()
	return args.Error(0)
}
