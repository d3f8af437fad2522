package service

import (
	"testing"
	"time"

	"minibar/internal/catalog"
	"minibar/internal/model"
	"minibar/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSessions is a mock implementation of Sessions.
type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) Open(room string) (*session.Session, error) {
	args := m.Called(room)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessions) Get(room string) *session.Session {
	args := m.Called(room)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*session.Session)
}

var testNow = time.Date(2025, 9, 3, 10, 7, 0, 0, time.UTC)

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(catalog.Default())
	require.NoError(t, err)
	return c
}

// newTestRegistry returns a registry with room 0808 already signed in.
func newTestRegistry(t *testing.T, c *catalog.Catalog) *session.Registry {
	t.Helper()
	reg := session.NewRegistry(c.Products(), zerolog.Nop())
	reg.SetClock(func() time.Time { return testNow })
	_, err := reg.Open("0808")
	require.NoError(t, err)
	return reg
}

func productNamed(t *testing.T, c *catalog.Catalog, name string) model.Product {
	t.Helper()
	for _, p := range c.Products() {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("product %q not in catalog", name)
	return model.Product{}
}
