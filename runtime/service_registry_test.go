package runtime

import (
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	status  error
	stopErr error
	started sync.WaitGroup
	stopped bool
	order   *[]string
}

type secondMockService struct {
	status error
	order  *[]string
}

func (m *mockService) Start() {
	m.started.Done()
}

func (m *mockService) Stop() error {
	m.stopped = true
	if m.order != nil {
		*m.order = append(*m.order, "first")
	}
	return m.stopErr
}

func (m *mockService) Status() error {
	return m.status
}

func (*secondMockService) Start() {
}

func (s *secondMockService) Stop() error {
	if s.order != nil {
		*s.order = append(*s.order, "second")
	}
	return nil
}

func (s *secondMockService) Status() error {
	return s.status
}

func newMockService() *mockService {
	m := &mockService{}
	m.started.Add(1)
	return m
}

func TestRegisterService_Twice(t *testing.T) {
	registry := NewServiceRegistry()

	m := newMockService()
	require.NoError(t, registry.RegisterService(m), "Failed to register first service")

	require.Equal(t, 1, len(registry.serviceTypes))
	assert.ErrorContains(t, registry.RegisterService(m), "service already exists")
}

func TestRegisterService_Different(t *testing.T) {
	registry := NewServiceRegistry()

	m := newMockService()
	s := &secondMockService{}
	require.NoError(t, registry.RegisterService(m))
	require.NoError(t, registry.RegisterService(s))

	require.Equal(t, 2, len(registry.serviceTypes))
	_, exists := registry.services[reflect.TypeOf(m)]
	assert.True(t, exists, "service of type %v not registered", reflect.TypeOf(m))
	_, exists = registry.services[reflect.TypeOf(s)]
	assert.True(t, exists, "service of type %v not registered", reflect.TypeOf(s))
}

func TestRegisterService_Nil(t *testing.T) {
	registry := NewServiceRegistry()
	assert.ErrorContains(t, registry.RegisterService(nil), "cannot register nil service")
}

func TestRegisterService_AfterStart(t *testing.T) {
	registry := NewServiceRegistry()
	m := newMockService()
	require.NoError(t, registry.RegisterService(m))

	registry.StartAll()
	m.started.Wait()

	assert.ErrorIs(t, registry.RegisterService(&secondMockService{}), ErrRegistryStarted)
}

func TestFetchService_OK(t *testing.T) {
	registry := NewServiceRegistry()

	m := newMockService()
	require.NoError(t, registry.RegisterService(m))

	assert.ErrorContains(t, registry.FetchService(m.status), "input must be of pointer type")

	var s *secondMockService
	assert.ErrorContains(t, registry.FetchService(&s), "unknown service")

	var m2 *mockService
	require.NoError(t, registry.FetchService(&m2))
	require.Same(t, m, m2)
}

func TestStopAll_ReverseOrder(t *testing.T) {
	registry := NewServiceRegistry()
	var order []string
	m := newMockService()
	m.order = &order
	require.NoError(t, registry.RegisterService(m))
	require.NoError(t, registry.RegisterService(&secondMockService{order: &order}))

	require.NoError(t, registry.StopAll())
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestStopAll_ReturnsFailure(t *testing.T) {
	registry := NewServiceRegistry()
	var order []string
	m := newMockService()
	m.order = &order
	m.stopErr = errors.New("db locked")
	require.NoError(t, registry.RegisterService(&secondMockService{order: &order}))
	require.NoError(t, registry.RegisterService(m))

	err := registry.StopAll()
	require.ErrorContains(t, err, "db locked")
	assert.Equal(t, []string{"first", "second"}, order, "a failing service must not stop the others from stopping")
}

func TestServiceStatus_OK(t *testing.T) {
	registry := NewServiceRegistry()

	m := newMockService()
	require.NoError(t, registry.RegisterService(m))
	s := &secondMockService{}
	require.NoError(t, registry.RegisterService(s))

	m.status = errors.New("something bad has happened")
	s.status = errors.New("woah, horsee")

	statuses := registry.Statuses()
	assert.ErrorContains(t, statuses[reflect.TypeOf(m)], "something bad has happened")
	assert.ErrorContains(t, statuses[reflect.TypeOf(s)], "woah, horsee")
}

func TestUnhealthy(t *testing.T) {
	registry := NewServiceRegistry()
	m := newMockService()
	s := &secondMockService{}
	require.NoError(t, registry.RegisterService(m))
	require.NoError(t, registry.RegisterService(s))
	assert.Empty(t, registry.Unhealthy())

	s.status = errors.New("offline")
	assert.Equal(t, []string{"*runtime.secondMockService"}, registry.Unhealthy())
}
