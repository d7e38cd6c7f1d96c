// Package runtime manages the lifecycle of the long running services that
// make up an engine bridge node.
package runtime

import (
	"reflect"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "registry")

// ErrRegistryStarted is returned when a service is registered after StartAll.
var ErrRegistryStarted = errors.New("service registry already started")

// Service is a struct that can be registered into a ServiceRegistry for
// easy dependency management.
type Service interface {
	// Start spawns any goroutines required by the service.
	Start()
	// Stop terminates all goroutines belonging to the service,
	// blocking until they are all terminated.
	Stop() error
	// Status returns error if the service is not considered healthy.
	Status() error
}

// ServiceRegistry keeps one instance per service type, started in
// registration order and stopped in reverse.
type ServiceRegistry struct {
	lock         sync.RWMutex
	started      bool
	services     map[reflect.Type]Service
	serviceTypes []reflect.Type
}

// NewServiceRegistry returns an empty registry.
func NewServiceRegistry() *ServiceRegistry {
	return &ServiceRegistry{
		services: make(map[reflect.Type]Service),
	}
}

// StartAll launches each service in order of registration. Registration is
// closed from this point on.
func (s *ServiceRegistry) StartAll() {
	s.lock.Lock()
	s.started = true
	kinds := append([]reflect.Type(nil), s.serviceTypes...)
	s.lock.Unlock()

	log.Debugf("Starting %d services: %v", len(kinds), kinds)
	for _, kind := range kinds {
		log.WithField("service", kind.String()).Debug("Starting service")
		go s.services[kind].Start()
	}
}

// StopAll ends every service in reverse order of registration. Failures are
// logged and the first one is returned after every service had a chance to stop.
func (s *ServiceRegistry) StopAll() error {
	s.lock.RLock()
	kinds := append([]reflect.Type(nil), s.serviceTypes...)
	s.lock.RUnlock()

	var firstErr error
	for i := len(kinds) - 1; i >= 0; i-- {
		kind := kinds[i]
		if err := s.services[kind].Stop(); err != nil {
			log.WithError(err).Errorf("Could not stop the following service: %v", kind)
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "could not stop %v", kind)
			}
		}
	}
	return firstErr
}

// Statuses returns a map of Service type -> error. The map will be populated
// with the results of each service.Status() method call.
func (s *ServiceRegistry) Statuses() map[reflect.Type]error {
	s.lock.RLock()
	defer s.lock.RUnlock()
	m := make(map[reflect.Type]error, len(s.serviceTypes))
	for _, kind := range s.serviceTypes {
		m[kind] = s.services[kind].Status()
	}
	return m
}

// Unhealthy returns the sorted type names of services whose Status is not nil.
func (s *ServiceRegistry) Unhealthy() []string {
	var names []string
	for kind, err := range s.Statuses() {
		if err != nil {
			names = append(names, kind.String())
		}
	}
	sort.Strings(names)
	return names
}

// RegisterService adds a service to the registry. Each concrete type can be
// registered once and only before StartAll.
func (s *ServiceRegistry) RegisterService(service Service) error {
	if service == nil {
		return errors.New("cannot register nil service")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.started {
		return ErrRegistryStarted
	}
	kind := reflect.TypeOf(service)
	if _, exists := s.services[kind]; exists {
		return errors.Errorf("service already exists: %v", kind)
	}
	s.services[kind] = service
	s.serviceTypes = append(s.serviceTypes, kind)
	return nil
}

// FetchService takes in a struct pointer and sets the value of that pointer
// to a service currently stored in the service registry. This ensures the input argument is
// set to the right pointer that refers to the originally registered service.
func (s *ServiceRegistry) FetchService(service interface{}) error {
	if service == nil || reflect.TypeOf(service).Kind() != reflect.Ptr {
		return errors.Errorf("input must be of pointer type, received value type instead: %T", service)
	}
	element := reflect.ValueOf(service).Elem()
	s.lock.RLock()
	running, ok := s.services[element.Type()]
	s.lock.RUnlock()
	if !ok {
		return errors.Errorf("unknown service: %T", service)
	}
	element.Set(reflect.ValueOf(running))
	return nil
}
