package services

import (
	"fmt"
	"slices"

	"github.com/architeacher/records/services/svc-records/internal/domain/model"
	"github.com/architeacher/records/services/svc-records/internal/ports"
)

// Directory holds one RecordsService per registered entity. It is filled at
// startup and only read afterwards.
type Directory struct {
	services map[string]ports.RecordsService
}

func NewDirectory(services ...ports.RecordsService) (*Directory, error) {
	directory := &Directory{services: make(map[string]ports.RecordsService, len(services))}

	for _, service := range services {
		name := service.Entity().EntityName()
		if _, ok := directory.services[name]; ok {
			return nil, fmt.Errorf("entity %q registered twice", name)
		}

		directory.services[name] = service
	}

	return directory, nil
}

func (d *Directory) Service(entity string) (ports.RecordsService, error) {
	service, ok := d.services[entity]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownEntity, entity)
	}

	return service, nil
}

func (d *Directory) Entities() []string {
	names := make([]string, 0, len(d.services))
	for name := range d.services {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
