package init

import (
	"fmt"

	"github.com/go-arrower/hrsuite"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/domain"
	"github.com/go-arrower/hrsuite/contexts/attendance/internal/interfaces/repository"
	arepo "github.com/go-arrower/hrsuite/repository"
)

type repositories struct {
	offices  domain.OfficeRepository
	networks domain.NetworkRepository
	records  domain.RecordRepository
}

// newRepositories uses postgres, if it is configured.
// Otherwise, the data is kept in memory and, if a data dir is set, persisted as JSON files.
func newRepositories(di *hrsuite.Container) (repositories, error) {
	if di.PGx != nil {
		offices, err := repository.NewOfficePostgresRepository(di.PGx)
		if err != nil {
			return repositories{}, fmt.Errorf("could not create office repository: %w", err)
		}

		networks, err := repository.NewNetworkPostgresRepository(di.PGx)
		if err != nil {
			return repositories{}, fmt.Errorf("could not create network repository: %w", err)
		}

		records, err := repository.NewRecordPostgresRepository(di.PGx)
		if err != nil {
			return repositories{}, fmt.Errorf("could not create record repository: %w", err)
		}

		return repositories{offices: offices, networks: networks, records: records}, nil
	}

	var opts []arepo.Option

	if dir := di.Config.Attendance.DataDir; dir != "" {
		store, err := arepo.NewJSONStore(dir)
		if err != nil {
			return repositories{}, fmt.Errorf("could not open data dir: %w", err)
		}

		opts = append(opts, arepo.WithStore(store))
	}

	return repositories{
		offices:  repository.NewOfficeMemoryRepository(opts...),
		networks: repository.NewNetworkMemoryRepository(opts...),
		records:  repository.NewRecordMemoryRepository(opts...),
	}, nil
}
