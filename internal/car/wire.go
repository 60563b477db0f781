//go:build wireinject
// +build wireinject

package car

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	carhttp "github.com/tair/car-dealership/internal/car/delivery/http"
	"github.com/tair/car-dealership/internal/car/domain"
	"github.com/tair/car-dealership/internal/car/repository"
	"github.com/tair/car-dealership/kafka"
)

// ProvideMemoryCarRepository provides the in-memory car repository
func ProvideMemoryCarRepository() domain.CarRepository {
	return repository.NewMemoryCarRepository()
}

// ProvideGormCarRepository provides the Postgres-backed car repository
func ProvideGormCarRepository(db *gorm.DB) domain.CarRepository {
	return repository.NewGormCarRepository(db)
}

// Wire sets
var MemoryRepositorySet = wire.NewSet(
	ProvideMemoryCarRepository,
)

var GormRepositorySet = wire.NewSet(
	ProvideGormCarRepository,
)

// InitializeCarHandler initializes the HTTP handler over the in-memory store
func InitializeCarHandler(publisher *kafka.Publisher, cache *carhttp.ResponseCache) (*carhttp.CarHandler, error) {
	wire.Build(
		MemoryRepositorySet,
		carhttp.NewCarHandler,
	)
	return nil, nil
}

// InitializeGormCarHandler initializes the HTTP handler over Postgres
func InitializeGormCarHandler(db *gorm.DB, publisher *kafka.Publisher, cache *carhttp.ResponseCache) (*carhttp.CarHandler, error) {
	wire.Build(
		GormRepositorySet,
		carhttp.NewCarHandler,
	)
	return nil, nil
}
