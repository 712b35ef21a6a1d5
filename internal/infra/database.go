package infra

import (
	"tiendapos/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewRemoteStore builds the GORM handle for the hosted Postgres store.
// Automatic ping is disabled on purpose: an unreachable remote must not stop
// the station from booting — the sync engine probes connectivity itself and
// degrades to offline mode. AutoMigrate is best-effort for the same reason;
// it reruns on the next process start.
func NewRemoteStore(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
		TranslateError:       true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)

	if err := db.AutoMigrate(
		&model.Producto{},
		&model.Pedido{},
		&model.Venta{},
	); err != nil {
		log.Warn().Err(err).Msg("remote store unreachable at boot, AutoMigrate skipped")
	}

	return db, nil
}
