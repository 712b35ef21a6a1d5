package main

// seedcatalog loads a small demo catalog into the remote store, upserting by
// barcode so reruns are safe.

import (
	"os"
	"time"

	"tiendapos/internal/config"
	"tiendapos/internal/infra"
	"tiendapos/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewRemoteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open remote store handle")
	}

	productos := []model.Producto{
		{CodigoBarras: "7791234567890", Nombre: "Yerba Mate 1kg", Precio: decimal.NewFromFloat(4850.00), Stock: 40},
		{CodigoBarras: "7790040113204", Nombre: "Galletitas Surtidas 400g", Precio: decimal.NewFromFloat(1790.50), Stock: 60},
		{CodigoBarras: "7790895000997", Nombre: "Gaseosa Cola 2.25L", Precio: decimal.NewFromFloat(2990.00), Stock: 24},
		{CodigoBarras: "7791813421109", Nombre: "Arroz Largo Fino 1kg", Precio: decimal.NewFromFloat(1450.00), Stock: 35},
		{CodigoBarras: "7792180001238", Nombre: "Aceite de Girasol 900ml", Precio: decimal.NewFromFloat(2350.75), Stock: 18},
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "codigo_barras"}},
		DoUpdates: clause.AssignmentColumns([]string{"nombre", "precio", "stock"}),
	}).Create(&productos)
	if result.Error != nil {
		log.Fatal().Err(result.Error).Msg("seed failed")
	}
	log.Info().Int64("productos", result.RowsAffected).Msg("catalogo demo cargado")
}
