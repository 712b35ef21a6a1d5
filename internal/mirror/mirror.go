// Package mirror is the station-local persistence layer: a Redis-backed
// key-value store holding the product cache, the pending-change queue, the
// cart, and a handful of UI/session flags. Pure data access — policy lives in
// the sync engine and the services.
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tiendapos/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Fixed storage keys.
const (
	claveProductos  = "espejo:productos"
	claveUltimaSync = "espejo:ultima_sync"
	claveCola       = "espejo:cambios_pendientes"
	claveCarrito    = "espejo:carrito"
	claveTabActiva  = "espejo:tab_activa"
	claveSesion     = "sesion:admin"
)

type Store struct{ rdb *redis.Client }

func NewStore(rdb *redis.Client) *Store { return &Store{rdb: rdb} }

// ── Product cache ─────────────────────────────────────────────────────────────

func (s *Store) GuardarProductos(ctx context.Context, productos []model.Producto) error {
	data, err := json.Marshal(productos)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, claveProductos, data, 0).Err()
}

// Productos returns the cached product list. A missing key is an empty
// mirror, not an error.
func (s *Store) Productos(ctx context.Context) ([]model.Producto, error) {
	data, err := s.rdb.Get(ctx, claveProductos).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var productos []model.Producto
	if err := json.Unmarshal(data, &productos); err != nil {
		return nil, err
	}
	return productos, nil
}

// GuardarProducto inserts or replaces one product in the cached list.
func (s *Store) GuardarProducto(ctx context.Context, p model.Producto) error {
	productos, err := s.Productos(ctx)
	if err != nil {
		return err
	}
	reemplazado := false
	for i := range productos {
		if productos[i].ID == p.ID {
			productos[i] = p
			reemplazado = true
			break
		}
	}
	if !reemplazado {
		productos = append(productos, p)
	}
	return s.GuardarProductos(ctx, productos)
}

// QuitarProducto removes one product from the cached list. Removing an absent
// id is a no-op.
func (s *Store) QuitarProducto(ctx context.Context, id uuid.UUID) error {
	productos, err := s.Productos(ctx)
	if err != nil {
		return err
	}
	filtrados := productos[:0]
	for _, p := range productos {
		if p.ID != id {
			filtrados = append(filtrados, p)
		}
	}
	return s.GuardarProductos(ctx, filtrados)
}

func (s *Store) MarcarSync(ctx context.Context, t time.Time) error {
	return s.rdb.Set(ctx, claveUltimaSync, t.UTC().Format(time.RFC3339), 0).Err()
}

func (s *Store) UltimaSync(ctx context.Context) (time.Time, error) {
	val, err := s.rdb.Get(ctx, claveUltimaSync).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, val)
}

// ── Pending-change queue ──────────────────────────────────────────────────────

// EncolarCambio appends one change to the tail of the FIFO queue.
func (s *Store) EncolarCambio(ctx context.Context, c model.CambioPendiente) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.rdb.RPush(ctx, claveCola, data).Err()
}

// CambiosPendientes returns the full queue in enqueue order.
func (s *Store) CambiosPendientes(ctx context.Context) ([]model.CambioPendiente, error) {
	raw, err := s.rdb.LRange(ctx, claveCola, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	cambios := make([]model.CambioPendiente, 0, len(raw))
	for _, item := range raw {
		var c model.CambioPendiente
		if err := json.Unmarshal([]byte(item), &c); err != nil {
			return nil, err
		}
		cambios = append(cambios, c)
	}
	return cambios, nil
}

// RecortarCola drops the first leidos entries (a replay snapshot) and pushes
// the retained failures back to the head, in order. Changes enqueued while
// the snapshot was being processed sit past the leidos boundary and survive
// the trim untouched.
func (s *Store) RecortarCola(ctx context.Context, leidos int, fallidos []model.CambioPendiente) error {
	pipe := s.rdb.TxPipeline()
	pipe.LTrim(ctx, claveCola, int64(leidos), -1)
	for i := len(fallidos) - 1; i >= 0; i-- {
		data, err := json.Marshal(fallidos[i])
		if err != nil {
			return err
		}
		pipe.LPush(ctx, claveCola, data)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// ── Cart ──────────────────────────────────────────────────────────────────────

func (s *Store) GuardarCarrito(ctx context.Context, items []model.ItemCarrito) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, claveCarrito, data, 0).Err()
}

func (s *Store) Carrito(ctx context.Context) ([]model.ItemCarrito, error) {
	data, err := s.rdb.Get(ctx, claveCarrito).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var items []model.ItemCarrito
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ── UI / session flags ────────────────────────────────────────────────────────

func (s *Store) GuardarTabActiva(ctx context.Context, tab string) error {
	return s.rdb.Set(ctx, claveTabActiva, tab, 0).Err()
}

func (s *Store) TabActiva(ctx context.Context) (string, error) {
	val, err := s.rdb.Get(ctx, claveTabActiva).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

// GuardarSesionAdmin sets the transient admin session flag. The TTL keeps the
// flag from outliving a working day.
func (s *Store) GuardarSesionAdmin(ctx context.Context, ttl time.Duration) error {
	return s.rdb.Set(ctx, claveSesion, "1", ttl).Err()
}

func (s *Store) SesionAdmin(ctx context.Context) (bool, error) {
	_, err := s.rdb.Get(ctx, claveSesion).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) BorrarSesionAdmin(ctx context.Context) error {
	return s.rdb.Del(ctx, claveSesion).Err()
}
