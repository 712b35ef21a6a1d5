// Package sincro owns the single online/offline mode decision and keeps the
// local mirror eventually consistent with the remote store. Every CRUD
// operation follows the same dual-path policy: try the remote when online and
// mirror the result; degrade to the mirror (reads) or the pending queue
// (product writes) when the remote fails or the station is offline.
package sincro

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"tiendapos/internal/config"
	"tiendapos/internal/mirror"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	// ErrNoDisponibleOffline marks operations that depend on server-generated
	// identifiers or aggregate views the station cannot fabricate locally.
	ErrNoDisponibleOffline = errors.New("operacion no disponible sin conexion")

	// ErrEncolado wraps a remote write failure whose change was queued for
	// replay. Callers may treat the local mutation as a provisional success.
	ErrEncolado = errors.New("cambio encolado para sincronizar")

	// ErrNoEncontrado is the lookup miss for both remote and mirror reads.
	ErrNoEncontrado = errors.New("recurso no encontrado")
)

const probeTimeout = 3 * time.Second

// Engine presents the dual-path data access used by the operations layer.
type Engine struct {
	cfg       *config.Config
	productos repository.ProductoRepository
	pedidos   repository.PedidoRepository
	ventas    repository.VentaRepository
	espejo    *mirror.Store
	rdb       *redis.Client

	online atomic.Bool

	replayMu   sync.Mutex
	mu         sync.Mutex
	baseCtx    context.Context
	retry      *time.Timer
	subs       []func(Evento)
	escuchando bool
}

func New(cfg *config.Config, productos repository.ProductoRepository, pedidos repository.PedidoRepository,
	ventas repository.VentaRepository, espejo *mirror.Store, rdb *redis.Client) *Engine {
	return &Engine{
		cfg:       cfg,
		productos: productos,
		pedidos:   pedidos,
		ventas:    ventas,
		espejo:    espejo,
		rdb:       rdb,
	}
}

// Online reports the current mode decision.
func (e *Engine) Online() bool { return e.online.Load() }

// Inicializar probes the remote store and sets the mode. When the probe
// succeeds it refreshes the mirror, replays the pending queue and starts the
// push-notification listener; when it fails it arms the periodic reconnect
// timer. Probe failure is never fatal.
func (e *Engine) Inicializar(ctx context.Context) {
	e.mu.Lock()
	e.baseCtx = ctx
	e.mu.Unlock()

	if e.cfg.DatabaseURL == "" {
		log.Warn().Msg("sincro: sin credenciales de remote store, modo offline")
		e.marcarOffline()
		return
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	err := e.productos.Ping(probeCtx)
	cancel()
	if err != nil {
		log.Warn().Err(err).Msg("sincro: remote store inalcanzable, modo offline")
		e.marcarOffline()
		return
	}

	e.online.Store(true)
	log.Info().Msg("sincro: conectado al remote store")

	if replayed, failed := e.ReplayPendientes(ctx); replayed+failed > 0 {
		log.Info().Int("replayed", replayed).Int("failed", failed).Msg("sincro: cola pendiente procesada")
	}
	e.refrescarEspejo(ctx)
	e.iniciarEscucha(ctx)
}

// marcarOffline flips the mode and arms the single-shot reconnect timer.
// The timer rearms itself through Inicializar until a probe succeeds, and
// never overlaps with itself.
func (e *Engine) marcarOffline() {
	e.online.Store(false)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.retry != nil {
		return
	}
	interval := time.Duration(e.cfg.SyncRetrySegundos) * time.Second
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ctx := e.baseCtx
	e.retry = time.AfterFunc(interval, func() {
		e.mu.Lock()
		e.retry = nil
		e.mu.Unlock()
		if ctx != nil && ctx.Err() != nil {
			return
		}
		e.Inicializar(ctx)
	})
}

// refrescarEspejo replaces the mirror contents with the remote product list.
func (e *Engine) refrescarEspejo(ctx context.Context) {
	productos, err := e.productos.Listar(ctx)
	if err != nil {
		log.Error().Err(err).Msg("sincro: no se pudo refrescar el espejo")
		return
	}
	if err := e.espejo.GuardarProductos(ctx, productos); err != nil {
		log.Error().Err(err).Msg("sincro: no se pudo guardar el espejo")
		return
	}
	_ = e.espejo.MarcarSync(ctx, time.Now())
}

// ── Product reads ─────────────────────────────────────────────────────────────

// ListarProductos returns the catalog: remote when online (mirroring the
// result), best-effort mirror otherwise.
func (e *Engine) ListarProductos(ctx context.Context) ([]model.Producto, error) {
	if e.Online() {
		productos, err := e.productos.Listar(ctx)
		if err == nil {
			if mErr := e.espejo.GuardarProductos(ctx, productos); mErr == nil {
				_ = e.espejo.MarcarSync(ctx, time.Now())
			}
			return productos, nil
		}
		log.Warn().Err(err).Msg("sincro: lectura remota fallo, sirviendo espejo")
		e.marcarOffline()
	}
	return e.espejo.Productos(ctx)
}

// ObtenerProducto looks a product up by id.
func (e *Engine) ObtenerProducto(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	if e.Online() {
		p, err := e.productos.PorID(ctx, id)
		if err == nil {
			_ = e.espejo.GuardarProducto(ctx, *p)
			return p, nil
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		log.Warn().Err(err).Msg("sincro: lectura remota fallo, sirviendo espejo")
		e.marcarOffline()
	}
	productos, err := e.espejo.Productos(ctx)
	if err != nil {
		return nil, err
	}
	for i := range productos {
		if productos[i].ID == id {
			return &productos[i], nil
		}
	}
	return nil, ErrNoEncontrado
}

// ObtenerPorBarcode looks a product up by its unique barcode.
func (e *Engine) ObtenerPorBarcode(ctx context.Context, codigo string) (*model.Producto, error) {
	if e.Online() {
		p, err := e.productos.PorBarcode(ctx, codigo)
		if err == nil {
			_ = e.espejo.GuardarProducto(ctx, *p)
			return p, nil
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		log.Warn().Err(err).Msg("sincro: lectura remota fallo, sirviendo espejo")
		e.marcarOffline()
	}
	productos, err := e.espejo.Productos(ctx)
	if err != nil {
		return nil, err
	}
	for i := range productos {
		if productos[i].CodigoBarras == codigo {
			return &productos[i], nil
		}
	}
	return nil, ErrNoEncontrado
}

// ── Product writes (queueable) ────────────────────────────────────────────────

// CrearProducto inserts a product. Offline inserts receive a locally
// generated UUID that becomes permanent on replay, which also makes replaying
// the same insert twice converge (the second attempt hits the primary key).
func (e *Engine) CrearProducto(ctx context.Context, p *model.Producto) error {
	if e.Online() {
		if err := e.productos.Crear(ctx, p); err != nil {
			e.marcarOffline()
			e.encolar(ctx, model.OpInsert, p)
			return errors.Join(ErrEncolado, err)
		}
		_ = e.espejo.GuardarProducto(ctx, *p)
		e.publicar(ctx, Evento{Tipo: EventoProductoCambiado, Operacion: model.OpInsert, Producto: p, EmitidoEn: time.Now()})
		return nil
	}

	// Temporary local id, permanent once replayed.
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	if err := e.espejo.GuardarProducto(ctx, *p); err != nil {
		return err
	}
	e.encolar(ctx, model.OpInsert, p)
	return nil
}

// ActualizarProducto saves the full product row (last writer wins).
func (e *Engine) ActualizarProducto(ctx context.Context, p *model.Producto) error {
	if e.Online() {
		if err := e.productos.Actualizar(ctx, p); err != nil {
			e.marcarOffline()
			e.encolar(ctx, model.OpUpdate, p)
			return errors.Join(ErrEncolado, err)
		}
		_ = e.espejo.GuardarProducto(ctx, *p)
		e.publicar(ctx, Evento{Tipo: EventoProductoCambiado, Operacion: model.OpUpdate, Producto: p, EmitidoEn: time.Now()})
		return nil
	}

	if err := e.espejo.GuardarProducto(ctx, *p); err != nil {
		return err
	}
	e.encolar(ctx, model.OpUpdate, p)
	return nil
}

// EliminarProducto removes a product row.
func (e *Engine) EliminarProducto(ctx context.Context, id uuid.UUID) error {
	if e.Online() {
		if err := e.productos.Eliminar(ctx, id); err != nil {
			e.marcarOffline()
			e.encolar(ctx, model.OpDelete, &model.Producto{ID: id})
			return errors.Join(ErrEncolado, err)
		}
		_ = e.espejo.QuitarProducto(ctx, id)
		e.publicar(ctx, Evento{Tipo: EventoProductoCambiado, Operacion: model.OpDelete, Producto: &model.Producto{ID: id}, EmitidoEn: time.Now()})
		return nil
	}

	if err := e.espejo.QuitarProducto(ctx, id); err != nil {
		return err
	}
	e.encolar(ctx, model.OpDelete, &model.Producto{ID: id})
	return nil
}

// DescontarStockLote subtracts stock for every line in one remote call.
// Only the online fulfillment/sale sequences use it, so offline it is
// rejected rather than queued.
func (e *Engine) DescontarStockLote(ctx context.Context, ajustes []repository.AjusteStock) error {
	if !e.Online() {
		return ErrNoDisponibleOffline
	}
	if err := e.productos.DescontarLote(ctx, ajustes); err != nil {
		return err
	}
	for _, a := range ajustes {
		if p, err := e.productos.PorID(ctx, a.ProductoID); err == nil {
			_ = e.espejo.GuardarProducto(ctx, *p)
			e.publicar(ctx, Evento{Tipo: EventoProductoCambiado, Operacion: model.OpUpdate, Producto: p, EmitidoEn: time.Now()})
		}
	}
	return nil
}

// ── Orders / sales / report (online only) ────────────────────────────────────

// CrearPedido records a public-catalog order. The id and creation timestamp
// are server-assigned, so there is no offline path.
func (e *Engine) CrearPedido(ctx context.Context, p *model.Pedido) error {
	if !e.Online() {
		return ErrNoDisponibleOffline
	}
	if err := e.pedidos.Crear(ctx, p); err != nil {
		e.marcarOffline()
		return err
	}
	e.publicar(ctx, Evento{Tipo: EventoPedidoCreado, Operacion: model.OpInsert, Pedido: p, EmitidoEn: time.Now()})
	return nil
}

func (e *Engine) ObtenerPedido(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	if !e.Online() {
		return nil, ErrNoDisponibleOffline
	}
	p, err := e.pedidos.PorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		e.marcarOffline()
		return nil, err
	}
	return p, nil
}

func (e *Engine) ListarPedidos(ctx context.Context, estado string) ([]model.Pedido, error) {
	if !e.Online() {
		return nil, ErrNoDisponibleOffline
	}
	return e.pedidos.Listar(ctx, estado)
}

// ActualizarEstadoPedido moves a pedido out of pendiente. Transition
// violations are business errors and do not affect the mode decision.
func (e *Engine) ActualizarEstadoPedido(ctx context.Context, id uuid.UUID, estado string) error {
	if !e.Online() {
		return ErrNoDisponibleOffline
	}
	err := e.pedidos.ActualizarEstado(ctx, id, estado)
	if err != nil && !errors.Is(err, repository.ErrTransicionInvalida) {
		e.marcarOffline()
	}
	return err
}

// CrearVenta appends a sale record. Sales are never queued: their ids and
// timestamps are server-assigned.
func (e *Engine) CrearVenta(ctx context.Context, v *model.Venta) error {
	if !e.Online() {
		return ErrNoDisponibleOffline
	}
	if err := e.ventas.Crear(ctx, v); err != nil {
		e.marcarOffline()
		return err
	}
	return nil
}

// VentasPorRango reads sales in [desde, hasta) for report aggregation, which
// needs the cross-device view only the remote store has.
func (e *Engine) VentasPorRango(ctx context.Context, desde, hasta time.Time) ([]model.Venta, error) {
	if !e.Online() {
		return nil, ErrNoDisponibleOffline
	}
	return e.ventas.PorRango(ctx, desde, hasta)
}

// ── Pending queue ─────────────────────────────────────────────────────────────

func (e *Engine) encolar(ctx context.Context, op string, p *model.Producto) {
	cambio := model.CambioPendiente{Operacion: op, Producto: *p, EncoladoEn: time.Now()}
	if err := e.espejo.EncolarCambio(ctx, cambio); err != nil {
		log.Error().Err(err).Str("operacion", op).Msg("sincro: no se pudo encolar el cambio")
		return
	}
	log.Info().Str("operacion", op).Str("producto_id", p.ID.String()).Msg("sincro: cambio encolado")
}

// ReplayPendientes replays the queue in enqueue order against the remote
// store. Per-item errors are logged and swallowed; by default the failed
// items are retained for the next sweep (SYNC_PURGAR_FALLIDOS=true restores
// the historical clear-all behavior). Returns (replayed, failed).
//
// Sweeps are serialized and only the snapshotted prefix of the queue is
// trimmed, so a change enqueued by another goroutine mid-sweep is picked up
// by the next replay instead of being lost.
func (e *Engine) ReplayPendientes(ctx context.Context) (int, int) {
	e.replayMu.Lock()
	defer e.replayMu.Unlock()

	cambios, err := e.espejo.CambiosPendientes(ctx)
	if err != nil {
		log.Error().Err(err).Msg("sincro: no se pudo leer la cola pendiente")
		return 0, 0
	}
	if len(cambios) == 0 {
		return 0, 0
	}

	var fallidos []model.CambioPendiente
	replayed := 0
	for _, c := range cambios {
		var err error
		switch c.Operacion {
		case model.OpInsert:
			p := c.Producto
			err = e.productos.Crear(ctx, &p)
		case model.OpUpdate:
			p := c.Producto
			err = e.productos.Actualizar(ctx, &p)
		case model.OpDelete:
			err = e.productos.Eliminar(ctx, c.Producto.ID)
		default:
			err = fmt.Errorf("operacion desconocida %q", c.Operacion)
		}
		if err != nil {
			// A duplicated insert means the row already reached the remote
			// (an earlier sweep whose ack got lost, or the barcode is taken);
			// re-sending it can never succeed, so it converges instead of
			// pinning the queue forever.
			if c.Operacion == model.OpInsert && errors.Is(err, gorm.ErrDuplicatedKey) {
				log.Warn().Err(err).
					Str("producto_id", c.Producto.ID.String()).
					Msg("sincro: insert ya presente en el remoto, descartado")
				replayed++
				continue
			}
			log.Error().Err(err).
				Str("operacion", c.Operacion).
				Str("producto_id", c.Producto.ID.String()).
				Time("encolado_en", c.EncoladoEn).
				Msg("sincro: replay fallo")
			fallidos = append(fallidos, c)
			continue
		}
		replayed++
		p := c.Producto
		e.publicar(ctx, Evento{Tipo: EventoProductoCambiado, Operacion: c.Operacion, Producto: &p, EmitidoEn: time.Now()})
	}

	retenidos := fallidos
	if e.cfg.SyncPurgarFallidos {
		retenidos = nil
	}
	if err := e.espejo.RecortarCola(ctx, len(cambios), retenidos); err != nil {
		log.Error().Err(err).Msg("sincro: no se pudo recortar la cola")
	}
	return replayed, len(fallidos)
}

// ── Change bus ────────────────────────────────────────────────────────────────

// Suscribir registers a callback fired for every change notification, with no
// ordering guarantee beyond "after the local mirror reflects the change".
func (e *Engine) Suscribir(fn func(Evento)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, fn)
}

func (e *Engine) publicar(ctx context.Context, ev Evento) {
	canal := canalProductos
	if ev.Tipo == EventoPedidoCreado {
		canal = canalPedidos
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Msg("sincro: no se pudo serializar el evento")
		return
	}
	if err := e.rdb.Publish(ctx, canal, data).Err(); err != nil {
		log.Warn().Err(err).Str("canal", canal).Msg("sincro: publicacion fallo")
	}
}

// iniciarEscucha starts the push-notification listener exactly once.
func (e *Engine) iniciarEscucha(ctx context.Context) {
	e.mu.Lock()
	if e.escuchando {
		e.mu.Unlock()
		return
	}
	e.escuchando = true
	e.mu.Unlock()

	pubsub := e.rdb.Subscribe(ctx, canalProductos, canalPedidos)
	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Evento
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Error().Err(err).Str("canal", msg.Channel).Msg("sincro: evento ilegible")
					continue
				}
				e.aplicarEvento(ctx, ev)
				e.notificar(ev)
			}
		}
	}()
}

// aplicarEvento reflects a remote change into the local mirror before
// subscribers see it.
func (e *Engine) aplicarEvento(ctx context.Context, ev Evento) {
	if ev.Tipo != EventoProductoCambiado || ev.Producto == nil {
		return
	}
	switch ev.Operacion {
	case model.OpDelete:
		_ = e.espejo.QuitarProducto(ctx, ev.Producto.ID)
	default:
		_ = e.espejo.GuardarProducto(ctx, *ev.Producto)
	}
}

func (e *Engine) notificar(ev Evento) {
	e.mu.Lock()
	subs := make([]func(Evento), len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}
