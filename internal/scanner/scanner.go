// Package scanner turns a raw stream of key-press events into discrete
// scanned-code events while leaving ordinary typing unaffected. Hardware
// scanners emit a full code in well under 50ms per character and terminate it
// with Enter; humans rarely sustain gaps under 100ms. The classifier combines
// three signals — inter-key gap threshold, Enter-terminated burst, and a
// minimum code length — to tell the two apart without hardware integration.
package scanner

import (
	"strings"
	"sync"
	"time"
)

// Confirmar is the key that terminates a scanner burst.
const Confirmar = '\n'

// Tecla is one raw key-press event. Target names the UI control that held
// focus when the key fired; events aimed at any text input other than the
// designated search field are ignored so a scan burst cannot corrupt
// unrelated form fields.
type Tecla struct {
	Rune   rune
	At     time.Time
	Target string
}

// Config tunes the classifier thresholds.
type Config struct {
	MinLen        int           // minimum barcode length to emit
	MaxGap        time.Duration // max inter-key gap within one burst
	Timeout       time.Duration // buffer expiry when no further key arrives
	CampoBusqueda string        // the one input allowed to receive scans
}

// Clasificador accumulates keystrokes and emits completed codes.
type Clasificador struct {
	cfg    Config
	onScan func(codigo string)

	mu         sync.Mutex
	buffer     strings.Builder
	ultima     time.Time
	escaneando bool
	expiracion *time.Timer
	detenido   bool
}

// New builds a classifier. onScan may be nil; callers can also rely on the
// return values of Pulsar / Inyectar.
func New(cfg Config, onScan func(codigo string)) *Clasificador {
	if cfg.MinLen <= 0 {
		cfg.MinLen = 6
	}
	if cfg.MaxGap <= 0 {
		cfg.MaxGap = 100 * time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 300 * time.Millisecond
	}
	return &Clasificador{cfg: cfg, onScan: onScan}
}

// Pulsar feeds one key event. It returns the emitted code and true when the
// event completed a scan; otherwise ("", false). None of the paths fail:
// malformed or too-short input simply never emits.
func (c *Clasificador) Pulsar(ev Tecla) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.detenido {
		return "", false
	}

	// A focused input other than the search field swallows the event without
	// touching the buffer.
	if ev.Target != "" && ev.Target != c.cfg.CampoBusqueda {
		return "", false
	}

	if ev.Rune == Confirmar {
		codigo, emitido := c.emitir()
		c.buffer.Reset()
		c.escaneando = false
		c.pararExpiracion()
		return codigo, emitido
	}

	gap := ev.At.Sub(c.ultima)
	if !c.ultima.IsZero() && gap > c.cfg.MaxGap && c.buffer.Len() > 0 {
		// Fresh human typing — the stale partial scan restarts clean.
		c.buffer.Reset()
		c.escaneando = false
	}
	if !c.ultima.IsZero() && gap <= c.cfg.MaxGap {
		c.escaneando = true
	}

	c.buffer.WriteRune(ev.Rune)
	c.ultima = ev.At
	c.armarExpiracion()
	return "", false
}

// Inyectar pushes a code directly through the emission path, bypassing
// keystrokes — used for testing and simulated scans.
func (c *Clasificador) Inyectar(codigo string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.detenido {
		return "", false
	}
	c.buffer.Reset()
	c.buffer.WriteString(codigo)
	emitido, ok := c.emitir()
	c.buffer.Reset()
	c.escaneando = false
	return emitido, ok
}

// Escaneando reports the transient is-scanning flag, used by the search
// suggestion component to suppress autocomplete mid-burst.
func (c *Clasificador) Escaneando() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.escaneando
}

// Detener stops the classifier and its expiry timer. Idempotent.
func (c *Clasificador) Detener() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detenido = true
	c.buffer.Reset()
	c.escaneando = false
	c.pararExpiracion()
}

// emitir fires the scanned-code event when the buffer qualifies.
// Must be called under c.mu.
func (c *Clasificador) emitir() (string, bool) {
	codigo := strings.TrimSpace(c.buffer.String())
	if len(codigo) < c.cfg.MinLen {
		return "", false
	}
	c.escaneando = true
	if c.onScan != nil {
		c.onScan(codigo)
	}
	return codigo, true
}

// armarExpiracion (re)arms the single-shot buffer-expiry timer. Bounds how
// long a stray partial scan lingers. Must be called under c.mu.
func (c *Clasificador) armarExpiracion() {
	c.pararExpiracion()
	c.expiracion = time.AfterFunc(c.cfg.Timeout, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.buffer.Reset()
		c.escaneando = false
	})
}

func (c *Clasificador) pararExpiracion() {
	if c.expiracion != nil {
		c.expiracion.Stop()
		c.expiracion = nil
	}
}
