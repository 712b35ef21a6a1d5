package scanner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		MinLen:        6,
		MaxGap:        100 * time.Millisecond,
		Timeout:       300 * time.Millisecond,
		CampoBusqueda: "busqueda",
	}
}

// pulsarRafaga feeds codigo as a scanner-speed burst (10ms gaps) ending with
// Enter, returning the final Pulsar result.
func pulsarRafaga(c *Clasificador, codigo string, base time.Time) (string, bool) {
	at := base
	for _, r := range codigo {
		c.Pulsar(Tecla{Rune: r, At: at, Target: "busqueda"})
		at = at.Add(10 * time.Millisecond)
	}
	return c.Pulsar(Tecla{Rune: Confirmar, At: at, Target: "busqueda"})
}

func TestRafagaEmiteUnSoloCodigo(t *testing.T) {
	var emitidos []string
	c := New(testConfig(), func(codigo string) { emitidos = append(emitidos, codigo) })

	codigo, ok := pulsarRafaga(c, "7791234567890", time.Now())
	require.True(t, ok)
	assert.Equal(t, "7791234567890", codigo)
	assert.Equal(t, []string{"7791234567890"}, emitidos)

	// The buffer is consumed: a lone Enter right after emits nothing.
	_, ok = c.Pulsar(Tecla{Rune: Confirmar, At: time.Now(), Target: "busqueda"})
	assert.False(t, ok)
}

func TestTipeoLentoNoEmite(t *testing.T) {
	c := New(testConfig(), nil)
	at := time.Now()
	for _, r := range "779123" {
		c.Pulsar(Tecla{Rune: r, At: at, Target: "busqueda"})
		at = at.Add(250 * time.Millisecond) // human-speed gaps
	}
	// Slow gaps reset the buffer on every key, so Enter sees one rune.
	_, ok := c.Pulsar(Tecla{Rune: Confirmar, At: at, Target: "busqueda"})
	assert.False(t, ok)
	assert.False(t, c.Escaneando())
}

func TestCodigoCortoNoEmite(t *testing.T) {
	c := New(testConfig(), nil)
	_, ok := pulsarRafaga(c, "12345", time.Now())
	assert.False(t, ok)
}

func TestGapLargoReiniciaBufferYEmiteLimpio(t *testing.T) {
	c := New(testConfig(), nil)
	base := time.Now()

	// A stale partial scan...
	c.Pulsar(Tecla{Rune: '9', At: base, Target: "busqueda"})
	c.Pulsar(Tecla{Rune: '9', At: base.Add(10 * time.Millisecond), Target: "busqueda"})

	// ...followed by a fresh burst after a long pause: only the new code emits.
	codigo, ok := pulsarRafaga(c, "7791234567890", base.Add(2*time.Second))
	require.True(t, ok)
	assert.Equal(t, "7791234567890", codigo)
}

func TestExpiracionLimpiaBuffer(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 20 * time.Millisecond
	c := New(cfg, nil)

	base := time.Now()
	at := base
	for _, r := range "7791234567890" {
		c.Pulsar(Tecla{Rune: r, At: at, Target: "busqueda"})
		at = at.Add(time.Millisecond)
	}
	// No Enter arrives; the expiry timer clears the partial scan.
	time.Sleep(60 * time.Millisecond)
	assert.False(t, c.Escaneando())

	_, ok := c.Pulsar(Tecla{Rune: Confirmar, At: time.Now(), Target: "busqueda"})
	assert.False(t, ok)
}

func TestTeclasEnOtroCampoSeIgnoran(t *testing.T) {
	c := New(testConfig(), nil)
	at := time.Now()
	for _, r := range "7791234567890" {
		c.Pulsar(Tecla{Rune: r, At: at, Target: "campo_cliente"})
		at = at.Add(10 * time.Millisecond)
	}
	_, ok := c.Pulsar(Tecla{Rune: Confirmar, At: at, Target: "campo_cliente"})
	assert.False(t, ok)
}

func TestInyectarPasaPorEmision(t *testing.T) {
	var emitidos []string
	c := New(testConfig(), func(codigo string) { emitidos = append(emitidos, codigo) })

	codigo, ok := c.Inyectar("  7791234567890  ")
	require.True(t, ok)
	assert.Equal(t, "7791234567890", codigo)
	assert.Equal(t, []string{"7791234567890"}, emitidos)

	_, ok = c.Inyectar("123")
	assert.False(t, ok)
	assert.Len(t, emitidos, 1)
}

func TestDetenerEsIdempotente(t *testing.T) {
	c := New(testConfig(), nil)
	c.Detener()
	c.Detener()

	_, ok := c.Pulsar(Tecla{Rune: '7', At: time.Now(), Target: "busqueda"})
	assert.False(t, ok)
	_, ok = c.Inyectar("7791234567890")
	assert.False(t, ok)
}
