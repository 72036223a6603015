// Package barcode asigna códigos de barras nuevos y libres para el directorio de productos.
package barcode

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	codec "github.com/jhoicas/almacen-api/internal/domain/barcode"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// DefaultMaxAttempts intentos ante colisión antes de rendirse.
const DefaultMaxAttempts = 16

// code128Prefix prefijo de los códigos internos CODE128.
const code128Prefix = "INV"

const code128Digits = 10

// Random fuente de aleatoriedad inyectable. IntN devuelve un entero en [0, n).
type Random interface {
	IntN(n int) int
}

// BarcodeLookup búsqueda exacta en el índice de códigos del directorio (nil, nil = libre).
type BarcodeLookup interface {
	GetByBarcode(ctx context.Context, code string) (*entity.Product, error)
}

// globalRand usa el generador global de math/rand/v2, seguro para uso concurrente.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Allocator genera códigos aleatorios con dígito verificador y reintenta si ya están asignados.
// Nunca escribe en el directorio: el código queda reservado solo cuando se crea el producto.
type Allocator struct {
	lookup      BarcodeLookup
	rnd         Random
	maxAttempts int
}

// NewAllocator construye el asignador. rnd nil usa math/rand/v2; maxAttempts <= 0 usa DefaultMaxAttempts.
func NewAllocator(lookup BarcodeLookup, rnd Random, maxAttempts int) *Allocator {
	if rnd == nil {
		rnd = globalRand{}
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Allocator{lookup: lookup, rnd: rnd, maxAttempts: maxAttempts}
}

// Allocate devuelve un código libre del formato pedido (EAN13, UPC o CODE128).
// domain.ErrAllocationExhausted si todos los intentos colisionan.
func (a *Allocator) Allocate(ctx context.Context, format string) (*dto.GenerateBarcodeResponse, error) {
	scheme, err := codec.ParseScheme(format)
	if err != nil {
		return nil, err
	}
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		code, err := a.candidate(scheme)
		if err != nil {
			return nil, err
		}
		existing, err := a.lookup.GetByBarcode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return &dto.GenerateBarcodeResponse{Barcode: code, Format: string(scheme)}, nil
		}
	}
	return nil, fmt.Errorf("%w: %d intentos para %s", domain.ErrAllocationExhausted, a.maxAttempts, scheme)
}

func (a *Allocator) candidate(scheme codec.Scheme) (string, error) {
	if scheme == codec.CODE128 {
		return code128Prefix + a.digits(code128Digits), nil
	}
	return codec.Append(a.digits(codec.PayloadLength(scheme)), scheme)
}

func (a *Allocator) digits(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + a.rnd.IntN(10)))
	}
	return b.String()
}
