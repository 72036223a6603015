package usecase

import "context"

// BarcodeIndex caché código de barras -> id de producto para el camino de escaneo.
// Es solo una aceleración: la fuente de verdad es el repositorio y un error de caché
// se trata como un fallo de búsqueda (miss).
type BarcodeIndex interface {
	Get(ctx context.Context, code string) (productID string, ok bool, err error)
	Set(ctx context.Context, code, productID string) error
	Delete(ctx context.Context, code string) error
}
