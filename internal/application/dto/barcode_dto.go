package dto

// GenerateBarcodeResponse salida de GET /api/generate-barcode/:format.
type GenerateBarcodeResponse struct {
	Barcode string `json:"barcode"`
	Format  string `json:"format"`
}

// ValidateBarcodeResponse salida de GET /api/validate-barcode/:format/:code.
type ValidateBarcodeResponse struct {
	Barcode string `json:"barcode"`
	Format  string `json:"format"`
	Valid   bool   `json:"valid"`
}
