package dto

// TeclaRequest is one keystroke event forwarded by the station UI.
type TeclaRequest struct {
	Char   string `json:"char"   validate:"required,max=1"`
	Target string `json:"target"`
	Enter  bool   `json:"enter"`
}

// CodigoRequest injects a complete barcode, bypassing keystroke timing.
type CodigoRequest struct {
	Codigo string `json:"codigo" validate:"required,min=1,max=32"`
}

// EscaneoResponse reports the classifier outcome for one keystroke.
type EscaneoResponse struct {
	Emitido  bool              `json:"emitido"`
	Codigo   string            `json:"codigo,omitempty"`
	Producto *ProductoResponse `json:"producto,omitempty"`
}
