package blob

import (
	"context"
	"io"
)

type PutOptions struct {
	ContentType string
}

// Store es la superficie mínima de almacenamiento de archivos que necesita
// el dominio (fotos de bovinos). Los adapters (S3, memoria) implementan esto.
type Store interface {
	// Put guarda el contenido bajo key y devuelve la URL pública resultante.
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (string, error)
}
