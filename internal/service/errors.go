package service

import "errors"

// Taxonomía de errores del núcleo. Los handlers los traducen a status
// HTTP (404/403/409/500); el interceptor responde 401 sin distinguir
// causa para no filtrar el estado del store a los clientes.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrConflict         = errors.New("conflict")
	ErrUnavailable      = errors.New("backing store unavailable")
)
