package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrProfileNotFound   = errors.New("perfil de sesión no encontrado")
	ErrEntitlementDenied = errors.New("idioma no incluido en la suscripción")
	ErrInvalidLanguage   = errors.New("código de idioma no soportado")
	ErrValidation        = errors.New("entrada inválida")
	ErrInvariant         = errors.New("invariante de perfil violada")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
)
