package dto

// ErrorResponse cuerpo de error HTTP con código estable (middleware y rutas auxiliares).
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FailureResponse error esperado (validación, sesión inexistente).
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// InternalErrorResponse fallo no controlado: 500 {error, details}.
type InternalErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}
