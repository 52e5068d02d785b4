package dto

// StatusDTO estado de suscripción de una sesión. CanSwitchLanguages se deriva del tipo.
type StatusDTO struct {
	SubscriptionType   string   `json:"subscriptionType"`
	ActiveLanguage     string   `json:"activeLanguage"`
	AvailableLanguages []string `json:"availableLanguages"`
	CanSwitchLanguages bool     `json:"canSwitchLanguages"`
}

// StatusResponse salida de GET /status/:sessionId.
type StatusResponse struct {
	Success bool      `json:"success"`
	Data    StatusDTO `json:"data"`
}

// SwitchLanguageRequest entrada de POST /switch-language.
type SwitchLanguageRequest struct {
	SessionID string `json:"sessionId"`
	Language  string `json:"language"`
}

// SwitchLanguageResponse cambio aceptado (200).
type SwitchLanguageResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	ClaraResponse     string `json:"claraResponse"`
	NewActiveLanguage string `json:"newActiveLanguage"`
}

// SwitchLanguageDenied cambio rechazado (403 por suscripción, 404 sin perfil).
type SwitchLanguageDenied struct {
	Success         bool   `json:"success"`
	Error           string `json:"error"`
	ClaraResponse   string `json:"claraResponse"`
	RequiresUpgrade bool   `json:"requiresUpgrade"`
}

// ProfileDTO vista pública del perfil tras un cambio de nivel.
type ProfileDTO struct {
	SubscriptionType   string   `json:"subscriptionType"`
	AvailableLanguages []string `json:"availableLanguages"`
	ActiveLanguage     string   `json:"activeLanguage"`
}

// SubscriptionChangeResponse salida de upgrade/downgrade.
type SubscriptionChangeResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Profile ProfileDTO `json:"profile"`
}

// CreateSessionRequest entrada opcional de POST /session.
type CreateSessionRequest struct {
	Language string `json:"language"`
}

// CreateSessionResponse sesión nueva con su estado inicial.
type CreateSessionResponse struct {
	Success   bool      `json:"success"`
	SessionID string    `json:"sessionId"`
	Data      StatusDTO `json:"data"`
}
