package session

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"portfolio-hub/internal/token"
)

// DenyReason clasifica por qué el guard negó el acceso.
type DenyReason string

const (
	DenyNoToken       DenyReason = "no-token"
	DenyCorrupt       DenyReason = "corrupt"
	DenyExpired       DenyReason = "expired"
	DenyNotAuthorized DenyReason = "not-authorized"
)

// Decision es el resultado de evaluar el guard sobre una ruta protegida.
type Decision struct {
	Allowed bool
	Reason  DenyReason
	Claims  token.Claims
}

// Guard decide, por cada acceso a una ruta protegida, si la sesión
// almacenada puede entrar. No cachea decisiones entre evaluaciones.
type Guard struct {
	logger *zap.Logger
	store  TokenStore
	now    func() time.Time
}

func NewGuard(logger *zap.Logger, store TokenStore) *Guard {
	return NewGuardWithClock(logger, store, time.Now)
}

// NewGuardWithClock permite inyectar el reloj, para tests con tokens fabricados.
func NewGuardWithClock(logger *zap.Logger, store TokenStore, now func() time.Time) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Guard{logger: logger, store: store, now: now}
}

// CanEnter evalúa el token almacenado. Un token corrupto o expirado se borra
// del store como efecto secundario (auto-saneado); un rol insuficiente NO lo
// borra, porque el token sigue siendo válido para áreas no-admin.
// Nunca propaga errores al caller: todo fallo resuelve en Deny.
func (g *Guard) CanEnter(requireAdmin bool) Decision {
	raw, err := g.store.Load()
	if err != nil {
		g.logger.Warn("token store read failed", zap.Error(err))
		return Decision{Reason: DenyNoToken}
	}
	if strings.TrimSpace(raw) == "" {
		return Decision{Reason: DenyNoToken}
	}

	claims, err := token.Parse(raw)
	if err != nil {
		g.purge("corrupt token purged")
		return Decision{Reason: DenyCorrupt}
	}

	if claims.Expired(g.now()) {
		g.purge("expired token purged")
		return Decision{Reason: DenyExpired}
	}

	if requireAdmin && !claims.IsAdmin() {
		return Decision{Reason: DenyNotAuthorized, Claims: claims}
	}

	return Decision{Allowed: true, Claims: claims}
}

func (g *Guard) purge(msg string) {
	if err := g.store.Clear(); err != nil {
		g.logger.Warn("token purge failed", zap.Error(err))
		return
	}
	g.logger.Info(msg)
}
