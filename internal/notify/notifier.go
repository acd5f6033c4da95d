package notify

import (
	"go.uber.org/zap"

	"portfolio-hub/internal/domain"
)

// Notifier recibe fallos de mutación para mostrarlos al operador,
// el equivalente de un toast en la UI. La lista en memoria nunca se
// toca cuando se reporta un fallo.
type Notifier interface {
	MutationFailed(kind domain.Kind, op string, err error)
}

type zapNotifier struct {
	logger *zap.Logger
}

func NewZapNotifier(logger *zap.Logger) Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &zapNotifier{logger: logger}
}

func (n *zapNotifier) MutationFailed(kind domain.Kind, op string, err error) {
	n.logger.Warn("mutation failed",
		zap.String("kind", string(kind)),
		zap.String("op", op),
		zap.Error(err),
	)
}

type disabledNotifier struct{}

func NewDisabledNotifier() Notifier {
	return disabledNotifier{}
}

func (disabledNotifier) MutationFailed(domain.Kind, string, error) {}
