package stats

import (
	"context"

	"github.com/Werneck0live/painel-alimentacao/internal/models"
)

// BuiltinSource entrega o snapshot literal; é a fonte padrão do painel.
type BuiltinSource struct{}

func (BuiltinSource) Load(context.Context) (*models.Snapshot, error) {
	return Builtin(), nil
}
