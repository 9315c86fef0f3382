package cli

import (
	"github.com/mesh-intelligence/phonebook/internal/logger"
	"github.com/mesh-intelligence/phonebook/pkg/sqlite"
	"github.com/mesh-intelligence/phonebook/pkg/types"
)

// openStore returns the attached store used by every command. Tests
// replace it.
var openStore = func(cfg types.Config, log *logger.Logger) (types.Store, error) {
	return sqlite.Open(cfg, log)
}
