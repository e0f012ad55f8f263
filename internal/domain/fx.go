// Package domain contains all domain modules
package domain

import (
	"go.uber.org/fx"

	"github.com/Devensh22345/channel-adder/internal/domain/channel"
	"github.com/Devensh22345/channel-adder/internal/domain/provisioning"
)

// Module aggregates all domain modules for fx dependency injection
var Module = fx.Module("domain",
	channel.Module,
	provisioning.Module,
)
