package handler

import (
	"github.com/skillswap/signaling/internal/app/signal"
	"github.com/skillswap/signaling/internal/configs"
)

// AppDeps bundles the dependencies shared by all HTTP handlers.
type AppDeps struct {
	Hub    *signal.Hub
	Config *configs.AppConfig
}
