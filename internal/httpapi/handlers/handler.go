// Package handlers implements the admin HTTP endpoints: health, login and
// entitlement inspection/grants for support staff.
package handlers

import (
	"github.com/marketsafe/bot/internal/config"
	"github.com/marketsafe/bot/internal/entitlement"
)

type Handler struct {
	Cfg    config.Config
	Ledger *entitlement.Ledger
}

func NewHandler(cfg config.Config, ledger *entitlement.Ledger) *Handler {
	return &Handler{Cfg: cfg, Ledger: ledger}
}
