package main

import (
	"log"

	"github.com/marketsafe/bot/internal/audit"
	"github.com/marketsafe/bot/internal/config"
	"github.com/marketsafe/bot/internal/db"
	"github.com/marketsafe/bot/internal/entitlement"
	"github.com/marketsafe/bot/internal/httpapi"
)

func main() {
	cfg := config.Load()

	auditLog, err := audit.NewFileLogger(cfg.PaymentsLog)
	if err != nil {
		log.Fatalf("open payments log: %v", err)
	}
	defer auditLog.Close()

	var store entitlement.Store
	switch cfg.StoreBackend {
	case "bolt":
		bs, err := entitlement.NewBoltStore(cfg.BoltPath)
		if err != nil {
			log.Fatalf("open bolt store: %v", err)
		}
		defer bs.Close()
		store = bs
	default:
		// mysql only when selected; the bolt configuration needs no server
		store = entitlement.NewGormStore(db.Connect(cfg.DBDSN))
	}

	ledger := entitlement.NewLedger(store, auditLog)

	r := httpapi.NewRouter(cfg, ledger)
	log.Printf("admin api listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("http server: %v", err)
	}
}
