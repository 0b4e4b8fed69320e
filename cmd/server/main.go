package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"

	"github.com/resend/resend-go/v2"

	"github.com/megami-llc/order-server/internal/cache"
	"github.com/megami-llc/order-server/internal/config"
	"github.com/megami-llc/order-server/internal/httpx"
	"github.com/megami-llc/order-server/internal/ledger"
	"github.com/megami-llc/order-server/internal/mailer"
	"github.com/megami-llc/order-server/internal/orchestrator"
	"github.com/megami-llc/order-server/internal/orderlog"
	sqlitelog "github.com/megami-llc/order-server/internal/orderlog/sqlite"
	"github.com/megami-llc/order-server/internal/payment"
	"github.com/megami-llc/order-server/internal/telemetry"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	telemetry.InitLogger()

	if cfg.OTLPEndpoint != "" {
		shutdown, err := telemetry.SetupTracer(ctx, "order-server", cfg.OTLPEndpoint)
		if err != nil {
			log.Fatalf("tracer setup failed: %v", err)
		}
		defer func() {
			_ = shutdown(context.Background())
		}()
	}

	// Each collaborator client is built only when configured; the writer,
	// mailer, and payment client all degrade to "not configured" results
	// instead of crashing.
	var values ledger.ValuesAPI
	if cfg.SheetsConfigured() {
		var err error
		values, err = ledger.NewService(ctx, cfg.SheetsPrivateKey, cfg.SheetsClientEmail)
		if err != nil {
			// Bad credentials disable the ledger, same as absent ones.
			slog.Error("sheets service init failed, ledger disabled", "error", err)
			values = nil
		}
	}
	ledgerWriter := ledger.New(values, cfg.SpreadsheetID)

	var resendClient *resend.Client
	if cfg.ResendConfigured() {
		resendClient = resend.NewClient(cfg.ResendAPIKey)
	}
	m := mailer.New(resendClient, cfg.FromEmail, cfg.AdminEmail)

	payments := payment.New(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.PublicBaseURL)

	var auditLog orderlog.Repository
	if cfg.OrderLogPath != "" {
		repo, err := sqlitelog.Open(cfg.OrderLogPath)
		if err != nil {
			log.Fatalf("order log open failed: %v", err)
		}
		defer repo.Close()
		auditLog = repo
	}

	var seen cache.SeenStore
	if cfg.RedisAddr != "" {
		seen = cache.NewRedisSeenStore(cfg.RedisAddr, "order-server:webhook")
	}

	orch := orchestrator.New(ledgerWriter, m, payments, auditLog)

	handler := httpx.NewHandler(orch, payments, ledgerWriter, seen, auditLog, httpx.HealthServices{
		Stripe: cfg.StripeConfigured(),
		Resend: cfg.ResendConfigured(),
		Sheets: cfg.SheetsConfigured(),
	})
	router := httpx.NewRouter(handler, cfg.StaticDir)

	slog.Info("order server listening",
		"port", cfg.Port,
		"stripe", cfg.StripeConfigured(),
		"resend", cfg.ResendConfigured(),
		"sheets", cfg.SheetsConfigured(),
	)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}
