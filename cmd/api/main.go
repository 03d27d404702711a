package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpadp "allgroub-ledger/internal/adapter/http"
	mw "allgroub-ledger/internal/adapter/middleware"
	repo "allgroub-ledger/internal/adapter/repository/mysql"
	"allgroub-ledger/internal/adapter/scheduler"
	"allgroub-ledger/internal/config"
	"allgroub-ledger/internal/infrastructure/cache"
	"allgroub-ledger/internal/infrastructure/db"
	"allgroub-ledger/internal/infrastructure/logging"
	"allgroub-ledger/internal/infrastructure/metrics"
	ucBorrower "allgroub-ledger/internal/usecase/borrower"
	ucDashboard "allgroub-ledger/internal/usecase/dashboard"
	ucInvestor "allgroub-ledger/internal/usecase/investor"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	loc, _ := cfg.Location()
	profit, _ := cfg.Profit()

	gdb, err := db.OpenGorm(cfg.MySQLDSN(), log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to mysql")
	}
	if err := db.Migrate(gdb); err != nil {
		log.WithError(err).Fatal("failed to migrate schema")
	}
	rdb, err := cache.OpenRedis(cache.RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPass, DB: cfg.RedisDB}, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	defer rdb.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	borrowers := repo.NewBorrowerRepository(gdb)
	investors := repo.NewInvestorRepository(gdb)
	users := repo.NewUserRepository(gdb)
	uow := repo.NewGormUoW(gdb)

	borrowerUC := ucBorrower.NewUsecase(borrowers, uow, log, ucBorrower.WithLocation(loc))
	investorUC := ucInvestor.NewUsecase(investors, borrowers, uow, log, ucInvestor.WithRecomputeCounter(m.Recomputes))
	dashboardUC := ucDashboard.NewUsecase(borrowers, investors, users, profit, ucDashboard.NewTemplateSummarizer(), log, ucDashboard.WithLocation(loc))

	env := httpadp.Env{Log: log, Location: loc}
	e := httpadp.NewEcho()
	e.Use(middleware.Logger(), middleware.Recover(), mw.Metrics(m))
	httpadp.Register(e, httpadp.Routes{
		Health:      httpadp.NewHandler(),
		Borrowers:   httpadp.NewBorrowerHandler(borrowerUC, env),
		Investors:   httpadp.NewInvestorHandler(investorUC, env),
		Dashboard:   httpadp.NewDashboardHandler(dashboardUC, env),
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Idempotency: mw.IdempotencyMiddleware(rdb, cfg.IdempotencyTTL(), log),
	})

	var sched *scheduler.Scheduler
	if cfg.RecomputeCron != "" {
		sched, err = scheduler.New(cfg.RecomputeCron, investorUC, loc, log)
		if err != nil {
			log.WithError(err).Fatal("invalid RECOMPUTE_CRON")
		}
		sched.Start()
	}

	go func() {
		addr := ":" + cfg.AppPort
		log.WithField("addr", addr).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if sched != nil {
		sched.Stop(ctx)
	}
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown")
	}
	log.Info("stopped")
}
