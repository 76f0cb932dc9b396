package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"orders-api/config"
	"orders-api/consumers"
	"orders-api/controllers"
	"orders-api/database"
	"orders-api/rabbitmq"
	"orders-api/repository"
)

func main() {
	cfg := config.LoadConfig()

	log.SetFormatter(&log.JSONFormatter{})
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	gin.SetMode(gin.ReleaseMode)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Exits non-zero when the database never becomes reachable.
	if err := database.WaitForHost(ctx, cfg.DBHost, cfg.DBPort, cfg.DBWaitTimeout, time.Second); err != nil {
		log.WithError(err).Fatal("database not reachable")
	}

	db, err := database.Open(ctx, cfg, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database initialization failed")
	}
	defer db.Close()

	ctl := &controllers.Controller{
		Orders:     repository.NewOrderRepository(db),
		OrderItems: repository.NewOrderItemRepository(db),
	}

	var rmq *rabbitmq.RabbitMQ
	if cfg.RabbitMQURL != "" {
		rmq, err = rabbitmq.NewRabbitMQ(cfg)
		if err != nil {
			log.WithError(err).Fatal("RabbitMQ initialization failed")
		}
		defer rmq.Close()

		if err := rmq.SetupQueues(); err != nil {
			log.WithError(err).Fatal("failed to setup RabbitMQ queues")
		}
		ctl.Events = rmq
	} else {
		log.Info("RABBITMQ_URL not set, order events disabled")
	}

	srv := &http.Server{
		Addr:    net.JoinHostPort("", cfg.AppPort),
		Handler: newRouter(db, ctl, log.StandardLogger()),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("addr", srv.Addr).Info("orders api listening")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if rmq != nil {
		consumerCh, err := rmq.Conn.Channel()
		if err != nil {
			log.WithError(err).Fatal("failed to open consumer channel")
		}
		defer consumerCh.Close()

		g.Go(func() error {
			return consumers.StartAuditConsumer(ctx, consumerCh, cfg.AuditQueue)
		})
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
	log.Info("server stopped")
}
