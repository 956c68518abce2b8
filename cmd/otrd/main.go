package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"otr-lab/domain"
	"otr-lab/envelope"
	"otr-lab/internal"
	"otr-lab/keystore"
	"otr-lab/observability"
	"otr-lab/observability/metrics"
	"otr-lab/recipients"
	"otr-lab/repositories"
	"otr-lab/runtime/workers"
	"otr-lab/services"
	"otr-lab/sessions"
	"otr-lab/sink"

	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "otrd"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Key store
	keysStore, err := keystore.NewEncryptionKeysStore(log, config.OtrDirectory, config.LegacyDirectories(), sessions.Opener)
	if err != nil {
		return fmt.Errorf("key store failed: %w", err)
	}
	self := domain.SelfClient{User: domain.User{ID: config.SelfUser()}, ClientID: config.SelfClientID}
	if self.IsRegistered() {
		if _, err := keysStore.LastPreKey(); err != nil {
			return fmt.Errorf("last prekey failed: %w", err)
		}
	}

	// 4. Repositories & envelope path
	messageRepository := repositories.NewMessageRepository(db, log)
	failureRepository := repositories.NewSessionFailureRepository(db, log)
	clientRepository := repositories.NewUserClientRepository(db, log)
	if self.IsRegistered() {
		if err := clientRepository.AddClient(domain.Client{ID: self.ClientID, UserID: self.User.ID}); err != nil {
			return fmt.Errorf("self client registration failed: %w", err)
		}
	}
	selector := recipients.NewSelector(log, messageRepository, config.ServicesMustBeMentioned)
	builder := envelope.NewBuilder(log, keysStore, selector, failureRepository, config.ExternalThresholdBytes)

	// 5. Events & destruction timers
	timeline := sink.NewTimeline()
	fanout := workers.NewEventFanout(log, config.EventBufferSize, config.SinkTimeout)
	fanout.Subscribe(sink.NewLogSink(log), timeline)

	destruction := services.NewDestructionService(log, messageRepository, fanout, self.User.ID)
	senderTimer := workers.NewDestructionTimer(log, domain.Sender, destruction)
	receiverTimer := workers.NewDestructionTimer(log, domain.Receiver, destruction)
	if err := destruction.UseSchedulers(senderTimer, receiverTimer); err != nil {
		return err
	}

	monitoring := observability.NewMonitoringManager(log, time.Second, senderTimer, receiverTimer, timeline)
	outbound := workers.NewOutboundWorker(log, timeline, clientRepository, builder, workers.NewLogPoster(log), self, 0)

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(fanout, senderTimer, receiverTimer, monitoring, outbound)
	supervisorDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supervisorDone)
	}()

	// 7. Pending destructions survive restarts
	if err := destruction.Resume(ctx); err != nil {
		return fmt.Errorf("resume failed: %w", err)
	}

	// 8. Optional HTTP surfaces
	errChan := make(chan error, 2)
	var servers []*http.Server
	if config.MetricsPort > 0 {
		metrics.MustRegister(serviceName)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		servers = append(servers, &http.Server{Addr: fmt.Sprintf(":%d", config.MetricsPort), Handler: mux})
	}
	if config.DebugPort > 0 {
		servers = append(servers, internal.NewDebugServer(db, config.DebugPort, "/inspect", internal.DefaultMapper, monitoring.Stats))
	}
	for _, srv := range servers {
		go func(srv *http.Server) {
			log.Info("Starting HTTP server", "address", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errChan <- fmt.Errorf("http server error: %w", err)
			}
		}(srv)
	}

	// 9. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		stop()
		<-supervisorDone
		return err
	}

	// 10. Final Cleanup
	destruction.Suspend()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, srv := range servers {
		_ = srv.Shutdown(shutdownCtx)
	}
	<-supervisorDone
	log.Info("Program stopped cleanly")
	return nil
}
