package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/TemirB/order-invoices/internal/config"
	"github.com/TemirB/order-invoices/internal/domain"
	ikafka "github.com/TemirB/order-invoices/internal/kafka"
)

// Spammer publishes fake order snapshots to the order feed topic. Order ids
// are drawn from a small pool so the consumer sees both inserts and updates.
type Spammer struct {
	writer    *kafka.Writer
	logger    *zap.Logger
	isRunning atomic.Bool
	wg        sync.WaitGroup
	mu        sync.Mutex
	cancel    context.CancelFunc
	totalSent atomic.Int64
	idPool    int
}

type SpamRequest struct {
	Rate     int    `json:"rate"`
	Duration string `json:"duration"`
	IDPool   int    `json:"idPool"`
}

func NewSpammer(brokers []string, topic string, logger *zap.Logger) *Spammer {
	return &Spammer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 10 * time.Millisecond,
			BatchSize:    100,
		},
		logger: logger,
		idPool: 500,
	}
}

func (s *Spammer) StartSpam(rate int, duration time.Duration) bool {
	if !s.isRunning.CompareAndSwap(false, true) {
		return false
	}
	s.totalSent.Store(0)

	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.logger.Info("Starting spam", zap.Int("rate", rate), zap.Duration("duration", duration))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.isRunning.Store(false)
		defer cancel()

		ticker := time.NewTicker(time.Second / time.Duration(rate))
		defer ticker.Stop()

		timer := time.NewTimer(duration)
		defer timer.Stop()

		for {
			select {
			case <-ticker.C:
				order := s.fakeOrder()
				data, err := json.Marshal(order)
				if err != nil {
					s.logger.Error("Error marshaling order", zap.Error(err))
					continue
				}
				err = s.writer.WriteMessages(ctx, kafka.Message{
					Key:   []byte(order.OrderID),
					Value: data,
					Time:  time.Now(),
				})
				if err != nil {
					s.logger.Warn("Error sending message to Kafka", zap.Error(err))
					continue
				}
				s.totalSent.Add(1)

			case <-timer.C:
				s.logger.Info("Spam completed", zap.Int64("total_sent", s.totalSent.Load()))
				return

			case <-ctx.Done():
				s.logger.Info("Spam stopped", zap.Int64("total_sent", s.totalSent.Load()))
				return
			}
		}
	}()
	return true
}

func (s *Spammer) StopSpam() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *Spammer) Close() {
	s.StopSpam()
	_ = s.writer.Close()
}

func (s *Spammer) fakeOrder() domain.Order {
	n := rand.Intn(s.idPool)
	return domain.Order{
		OrderID:         fmt.Sprintf("ORD-%05d", n),
		CustomerName:    fmt.Sprintf("Customer %d", n%97),
		ContactEmail:    fmt.Sprintf("buyer%d@example.com", n),
		ContactPhone:    fmt.Sprintf("+1555%07d", rand.Intn(10_000_000)),
		QuotationNumber: fmt.Sprintf("Q-%d", rand.Intn(100_000)),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg := config.Kafka{Brokers: []string{"kafka:9092"}, Topic: "orders", Partitions: 3}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Brokers = []string{v}
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		cfg.Topic = v
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := ikafka.EnsureTopic(ctx, cfg.Brokers, cfg.Topic, cfg.Partitions, 1, logger); err != nil {
		logger.Warn("could not ensure topic", zap.Error(err))
	}
	cancel()

	spammer := NewSpammer(cfg.Brokers, cfg.Topic, logger)
	defer spammer.Close()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/start", func(w http.ResponseWriter, r *http.Request) {
		var req SpamRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
			return
		}
		if req.Rate <= 0 {
			req.Rate = 10
		}
		if req.IDPool > 0 && !spammer.isRunning.Load() {
			spammer.idPool = req.IDPool
		}
		duration, err := time.ParseDuration(req.Duration)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid duration: " + err.Error()})
			return
		}
		if !spammer.StartSpam(req.Rate, duration) {
			writeJSON(w, http.StatusConflict, map[string]string{"status": "already running"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   "started",
			"rate":     req.Rate,
			"duration": duration.String(),
		})
	})

	r.Post("/stop", func(w http.ResponseWriter, _ *http.Request) {
		spammer.StopSpam()
		writeJSON(w, http.StatusOK, map[string]any{
			"status":     "stopped",
			"total_sent": spammer.totalSent.Load(),
		})
	})

	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"is_running": spammer.isRunning.Load(),
			"total_sent": spammer.totalSent.Load(),
		})
	})

	port := ":8082"
	if v := os.Getenv("SPAMMER_PORT"); v != "" {
		port = ":" + v
	}

	logger.Info("Spammer server started", zap.String("addr", port),
		zap.Strings("endpoints", []string{"POST /start", "POST /stop", "GET /stats"}))
	if err := http.ListenAndServe(port, r); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("spammer server failed", zap.Error(err))
	}
}
