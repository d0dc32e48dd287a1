package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/TemirB/wb-cart-quantity/internal/application/service"
	"github.com/go-chi/chi/v5"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Spammer struct {
	writer    *kafka.Writer
	logger    *zap.Logger
	isRunning atomic.Bool
	wg        sync.WaitGroup
	mu        sync.Mutex
	cancel    context.CancelFunc
	totalSent atomic.Int64
	startedAt time.Time
}

type SpamRequest struct {
	Rate     int    `json:"rate"`
	Duration string `json:"duration"`
	Carts    int    `json:"carts"`
	Items    int    `json:"items"`
	Sessions int    `json:"sessions"`
}

type SpamStats struct {
	IsRunning bool    `json:"is_running"`
	TotalSent int64   `json:"total_sent"`
	Rate      float64 `json:"rate"`
}

func NewSpammer(brokers []string, topic string, logger *zap.Logger) *Spammer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}

	return &Spammer{
		writer:    writer,
		logger:    logger,
		startedAt: time.Now(),
	}
}

func (s *Spammer) StartSpam(req SpamRequest, duration time.Duration) {
	if !s.isRunning.CompareAndSwap(false, true) {
		return
	}
	s.totalSent.Store(0)
	s.startedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.logger.Info("Starting spam", zap.Int("rate", req.Rate), zap.Duration("duration", duration))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.isRunning.Store(false)
		defer cancel()

		ticker := time.NewTicker(time.Second / time.Duration(req.Rate))
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cmd := generateCommand(req)
				value, err := json.Marshal(cmd)
				if err != nil {
					s.logger.Error("Error marshaling command", zap.Error(err))
					continue
				}

				// keyed by cart so one cart's commands land on one partition
				err = s.writer.WriteMessages(ctx, kafka.Message{
					Key:   []byte(cmd.CartUID),
					Value: value,
					Time:  time.Now(),
				})
				if err != nil {
					s.logger.Warn("Error sending message to Kafka", zap.Error(err))
					continue
				}
				s.totalSent.Add(1)

			case <-ctx.Done():
				s.logger.Info("Spam finished", zap.Int64("total_sent", s.totalSent.Load()))
				return
			}
		}
	}()
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

func (s *Spammer) GetStats() SpamStats {
	st := SpamStats{
		IsRunning: s.isRunning.Load(),
		TotalSent: s.totalSent.Load(),
	}
	if secs := time.Since(s.startedAt).Seconds(); secs > 0 {
		st.Rate = float64(st.TotalSent) / secs
	}
	return st
}

func (s *Spammer) Close() {
	s.StopSpam()
	_ = s.writer.Close()
}

// generateCommand picks a random line of one of the seeded carts. Quantities
// run from -5 to 60 so both rounding directions and the lower clamp show up.
func generateCommand(req SpamRequest) service.SetQuantity {
	cmd := service.SetQuantity{
		CartUID:  fmt.Sprintf("cart-%d", rand.Intn(req.Carts)),
		ItemID:   fmt.Sprintf("item-%d", rand.Intn(req.Items)),
		Quantity: rand.Intn(66) - 5,
	}
	if n := rand.Intn(req.Sessions + 1); n < req.Sessions {
		cmd.SessionID = fmt.Sprintf("session-%d", n)
	}
	return cmd
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	brokers := []string{"kafka:9092"}
	if envBrokers := os.Getenv("KAFKA_BROKERS"); envBrokers != "" {
		brokers = strings.Split(envBrokers, ",")
	}

	topic := "cart.quantity"
	if envTopic := os.Getenv("KAFKA_TOPIC"); envTopic != "" {
		topic = envTopic
	}

	spammer := NewSpammer(brokers, topic, logger)
	defer spammer.Close()

	r := chi.NewRouter()

	r.Post("/start", func(w http.ResponseWriter, r *http.Request) {
		var req SpamRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if req.Rate <= 0 {
			req.Rate = 10
		}
		if req.Carts <= 0 {
			req.Carts = 10
		}
		if req.Items <= 0 {
			req.Items = 3
		}
		if req.Sessions < 0 {
			req.Sessions = 0
		}

		duration, err := time.ParseDuration(req.Duration)
		if err != nil || duration <= 0 {
			http.Error(w, "Invalid duration format", http.StatusBadRequest)
			return
		}

		spammer.StartSpam(req, duration)

		writeJSON(w, map[string]interface{}{
			"status":   "started",
			"rate":     req.Rate,
			"duration": duration.String(),
		})
	})

	r.Post("/stop", func(w http.ResponseWriter, _ *http.Request) {
		spammer.StopSpam()
		writeJSON(w, map[string]interface{}{
			"status":     "stopped",
			"total_sent": spammer.totalSent.Load(),
		})
	})

	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, spammer.GetStats())
	})

	port := ":8082"
	if envPort := os.Getenv("SPAMMER_PORT"); envPort != "" {
		port = ":" + envPort
	}

	logger.Info("Spammer server started", zap.String("addr", port),
		zap.Strings("endpoints", []string{"POST /start", "POST /stop", "GET /stats"}))
	if err := http.ListenAndServe(port, r); err != nil {
		logger.Fatal("Spammer server failed", zap.Error(err))
	}
}
