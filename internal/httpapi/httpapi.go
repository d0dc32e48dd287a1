package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/TemirB/wb-cart-quantity/internal/application/service"
	"github.com/TemirB/wb-cart-quantity/internal/domain"
	"github.com/TemirB/wb-cart-quantity/internal/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

//go:generate mockgen -source internal/httpapi/httpapi.go -destination=internal/httpapi/httpapi_mock_test.go -package=httpapi

type ServerWithStats interface {
	GetByUIDWithStats(ctx context.Context, uid string) (*domain.Cart, service.LookupStats, error)
	UpsertWithStats(ctx context.Context, cart *domain.Cart) (service.UpsertStats, error)
	SetQuantityWithStats(ctx context.Context, cmd service.SetQuantity) (*domain.Cart, service.ModifyStats, error)
}

type snapshotter interface {
	Snapshot() observability.Snapshot
}

type Server struct {
	service ServerWithStats
	router  chi.Router
	logger  *zap.Logger
	metrics observability.Metrics
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func New(service ServerWithStats, logger *zap.Logger, metrics observability.Metrics) *Server {
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	s := &Server{
		service: service,
		logger:  logger,
		router:  chi.NewRouter(),
		metrics: metrics,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		ServerTimingApp(s.metrics),
	)

	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.router.Route("/cart", func(r chi.Router) {
		r.Post("/", s.upsertCart)
		r.Get("/{cart_uid}", s.getCart)
		r.Put("/{cart_uid}/items/{item_id}/quantity", s.setQuantity)
	})

	if snap, ok := s.metrics.(snapshotter); ok {
		s.router.Get("/debug/metrics", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, snap.Snapshot())
		})
	}
}

func (s *Server) getCart(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "cart_uid")
	if uid == "" {
		http.Error(w, "cart id required", http.StatusBadRequest)
		return
	}

	cart, st, err := s.service.GetByUIDWithStats(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}

	observability.AppendServerTiming(w, "cache", st.CacheMs, "")
	observability.AppendServerTiming(w, "db", st.DBMs, "")
	observability.AppendServerTiming(w, "source", 0, string(st.Source))
	w.Header().Set("X-Source", string(st.Source))
	observability.SetIfPos(w, "X-Cache-Time", st.CacheMs)
	observability.SetIfPos(w, "X-DB-Time", st.DBMs)

	writeJSON(w, cart)
}

func (s *Server) upsertCart(w http.ResponseWriter, r *http.Request) {
	if !isJSON(r) {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var cart domain.Cart
	if err := decodeStrict(r, &cart); err != nil {
		s.logger.Error("Error while decoding JSON", zap.Error(err))
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	if err := cart.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cart.Recalculate()

	st, err := s.service.UpsertWithStats(r.Context(), &cart)
	if err != nil {
		s.writeError(w, err)
		return
	}

	observability.AppendServerTiming(w, "db_write", st.DBWriteMs, "")

	writeJSON(w, cart)
}

func (s *Server) setQuantity(w http.ResponseWriter, r *http.Request) {
	if !isJSON(r) {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var req setQuantityRequest
	if err := decodeStrict(r, &req); err != nil {
		s.logger.Error("Error while decoding JSON", zap.Error(err))
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if req.Quantity == nil {
		http.Error(w, "quantity is required", http.StatusBadRequest)
		return
	}

	cmd := service.SetQuantity{
		CartUID:   chi.URLParam(r, "cart_uid"),
		ItemID:    chi.URLParam(r, "item_id"),
		SessionID: r.Header.Get("X-Session-ID"),
		Quantity:  *req.Quantity,
	}

	cart, st, err := s.service.SetQuantityWithStats(r.Context(), cmd)
	if err != nil {
		s.writeError(w, err)
		return
	}

	observability.AppendServerTiming(w, "modify", st.ModifyMs, "")
	observability.AppendServerTiming(w, "db_write", st.DBWriteMs, "")
	observability.AppendServerTiming(w, "source", 0, string(st.Source))
	observability.SetInt(w, "X-Requested-Quantity", st.Requested)
	observability.SetInt(w, "X-Applied-Quantity", st.Applied)

	writeJSON(w, cart)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "no cart with this id", http.StatusNotFound)
	case errors.Is(err, domain.ErrItemNotFound):
		http.Error(w, "no item with this id", http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidCommand), errors.Is(err, service.ErrQuantityTooLarge):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.logger.Error("Service error", zap.Error(err))
		http.Error(w, "Service error", http.StatusInternalServerError)
	}
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "application/json")
}

func decodeStrict(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()
	return srv.ListenAndServe()
}

func (s *Server) Handler() http.Handler { return s.router }
