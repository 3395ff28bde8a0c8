package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ghighi/quotes-cli/internal/model"
	"github.com/ghighi/quotes-cli/internal/store"
	"github.com/ghighi/quotes-cli/internal/view"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API over the configured store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return eris.Wrap(err, "serve: open store")
		}
		defer st.Close() //nolint:errcheck

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(st, cfg.View.MinSeriesDates),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "serve: listen")
		}

		return nil
	},
}

// newRouter builds the API over a store. It is split from the command so
// handler tests can run against an in-memory backend.
func newRouter(st store.Store, minDates int) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	readAll := func(w http.ResponseWriter, req *http.Request) ([]model.Record, bool) {
		recs, err := st.Read(req.Context())
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return nil, false
		}
		if event := req.URL.Query().Get("event"); event != "" {
			recs = view.FilterEvent(recs, event)
		}
		return recs, true
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/events", func(w http.ResponseWriter, req *http.Request) {
		recs, ok := readAll(w, req)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"events": view.Events(recs)})
	})

	r.Get("/api/records", func(w http.ResponseWriter, req *http.Request) {
		recs, ok := readAll(w, req)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"records": recs})
	})

	r.Get("/api/snapshot", func(w http.ResponseWriter, req *http.Request) {
		recs, ok := readAll(w, req)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"snapshot": view.Snapshot(recs, false)})
	})

	r.Get("/api/series", func(w http.ResponseWriter, req *http.Request) {
		recs, ok := readAll(w, req)
		if !ok {
			return
		}

		md := minDates
		if raw := req.URL.Query().Get("min_dates"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, eris.Errorf("invalid min_dates %q", raw))
				return
			}
			md = n
		}

		writeJSON(w, http.StatusOK, map[string]any{"series": view.Pivot(recs, md)})
	})

	r.Post("/api/quotes", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Event  string  `json:"event"`
			Player string  `json:"player"`
			Quote  float64 `json:"quote"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, eris.Wrap(err, "invalid request body"))
			return
		}

		rec, err := model.NewRecord(body.Event, body.Player, body.Quote, time.Now())
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		if err := st.Append(req.Context(), rec); err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}

		zap.L().Info("quote appended",
			zap.String("event", rec.Event),
			zap.String("player", rec.Player),
			zap.Float64("quote", rec.Quote))
		writeJSON(w, http.StatusCreated, rec)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
