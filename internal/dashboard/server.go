// Package dashboard serves the local control-panel UI: a template page
// plus the JSON endpoints it polls, proxying every mutation through the
// wizard and panel. The server owns the push-channel consumer for its
// lifetime; both go away together when the run context is cancelled.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"lppanel/internal/botapi"
	"lppanel/internal/config"
	"lppanel/internal/logging"
	"lppanel/internal/models"
	"lppanel/internal/notify"
	"lppanel/internal/panel"
	"lppanel/internal/stream"
	"lppanel/internal/wizard"
)

type Server struct {
	cfg      config.Config
	api      *botapi.Client
	panel    *panel.Panel
	wizard   *wizard.Wizard
	center   *notify.Center
	consumer *stream.Consumer
	tpl      *template.Template
}

func New(cfg config.Config, api *botapi.Client, p *panel.Panel, w *wizard.Wizard, center *notify.Center) (*Server, error) {
	tplPath := filepath.Join(cfg.TemplateDir, "dashboard.html")
	tpl, err := template.ParseFiles(tplPath)
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:      cfg,
		api:      api,
		panel:    p,
		wizard:   w,
		center:   center,
		consumer: stream.NewConsumer(cfg.WSBaseURL, p, logging.Logger()),
		tpl:      tpl,
	}, nil
}

func (s *Server) Run(ctx context.Context) error {
	// The push channel lives exactly as long as the dashboard.
	go func() {
		_ = s.consumer.Run(ctx)
	}()

	// Initial load; its error notification is suppressed by the panel.
	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	_ = s.panel.Refresh(loadCtx)
	cancel()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.DashboardHost, s.cfg.DashboardPort),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	return srv.ListenAndServe()
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.handleIndex)
	r.Get("/api/bots", s.handleBots)
	r.Post("/api/bots/refresh", s.handleRefresh)
	r.Get("/api/bots/{botID}/ticks", s.handleTicks)
	r.Post("/api/bots/{botID}/stop", s.handleAction(s.panel.Stop))
	r.Post("/api/bots/{botID}/resume", s.handleAction(s.panel.Resume))
	r.Post("/api/bots/{botID}/withdraw", s.handleAction(s.panel.Withdraw))
	r.Get("/api/balance", s.handleBalance)
	r.Post("/api/positions/{positionID}/withdraw", s.handleWithdrawManual)
	r.Get("/api/notifications", s.handleNotifications)

	r.Get("/api/wizard", s.handleWizardState)
	r.Post("/api/wizard/open", s.handleWizardOpen)
	r.Post("/api/wizard/cancel", s.handleWizardCancel)
	r.Post("/api/wizard/pair", s.handleWizardPair)
	r.Post("/api/wizard/next", s.handleWizardNext)
	r.Post("/api/wizard/back", s.handleWizardBack)
	r.Post("/api/wizard/amount", s.handleWizardAmount)
	r.Post("/api/wizard/risk", s.handleWizardRisk)
	r.Post("/api/wizard/strategy", s.handleWizardStrategy)
	r.Post("/api/wizard/submit", s.handleWizardSubmit)

	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	_ = s.tpl.Execute(w, map[string]any{
		"Token0Symbol": s.cfg.Token0Symbol,
		"Token1Symbol": s.cfg.Token1Symbol,
	})
}

func (s *Server) handleBots(w http.ResponseWriter, r *http.Request) {
	active, unactive := s.panel.Views()
	writeJSON(w, map[string]any{
		"active_bots":   active,
		"unactive_bots": unactive,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	_ = s.panel.Refresh(r.Context())
	s.handleBots(w, r)
}

func (s *Server) handleTicks(w http.ResponseWriter, r *http.Request) {
	botID := chi.URLParam(r, "botID")
	writeJSON(w, map[string]any{
		"bot_id": botID,
		"ticks":  s.panel.Ticks(botID),
	})
}

// handleAction wraps one lifecycle action. Failures are already surfaced
// through the notification center; the HTTP status only tells the page
// whether to re-render immediately.
func (s *Server) handleAction(act func(context.Context, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		botID := chi.URLParam(r, "botID")
		if err := act(r.Context(), botID); err != nil {
			writeJSONStatus(w, http.StatusBadGateway, map[string]any{"ok": false})
			return
		}
		writeJSON(w, map[string]any{"ok": true, "flags": s.panel.Flags(botID)})
	}
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("tokenAddress")
	bal, err := s.api.TokenBalance(r.Context(), token)
	if err != nil {
		writeJSONStatus(w, http.StatusBadGateway, map[string]any{
			"message": botapi.UserMessage(err, "Failed to fetch balance"),
		})
		return
	}
	writeJSON(w, map[string]any{"tokenBalance": bal})
}

func (s *Server) handleWithdrawManual(w http.ResponseWriter, r *http.Request) {
	positionID := chi.URLParam(r, "positionID")
	result, err := s.api.WithdrawManual(r.Context(), positionID)
	if err != nil {
		s.center.Notify(notify.LevelError, "Error", botapi.UserMessage(err, "Failed to withdraw position"))
		writeJSONStatus(w, http.StatusBadGateway, map[string]any{"ok": false})
		return
	}
	s.center.Notify(notify.LevelSuccess, "Success", result)
	writeJSON(w, map[string]any{"ok": true, "result": result})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"notifications": s.center.Active()})
}

func (s *Server) handleWizardState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.wizard.State())
}

func (s *Server) handleWizardOpen(w http.ResponseWriter, r *http.Request) {
	s.wizard.Open()
	writeJSON(w, s.wizard.State())
}

func (s *Server) handleWizardCancel(w http.ResponseWriter, r *http.Request) {
	s.wizard.Cancel()
	writeJSON(w, s.wizard.State())
}

func (s *Server) handleWizardPair(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token0  string `json:"token0"`
		Token1  string `json:"token1"`
		FeeTier int    `json:"fee_tier"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.wizard.SelectPair(body.Token0, body.Token1); err != nil {
		writeJSONStatus(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
		return
	}
	if err := s.wizard.SelectFeeTier(models.FeeTier(body.FeeTier)); err != nil {
		writeJSONStatus(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
		return
	}
	writeJSON(w, s.wizard.State())
}

func (s *Server) handleWizardNext(w http.ResponseWriter, r *http.Request) {
	s.wizard.Next(r.Context())
	writeJSON(w, s.wizard.State())
}

func (s *Server) handleWizardBack(w http.ResponseWriter, r *http.Request) {
	s.wizard.Back()
	writeJSON(w, s.wizard.State())
}

func (s *Server) handleWizardAmount(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	switch body.Field {
	case "amount0":
		s.wizard.SetAmount0(body.Value)
	case "amount1":
		s.wizard.SetAmount1(body.Value)
	default:
		writeJSONStatus(w, http.StatusBadRequest, map[string]any{"message": "field must be amount0 or amount1"})
		return
	}
	writeJSON(w, s.wizard.State())
}

func (s *Server) handleWizardRisk(w http.ResponseWriter, r *http.Request) {
	var body wizard.RiskControls
	if !decodeBody(w, r, &body) {
		return
	}
	s.wizard.SetRiskControls(body)
	writeJSON(w, s.wizard.State())
}

func (s *Server) handleWizardStrategy(w http.ResponseWriter, r *http.Request) {
	var body wizard.Strategy
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.wizard.SetStrategy(body); err != nil {
		writeJSONStatus(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
		return
	}
	writeJSON(w, s.wizard.State())
}

func (s *Server) handleWizardSubmit(w http.ResponseWriter, r *http.Request) {
	resp, err := s.wizard.Submit(r.Context())
	if err != nil {
		// Wizard stays open with field values intact.
		writeJSONStatus(w, http.StatusBadGateway, map[string]any{"ok": false})
		return
	}
	_ = s.panel.Refresh(r.Context())
	writeJSON(w, map[string]any{"ok": true, "bot_id": resp.BotID, "message": resp.Message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeJSONStatus(w, http.StatusBadRequest, map[string]any{"message": "invalid JSON body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	_ = enc.Encode(v)
}
