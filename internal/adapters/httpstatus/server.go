package httpstatus

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jose-valero/warbot/internal/domain"
)

const SecretHeader = "X-Warbot-Secret"

type StatusProvider interface {
	Status(ctx context.Context) (domain.Status, error)
}

type OptInner interface {
	OptIn(ctx context.Context, username string) (bool, error)
}

type Server struct {
	secret string
	status StatusProvider
	optin  OptInner
	loc    *time.Location
	engine *gin.Engine
	log    *slog.Logger
}

func New(secret string, status StatusProvider, optin OptInner, loc *time.Location, log *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	if loc == nil {
		loc = time.UTC
	}
	s := &Server{
		secret: secret,
		status: status,
		optin:  optin,
		loc:    loc,
		engine: gin.New(),
		log:    log.With(slog.String("component", "http")),
	}
	s.engine.Use(gin.Recovery())
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	s.engine.GET("/status", s.handleStatus)
	s.engine.POST("/optin", s.handleOptIn)
}

type statusResponse struct {
	Fighters        int     `json:"fighters"`
	Dead            int     `json:"dead"`
	Candidates      int     `json:"candidates"`
	OptIn           bool    `json:"optin"`
	NextBattle      *string `json:"next_battle"`
	FrequencyHours  int     `json:"frequency_hours"`
	FrequencyMins   int     `json:"frequency_minutes"`
	FrequencyActive bool    `json:"frequency_active"`
	FighterAnnounce bool    `json:"fighter_announce"`
}

func (s *Server) handleStatus(c *gin.Context) {
	st, err := s.status.Status(c.Request.Context())
	if err != nil {
		s.log.Error("status failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "status unavailable"})
		return
	}
	v := st.Vars
	resp := statusResponse{
		Fighters:        st.Fighters,
		Dead:            st.Dead,
		Candidates:      st.Candidates,
		OptIn:           v.OptInRunning,
		FrequencyHours:  v.Frequency.Hours,
		FrequencyMins:   v.Frequency.Minutes,
		FrequencyActive: !v.StopFrequency,
		FighterAnnounce: v.FighterAnnounce,
	}
	if !v.StopNextBattle {
		at := v.NextBattle.In(s.loc).Format(time.RFC3339)
		resp.NextBattle = &at
	}
	c.JSON(http.StatusOK, resp)
}

type optInRequest struct {
	Username string `json:"username" binding:"required"`
}

func (s *Server) handleOptIn(c *gin.Context) {
	got := c.GetHeader(SecretHeader)
	if s.secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(s.secret)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req optInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username required"})
		return
	}
	added, err := s.optin.OptIn(c.Request.Context(), strings.TrimSpace(req.Username))
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Msg})
		return
	case err != nil:
		s.log.Error("opt-in failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "opt-in failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

// Run sirve hasta que se cancele ctx.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("http listening", slog.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	}
}
