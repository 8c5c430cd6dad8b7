package status

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// BotStats is the slice of the bot the status endpoints report on.
type BotStats interface {
	CommandsServed() int64
	Uptime() time.Duration
}

// CacheStats reports the live entry counts of the API caches.
type CacheStats interface {
	CacheStats() (uuids, profiles int)
}

// Server exposes liveness and counters over HTTP.
type Server struct {
	addr   string
	bot    BotStats
	caches CacheStats
}

func NewServer(addr string, bot BotStats, caches CacheStats) *Server {
	return &Server{addr: addr, bot: bot, caches: caches}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	slog.Info("status server listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealthz)
	r.GET("/stats", s.handleStats)

	return r
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": s.bot.Uptime().Round(time.Second).String(),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	uuids, profiles := s.caches.CacheStats()
	c.JSON(http.StatusOK, gin.H{
		"commands_served": s.bot.CommandsServed(),
		"uptime_seconds":  int64(s.bot.Uptime().Seconds()),
		"cached_uuids":    uuids,
		"cached_profiles": profiles,
	})
}
