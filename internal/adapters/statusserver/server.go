// Package statusserver implements the ports.StatusPublisher interface as a
// small HTTP surface: an HTML dashboard on / and the raw snapshot on /json.
// It holds only the latest published snapshot and serves it concurrently
// with the control loop; the loop hands over copies, never live state.
package statusserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"btcMomentumBot/internal/domain"
	"btcMomentumBot/internal/ports"
)

var dashboardTmpl = template.Must(template.New("dashboard").Parse(`<h2>BTC Bot Dashboard</h2>
<p>Status: {{.BotStatus}}</p>
<p>Last Checked: {{.LastChecked}}</p>
<p>Price: {{.LastPrice}}</p>
<p>Signal: {{.LastSignal}}</p>
<p>Balance: {{printf "%.2f" .Balance}}</p>
<p>Open Trades: {{len .OpenTrades}}</p>
<ul>
{{range .OpenTrades}}    <li>{{.Side}} @ {{.EntryPrice}} &rarr; TP {{.TakeProfit}}, SL {{.StopLoss}}</li>
{{end}}</ul>
`))

// recentOrdersLimit caps the rows returned by the /orders endpoint.
const recentOrdersLimit = 50

// Server publishes the latest bot status over HTTP.
type Server struct {
	logger  ports.Logger
	addr    string
	router  *gin.Engine
	journal ports.OrderJournal

	mu       sync.RWMutex
	snapshot domain.StatusSnapshot
}

// New creates a status server listening on addr once Start is called. The
// journal may be nil, in which case /orders reports an empty history.
func New(addr string, logger ports.Logger, journal ports.OrderJournal) (*Server, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for status server")
	}
	if addr == "" {
		addr = ":8080"
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		logger:  logger,
		addr:    addr,
		router:  router,
		journal: journal,
		snapshot: domain.StatusSnapshot{
			BotStatus: "Starting...",
		},
	}
	router.GET("/", s.dashboard)
	router.GET("/json", s.getStatus)
	router.GET("/orders", s.getOrders)
	router.GET("/health", s.health)
	return s, nil
}

// Publish stores the snapshot for serving. Snapshots are replaced wholesale;
// readers always observe a complete cycle's view.
func (s *Server) Publish(snapshot domain.StatusSnapshot) {
	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()
}

func (s *Server) current() domain.StatusSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *Server) dashboard(c *gin.Context) {
	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, s.current()); err != nil {
		s.logger.Error(c.Request.Context(), err, "Failed to render dashboard")
		c.String(http.StatusInternalServerError, "template error")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.current())
}

func (s *Server) getOrders(c *gin.Context) {
	records := []*domain.OrderRecord{}
	if s.journal != nil {
		var err error
		records, err = s.journal.RecentOrders(c.Request.Context(), recentOrdersLimit)
		if err != nil {
			s.logger.Error(c.Request.Context(), err, "Failed to read order history")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read order history"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"orders": records})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Start serves HTTP until the context is cancelled, then shuts down
// gracefully. Intended to run on its own goroutine alongside the control
// loop.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Status server listening", map[string]interface{}{"addr": s.addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("status server shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("status server: %w", err)
	}
}
