package confirm

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/flashbots/go-utils/httplogger"
	"github.com/go-chi/chi/v5"
)

// HTTP serves pending prompts over a small HTTP API so a remote operator can
// approve bootstrap pauses on a headless host:
//
//	GET  /prompt   -> 200 with the pending prompt text, 204 if none
//	POST /confirm  -> body "yes" or "no" answers the pending prompt
//
// The server starts lazily on the first Confirm call and stays up for the
// rest of the run, since a single bootstrap may pause more than once.
type HTTP struct {
	// ListenAddr is the address to serve the approval API on.
	ListenAddr string

	// Log receives request logs and lifecycle messages.
	Log *slog.Logger

	mu      sync.Mutex
	prompt  string
	pending chan bool

	startOnce sync.Once
	startErr  error
}

// Confirm publishes prompt on the approval API and blocks until a remote
// operator answers it.
func (c *HTTP) Confirm(prompt string) (bool, error) {
	c.startOnce.Do(c.start)
	if c.startErr != nil {
		return false, c.startErr
	}

	answerCh := make(chan bool, 1)

	c.mu.Lock()
	if c.pending != nil {
		c.mu.Unlock()
		return false, errors.New("another confirmation is already pending")
	}
	c.prompt = prompt
	c.pending = answerCh
	c.mu.Unlock()

	c.Log.Info("Waiting for remote confirmation",
		slog.String("addr", c.ListenAddr),
		slog.String("prompt", prompt))

	answer := <-answerCh

	c.mu.Lock()
	c.prompt = ""
	c.pending = nil
	c.mu.Unlock()

	return answer, nil
}

func (c *HTTP) start() {
	mux := chi.NewRouter()
	mux.Use(func(next http.Handler) http.Handler {
		return httplogger.LoggingMiddlewareSlog(c.Log, next)
	})
	mux.Get("/prompt", c.handlePrompt)
	mux.Post("/confirm", c.handleConfirm)

	srv := &http.Server{
		Addr:    c.ListenAddr,
		Handler: mux,
	}

	ln, err := net.Listen("tcp", c.ListenAddr)
	if err != nil {
		c.startErr = fmt.Errorf("could not listen on confirmation address: %w", err)
		return
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.Log.Error("Confirmation server failed", "err", err)
		}
	}()
}

func (c *HTTP) handlePrompt(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	prompt := c.prompt
	c.mu.Unlock()

	if prompt == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Write([]byte(prompt))
}

func (c *HTTP) handleConfirm(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 16))
	if err != nil {
		http.Error(w, "could not read request body", http.StatusBadRequest)
		return
	}

	c.mu.Lock()
	pending := c.pending
	c.mu.Unlock()

	if pending == nil {
		http.Error(w, "no confirmation pending", http.StatusConflict)
		return
	}

	select {
	case pending <- parseAnswer(string(body)):
		w.Write([]byte("ok"))
	default:
		http.Error(w, "confirmation already answered", http.StatusConflict)
	}
}
