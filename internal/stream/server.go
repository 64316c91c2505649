package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"

	"github.com/Mstrdav/cellular/internal/lattice"
	"github.com/Mstrdav/cellular/internal/sims/life"
)

const (
	// frameInterval paces the headless host loop, standing in for a display
	// refresh.
	frameInterval = time.Second / 60
	// pubResolution is the rate frames are pushed to websocket clients.
	pubResolution = 100 * time.Millisecond
	// writeWait bounds a single websocket write.
	writeWait = time.Second
	// shutdownWait bounds graceful HTTP shutdown.
	shutdownWait = 5 * time.Second
	// maxSurface caps a remote surface side in pixels, which bounds how
	// many cells one resize can generate.
	maxSurface = 16384
)

// ErrUnknownAction is returned for control actions the server does not know.
var ErrUnknownAction = errors.New("stream: unknown action")

// ErrBadQuery is returned for missing, malformed or out-of-range query values.
var ErrBadQuery = errors.New("stream: bad query value")

// Server exposes one simulation to remote viewers.
type Server struct {
	sim      *life.Life
	router   *mux.Router
	upgrader websocket.Upgrader
	pubEvery time.Duration
}

// NewServer builds the routes for sim.
func NewServer(sim *life.Life) *Server {
	s := &Server{sim: sim, router: mux.NewRouter(), pubEvery: pubResolution}
	s.router.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.handleWebsocket).Methods(http.MethodGet)
	s.router.HandleFunc("/control/{action}", s.handleControl).Methods(http.MethodPost)
	s.router.HandleFunc("/pan", s.handlePan).Methods(http.MethodPost)
	s.router.HandleFunc("/zoom", s.handleZoom).Methods(http.MethodPost)
	s.router.HandleFunc("/resize", s.handleResize).Methods(http.MethodPost)
	s.router.HandleFunc("/toggle", s.handleToggle).Methods(http.MethodPost)
	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves addr and drives the simulation until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Printf("stream: listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	group.Go(func() error {
		s.drive(groupCtx)
		return nil
	})
	return group.Wait()
}

// drive is the headless host loop: one Tick per frame.
func (s *Server) drive(ctx context.Context) {
	frames := channerics.NewTicker(ctx.Done(), frameInterval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-frames:
			s.sim.Tick(time.Now())
		}
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Capture(s.sim, lattice.NewPatch(lattice.Region{})))
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	if err := s.Control(mux.Vars(r)["action"]); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.handleState(w, r)
}

// Control applies a named action: start, stop, toggle, step, clear or reset.
func (s *Server) Control(action string) error {
	switch action {
	case "start":
		s.sim.StartAnimation()
	case "stop":
		s.sim.StopAnimation()
	case "toggle":
		s.sim.ToggleAnimation()
	case "step":
		s.sim.Step()
	case "clear":
		s.sim.Clear()
	case "reset":
		s.sim.Reset(s.sim.Config().Seed)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return nil
}

func (s *Server) handlePan(w http.ResponseWriter, r *http.Request) {
	dx, errX := floatQuery(r, "dx")
	dy, errY := floatQuery(r, "dy")
	if err := errors.Join(errX, errY); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.sim.Pan(dx, dy)
	s.handleState(w, r)
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	delta, err := floatQuery(r, "delta")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.sim.Zoom(delta)
	s.handleState(w, r)
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	width, errW := sizeQuery(r, "w")
	height, errH := sizeQuery(r, "h")
	if err := errors.Join(errW, errH); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.sim.Resize(width, height)
	s.handleState(w, r)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	i, errI := intQuery(r, "i")
	j, errJ := intQuery(r, "j")
	if err := errors.Join(errI, errJ); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.sim.ToggleCell(lattice.C(i, j))
	s.handleState(w, r)
}

// handleWebsocket pushes a frame every pubEvery until the peer leaves.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	group, ctx := errgroup.WithContext(r.Context())
	group.Go(func() error {
		// Reads only detect the peer closing.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return err
			}
		}
	})
	group.Go(func() error {
		err := s.publish(ctx, conn)
		// Unblocks the reader.
		conn.Close()
		return err
	})
	if err := group.Wait(); err != nil && !isClosed(err) {
		log.Printf("stream: websocket %s: %v", r.RemoteAddr, err)
	}
}

func (s *Server) publish(ctx context.Context, conn *websocket.Conn) error {
	patch := lattice.NewPatch(lattice.Region{})
	send := func() error {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return err
		}
		return conn.WriteJSON(Capture(s.sim, patch))
	}
	if err := send(); err != nil {
		return err
	}
	ticks := channerics.NewTicker(ctx.Done(), s.pubEvery)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticks:
			if err := send(); err != nil {
				return err
			}
		}
	}
}

func isClosed(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
		errors.Is(err, context.Canceled)
}

// floatQuery parses a finite float. NaN or Inf would poison the viewport.
func floatQuery(r *http.Request, key string) (float64, error) {
	raw := r.URL.Query().Get(key)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %w", ErrBadQuery, key, raw, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s=%q is not finite", ErrBadQuery, key, raw)
	}
	return v, nil
}

func intQuery(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %w", ErrBadQuery, key, raw, err)
	}
	return v, nil
}

// sizeQuery parses a surface side in [0, maxSurface].
func sizeQuery(r *http.Request, key string) (int, error) {
	v, err := intQuery(r, key)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > maxSurface {
		return 0, fmt.Errorf("%w: %s=%d outside [0, %d]", ErrBadQuery, key, v, maxSurface)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
