package stream

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/Mstrdav/cellular/internal/lattice"
	"github.com/Mstrdav/cellular/internal/sims/life"
)

func newTestSim() *life.Life {
	cfg := life.DefaultConfig()
	cfg.Width, cfg.Height, cfg.Scale = 120, 120, 12
	sim := life.New(cfg)
	for _, c := range []lattice.Coord{lattice.C(0, -1), lattice.C(0, 0), lattice.C(0, 1)} {
		sim.Set(c, lattice.Alive)
	}
	return sim
}

func do(h http.Handler, method, target string) (*httptest.ResponseRecorder, Frame) {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	var f Frame
	if rec.Code == http.StatusOK {
		_ = json.NewDecoder(rec.Body).Decode(&f)
	}
	return rec, f
}

func TestServer(t *testing.T) {
	Convey("Given a server over a vertical blinker", t, func() {
		sim := newTestSim()
		h := NewServer(sim).Handler()

		Convey("GET /state returns the visible region", func() {
			rec, f := do(h, http.MethodGet, "/state")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(f.Region, ShouldResemble, lattice.Rect(-5, -5, 5, 5))
			So(f.Rows, ShouldHaveLength, 10)
			So(f.Population, ShouldEqual, 3)
			So(f.Alive(lattice.C(0, -1)), ShouldBeTrue)
			So(f.Alive(lattice.C(1, 0)), ShouldBeFalse)
			So(f.Alive(lattice.C(50, 50)), ShouldBeFalse)
		})

		Convey("POST /control/step advances one generation", func() {
			rec, f := do(h, http.MethodPost, "/control/step")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(f.Generation, ShouldEqual, uint64(1))
			So(f.Alive(lattice.C(-1, 0)), ShouldBeTrue)
			So(f.Alive(lattice.C(1, 0)), ShouldBeTrue)
			So(f.Alive(lattice.C(0, -1)), ShouldBeFalse)
		})

		Convey("start and stop switch the animation state", func() {
			_, f := do(h, http.MethodPost, "/control/start")
			So(f.Running, ShouldBeTrue)
			_, f = do(h, http.MethodPost, "/control/toggle")
			So(f.Running, ShouldBeFalse)
			_, f = do(h, http.MethodPost, "/control/stop")
			So(f.Running, ShouldBeFalse)
		})

		Convey("clear empties the lattice", func() {
			_, f := do(h, http.MethodPost, "/control/clear")
			So(f.Population, ShouldEqual, 0)
			So(f.Generation, ShouldEqual, uint64(0))
		})

		Convey("an unknown action is rejected", func() {
			rec, _ := do(h, http.MethodPost, "/control/explode")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(rec.Body.String(), ShouldContainSubstring, "unknown action")
		})

		Convey("GET is not allowed on control routes", func() {
			rec, _ := do(h, http.MethodGet, "/control/step")
			So(rec.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("POST /pan moves the region without touching cells", func() {
			_, f := do(h, http.MethodPost, "/pan?dx=3&dy=-2")
			So(f.Region, ShouldResemble, lattice.Rect(-2, -7, 8, 3))
			So(f.Population, ShouldEqual, 3)
			So(f.Alive(lattice.C(0, 0)), ShouldBeTrue)
		})

		Convey("POST /zoom clamps the scale", func() {
			_, f := do(h, http.MethodPost, "/zoom?delta=1000")
			So(f.Scale, ShouldEqual, 100.0)
		})

		Convey("POST /resize changes the region size", func() {
			_, f := do(h, http.MethodPost, "/resize?w=240&h=120")
			So(f.Region, ShouldResemble, lattice.Rect(-10, -5, 10, 5))
		})

		Convey("POST /toggle flips one cell", func() {
			_, f := do(h, http.MethodPost, "/toggle?i=0&j=0")
			So(f.Alive(lattice.C(0, 0)), ShouldBeFalse)
			So(f.Population, ShouldEqual, 2)
		})

		Convey("non-finite pan and zoom values are rejected and leave the view intact", func() {
			for _, target := range []string{"/pan?dx=NaN&dy=0", "/pan?dx=0&dy=-Inf", "/zoom?delta=%2BInf"} {
				rec, _ := do(h, http.MethodPost, target)
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				So(rec.Body.String(), ShouldContainSubstring, "not finite")
			}
			_, f := do(h, http.MethodPost, "/pan?dx=1&dy=0")
			So(f.CenterX, ShouldEqual, 1.0)
			So(f.Region, ShouldResemble, lattice.Rect(-4, -5, 6, 5))
		})

		Convey("oversized surfaces are rejected before any cell is generated", func() {
			before := sim.Stored()
			rec, _ := do(h, http.MethodPost, "/resize?w=2000000000&h=768")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			rec, _ = do(h, http.MethodPost, "/resize?w=-1&h=768")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(sim.Stored(), ShouldEqual, before)
			So(sim.VisibleRegion(), ShouldResemble, lattice.Rect(-5, -5, 5, 5))

			rec, _ = do(h, http.MethodPost, "/resize?w=16384&h=120")
			So(rec.Code, ShouldEqual, http.StatusOK)
		})

		Convey("malformed query values are rejected", func() {
			rec, _ := do(h, http.MethodPost, "/pan?dx=left")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			rec, _ = do(h, http.MethodPost, "/toggle?i=1")
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestControl(t *testing.T) {
	Convey("Control reports unknown actions with a sentinel", t, func() {
		s := NewServer(newTestSim())
		So(errors.Is(s.Control("nope"), ErrUnknownAction), ShouldBeTrue)
		So(errors.Is(s.Control("step"), ErrUnknownAction), ShouldBeFalse)
		So(s.Control("reset"), ShouldBeNil)
		So(s.sim.Generation(), ShouldEqual, uint64(0))
	})
}

func TestWebsocket(t *testing.T) {
	Convey("Given a websocket client", t, func() {
		s := NewServer(newTestSim())
		s.pubEvery = 10 * time.Millisecond
		srv := httptest.NewServer(s.Handler())
		defer srv.Close()

		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		So(err, ShouldBeNil)
		defer conn.Close()

		Convey("frames follow the simulation", func() {
			So(conn.SetReadDeadline(time.Now().Add(2*time.Second)), ShouldBeNil)
			var f Frame
			So(conn.ReadJSON(&f), ShouldBeNil)
			So(f.Generation, ShouldEqual, uint64(0))

			So(s.Control("step"), ShouldBeNil)
			deadline := time.Now().Add(2 * time.Second)
			for f.Generation == 0 && time.Now().Before(deadline) {
				So(conn.ReadJSON(&f), ShouldBeNil)
			}
			So(f.Generation, ShouldEqual, uint64(1))
			So(f.Alive(lattice.C(1, 0)), ShouldBeTrue)
		})
	})
}
