package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dd0wney/algoviz/pkg/logging"
	"github.com/dd0wney/algoviz/pkg/metrics"
	"github.com/dd0wney/algoviz/pkg/narration"
	"github.com/dd0wney/algoviz/pkg/payload"
	"github.com/dd0wney/algoviz/pkg/playback"
	"github.com/dd0wney/algoviz/pkg/viz"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Maximum inbound command size
	maxCommandSize = 1 << 20

	// Outbound buffer; a session slower than this gets dropped
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// session is one live websocket playback session. The controller owns all
// playback state; the session translates wire commands into controller calls
// and controller callbacks into outbound frames.
type session struct {
	id     string
	server *Server
	conn   *websocket.Conn
	send   chan serverFrame
	log    logging.Logger

	mu     sync.Mutex
	engine *viz.Engine
	ctrl   *playback.Controller
	parsed payload.Parsed
}

// wsSpeaker narrates over the wire: each utterance is chunked at clause
// boundaries and streamed as speak frames, and Stop emits a cancel frame so
// the client aborts whatever is still sounding.
type wsSpeaker struct {
	sess *session
	m    *metrics.Registry
}

func (s *wsSpeaker) Speak(text string) error {
	for _, chunk := range narration.Chunks(text) {
		s.sess.enqueue(serverFrame{Type: frameSpeak, Text: chunk})
	}
	if s.m != nil {
		s.m.RecordNarration()
	}
	return nil
}

func (s *wsSpeaker) Stop() {
	s.sess.enqueue(serverFrame{Type: frameCancelSpeak})
}

// handleSession upgrades the connection and runs the session until the peer
// goes away.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws upgrade failed", logging.Error(err))
		return
	}

	sess := &session{
		id:     uuid.NewString(),
		server: s,
		conn:   conn,
		send:   make(chan serverFrame, sendBuffer),
	}
	sess.log = s.log.With(logging.Session(sess.id))
	sess.engine = viz.New(s.layoutConfig(), viz.WithLogger(sess.log), viz.WithMetrics(s.metrics))

	s.metrics.SessionsActive.Inc()
	sess.log.Info("session opened", logging.Component("ws"))

	done := make(chan struct{})
	go sess.readLoop(done)
	sess.writeLoop(done)

	sess.teardown()
	s.metrics.SessionsActive.Dec()
	sess.log.Info("session closed", logging.Component("ws"))
}

// enqueue hands a frame to the writer goroutine. Frames for a session that
// cannot drain its buffer are dropped rather than blocking the controller.
func (s *session) enqueue(frame serverFrame) {
	select {
	case s.send <- frame:
	default:
		s.log.Warn("outbound buffer full, dropping frame",
			logging.String("frame", frame.Type))
	}
}

func (s *session) readLoop(done chan struct{}) {
	defer close(done)

	s.conn.SetReadLimit(maxCommandSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd clientCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.enqueue(serverFrame{Type: frameError, Message: "invalid command"})
			continue
		}
		s.dispatch(cmd)
	}
}

func (s *session) writeLoop(done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return

		case frame := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(frame); err != nil {
				s.log.Warn("ws write failed", logging.Error(err))
				s.conn.Close()
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.conn.Close()
				return
			}
		}
	}
}

func (s *session) dispatch(cmd clientCommand) {
	switch cmd.Action {
	case "load":
		s.load(cmd)
	case "play":
		s.withController(func(c *playback.Controller) { c.Play() })
		s.pushState()
	case "pause":
		s.withController(func(c *playback.Controller) { c.Pause() })
		s.pushState()
	case "next":
		s.withController(func(c *playback.Controller) { c.Next() })
	case "previous":
		s.withController(func(c *playback.Controller) { c.Previous() })
	case "reset":
		s.withController(func(c *playback.Controller) { c.Reset() })
		s.pushState()
	case "setSpeed":
		s.setSpeed(cmd.SpeedMs)
	default:
		s.enqueue(serverFrame{Type: frameError, Message: "unknown action: " + cmd.Action})
	}
}

// load installs a new algorithm into the session, either translating a
// prompt or accepting pre-translated data. Any previous playback is torn
// down first.
func (s *session) load(cmd clientCommand) {
	data := cmd.Data
	if data == nil {
		if s.server.translator == nil {
			s.enqueue(serverFrame{Type: frameError, Message: "no translation endpoint configured"})
			return
		}
		translated, err := s.server.translator.Translate(context.Background(), cmd.Prompt)
		if err != nil {
			s.enqueue(serverFrame{Type: frameError, Message: err.Error()})
			return
		}
		data = translated
	} else if err := data.Validate(); err != nil {
		s.enqueue(serverFrame{Type: frameError, Message: err.Error()})
		return
	}

	s.mu.Lock()
	if s.ctrl != nil {
		s.ctrl.Close()
	}
	s.engine.Reset()
	s.parsed = payload.Parse(data.Visualization)
	s.ctrl = playback.New(data.Steps,
		playback.WithSpeaker(&wsSpeaker{sess: s, m: s.server.metrics}),
		playback.WithOnStep(s.pushScene),
		playback.WithSpeed(s.server.cfg.Playback.Speed()),
		playback.WithLogger(s.log),
		playback.WithMetrics(s.server.metrics),
	)
	s.mu.Unlock()

	s.enqueue(serverFrame{Type: frameAlgorithm, Algorithm: data})
	s.pushScene(0)
	s.pushState()
}

func (s *session) setSpeed(speedMs int) {
	err := func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.ctrl == nil {
			return playback.ErrInvalidSpeed
		}
		return s.ctrl.SetSpeed(time.Duration(speedMs) * time.Millisecond)
	}()
	if err != nil {
		s.enqueue(serverFrame{Type: frameError, Message: err.Error()})
		return
	}
	s.pushState()
}

func (s *session) withController(fn func(*playback.Controller)) {
	s.mu.Lock()
	ctrl := s.ctrl
	s.mu.Unlock()
	if ctrl == nil {
		s.enqueue(serverFrame{Type: frameError, Message: "no algorithm loaded"})
		return
	}
	fn(ctrl)
}

// pushScene renders the scene for a committed step and streams it. It is
// the controller's onStep callback, so it must not take the session lock
// around controller calls.
func (s *session) pushScene(step int) {
	s.mu.Lock()
	parsed := s.parsed
	engine := s.engine
	s.mu.Unlock()

	sc := engine.RenderParsed(parsed, step)
	s.enqueue(serverFrame{Type: frameScene, Step: step, Scene: sc})
}

func (s *session) pushState() {
	s.mu.Lock()
	ctrl := s.ctrl
	s.mu.Unlock()
	if ctrl == nil {
		return
	}
	snap := ctrl.Snapshot()
	s.enqueue(serverFrame{
		Type:    frameState,
		Status:  snap.Status.String(),
		Step:    snap.Step,
		SpeedMs: int(snap.Speed / time.Millisecond),
	})
}

func (s *session) teardown() {
	s.mu.Lock()
	ctrl := s.ctrl
	s.ctrl = nil
	s.mu.Unlock()
	if ctrl != nil {
		ctrl.Close()
	}
	s.conn.Close()
}
