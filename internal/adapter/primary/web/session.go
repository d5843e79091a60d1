package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"moviesearch/internal/core"
	"moviesearch/internal/domain"
	"moviesearch/internal/stream"
)

const (
	writeTimeout = 5 * time.Second
	readLimit    = 4 << 10
)

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warn("websocket accept", zap.Error(err))
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(readLimit)

	sess := &session{
		conn: conn,
		repo: s.repo,
		log:  s.log.With(zap.String("session", uuid.NewString())),
	}
	sess.log.Info("session started")
	sess.run(r.Context())
	sess.log.Info("session ended", zap.Bool("fault", sess.fault != nil))
}

// session drives one browser connection: the read loop turns client messages
// into events, the write loop pushes every emitted view state.
type session struct {
	conn *websocket.Conn
	repo domain.MovieRepository
	log  *zap.Logger

	// fault is written by the pipeline goroutine before it closes its output.
	fault error
}

func (s *session) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := core.NewStore(s.repo,
		core.WithLogger(s.log),
		core.WithGuard(core.Preconditions),
		core.WithFaultHandler(func(err error) { s.fault = err }),
	)
	events := make(chan domain.Event)
	states := store.Render(ctx, events)

	var wg conc.WaitGroup
	wg.Go(func() {
		defer close(events)
		s.readLoop(ctx, store, events)
	})
	wg.Go(func() {
		defer cancel()
		s.writeLoop(ctx, states)
		if s.fault != nil {
			_ = s.conn.Close(websocket.StatusInternalError, "pipeline fault")
		}
	})
	wg.Wait()
	_ = s.conn.Close(websocket.StatusNormalClosure, "")
}

func (s *session) readLoop(ctx context.Context, store *core.Store, events chan<- domain.Event) {
	if !stream.Send[domain.Event](ctx, events, domain.ScreenLoad{}) {
		return
	}
	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				s.log.Debug("read", zap.Error(err))
			}
			return
		}
		ev, err := decodeEvent(data, store.Snapshot())
		if err != nil {
			s.log.Debug("rejected message", zap.Error(err))
			s.notify(ctx, err.Error())
			continue
		}
		if !stream.Send(ctx, events, ev) {
			return
		}
	}
}

func (s *session) writeLoop(ctx context.Context, states <-chan domain.ViewState) {
	for st := range states {
		data, err := encodeState(st)
		if err != nil {
			s.log.Error("encode state", zap.Error(err))
			return
		}
		if err := s.write(ctx, data); err != nil {
			s.log.Debug("write", zap.Error(err))
			return
		}
	}
}

func (s *session) notify(ctx context.Context, msg string) {
	data, err := encodeError(msg)
	if err != nil {
		return
	}
	_ = s.write(ctx, data)
}

func (s *session) write(ctx context.Context, data []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return s.conn.Write(writeCtx, websocket.MessageText, data)
}
