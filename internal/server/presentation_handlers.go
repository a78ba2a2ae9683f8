package server

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"centerstage/internal/models"
	"centerstage/internal/observability"
	"centerstage/internal/review"
	"centerstage/internal/slideshow"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const wsWriteTimeout = 10 * time.Second

// wsWriter serializes JSON writes onto one WebSocket connection.
type wsWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsWriter) sendJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

// PresentationHandler handles GET /api/public/projects/:slug/present.
// Each connection gets its own sequencer, timer runner, and refresh poller;
// all of them tear down with the connection.
func (s *Server) PresentationHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		slug := conn.Params("slug")
		project, err := s.projectService.GetActiveBySlug(ctx, slug)
		if err != nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"project not found"}`))
			_ = conn.Close()
			return
		}

		cfg := slideshow.Config{TransitionSeconds: 8}
		if p := project.Presentation; p != nil {
			cfg.RandomizeOrder = p.RandomizeOrder
			cfg.AllowVideoFinish = p.AllowVideoFinish
			cfg.TransitionSeconds = p.TransitionSeconds
		}

		subs, err := s.subService.ListApproved(ctx, project.ID)
		if err != nil {
			log.Printf("presentation: initial approved fetch failed for %s: %v", slug, err)
			subs = nil
		}

		observability.PresentationConnections.Inc()
		defer observability.PresentationConnections.Dec()

		writer := &wsWriter{conn: conn}
		send := func(f slideshow.Frame) {
			observability.PresentationFrames.WithLabelValues(f.Type).Inc()
			if werr := writer.sendJSON(f); werr != nil {
				cancel()
			}
		}

		seq := slideshow.NewSequencer(cfg, subs)
		runner := slideshow.NewRunner(seq, send, observability.GlobalLogger.Logger)
		runner.Start(ctx)
		defer runner.Stop()

		fetch := func(pctx context.Context) ([]models.Submission, error) {
			if ferr := pctx.Err(); ferr != nil {
				return nil, ferr
			}
			list, lerr := s.subService.ListApproved(pctx, project.ID)
			if lerr != nil {
				observability.PollerRefreshFailures.Inc()
			}
			return list, lerr
		}
		poller := slideshow.NewPoller(0, fetch, runner.Replace, observability.GlobalLogger.Logger)
		go poller.Run(ctx)

		// Read loop: the display reports discovered video lengths; anything
		// else is ignored. A read error means the connection is gone.
		for {
			_, msg, rerr := conn.ReadMessage()
			if rerr != nil {
				return
			}
			var incoming struct {
				Type         string  `json:"type"`
				SubmissionID string  `json:"submission_id"`
				Seconds      float64 `json:"seconds"`
			}
			if jerr := json.Unmarshal(msg, &incoming); jerr != nil {
				continue
			}
			if incoming.Type == "video_duration" && incoming.SubmissionID != "" {
				runner.NoteVideoDuration(incoming.SubmissionID, incoming.Seconds)
			}
		}
	})
}

// ReviewStreamHandler handles GET /api/projects/:id/review/ws. The stream
// pushes the full counts on every watcher cycle plus a new_pending frame with
// the positive delta when submissions arrived.
func (s *Server) ReviewStreamHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)
		projectID := conn.Params("id")

		user, err := s.userService.Get(ctx, userID)
		if err != nil {
			_ = conn.Close()
			return
		}
		can, err := s.projectService.CanModerate(ctx, user, projectID)
		if err != nil || !can {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"no access to this project"}`))
			_ = conn.Close()
			return
		}

		writer := &wsWriter{conn: conn}
		fetch := func(wctx context.Context) (models.StatusCounts, error) {
			return s.subService.Counts(wctx, projectID)
		}
		onCounts := func(counts models.StatusCounts) {
			if werr := writer.sendJSON(fiber.Map{"type": "counts", "counts": counts}); werr != nil {
				cancel()
			}
		}
		onNewPending := func(delta int64) {
			if werr := writer.sendJSON(fiber.Map{"type": "new_pending", "delta": delta}); werr != nil {
				cancel()
			}
		}

		watcher := review.NewWatcher(0, fetch, onCounts, onNewPending, observability.GlobalLogger.Logger)
		go watcher.Run(ctx)

		// Keep reading until the client goes away.
		for {
			if _, _, rerr := conn.ReadMessage(); rerr != nil {
				return
			}
		}
	})
}
