package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	stderrors "iris-assistant/internal/common/errors"
	"iris-assistant/internal/common/metrics"
	"iris-assistant/internal/dispatch"
	"iris-assistant/internal/models"
)

// streamResponse renders a dispatch response as server-sent events and
// persists the exchanged turns. Event order: meta, any number of delta,
// optional media, done.
func (s *Server) streamResponse(w http.ResponseWriter, r *http.Request, prompt, email string, resp dispatch.Response) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	writeEvent(w, flusher, "meta", map[string]string{
		"intent":    string(resp.Intent),
		"requestId": RequestID(r.Context()),
	})

	text := resp.Text
	if resp.Stream != nil {
		for chunk := range resp.Stream {
			if chunk.Err != nil {
				text += "\n\n⚠️ " + stderrors.UserMessage(chunk.Err)
				break
			}
			text += chunk.Delta
			metrics.StreamedChunks.Inc()
			writeEvent(w, flusher, "delta", map[string]string{"text": chunk.Delta})
		}
	}

	if resp.Media != nil {
		writeEvent(w, flusher, "media", resp.Media)
	}

	writeEvent(w, flusher, "done", map[string]string{"text": text})

	// persist after the stream completes so the saved turn holds final text.
	// a canceled request context must not lose the exchange.
	saveCtx := context.WithoutCancel(r.Context())
	if err := s.history.Append(saveCtx, email,
		models.ConversationTurn{Role: models.RoleUser, Content: prompt},
		models.ConversationTurn{Role: models.RoleAssistant, Content: text, Media: resp.Media},
	); err != nil {
		s.logger.Error("failed to persist turns", map[string]interface{}{
			"user":  email,
			"error": err.Error(),
		})
	}
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}
