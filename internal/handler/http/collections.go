// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/internal/utils"
	"github.com/MKhiriev/go-institute-sync/models"
)

const (
	// watchWriteWait bounds a single websocket write.
	watchWriteWait = 10 * time.Second
	// watchPingPeriod is how often an idle watch stream is pinged.
	watchPingPeriod = 30 * time.Second
	// watchPongWait is how long the client may stay silent.
	watchPongWait = watchPingPeriod + watchWriteWait

	// refreshMessage sent by the client requests a refetch.
	refreshMessage = "refresh"
)

func (h *Handler) getCollection(w http.ResponseWriter, r *http.Request) {
	state, err := h.services.CollectionService.State(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeServiceError(w, r, "*Handler.getCollection", err)
		return
	}
	utils.WriteJSON(w, presentState(r.Context(), chi.URLParam(r, "name"), state), http.StatusOK)
}

func (h *Handler) refreshCollection(w http.ResponseWriter, r *http.Request) {
	if err := h.services.CollectionService.Refresh(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeServiceError(w, r, "*Handler.refreshCollection", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// watchCollection streams the sync state of a collection over a websocket.
// The current state is sent right after the upgrade and again after every
// change; identical consecutive states are sent once. A "refresh" text
// message from the client requests a refetch.
func (h *Handler) watchCollection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	log := logger.FromRequest(r)

	// access is checked before the upgrade so errors are plain HTTP responses
	if err := h.services.CollectionService.Open(r.Context(), name); err != nil {
		writeServiceError(w, r, "*Handler.watchCollection", err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Err(err).Str("func", "*Handler.watchCollection").Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// changed holds at most one pending notification; the writer always
	// reads the latest state itself
	changed := make(chan struct{}, 1)
	notify := func(models.SyncState) {
		select {
		case changed <- struct{}{}:
		default:
		}
	}

	unsubscribe, err := h.services.CollectionService.Watch(ctx, name, notify)
	if err != nil {
		log.Err(err).Str("func", "*Handler.watchCollection").Msg("error watching collection")
		closeWatch(conn, websocket.CloseInternalServerErr, err.Error())
		return
	}
	defer unsubscribe()
	notify(models.SyncState{})

	go h.readWatchCommands(ctx, cancel, conn, name)

	ticker := time.NewTicker(watchPingPeriod)
	defer ticker.Stop()

	var last []byte
	for {
		select {
		case <-ctx.Done():
			closeWatch(conn, websocket.CloseNormalClosure, "")
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(watchWriteWait))
			if err = conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-changed:
			state, err := h.services.CollectionService.State(ctx, name)
			if err != nil {
				log.Err(err).Str("func", "*Handler.watchCollection").Msg("error reading collection state")
				closeWatch(conn, websocket.CloseInternalServerErr, err.Error())
				return
			}
			payload, err := json.Marshal(presentState(ctx, name, state))
			if err != nil {
				log.Err(err).Str("func", "*Handler.watchCollection").Msg("error encoding collection state")
				return
			}
			if bytes.Equal(payload, last) {
				continue
			}
			last = payload

			_ = conn.SetWriteDeadline(time.Now().Add(watchWriteWait))
			if err = conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Debug().Err(err).Str("func", "*Handler.watchCollection").Msg("watch client gone")
				return
			}
		}
	}
}

// readWatchCommands consumes client frames until the connection fails,
// then cancels the stream.
func (h *Handler) readWatchCommands(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, name string) {
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(watchPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(watchPongWait))
	})

	for {
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if kind == websocket.TextMessage && string(bytes.TrimSpace(msg)) == refreshMessage {
			if err = h.services.CollectionService.Refresh(ctx, name); err != nil {
				return
			}
		}
	}
}

func closeWatch(conn *websocket.Conn, code int, text string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(watchWriteWait))
}
