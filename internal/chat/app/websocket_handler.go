package app

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"country_chat_service/internal/chat/domain"
	"country_chat_service/internal/chat/repository"
	presenceapp "country_chat_service/internal/presence/app"
	"country_chat_service/pkg/logger"
	"country_chat_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// ChatWebsocketHandler drives the event engine and the presence tracker
// from inbound websocket frames
type ChatWebsocketHandler struct {
	engine     *ChatEventEngine
	presenceUC *presenceapp.PresenceUseCase
	pubsub     *repository.RedisPubSub
}

// messageWriter the write half of the websocket connection
type messageWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// syncWriter serializes writes to one connection, the relay goroutines,
// the ping loop and the read loop all share it
type syncWriter struct {
	mu   sync.Mutex
	conn messageWriter
}

func (w *syncWriter) WriteMessage(messageType int, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteMessage(messageType, data)
}

// NewChatWebsocketHandler create ChatWebsocketHandler
func NewChatWebsocketHandler(
	engine *ChatEventEngine,
	presenceUC *presenceapp.PresenceUseCase,
	pubsub *repository.RedisPubSub,
) *ChatWebsocketHandler {
	return &ChatWebsocketHandler{
		engine:     engine,
		presenceUC: presenceUC,
		pubsub:     pubsub,
	}
}

// HandleConnection websocket entry point for one authenticated user
func (h *ChatWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	tokenUser := conn.Locals(middlewares.TokenUserID)
	userID, ok := tokenUser.(string)
	if !ok || userID == "" {
		logger.Log.Warn("websocket connection without actor identity")
		conn.Close()
		return
	}
	logger.Log.Info("websocket handle userID", zap.String("userID", userID))

	ticker := time.NewTicker(10 * time.Minute)
	ctxClose, cancel := context.WithCancel(context.Background())
	writer := &syncWriter{conn: conn}

	// per-chat subscriptions cancelled on leave or disconnect
	chatSubs := map[string]context.CancelFunc{}

	defer func() {
		ticker.Stop()
		logger.Log.Info("websocket close", zap.String("userID", userID))
		for _, cancelSub := range chatSubs {
			cancelSub()
		}
		if _, err := h.presenceUC.SetOffline(ctx, userID); err != nil {
			logger.Log.Errorf("set offline on disconnect:", err)
		}
		conn.Close()
		cancel()
	}()

	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Infof("WebSocket closed:", conn.RemoteAddr())
		return nil
	})

	conn.SetPongHandler(func(appData string) error {
		logger.Log.Infof("Received PONG:", appData)
		return nil
	})

	conn.SetPingHandler(func(appData string) error {
		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(appData),
			time.Now().Add(time.Second),
		)
	})

	// the private destinations: own errors and own presence snapshots
	h.relay(ctxClose, writer, domain.UserErrorsTopic(userID), "error")
	h.relay(ctxClose, writer, domain.UserStatusTopic(userID), "onlineStatus")

	// a live socket is a heartbeat
	if _, err := h.presenceUC.SetOnline(ctx, userID); err != nil {
		logger.Log.Errorf("set online on connect:", err)
	}

	go func() {
		for {
			select {
			case <-ticker.C:
				pingMsg := "ping message"
				if err := writer.WriteMessage(websocket.PingMessage, []byte(pingMsg)); err != nil {
					logger.Log.Errorf("Ping error:", err)
					return
				}
			case <-ctxClose.Done():
				return
			}
		}
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Infof("Connection closed:", err)
			} else {
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			h.sendError(writer, "unknown message type")
			continue
		}
		h.textMessageAction(ctx, writer, userID, message, chatSubs)
	}
}

// relay pipes one pub/sub destination into the socket under the given action
func (h *ChatWebsocketHandler) relay(ctx context.Context, w *syncWriter, destination, action string) {
	h.pubsub.Subscribe(ctx, destination, func(payload []byte) {
		var body map[string]interface{}
		if err := json.Unmarshal(payload, &body); err != nil {
			logger.Log.Errorf("relay unmarshal error:", err)
			return
		}
		h.sendResponse(w, domain.WSResponse{
			Action:  action,
			Success: true,
			Payload: body,
		})
	})
}

func (h *ChatWebsocketHandler) textMessageAction(ctx context.Context, w *syncWriter, userID string, msg []byte, chatSubs map[string]context.CancelFunc) {

	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		log.Printf("json unmarshal error: %v", err)
		return
	}

	resp := domain.WSResponse{Action: req.Action, Success: false, Payload: map[string]interface{}{}}
	var opErr error

	switch domain.Action(req.Action) {
	case domain.ActionJoinChat:
		message, err := h.engine.JoinChat(ctx, req.ChatID, userID)
		if err != nil {
			opErr = err
		} else {
			resp.Success = true
			resp.Payload["message_id"] = message.ID
			h.subscribeChat(w, req.ChatID, chatSubs)
		}

	case domain.ActionLeaveChat:
		message, err := h.engine.LeaveChat(ctx, req.ChatID, userID)
		if err != nil {
			opErr = err
		} else {
			resp.Success = true
			resp.Payload["message_id"] = message.ID
			if cancelSub, ok := chatSubs[req.ChatID]; ok {
				cancelSub()
				delete(chatSubs, req.ChatID)
			}
		}

	case domain.ActionStartTyping:
		_, err := h.engine.StartTyping(ctx, req.ChatID, userID)
		if err != nil {
			opErr = err
		} else {
			resp.Success = true
		}

	case domain.ActionStopTyping:
		_, err := h.engine.StopTyping(ctx, req.ChatID, userID)
		if err != nil {
			opErr = err
		} else {
			resp.Success = true
		}

	case domain.ActionSendMessage:
		message, err := h.engine.SendMessage(ctx, req.ChatID, userID, req.Content)
		if err != nil {
			opErr = err
		} else {
			resp.Success = true
			resp.Payload["message_id"] = message.ID
		}

	case domain.ActionUpdateOnlineStatus:
		var status interface{}
		var err error
		if req.Online {
			status, err = h.presenceUC.SetOnline(ctx, userID)
		} else {
			status, err = h.presenceUC.SetOffline(ctx, userID)
		}
		if err != nil {
			opErr = err
		} else {
			resp.Success = true
			resp.Payload["status"] = status
		}

	default:
		h.sendError(w, "unknown action")
		return
	}

	if opErr != nil {
		resp.Error = opErr.Error()
		logger.Log.Error("websocket err ",
			zap.String("UserID", userID),
			zap.String("Action", req.Action),
			zap.String("err", opErr.Error()),
		)
		h.routeError(userID, req.ChatID, opErr)
	}
	h.sendResponse(w, resp)
}

// subscribeChat attach this socket to the chat topic after a successful join
func (h *ChatWebsocketHandler) subscribeChat(w *syncWriter, chatID string, chatSubs map[string]context.CancelFunc) {
	if _, ok := chatSubs[chatID]; ok {
		return
	}
	subCtx, cancelSub := context.WithCancel(context.Background())
	chatSubs[chatID] = cancelSub
	h.relay(subCtx, w, domain.ChatTopic(chatID), "chatMessage")
}

// routeError domain errors go only to the acting user's private destination,
// never to the chat topic
func (h *ChatWebsocketHandler) routeError(userID, chatID string, opErr error) {
	frame := domain.ErrorFrame{Message: opErr.Error(), ChatID: chatID}
	if de, ok := domain.AsDomainError(opErr); ok {
		frame.Kind = de.Kind
	}
	if err := h.pubsub.Publish(domain.UserErrorsTopic(userID), frame); err != nil {
		logger.Log.Errorf("route error frame:", err)
	}
}

// sendResponse write JSON to the socket
func (h *ChatWebsocketHandler) sendResponse(w *syncWriter, resp domain.WSResponse) {
	b, _ := json.Marshal(resp)
	if err := w.WriteMessage(websocket.TextMessage, b); err != nil {
		logger.Log.Errorf("write message error:", err)
	}
}

func (h *ChatWebsocketHandler) sendError(w *syncWriter, errorMsg string) {
	resp := domain.WSResponse{
		Action:  "error",
		Success: false,
		Payload: map[string]interface{}{
			"error": errorMsg,
		},
	}
	h.sendResponse(w, resp)
}
