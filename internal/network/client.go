package network

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/niletry/beijing-fushengji-server/internal/domain/city"
	"github.com/niletry/beijing-fushengji-server/internal/domain/goods"
	"github.com/niletry/beijing-fushengji-server/internal/engine"
	"github.com/niletry/beijing-fushengji-server/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// PlayerAction represents an incoming command from the frontend.
type PlayerAction struct {
	Type      string          `json:"type"`       // "NEW_GAME", "BUY", "NEXT_DAY", etc.
	SessionID string          `json:"session_id"` // Which playthrough this targets
	Payload   json.RawMessage `json:"payload"`    // Action-specific data
}

// Client holds one WebSocket connection and its session binding.
type Client struct {
	hub            *Hub
	conn           *websocket.Conn
	send           chan []byte
	lastActionTime time.Time
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, hub.sendBuffer),
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// reply queues a message for this client only.
func (c *Client) reply(msg ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		c.hub.logger.Error("Failed to serialize ServerMessage: " + err.Error())
		return
	}
	select {
	case c.send <- payload:
		metrics.Get().RecordWSMessage(false)
	default:
		metrics.Get().RecordWSError()
	}
}

func (c *Client) replyError(sessionID, msg string) {
	c.reply(ServerMessage{Type: "ERROR", SessionID: sessionID, Error: msg})
}

// ReadPump pumps messages from the websocket connection to the engine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var action PlayerAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Error("Failed to parse PlayerAction from WebSocket. err: " + err.Error())
			continue
		}

		c.handlePlayerAction(action)
	}
}

func (c *Client) handlePlayerAction(action PlayerAction) {
	// Rate limiting. Reads are free; anything that mutates is throttled.
	if action.Type != "STATE" {
		if time.Since(c.lastActionTime) < c.hub.minActGap {
			c.hub.logger.Warn("Rate limit exceeded for client action " + action.Type)
			c.replyError(action.SessionID, "操作太频繁了，请稍候")
			return
		}
		c.lastActionTime = time.Now()
	}

	switch action.Type {
	case "NEW_GAME":
		c.handleNewGame(action.Payload)
	case "STATE":
		c.handleState(action.SessionID)
	case "BUY":
		c.handleTrade(action.SessionID, action.Payload, true)
	case "SELL":
		c.handleTrade(action.SessionID, action.Payload, false)
	case "TRAVEL":
		c.handleTravel(action.SessionID, action.Payload)
	case "NEXT_DAY":
		c.handleNextDay(action.SessionID)
	case "DEPOSIT":
		c.handleBank(action.SessionID, action.Payload, true)
	case "WITHDRAW":
		c.handleBank(action.SessionID, action.Payload, false)
	case "HEAL":
		c.handleHeal(action.SessionID)
	case "UPGRADE_RENTAL":
		c.handleUpgradeRental(action.SessionID)
	case "BUY_TIP":
		c.handleBuyTip(action.SessionID)
	default:
		c.hub.logger.Warn("Unknown PlayerAction type: " + action.Type)
		c.replyError(action.SessionID, "未知的操作: "+action.Type)
	}
}

func (c *Client) handleNewGame(rawPayload []byte) {
	var parsed struct {
		PlayerName string `json:"player_name"`
		Difficulty string `json:"difficulty"`
		Seed       int64  `json:"seed"`
	}
	if err := json.Unmarshal(rawPayload, &parsed); err != nil {
		c.replyError("", "无法解析请求")
		return
	}

	st, err := c.hub.engine.StartSession(parsed.PlayerName, parsed.Difficulty, parsed.Seed)
	if err != nil {
		c.replyError("", err.Error())
		return
	}
	c.reply(ServerMessage{Type: "STATE", SessionID: st.ID, State: st})
}

func (c *Client) handleState(sessionID string) {
	st, err := c.hub.engine.Snapshot(sessionID)
	if err != nil {
		c.replyError(sessionID, "找不到这局游戏")
		return
	}
	c.reply(ServerMessage{Type: "STATE", SessionID: sessionID, State: st})
}

// respond sends the action result plus a fresh snapshot so the frontend
// never has to derive state from deltas.
func (c *Client) respond(sessionID string, res engine.Result, err error) {
	if err != nil {
		c.replyError(sessionID, "找不到这局游戏")
		return
	}

	st, snapErr := c.hub.engine.Snapshot(sessionID)
	if snapErr != nil {
		c.replyError(sessionID, "找不到这局游戏")
		return
	}

	msgType := "RESULT"
	if st.IsOver() {
		msgType = "GAME_OVER"
	}
	c.reply(ServerMessage{
		Type:          msgType,
		SessionID:     sessionID,
		State:         st,
		Result:        &res,
		Notifications: buildNotifications(res.Effects),
	})
}

func (c *Client) handleTrade(sessionID string, rawPayload []byte, buy bool) {
	var parsed struct {
		GoodID   int `json:"good_id"`
		Quantity int `json:"quantity"`
	}
	if err := json.Unmarshal(rawPayload, &parsed); err != nil || parsed.Quantity < 1 {
		c.replyError(sessionID, "无法解析交易请求")
		return
	}

	var res engine.Result
	var err error
	if buy {
		res, err = c.hub.engine.Buy(sessionID, goods.ID(parsed.GoodID), parsed.Quantity)
	} else {
		res, err = c.hub.engine.Sell(sessionID, goods.ID(parsed.GoodID), parsed.Quantity)
	}
	c.respond(sessionID, res, err)
}

func (c *Client) handleTravel(sessionID string, rawPayload []byte) {
	var parsed struct {
		Destination string `json:"destination"`
	}
	if err := json.Unmarshal(rawPayload, &parsed); err != nil {
		c.replyError(sessionID, "无法解析出行请求")
		return
	}

	res, err := c.hub.engine.Travel(sessionID, city.LocationID(parsed.Destination))
	c.respond(sessionID, res, err)
}

func (c *Client) handleNextDay(sessionID string) {
	res, err := c.hub.engine.NextDay(sessionID)
	c.respond(sessionID, res, err)
}

func (c *Client) handleBank(sessionID string, rawPayload []byte, deposit bool) {
	var parsed struct {
		Amount int `json:"amount"`
	}
	if err := json.Unmarshal(rawPayload, &parsed); err != nil || parsed.Amount < 1 {
		c.replyError(sessionID, "无法解析银行请求")
		return
	}

	var res engine.Result
	var err error
	if deposit {
		res, err = c.hub.engine.Deposit(sessionID, parsed.Amount)
	} else {
		res, err = c.hub.engine.Withdraw(sessionID, parsed.Amount)
	}
	c.respond(sessionID, res, err)
}

func (c *Client) handleHeal(sessionID string) {
	res, err := c.hub.engine.Heal(sessionID)
	c.respond(sessionID, res, err)
}

func (c *Client) handleUpgradeRental(sessionID string) {
	res, err := c.hub.engine.UpgradeRental(sessionID)
	c.respond(sessionID, res, err)
}

func (c *Client) handleBuyTip(sessionID string) {
	tip, res, err := c.hub.engine.BuyTip(sessionID)
	if err != nil {
		c.replyError(sessionID, "找不到这局游戏")
		return
	}

	st, snapErr := c.hub.engine.Snapshot(sessionID)
	if snapErr != nil {
		c.replyError(sessionID, "找不到这局游戏")
		return
	}

	msg := ServerMessage{Type: "RESULT", SessionID: sessionID, State: st, Result: &res}
	if res.OK {
		msg.Type = "TIP"
		msg.Tip = &tip
	}
	c.reply(msg)
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
