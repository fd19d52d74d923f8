package observer

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
)

const (
	writeTimeout = 5 * time.Second
	clientBuffer = 8 // 每个订阅者最多缓存的帧数，慢订阅者丢帧
)

var (
	pongWait   = 60 * time.Second // 超过该时间未收到任何消息则断开
	pingPeriod = pongWait * 9 / 10
)

// Frame 一帧推送
type Frame struct {
	Step     int32                    `json:"step"`
	T        float64                  `json:"t"`
	Date     string                   `json:"date"`
	Citizens []entity.CitizenSnapshot `json:"citizens"`
}

// Hub 订阅者集合
type Hub struct {
	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	mtx     sync.Mutex
	clients map[uint64]chan []byte
	closed  bool
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[uint64]chan []byte),
	}
}

// Handler websocket入口
// 功能：升级连接并登记订阅者，写协程发送帧并定期ping，读循环处理pong并发现连接关闭
func (h *Hub) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			log.Debugf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		id, out, ok := h.join()
		if !ok {
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "closed"), time.Now().Add(time.Second))
			return
		}
		defer h.leave(id)
		log.Debugf("observer %d joined from %s", id, r.RemoteAddr)

		done := make(chan struct{})
		go func() {
			defer close(done)
			ticker := time.NewTicker(pingPeriod)
			defer ticker.Stop()
			for {
				select {
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						return
					}
				case <-ticker.C:
					_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				}
			}
		}()

		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		}
		h.leave(id)
		<-done
		log.Debugf("observer %d left", id)
	}
}

func (h *Hub) join() (uint64, chan []byte, bool) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if h.closed {
		return 0, nil, false
	}
	id := h.nextID.Add(1)
	out := make(chan []byte, clientBuffer)
	h.clients[id] = out
	return id, out, true
}

// leave 注销订阅者，可重复调用
func (h *Hub) leave(id uint64) {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	if out, ok := h.clients[id]; ok {
		close(out)
		delete(h.clients, id)
	}
}

// Broadcast 向所有订阅者推送一帧
// 返回：编码失败时返回错误
func (h *Hub) Broadcast(frame Frame) error {
	b, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	h.mtx.Lock()
	defer h.mtx.Unlock()
	for id, out := range h.clients {
		select {
		case out <- b:
		default:
			log.Debugf("observer %d is slow, frame %d dropped", id, frame.Step)
		}
	}
	return nil
}

// Len 订阅者数
func (h *Hub) Len() int {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return len(h.clients)
}

// Close 断开所有订阅者，之后的连接被拒绝
func (h *Hub) Close() {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	h.closed = true
	for id, out := range h.clients {
		close(out)
		delete(h.clients, id)
	}
}
