package observer

import (
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
)

func TestHubBroadcast(t *testing.T) {
	h := NewHub()
	ts := httptest.NewServer(h.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return h.Len() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, h.Broadcast(Frame{
		Step: 7,
		T:    7,
		Date: "2024-01-01 00:10",
		Citizens: []entity.CitizenSnapshot{
			{ID: 1, State: "InTransitToWork", X: 1, Y: 2, Visible: true},
		},
	}))

	var frame Frame
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, int32(7), frame.Step)
	require.Len(t, frame.Citizens, 1)
	assert.Equal(t, "InTransitToWork", frame.Citizens[0].State)

	conn.Close()
	require.Eventually(t, func() bool { return h.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHubClose(t *testing.T) {
	h := NewHub()
	ts := httptest.NewServer(h.Handler())
	defer ts.Close()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return h.Len() == 1 }, time.Second, 10*time.Millisecond)

	h.Close()
	assert.Equal(t, 0, h.Len())
	assert.NoError(t, h.Broadcast(Frame{Step: 1}))

	// 关闭后新连接被拒绝
	late, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer late.Close()
	_ = late.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err = late.ReadMessage()
	assert.Error(t, err)
}

func TestHubKeepalive(t *testing.T) {
	oldWait, oldPeriod := pongWait, pingPeriod
	pongWait, pingPeriod = 300*time.Millisecond, 50*time.Millisecond
	defer func() { pongWait, pingPeriod = oldWait, oldPeriod }()

	h := NewHub()
	ts := httptest.NewServer(h.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	// 订阅者只回pong，从不发送数据帧
	var pings atomic.Int32
	conn.SetPingHandler(func(data string) error {
		pings.Add(1)
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	require.Eventually(t, func() bool { return h.Len() == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(3 * pongWait)
	assert.Equal(t, 1, h.Len())
	assert.Greater(t, pings.Load(), int32(3))

	conn.Close()
	require.Eventually(t, func() bool { return h.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHubDropsSilentObserver(t *testing.T) {
	oldWait, oldPeriod := pongWait, pingPeriod
	pongWait, pingPeriod = 200*time.Millisecond, time.Hour
	defer func() { pongWait, pingPeriod = oldWait, oldPeriod }()

	h := NewHub()
	ts := httptest.NewServer(h.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.Len() == 1 }, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return h.Len() == 0 }, 2*time.Second, 20*time.Millisecond)
}
