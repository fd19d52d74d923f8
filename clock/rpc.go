package clock

import (
	"context"

	"connectrpc.com/connect"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/server"
)

const ClockServiceName = "city.clock.v1.ClockService"

type NowRequest struct{}

type NowResponse struct {
	T       float64 `json:"t"`
	Step    int32   `json:"step"`
	Day     int32   `json:"day"`
	Hour    int     `json:"hour"`
	Weekday string  `json:"weekday"`
	Date    string  `json:"date"`
}

// Register 将ClockService注册到服务
// 功能：注册时钟服务的RPC处理器
// 参数：s-对外服务实例
func (c *Clock) Register(s *server.Server) {
	server.Register(s, ClockServiceName, "Now", c.Now)
}

// Now 获取当前仿真时间
// 功能：RPC接口，返回当前仿真时间、天数、小时与日期
// 参数：ctx-上下文，in-请求参数
// 返回：当前仿真时间的响应
func (c *Clock) Now(ctx context.Context, in *connect.Request[NowRequest]) (*connect.Response[NowResponse], error) {
	res := &NowResponse{
		T:    c.T,
		Step: c.InternalStep,
	}
	if c.DayLength > 0 {
		date := c.CurrentDate()
		res.Day = c.DayNumber()
		res.Hour = c.CurrentHour()
		res.Weekday = date.Weekday.String()
		res.Date = c.String()
	}
	return connect.NewResponse(res), nil
}
