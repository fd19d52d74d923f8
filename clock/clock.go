package clock

import (
	"fmt"
	"math"
	"time"

	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/config"
)

// Date 日历日期
type Date struct {
	Weekday time.Weekday
	Day     int
	Month   time.Month
	Year    int
}

// Clock 仿真时钟管理器
// 功能：管理仿真系统的时间推进，同时作为日历为居民提供日期、星期、小时查询
// 说明：日历是仿真时间的纯函数，日长DayLength<=0时视为日历不可用
type Clock struct {
	DT         float64 // 每个模拟步时间间隔（时间单位）
	START_STEP int32   // 起始步
	END_STEP   int32   // 结束步，模拟区间[START, END)

	T            float64 // 当前时间（时间单位）
	InternalStep int32   // 当前步数

	DayLength float64   // 一天对应的时间单位数
	StartDate time.Time // 第0天对应的日期
}

// New 根据配置创建新的时钟实例
// 功能：根据全局配置初始化时钟和日历信息
// 参数：rc-运行时配置
// 返回：初始化完成的时钟实例
func New(rc *config.RuntimeConfig) *Clock {
	step := rc.C.Step
	c := &Clock{
		DT:         step.Interval,
		START_STEP: step.Start,
		END_STEP:   step.Start + step.Total,
		DayLength:  rc.C.Calendar.DayLength,
		StartDate:  rc.StartDate,
	}
	c.Init()
	return c
}

// Init 初始化时钟状态
// 功能：重置内部步数为起始步，重新计算当前时间
func (c *Clock) Init() {
	c.InternalStep = c.START_STEP
	c.T = float64(c.InternalStep) * c.DT
}

// Step 推进一步
func (c *Clock) Step() {
	c.InternalStep++
	c.T = float64(c.InternalStep) * c.DT
}

// DayDuration 一天对应的时间单位数，<=0表示日历尚不可用
func (c *Clock) DayDuration() float64 {
	return c.DayLength
}

// DayNumber 当前是第几天（从0开始）
func (c *Clock) DayNumber() int32 {
	if c.DayLength <= 0 {
		return 0
	}
	return int32(math.Floor(c.T / c.DayLength))
}

// CurrentHour 当前小时（0~23）
// 功能：将当天已经过去的时间换算为小时
func (c *Clock) CurrentHour() int {
	if c.DayLength <= 0 {
		return 0
	}
	inCycle := c.T - float64(c.DayNumber())*c.DayLength
	return min(int(inCycle/c.DayLength*24), 23)
}

// CurrentDate 当前日历日期
// 功能：以StartDate为第0天推算当前的年月日和星期
func (c *Clock) CurrentDate() Date {
	d := c.StartDate.AddDate(0, 0, int(c.DayNumber()))
	return Date{
		Weekday: d.Weekday(),
		Day:     d.Day(),
		Month:   d.Month(),
		Year:    d.Year(),
	}
}

// String 获取时钟的字符串表示
// 功能：将当前时间格式化为可读的字符串（YYYY-MM-DD HH:MM）
func (c *Clock) String() string {
	if c.DayLength <= 0 {
		return fmt.Sprintf("T=%.2f", c.T)
	}
	date := c.CurrentDate()
	inCycle := c.T - float64(c.DayNumber())*c.DayLength
	minutes := int(inCycle / c.DayLength * 24 * 60)
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d", date.Year, date.Month, date.Day, minutes/60, minutes%60)
}
