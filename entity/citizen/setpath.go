package citizen

import (
	"slices"
	"time"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/google/uuid"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity/citizen/motion"
)

// SetPath 应用寻路结果
// 功能：不在等待寻路的状态时忽略；成功时计算行程时长并进入待出发状态，失败时按目的选择兜底
// 参数：path-折线（nil或空表示失败），length-折线长度
// 说明：无论成功失败都会清除超时标记
func (c *Citizen) SetPath(path []geometry.Point, length float64) {
	if !c.state.IsRequesting() {
		log.Debugf("citizen %d ignores path result in state %v", c.id, c.state)
		return
	}
	now := c.ctx.Clock().T
	c.trip.pendingID = uuid.Nil
	c.trip.requestedAt = noTime
	if len(path) == 0 {
		c.onPathFailed(now)
		return
	}
	c.onPathFound(path, length, now)
}

// applyResult 按请求ID回传寻路结果，过期结果忽略
func (c *Citizen) applyResult(res *entity.PathResult) {
	if res.ID != c.trip.pendingID || !c.state.IsRequesting() {
		log.Debugf("citizen %d drops stale path result %v", c.id, res.ID)
		return
	}
	c.SetPath(res.Path, res.Length)
}

// onPathFound 寻路成功
// 算法说明：
// 1. 单点路径或长度小于阈值时直接到达
// 2. 按有效速度与日长比例计算行程时长，日长未知时使用默认时长
// 3. 路径起点离当前位置过远时修正为当前位置，并重新计算长度
// 4. 周末散步需再次确认仍是周末
// 5. 进入待出发状态，计算计划出发时间
func (c *Citizen) onPathFound(path []geometry.Point, length float64, now float64) {
	if len(path) == 1 || length < arrivalEpsilon {
		c.arriveInstantly(now)
		return
	}
	if c.state == State_WEEKEND_WALK_REQUESTING_PATH && !c.isWeekend() {
		log.Debugf("citizen %d discards weekend walk path: weekend is over", c.id)
		c.clearBehavior()
		c.land(State_AT_HOME, c.homePos)
		return
	}
	cfg := c.ctx.RuntimeConfig().Citizen
	if distance(path[0], c.position) > cfg.TeleportThreshold {
		path = slices.Clone(path)
		path[0] = c.position
		lengths := geometry.GetPolylineLengths2D(path)
		length = lengths[len(lengths)-1]
	}
	c.trip.path = path
	c.trip.length = length
	c.trip.duration = c.travelDuration(length)
	c.trip.track = motion.Track{}
	c.trip.reached = false

	next := c.trip.successState
	if next == State_IDLE {
		next = readyState(c.state)
	}
	c.state = next
	c.trip.departure = now
	if c.trip.scheduled {
		if d := c.dayLength(); d > 0 {
			if c.trip.goal == Goal_WORK {
				c.trip.departure = c.schedule.WorkDeparture(now, d)
			} else {
				c.trip.departure = c.schedule.HomeDeparture(now, d)
			}
		}
	}
}

// travelDuration 按当前出行方式计算行程时长
func (c *Citizen) travelDuration(length float64) float64 {
	cfg := c.ctx.RuntimeConfig().Citizen
	d := c.dayLength()
	if d <= 0 {
		return cfg.FallbackTravelDuration
	}
	speed := c.walkSpeed
	if c.trip.mode == entity.TravelMode_DRIVE {
		if v, ok := c.vehicleInfo(); ok && v.Speed > 0 {
			speed = v.Speed
		}
	}
	return length / speed * (d / cfg.ReferenceDayLength)
}

// arriveInstantly 已在目的地，跳过在途状态
func (c *Citizen) arriveInstantly(now float64) {
	switch c.trip.goal {
	case Goal_WALK:
		// 直接在目的地开始散步的后续阶段
		c.trip.path = []geometry.Point{c.position}
		c.trip.departure, c.trip.arrival = now, now
		c.trip.track = motion.NewTrack(c.trip.path, now, now)
		c.trip.reached = true
		c.state = State_WEEKEND_WALKING
		c.stateEnteredAt = now
	default:
		c.finishTrip(now)
	}
}

// onPathFailed 寻路失败的兜底
// 算法说明：
// 1. 周末散步回家失败：从去程记录的安全节点再尝试一次
// 2. 周末散步出发失败：换一个随机目的地再尝试一次，仍失败则留在家中
// 3. 上班/回家失败：强制恢复到对应的稳定位置
// 4. 目的未知：回家
func (c *Citizen) onPathFailed(now float64) {
	c.trip.path = nil
	switch {
	case c.trip.goal == Goal_HOME && c.behavior == ActiveBehavior_WEEKEND_WALK:
		if !c.weekend.retriedReturn {
			c.weekend.retriedReturn = true
			c.requestWeekendReturn(now)
			return
		}
		c.recover("weekend return path failed", now)
	case c.trip.goal == Goal_WALK:
		if !c.weekend.retriedOutbound {
			c.weekend.retriedOutbound = true
			if dest, ok := c.alternateWeekendDestination(); ok {
				c.weekend.destination = dest
				c.requestWeekendOutbound(now)
				return
			}
		}
		log.Debugf("citizen %d gives up weekend walk", c.id)
		c.clearBehavior()
		c.land(State_AT_HOME, c.homePos)
	case c.trip.goal == Goal_NONE:
		c.trip.goal = Goal_HOME
		c.recover("path failed without goal", now)
	default:
		c.recover("path failed", now)
	}
}

// isWeekend 今天是否周末
func (c *Citizen) isWeekend() bool {
	cal := c.ctx.Calendar()
	if cal == nil || cal.DayDuration() <= 0 {
		return false
	}
	wd := cal.CurrentDate().Weekday
	return wd == time.Saturday || wd == time.Sunday
}
