package citizen

import (
	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity/citizen/motion"
)

// weekendPhase 周末散步的阶段
type weekendPhase int32

const (
	weekendPhase_NONE      weekendPhase = iota
	weekendPhase_OUTBOUND               // 前往目的地附近的人行道
	weekendPhase_ENTERING               // 从人行道走进目的地
	weekendPhase_LINGERING              // 在目的地停留
	weekendPhase_EXITING                // 回到人行道
	weekendPhase_RETURNING              // 回家
)

// weekendState 周末散步行为的私有状态
type weekendState struct {
	rolledDay int32 // 最近一次掷骰的日期
	going     bool  // 今天是否出门散步

	phase           weekendPhase
	destination     geometry.Point  // 目的地（建筑或网格点）
	sidewalkNode    entity.GridNode // 目的地附近的人行道节点
	sidewalkPos     geometry.Point
	safeNode        entity.GridNode // 去程路线上已走过的节点，回家重试的起点
	safePos         geometry.Point
	lingerUntil     float64
	retriedOutbound bool
	retriedReturn   bool
}

// reset 清空散步过程，当天不再出门
func (w *weekendState) reset() {
	*w = weekendState{rolledDay: w.rolledDay}
}

// updateWeekend 周末散步行为
// 功能：在家时按概率决定是否出门；出门后依次经过寻路、出发、走到目的地、停留、回到人行道、回家
// 参数：hour-当前小时，now-当前时间
// 返回：是否接管了本tick
func (c *Citizen) updateWeekend(hour int, now float64) bool {
	cfg := c.ctx.RuntimeConfig().Citizen.Weekend
	w := &c.weekend
	switch c.state {
	case State_AT_HOME:
		if c.behavior != ActiveBehavior_NONE || !c.weekendTrigger(hour) {
			return false
		}
		dest, ok := c.weekendDestination()
		if !ok {
			w.going = false
			return false
		}
		c.behavior = ActiveBehavior_WEEKEND_WALK
		w.phase = weekendPhase_OUTBOUND
		w.destination = dest
		c.requestWeekendOutbound(now)
		return true
	case State_WEEKEND_WALK_REQUESTING_PATH:
		return true
	case State_WEEKEND_WALK_READY:
		// 散步不等时刻表，立即出发
		c.trip.departure = now
		c.trip.arrival = now + c.trip.duration
		c.trip.track = motion.NewTrack(c.trip.path, now, c.trip.arrival)
		c.trip.reached = false
		c.position = c.trip.path[0]
		c.state = State_WEEKEND_WALKING
		c.visible = true
		return true
	case State_WEEKEND_WALKING:
		switch w.phase {
		case weekendPhase_OUTBOUND:
			if c.trip.reached || now >= c.trip.arrival {
				c.recordWalk(now)
				c.rememberSafePoint()
				c.position = c.trip.path[len(c.trip.path)-1]
				if distance(c.position, w.destination) < arrivalEpsilon {
					c.startLinger(now)
				} else {
					c.walkSegment(c.position, w.destination, now)
					w.phase = weekendPhase_ENTERING
				}
			}
		case weekendPhase_ENTERING:
			if c.trip.reached || now >= c.trip.arrival {
				c.startLinger(now)
			}
		case weekendPhase_LINGERING:
			if now >= w.lingerUntil || hour >= cfg.EndHour {
				c.state = State_WEEKEND_WALK_RETURNING_TO_SIDEWALK
				c.walkSegment(c.position, w.sidewalkPos, now)
				w.phase = weekendPhase_EXITING
				c.visible = true
			}
		default:
			// 阶段与状态不一致
			c.recover("weekend walk phase "+c.state.String(), now)
		}
		return true
	case State_WEEKEND_WALK_RETURNING_TO_SIDEWALK:
		if c.trip.reached || now >= c.trip.arrival {
			w.phase = weekendPhase_RETURNING
			c.position = w.sidewalkPos
			c.requestWeekendReturn(now)
		}
		return true
	}
	return false
}

// weekendTrigger 今天是否出门散步（每天掷一次骰）
func (c *Citizen) weekendTrigger(hour int) bool {
	cfg := c.ctx.RuntimeConfig().Citizen.Weekend
	if hour < cfg.StartHour || hour >= cfg.EndHour {
		return false
	}
	today := c.ctx.Calendar().DayNumber()
	if c.weekend.rolledDay != today {
		c.weekend.rolledDay = today
		c.weekend.going = c.generator.PTrue(cfg.Probability)
	}
	return c.weekend.going
}

// requestWeekendOutbound 请求去目的地的步行路径
func (c *Citizen) requestWeekendOutbound(now float64) bool {
	return c.requestPath(requestOptions{
		start:        c.position,
		end:          c.weekend.destination,
		startNode:    c.homeNode,
		successState: State_WEEKEND_WALK_READY,
		goal:         Goal_WALK,
	}, now)
}

// requestWeekendReturn 请求回家路径
// 说明：首次从人行道节点出发，重试时从去程记录的安全节点出发
func (c *Citizen) requestWeekendReturn(now float64) bool {
	w := &c.weekend
	start, startPos := w.sidewalkNode, w.sidewalkPos
	if w.retriedReturn {
		if w.safeNode == w.sidewalkNode {
			c.recover("weekend return path failed", now)
			return false
		}
		start, startPos = w.safeNode, w.safePos
	}
	return c.requestPath(requestOptions{
		start:        startPos,
		end:          c.homePos,
		startNode:    &start,
		endNode:      c.homeNode,
		successState: State_READY_TO_LEAVE_FOR_HOME,
		goal:         Goal_HOME,
	}, now)
}

// rememberSafePoint 记录去程路线上人行道之前的最后一个拐点
// 说明：单点路径或拐点与人行道重合时退回家附近的节点
func (c *Citizen) rememberSafePoint() {
	w := &c.weekend
	w.safeNode, w.safePos = w.sidewalkNode, w.sidewalkPos
	g := c.ctx.WalkGraph()
	if g == nil {
		return
	}
	candidates := make([]geometry.Point, 0, 2)
	if n := len(c.trip.path); n >= 2 {
		candidates = append(candidates, c.trip.path[n-2])
	}
	candidates = append(candidates, c.homePos)
	for _, p := range candidates {
		if n, ok := g.NearestWalkableNode(p); ok && n != w.sidewalkNode {
			w.safeNode, w.safePos = n, g.GridToWorld(n)
			return
		}
	}
}

// startLinger 进入目的地停留，隐藏
func (c *Citizen) startLinger(now float64) {
	cfg := c.ctx.RuntimeConfig().Citizen.Weekend
	c.weekend.phase = weekendPhase_LINGERING
	c.weekend.lingerUntil = now + minutesToTime(cfg.LingerMinutes, c.dayLength())
	c.position = c.weekend.destination
	c.trip.track = motion.Track{}
	c.visible = false
}

// walkSegment 沿直线步行from->to
func (c *Citizen) walkSegment(from, to geometry.Point, now float64) {
	path := []geometry.Point{from, to}
	c.trip.path = path
	c.trip.mode = entity.TravelMode_WALK
	c.trip.length = distance(from, to)
	c.trip.duration = c.travelDuration(c.trip.length)
	c.trip.departure = now
	c.trip.arrival = now + c.trip.duration
	c.trip.track = motion.NewTrack(path, now, c.trip.arrival)
	c.trip.reached = c.trip.length < arrivalEpsilon
	c.position = from
}

// recordWalk 记录散步去程
func (c *Citizen) recordWalk(now float64) {
	record := entity.TripRecord{
		AgentID:   c.id,
		Goal:      Goal_WALK.String(),
		Mode:      entity.TravelMode_WALK,
		Departure: c.trip.departure,
		Arrival:   now,
		Length:    c.trip.length,
	}
	if r := c.ctx.Recorder(); r != nil {
		r.RecordTrip(record)
	}
	if c.m != nil {
		c.m.recordTripEnd(record)
	}
}
