package citizen

import (
	"time"

	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity/citizen/motion"
)

// UpdateState 状态机的单次tick
// 功能：根据当前状态与环境决定状态转移与副作用，并维护进入非稳定状态的时间
// 参数：dt-时间间隔，hour-当前小时，now-当前时间
func (c *Citizen) UpdateState(dt float64, hour int, now float64) {
	from := c.state
	c.updateState(hour, now)
	if c.state.IsStable() {
		c.stateEnteredAt = noTime
	} else if from.IsStable() || c.stateEnteredAt == noTime {
		c.stateEnteredAt = now
	}
}

// updateState 状态机主体
// 算法说明（依次判断，命中后可结束本tick）：
// 1. 日历不可用时进入Idle；已初始化的Idle居民在日历可用后回家
// 2. 非稳定状态停留超过StuckDayFactor倍日长，强制恢复
// 3. 等待寻路超过PathTimeout，强制恢复
// 4. 在家或在商店时，买药行为优先
// 5. 周末在家或已在周末散步状态时，交给周末散步行为
// 6. 通勤状态转移
// 7. 周五晚于回家小时+1仍在单位，无条件回家
func (c *Citizen) updateState(hour int, now float64) {
	cal := c.ctx.Calendar()
	if cal == nil || cal.DayDuration() <= 0 {
		if c.state != State_IDLE {
			c.idle()
		}
		return
	}
	d := cal.DayDuration()
	if c.state == State_IDLE {
		if c.initialized {
			c.land(State_AT_HOME, c.homePos)
		}
		return
	}
	cfg := c.ctx.RuntimeConfig().Citizen
	if !c.state.IsStable() && c.stateEnteredAt != noTime && now-c.stateEnteredAt > cfg.StuckDayFactor*d {
		c.recover("stuck in "+c.state.String(), now)
		return
	}
	if c.state.IsRequesting() && c.trip.requestedAt != noTime && now-c.trip.requestedAt > cfg.PathTimeout {
		c.ForceRecoverFromTimeout(now)
		return
	}
	if c.state == State_AT_HOME || c.state == State_AT_COMMERCIAL {
		if c.updateMedication(hour, now) {
			return
		}
	}
	if (c.state == State_AT_HOME && c.isWeekend()) || c.state.IsWeekend() {
		if c.updateWeekend(hour, now) {
			return
		}
	}

	weekday := cal.CurrentDate().Weekday
	switch c.state {
	case State_AT_HOME:
		c.tryLeaveForWork(now, d, weekday)
	case State_AT_WORK:
		c.tryLeaveForHome(hour, now, d, weekday)
	case State_READY_TO_LEAVE_FOR_WORK,
		State_READY_TO_LEAVE_FOR_HOME,
		State_READY_TO_LEAVE_FOR_COMMERCIAL:
		c.leave(now)
	case State_IN_TRANSIT_TO_WORK,
		State_IN_TRANSIT_TO_HOME,
		State_IN_TRANSIT_TO_COMMERCIAL,
		State_DRIVING_TO_WORK,
		State_DRIVING_HOME:
		c.checkArrival(now)
	}

	if c.state == State_AT_WORK && weekday == time.Friday && hour >= c.schedule.HomeHour+1 {
		log.Infof("citizen %d still at work late on Friday, going home", c.id)
		c.clearBehavior()
		c.requestPath(requestOptions{
			start:        c.position,
			end:          c.homePos,
			startNode:    c.workNode,
			endNode:      c.homeNode,
			successState: State_READY_TO_LEAVE_FOR_HOME,
			goal:         Goal_HOME,
		}, now)
	}
}

// tryLeaveForWork 在家时判断是否出发上班
func (c *Citizen) tryLeaveForWork(now, d float64, weekday time.Weekday) {
	if c.behavior != ActiveBehavior_NONE && c.behavior != ActiveBehavior_VEHICLE {
		return
	}
	day, ok := c.schedule.WorkTrigger(now, d, weekday)
	if !ok || day <= c.lastDepartureDayWork {
		return
	}
	c.reserveVehicle(c.homePos, c.workPos)
	c.requestPath(requestOptions{
		start:        c.position,
		end:          c.workPos,
		startNode:    c.homeNode,
		endNode:      c.workNode,
		successState: State_READY_TO_LEAVE_FOR_WORK,
		goal:         Goal_WORK,
		scheduled:    true,
		commuteDay:   day,
	}, now)
}

// tryLeaveForHome 在单位时判断是否出发回家
// 说明：周五过了回家小时后忽略"当天已出发"的限制
func (c *Citizen) tryLeaveForHome(hour int, now, d float64, weekday time.Weekday) {
	if c.behavior != ActiveBehavior_NONE && c.behavior != ActiveBehavior_VEHICLE {
		return
	}
	day, ok := c.schedule.HomeTrigger(now, d)
	due := ok && day > c.lastDepartureDayHome
	friday := weekday == time.Friday && hour >= c.schedule.HomeHour
	if !due && !friday {
		return
	}
	if !due {
		log.Debugf("citizen %d: Friday evening override", c.id)
	}
	c.reserveVehicle(c.workPos, c.homePos)
	c.requestPath(requestOptions{
		start:        c.position,
		end:          c.homePos,
		startNode:    c.workNode,
		endNode:      c.homeNode,
		successState: State_READY_TO_LEAVE_FOR_HOME,
		goal:         Goal_HOME,
		scheduled:    true,
		commuteDay:   day,
	}, now)
}

// leave 到达计划出发时间后出发
// 功能：持有车辆且为开车路径时开车，否则归还车辆并步行；通勤出发时记录出发日期
func (c *Citizen) leave(now float64) {
	if now < c.trip.departure {
		return
	}
	driving := c.dispatchVehicle(now)
	if !driving && c.vehicle.reserved {
		log.Debugf("citizen %d falls back to walking", c.id)
		c.releaseVehicle()
		c.trip.mode = entity.TravelMode_WALK
		c.trip.duration = c.travelDuration(c.trip.length)
	}
	c.trip.departure = now
	c.trip.arrival = now + c.trip.duration
	c.trip.track = motion.NewTrack(c.trip.path, c.trip.departure, c.trip.arrival)
	c.trip.reached = false
	switch c.state {
	case State_READY_TO_LEAVE_FOR_WORK:
		c.state = State_IN_TRANSIT_TO_WORK
		if driving {
			c.state = State_DRIVING_TO_WORK
		}
	case State_READY_TO_LEAVE_FOR_HOME:
		c.state = State_IN_TRANSIT_TO_HOME
		if driving {
			c.state = State_DRIVING_HOME
		}
	case State_READY_TO_LEAVE_FOR_COMMERCIAL:
		c.state = State_IN_TRANSIT_TO_COMMERCIAL
	}
	if c.trip.scheduled {
		switch c.trip.goal {
		case Goal_WORK:
			c.lastDepartureDayWork = max(c.lastDepartureDayWork, c.trip.commuteDay)
		case Goal_HOME:
			c.lastDepartureDayHome = max(c.lastDepartureDayHome, c.trip.commuteDay)
		}
	}
	c.position = c.trip.path[0]
	c.visible = true
}

// checkArrival 判断是否到达
// 说明：计划到达时间已过、运动插值已到终点、或车辆不再行驶，均视为到达
func (c *Citizen) checkArrival(now float64) {
	arrived := now >= c.trip.arrival || c.trip.reached
	if c.state.IsDriving() {
		if v, ok := c.vehicleInfo(); !ok || !v.IsActive {
			arrived = true
		}
	}
	if arrived {
		c.finishTrip(now)
	}
}

// finishTrip 结束出行，落在目的地对应的稳定状态
func (c *Citizen) finishTrip(now float64) {
	goal := c.trip.goal
	if c.state.IsMoving() {
		record := entity.TripRecord{
			AgentID:   c.id,
			Goal:      goal.String(),
			Mode:      c.trip.mode,
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
	c.releaseVehicle()
	switch goal {
	case Goal_WORK:
		c.land(State_AT_WORK, c.workPos)
	case Goal_COMMERCIAL:
		c.land(State_AT_COMMERCIAL, c.medication.destination.Position)
		c.onCommercialArrival(now)
	default:
		c.land(State_AT_HOME, c.homePos)
		if c.behavior != ActiveBehavior_NONE {
			c.clearBehavior()
		}
	}
}
