package citizen

import (
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
)

// recover 强制恢复
// 功能：清除路径与所有子行为状态，归还车辆，按最后的目的瞬移到单位或家中并隐藏
// 参数：reason-原因，now-当前时间
// 说明：恢复不向外报错，只记录日志与恢复记录
func (c *Citizen) recover(reason string, now float64) {
	goal := c.trip.goal
	state, pos := c.recoveryTarget(goal)
	if c.trip.scheduled {
		// 失败的通勤视为当天已经出发过
		switch goal {
		case Goal_WORK:
			c.lastDepartureDayWork = max(c.lastDepartureDayWork, c.trip.commuteDay)
		case Goal_HOME:
			c.lastDepartureDayHome = max(c.lastDepartureDayHome, c.trip.commuteDay)
		}
	}
	from := c.state
	c.releaseVehicle()
	c.weekend.reset()
	c.medication.reset()
	c.behavior = ActiveBehavior_NONE
	c.land(state, pos)
	log.Warnf("citizen %d recovered from %v to %v (goal=%v): %s", c.id, from, state, goal, reason)
	if r := c.ctx.Recorder(); r != nil {
		r.RecordRecovery(entity.RecoveryRecord{
			AgentID: c.id,
			Reason:  reason,
			Goal:    goal.String(),
			State:   state.String(),
			T:       now,
		})
	}
	if c.m != nil {
		c.m.recordRecovery()
	}
}

// ForceRecoverFromTimeout 寻路超时的强制恢复
func (c *Citizen) ForceRecoverFromTimeout(now float64) {
	c.recover("path request timeout", now)
}

// clearBehavior 结束当前子行为并归还车辆
func (c *Citizen) clearBehavior() {
	switch c.behavior {
	case ActiveBehavior_WEEKEND_WALK:
		c.weekend.reset()
	case ActiveBehavior_MEDICATION:
		c.medication.reset()
	}
	c.releaseVehicle()
	c.behavior = ActiveBehavior_NONE
}

// idle 日历不可用时回到Idle
func (c *Citizen) idle() {
	c.releaseVehicle()
	c.weekend.reset()
	c.medication.reset()
	c.behavior = ActiveBehavior_NONE
	c.clearPath()
	c.state = State_IDLE
	c.visible = false
	c.stateEnteredAt = noTime
}
