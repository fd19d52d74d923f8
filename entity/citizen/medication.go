package citizen

import (
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
)

// medicationPhase 买药的阶段
type medicationPhase int32

const (
	medicationPhase_NONE      medicationPhase = iota
	medicationPhase_GOING                     // 前往药店
	medicationPhase_SHOPPING                  // 在店内
	medicationPhase_RETURNING                 // 回家
)

// medicationState 买药行为的私有状态
type medicationState struct {
	rolledDay int32 // 最近一次掷骰的日期
	need      bool  // 今天是否需要买药

	phase       medicationPhase
	destination entity.BuildingInfo
	shopUntil   float64
}

// reset 清空买药过程，当天不再买药
func (m *medicationState) reset() {
	*m = medicationState{rolledDay: m.rolledDay}
}

// updateMedication 买药行为
// 功能：每天按概率决定是否需要买药；营业时间内在家时前往最近的药店，购买后在店内停留，然后回家
// 参数：hour-当前小时，now-当前时间
// 返回：是否接管了本tick
func (c *Citizen) updateMedication(hour int, now float64) bool {
	cfg := c.ctx.RuntimeConfig().Citizen.Medication
	m := &c.medication
	if today := c.ctx.Calendar().DayNumber(); m.rolledDay != today {
		m.rolledDay = today
		if m.phase == medicationPhase_NONE {
			m.need = c.generator.PTrue(c.medicationProbability)
		}
	}
	switch c.state {
	case State_AT_HOME:
		if c.behavior != ActiveBehavior_NONE || !m.need {
			return false
		}
		if hour < cfg.OpenHour || hour >= cfg.CloseHour {
			return false
		}
		dest, ok := c.medicationDestination()
		if !ok {
			log.Debugf("citizen %d: no pharmacy found", c.id)
			m.need = false
			return false
		}
		c.behavior = ActiveBehavior_MEDICATION
		m.phase = medicationPhase_GOING
		m.destination = dest
		c.requestPath(requestOptions{
			start:        c.position,
			end:          dest.Position,
			startNode:    c.homeNode,
			successState: State_READY_TO_LEAVE_FOR_COMMERCIAL,
			goal:         Goal_COMMERCIAL,
		}, now)
		return true
	case State_AT_COMMERCIAL:
		if c.behavior == ActiveBehavior_MEDICATION && m.phase == medicationPhase_SHOPPING && now < m.shopUntil {
			return true
		}
		if c.behavior == ActiveBehavior_MEDICATION {
			m.phase = medicationPhase_RETURNING
		}
		c.requestPath(requestOptions{
			start:        c.position,
			end:          c.homePos,
			endNode:      c.homeNode,
			successState: State_READY_TO_LEAVE_FOR_HOME,
			goal:         Goal_HOME,
		}, now)
		return true
	}
	return false
}

// onCommercialArrival 到达药店后购买药品并开始停留
func (c *Citizen) onCommercialArrival(now float64) {
	if c.behavior != ActiveBehavior_MEDICATION {
		return
	}
	cfg := c.ctx.RuntimeConfig().Citizen.Medication
	m := &c.medication
	dest := m.destination
	if econ := c.ctx.Economy(); econ != nil && dest.Type == entity.BuildingType_PHARMACY {
		cost, ok, err := econ.BuyMedication(c.id, dest.ID, cfg.Quantity)
		switch {
		case err != nil:
			log.Warnf("citizen %d failed to buy medication at %d: %v", c.id, dest.ID, err)
		case !ok:
			log.Debugf("citizen %d bought partial medication at %d for %.2f", c.id, dest.ID, cost)
		default:
			log.Debugf("citizen %d bought medication at %d for %.2f", c.id, dest.ID, cost)
		}
	}
	m.need = false
	m.phase = medicationPhase_SHOPPING
	m.shopUntil = now + minutesToTime(cfg.ShoppingMinutes, c.dayLength())
}
