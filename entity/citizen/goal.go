package citizen

import "git.fiblab.net/general/common/v2/geometry"

// Goal 发起寻路的目的
type Goal int32

const (
	Goal_NONE       Goal = iota // 未知
	Goal_WORK                   // 上班
	Goal_HOME                   // 回家
	Goal_COMMERCIAL             // 去商店/药店
	Goal_WALK                   // 周末散步
)

func (g Goal) String() string {
	switch g {
	case Goal_WORK:
		return "WORK"
	case Goal_HOME:
		return "HOME"
	case Goal_COMMERCIAL:
		return "COMMERCIAL"
	case Goal_WALK:
		return "WALK"
	default:
		return "NONE"
	}
}

// waitingState 发起寻路后进入的等待状态
func (g Goal) waitingState() State {
	switch g {
	case Goal_WORK:
		return State_REQUESTING_PATH_FOR_WORK
	case Goal_HOME:
		return State_REQUESTING_PATH_FOR_HOME
	case Goal_COMMERCIAL:
		return State_REQUESTING_PATH_FOR_COMMERCIAL
	case Goal_WALK:
		return State_WEEKEND_WALK_REQUESTING_PATH
	default:
		return State_WAITING_FOR_PATH
	}
}

// recoveryTarget 强制恢复的落点：只有上班恢复到单位，其余一律回家
func (c *Citizen) recoveryTarget(g Goal) (State, geometry.Point) {
	if g == Goal_WORK {
		return State_AT_WORK, c.workPos
	}
	return State_AT_HOME, c.homePos
}

// ActiveBehavior 当前占有居民的子行为
// 说明：同一时刻只能有一个子行为持有非空的子状态
type ActiveBehavior int32

const (
	ActiveBehavior_NONE ActiveBehavior = iota
	ActiveBehavior_VEHICLE
	ActiveBehavior_WEEKEND_WALK
	ActiveBehavior_MEDICATION
)

func (b ActiveBehavior) String() string {
	switch b {
	case ActiveBehavior_VEHICLE:
		return "Vehicle"
	case ActiveBehavior_WEEKEND_WALK:
		return "WeekendWalk"
	case ActiveBehavior_MEDICATION:
		return "Medication"
	default:
		return "None"
	}
}
