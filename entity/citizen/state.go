package citizen

import (
	"fmt"
)

// State 居民状态（互斥，任意时刻只有一个）
type State int32

const (
	State_IDLE                               State = iota // 未初始化或日历不可用
	State_AT_HOME                                         // 在家
	State_AT_WORK                                         // 在单位
	State_AT_COMMERCIAL                                   // 在商店/药店
	State_READY_TO_LEAVE_FOR_WORK                         // 已获得路径，等待出发上班
	State_REQUESTING_PATH_FOR_WORK                        // 等待上班路径
	State_READY_TO_LEAVE_FOR_HOME                         // 已获得路径，等待出发回家
	State_REQUESTING_PATH_FOR_HOME                        // 等待回家路径
	State_READY_TO_LEAVE_FOR_COMMERCIAL                   // 已获得路径，等待出发去商店
	State_REQUESTING_PATH_FOR_COMMERCIAL                  // 等待去商店路径
	State_WAITING_FOR_PATH                                // 等待目的未知的路径
	State_IN_TRANSIT_TO_WORK                              // 步行上班
	State_IN_TRANSIT_TO_HOME                              // 步行回家
	State_IN_TRANSIT_TO_COMMERCIAL                        // 步行去商店
	State_DRIVING_TO_WORK                                 // 开车上班
	State_DRIVING_HOME                                    // 开车回家
	State_WEEKEND_WALK_REQUESTING_PATH                    // 等待周末散步路径
	State_WEEKEND_WALK_READY                              // 已获得散步路径
	State_WEEKEND_WALKING                                 // 周末散步中（含在目的地停留）
	State_WEEKEND_WALK_RETURNING_TO_SIDEWALK              // 从目的地回到人行道
)

var stateNames = [...]string{
	State_IDLE:                               "Idle",
	State_AT_HOME:                            "AtHome",
	State_AT_WORK:                            "AtWork",
	State_AT_COMMERCIAL:                      "AtCommercial",
	State_READY_TO_LEAVE_FOR_WORK:            "ReadyToLeaveForWork",
	State_REQUESTING_PATH_FOR_WORK:           "RequestingPathForWork",
	State_READY_TO_LEAVE_FOR_HOME:            "ReadyToLeaveForHome",
	State_REQUESTING_PATH_FOR_HOME:           "RequestingPathForHome",
	State_READY_TO_LEAVE_FOR_COMMERCIAL:      "ReadyToLeaveForCommercial",
	State_REQUESTING_PATH_FOR_COMMERCIAL:     "RequestingPathForCommercial",
	State_WAITING_FOR_PATH:                   "WaitingForPath",
	State_IN_TRANSIT_TO_WORK:                 "InTransitToWork",
	State_IN_TRANSIT_TO_HOME:                 "InTransitToHome",
	State_IN_TRANSIT_TO_COMMERCIAL:           "InTransitToCommercial",
	State_DRIVING_TO_WORK:                    "DrivingToWork",
	State_DRIVING_HOME:                       "DrivingHome",
	State_WEEKEND_WALK_REQUESTING_PATH:       "WeekendWalkRequestingPath",
	State_WEEKEND_WALK_READY:                 "WeekendWalkReady",
	State_WEEKEND_WALKING:                    "WeekendWalking",
	State_WEEKEND_WALK_RETURNING_TO_SIDEWALK: "WeekendWalkReturningToSidewalk",
}

func (s State) String() string {
	if s.Valid() {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Valid 是否属于状态全集
func (s State) Valid() bool {
	return s >= 0 && int(s) < len(stateNames)
}

// ParseState 由状态名解析状态
func ParseState(name string) (State, error) {
	for i, n := range stateNames {
		if n == name {
			return State(i), nil
		}
	}
	return State_IDLE, fmt.Errorf("unknown citizen state %q", name)
}

// IsStable 稳定状态：停留在某处，不在路上也不在等待
func (s State) IsStable() bool {
	switch s {
	case State_IDLE, State_AT_HOME, State_AT_WORK, State_AT_COMMERCIAL:
		return true
	}
	return false
}

// IsRequesting 等待寻路结果的状态
func (s State) IsRequesting() bool {
	switch s {
	case State_REQUESTING_PATH_FOR_WORK,
		State_REQUESTING_PATH_FOR_HOME,
		State_REQUESTING_PATH_FOR_COMMERCIAL,
		State_WAITING_FOR_PATH,
		State_WEEKEND_WALK_REQUESTING_PATH:
		return true
	}
	return false
}

// IsMoving 沿路径移动中的状态
func (s State) IsMoving() bool {
	switch s {
	case State_IN_TRANSIT_TO_WORK,
		State_IN_TRANSIT_TO_HOME,
		State_IN_TRANSIT_TO_COMMERCIAL,
		State_DRIVING_TO_WORK,
		State_DRIVING_HOME,
		State_WEEKEND_WALKING,
		State_WEEKEND_WALK_RETURNING_TO_SIDEWALK:
		return true
	}
	return false
}

// IsDriving 开车中
func (s State) IsDriving() bool {
	return s == State_DRIVING_TO_WORK || s == State_DRIVING_HOME
}

// IsWeekend 周末散步专属状态
func (s State) IsWeekend() bool {
	switch s {
	case State_WEEKEND_WALK_REQUESTING_PATH,
		State_WEEKEND_WALK_READY,
		State_WEEKEND_WALKING,
		State_WEEKEND_WALK_RETURNING_TO_SIDEWALK:
		return true
	}
	return false
}

// readyState 等待寻路状态对应的待出发状态
func readyState(s State) State {
	switch s {
	case State_REQUESTING_PATH_FOR_WORK:
		return State_READY_TO_LEAVE_FOR_WORK
	case State_REQUESTING_PATH_FOR_COMMERCIAL:
		return State_READY_TO_LEAVE_FOR_COMMERCIAL
	case State_WEEKEND_WALK_REQUESTING_PATH:
		return State_WEEKEND_WALK_READY
	default:
		return State_READY_TO_LEAVE_FOR_HOME
	}
}
