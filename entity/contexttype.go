package entity

import (
	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/clock"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/config"
)

// 日历接口
type ICalendar interface {
	CurrentHour() int        // 当前小时（0~23）
	CurrentDate() clock.Date // 当前日期
	DayDuration() float64    // 一天对应的时间单位数，<=0表示不可用
	DayNumber() int32        // 当前是第几天
}

// 导航网格接口（每种出行方式一张）
type INavGraph interface {
	// 最近的可通行节点，找不到时返回false
	NearestWalkableNode(pos geometry.Point) (GridNode, bool)
	// 网格节点中心的世界坐标
	GridToWorld(n GridNode) geometry.Point
	// 随机可通行节点，最多尝试maxAttempts次
	RandomWalkableNode(maxAttempts int) (GridNode, bool)
	// 节点是否在网格内且可通行
	Contains(n GridNode) bool
}

// 导航模块接口
type IRouter interface {
	// 路径规划（回调版本）
	GetRoute(in *PathRequest, process func(res *PathResult)) chan struct{}
	// 路径规划（同步版本）
	GetRouteSync(in *PathRequest) *PathResult
}

// 车辆池接口
type IVehiclePool interface {
	// 为居民预约车辆，车辆耗尽时返回false
	RequestVehicle(agentID int32, start, end geometry.Point) bool
	// 释放居民持有的车辆
	ReleaseVehicle(agentID int32)
	// 查询居民持有的车辆
	VehicleFor(agentID int32) (VehicleInfo, bool)
	// 车辆出发，沿path在[departure, arrival]内行驶
	Dispatch(agentID int32, path []geometry.Point, departure, arrival float64) bool
}

// 建筑查询接口
type IBuildingManager interface {
	// 按类型查找建筑，多个类型之间为或关系
	BuildingsByType(types ...BuildingType) []BuildingInfo
	// 输入建筑ID，查找建筑，如果不存在则返回error
	GetOrError(id int32) (BuildingInfo, error)
}

// 经济系统接口
type IEconomy interface {
	// 在药店buildingID购买quantity份药品，返回花费与是否全部买到
	BuyMedication(agentID, buildingID, quantity int32) (cost float32, ok bool, err error)
	// 为新居民开户，currency<=0时使用默认值
	OpenAccount(agentID int32, currency float32) error
	// 移除居民的账户
	RemoveAgent(agentID int32) error
}

// 输出记录接口
type IRecorder interface {
	RecordTrip(r TripRecord)
	RecordRecovery(r RecoveryRecord)
}

type ITaskContext interface {
	Clock() *clock.Clock
	Calendar() ICalendar
	RuntimeConfig() *config.RuntimeConfig
	WalkGraph() INavGraph
	DriveGraph() INavGraph
	Router() IRouter
	VehiclePool() IVehiclePool
	BuildingManager() IBuildingManager
	Economy() IEconomy
	Recorder() IRecorder
	CitizenManager() ICitizenManager
}
