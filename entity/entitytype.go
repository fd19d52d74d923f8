package entity

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/google/uuid"
)

// GridNode 导航网格节点
// 功能：离散化的可通行网格单元，寻路服务的输入单位
// 说明：与连续的世界坐标区分，X为列号、Y为行号，合法节点坐标非负
type GridNode struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// Valid 检查节点坐标是否为非负整数
func (n GridNode) Valid() bool {
	return n.X >= 0 && n.Y >= 0
}

func (n GridNode) String() string {
	return fmt.Sprintf("(%d,%d)", n.X, n.Y)
}

// TravelMode 出行方式
type TravelMode int32

const (
	TravelMode_WALK  TravelMode = 0 // 步行
	TravelMode_DRIVE TravelMode = 1 // 开车
)

func (m TravelMode) String() string {
	switch m {
	case TravelMode_WALK:
		return "WALK"
	case TravelMode_DRIVE:
		return "DRIVE"
	default:
		return fmt.Sprintf("TravelMode(%d)", int32(m))
	}
}

// PathRequest 寻路请求
// 功能：居民向寻路服务发出的异步请求
// 说明：ID用于结果回传时识别过期结果
type PathRequest struct {
	ID      uuid.UUID
	AgentID int32
	Start   GridNode
	End     GridNode
	Mode    TravelMode
}

// PathResult 寻路结果
// 说明：Path为nil或为空表示寻路失败
type PathResult struct {
	ID      uuid.UUID
	AgentID int32
	Path    []geometry.Point
	Length  float64
}

// Ok 是否寻路成功
func (r *PathResult) Ok() bool {
	return r != nil && len(r.Path) > 0
}

// VehicleInfo 车辆状态
type VehicleInfo struct {
	IsActive  bool           // 车辆是否仍在行驶
	Speed     float64        // 车速（世界单位/时间单位）
	Position  geometry.Point // 当前位置
	Direction float64        // 当前朝向（atan2）
}

// BuildingType 建筑类型
type BuildingType string

const (
	BuildingType_HOME       BuildingType = "home"
	BuildingType_OFFICE     BuildingType = "office"
	BuildingType_COMMERCIAL BuildingType = "commercial"
	BuildingType_PHARMACY   BuildingType = "pharmacy"
	BuildingType_HOSPITAL   BuildingType = "hospital"
	BuildingType_PARK       BuildingType = "park"
	BuildingType_PLAZA      BuildingType = "plaza"
)

// BuildingInfo 建筑信息
type BuildingInfo struct {
	ID       int32
	Name     string
	Type     BuildingType
	Position geometry.Point
}

// TripRecord 一次完成的出行
type TripRecord struct {
	AgentID   int32
	Goal      string
	Mode      TravelMode
	Departure float64
	Arrival   float64
	Length    float64
}

// RecoveryRecord 一次强制恢复
type RecoveryRecord struct {
	AgentID int32
	Reason  string
	Goal    string
	State   string // 恢复后的状态
	T       float64
}
