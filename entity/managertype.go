package entity

import (
	"git.fiblab.net/general/common/v2/geometry"
)

// Manager依赖倒置

// CitizenSnapshot 居民可视化快照
type CitizenSnapshot struct {
	ID        int32   `json:"id"`
	State     string  `json:"state"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Direction float64 `json:"direction"`
	Visible   bool    `json:"visible"`
	Index     int     `json:"index"`    // 路径上当前线段下标
	Fraction  float64 `json:"fraction"` // 当前线段上的比例
}

// entity/citizen/citizen.go的依赖倒置
type ICitizen interface {
	ID() int32                // 获取居民ID
	StateName() string        // 获取当前状态名
	Position() geometry.Point // 获取当前位置
	Direction() float64       // 获取当前朝向
	Visible() bool            // 是否可见
	Snapshot() CitizenSnapshot
}

// entity/citizen/manager.go的依赖倒置
type ICitizenManager interface {
	// 输入居民ID，查找居民，如果不存在则panic
	Get(id int32) ICitizen
	// 输入居民ID，查找居民，如果不存在则返回error
	GetOrError(id int32) (ICitizen, error)

	Prepare()          // 准备阶段：应用增删、回传寻路结果
	Update(dt float64) // 更新阶段

	Snapshots() []CitizenSnapshot // 可见居民的快照
}
