package vehicle

import (
	"sync"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity/citizen/motion"
)

// Vehicle 车辆
type Vehicle struct {
	id     int32
	owner  int32 // 持有者居民ID，-1表示空闲
	active bool  // 是否正在行驶
	track  motion.Track
	pose   motion.Pose
}

func (v *Vehicle) ID() int32 {
	return v.id
}

// Pool 车辆池
// 功能：管理容量有限的车辆，居民独占使用，到达或外部停用后变为非行驶状态
// 说明：所有方法线程安全
type Pool struct {
	mtx      sync.Mutex
	speed    float64
	vehicles []*Vehicle
	free     []*Vehicle
	byOwner  map[int32]*Vehicle
}

// NewPool 创建车辆池
// 参数：capacity-车辆总数，speed-车速
func NewPool(capacity int32, speed float64) *Pool {
	p := &Pool{
		speed:    speed,
		vehicles: make([]*Vehicle, capacity),
		free:     make([]*Vehicle, 0, capacity),
		byOwner:  make(map[int32]*Vehicle),
	}
	for i := range p.vehicles {
		v := &Vehicle{id: int32(i), owner: -1}
		p.vehicles[i] = v
		p.free = append(p.free, v)
	}
	return p
}

// RequestVehicle 为居民预约车辆
// 功能：从空闲车辆中分配一辆停在start处，已持有车辆时直接成功
// 返回：是否分配成功
func (p *Pool) RequestVehicle(agentID int32, start, end geometry.Point) bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if _, ok := p.byOwner[agentID]; ok {
		return true
	}
	if len(p.free) == 0 {
		log.Debugf("no free vehicle for agent %d", agentID)
		return false
	}
	v := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	v.owner = agentID
	v.active = false
	v.track = motion.Track{}
	v.pose = motion.Pose{Position: start}
	p.byOwner[agentID] = v
	return true
}

// ReleaseVehicle 释放居民持有的车辆，未持有时不做任何事
func (p *Pool) ReleaseVehicle(agentID int32) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	v, ok := p.byOwner[agentID]
	if !ok {
		return
	}
	delete(p.byOwner, agentID)
	v.owner = -1
	v.active = false
	v.track = motion.Track{}
	p.free = append(p.free, v)
}

// VehicleFor 查询居民持有的车辆
func (p *Pool) VehicleFor(agentID int32) (entity.VehicleInfo, bool) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	v, ok := p.byOwner[agentID]
	if !ok {
		return entity.VehicleInfo{}, false
	}
	return entity.VehicleInfo{
		IsActive:  v.active,
		Speed:     p.speed,
		Position:  v.pose.Position,
		Direction: v.pose.Direction,
	}, true
}

// Dispatch 车辆出发
// 功能：设置车辆的行驶轨迹并置为行驶状态
// 返回：居民未持有车辆时返回false
func (p *Pool) Dispatch(agentID int32, path []geometry.Point, departure, arrival float64) bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	v, ok := p.byOwner[agentID]
	if !ok || len(path) == 0 {
		return false
	}
	v.track = motion.NewTrack(path, departure, arrival)
	v.pose = v.track.At(departure)
	v.active = true
	return true
}

// Deactivate 外部停用车辆（如故障），车辆仍由居民持有直到释放
func (p *Pool) Deactivate(agentID int32) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if v, ok := p.byOwner[agentID]; ok {
		v.active = false
	}
}

// Update 更新所有行驶中车辆的位置，到达终点的车辆变为非行驶状态
// 参数：t-当前时间
func (p *Pool) Update(t float64) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	for _, v := range p.byOwner {
		if !v.active {
			continue
		}
		v.pose = v.track.At(t)
		if v.pose.Reached {
			v.active = false
		}
	}
}

// InUse 已分配的车辆数
func (p *Pool) InUse() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return len(p.byOwner)
}

// Capacity 车辆总数
func (p *Pool) Capacity() int {
	return len(p.vehicles)
}
