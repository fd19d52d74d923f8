package citizen

import (
	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
)

// vehicleState 车辆行为的私有状态
type vehicleState struct {
	reserved bool // 已从车辆池预约到车辆
	driving  bool // 车辆已出发
}

// reserveVehicle 通勤前为有车的居民预约车辆
// 说明：其他子行为占有居民时不预约；车辆耗尽时步行
func (c *Citizen) reserveVehicle(start, end geometry.Point) {
	if !c.ownsCar || c.vehicle.reserved || c.behavior != ActiveBehavior_NONE {
		return
	}
	pool := c.ctx.VehiclePool()
	if pool == nil {
		return
	}
	if !pool.RequestVehicle(c.id, start, end) {
		log.Debugf("citizen %d: no vehicle available, walking", c.id)
		return
	}
	c.vehicle.reserved = true
	c.behavior = ActiveBehavior_VEHICLE
}

// releaseVehicle 归还车辆
func (c *Citizen) releaseVehicle() {
	if c.vehicle.reserved {
		if pool := c.ctx.VehiclePool(); pool != nil {
			pool.ReleaseVehicle(c.id)
		}
	}
	c.vehicle = vehicleState{}
	if c.behavior == ActiveBehavior_VEHICLE {
		c.behavior = ActiveBehavior_NONE
	}
}

// vehicleInfo 持有车辆的状态
func (c *Citizen) vehicleInfo() (entity.VehicleInfo, bool) {
	if !c.vehicle.reserved {
		return entity.VehicleInfo{}, false
	}
	pool := c.ctx.VehiclePool()
	if pool == nil {
		return entity.VehicleInfo{}, false
	}
	return pool.VehicleFor(c.id)
}

// dispatchVehicle 开车出发
// 返回：未预约车辆、不是开车路径或车辆池拒绝时返回false
func (c *Citizen) dispatchVehicle(now float64) bool {
	if !c.vehicle.reserved || c.trip.mode != entity.TravelMode_DRIVE || len(c.trip.path) < 2 {
		return false
	}
	if _, ok := c.vehicleInfo(); !ok {
		return false
	}
	if !c.ctx.VehiclePool().Dispatch(c.id, c.trip.path, now, now+c.trip.duration) {
		return false
	}
	c.vehicle.driving = true
	return true
}
