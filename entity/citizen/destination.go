package citizen

import (
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity/building"
)

const ringPoints = 8 // 家周围环形候选点数

var (
	// 周末散步目的地的建筑类型，按优先级
	weekendTiers = [][]entity.BuildingType{
		{entity.BuildingType_PARK},
		{entity.BuildingType_PLAZA, entity.BuildingType_COMMERCIAL},
	}
	// 买药目的地的建筑类型，按优先级
	medicationTiers = [][]entity.BuildingType{
		{entity.BuildingType_PHARMACY},
		{entity.BuildingType_HOSPITAL},
		{entity.BuildingType_COMMERCIAL},
	}
)

// nearestOfTiers 按优先级依次查找离pos最近的建筑
func (c *Citizen) nearestOfTiers(tiers [][]entity.BuildingType, pos geometry.Point) (entity.BuildingInfo, bool) {
	bm := c.ctx.BuildingManager()
	if bm == nil {
		return entity.BuildingInfo{}, false
	}
	for _, types := range tiers {
		if b, ok := building.Nearest(bm.BuildingsByType(types...), pos); ok {
			return b, true
		}
	}
	return entity.BuildingInfo{}, false
}

// medicationDestination 买药目的地：药店、医院、商店中最近的
func (c *Citizen) medicationDestination() (entity.BuildingInfo, bool) {
	return c.nearestOfTiers(medicationTiers, c.position)
}

// weekendDestination 周末散步目的地
// 算法说明：
// 1. 最近的公园
// 2. 最近的广场或商店
// 3. 随机可通行网格点
// 4. 家周围半径RingRadius的环形点
func (c *Citizen) weekendDestination() (geometry.Point, bool) {
	if b, ok := c.nearestOfTiers(weekendTiers, c.homePos); ok {
		return b.Position, true
	}
	return c.alternateWeekendDestination()
}

// alternateWeekendDestination 不依赖建筑的散步目的地
func (c *Citizen) alternateWeekendDestination() (geometry.Point, bool) {
	g := c.ctx.WalkGraph()
	if g == nil {
		return geometry.Point{}, false
	}
	if n, ok := g.RandomWalkableNode(maxRandomAttempts); ok && (c.homeNode == nil || n != *c.homeNode) {
		return g.GridToWorld(n), true
	}
	return c.ringDestination(g)
}

// ringDestination 家周围环形点中第一个可通行的
func (c *Citizen) ringDestination(g entity.INavGraph) (geometry.Point, bool) {
	r := c.ctx.RuntimeConfig().Citizen.Weekend.RingRadius
	offset := c.generator.Angle()
	for i := range ringPoints {
		angle := offset + float64(i)*2*math.Pi/ringPoints
		p := c.homePos
		p.MoveDirection2D(angle, r)
		n, ok := g.NearestWalkableNode(p)
		if !ok || (c.homeNode != nil && n == *c.homeNode) {
			continue
		}
		return g.GridToWorld(n), true
	}
	return geometry.Point{}, false
}
