package building

import (
	"fmt"
	"slices"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/input"
)

var knownTypes = []entity.BuildingType{
	entity.BuildingType_HOME,
	entity.BuildingType_OFFICE,
	entity.BuildingType_COMMERCIAL,
	entity.BuildingType_PHARMACY,
	entity.BuildingType_HOSPITAL,
	entity.BuildingType_PARK,
	entity.BuildingType_PLAZA,
}

// BuildingManager 建筑管理器
// 功能：提供按ID与按类型的建筑查询，初始化后只读
type BuildingManager struct {
	data   map[int32]entity.BuildingInfo
	byType map[entity.BuildingType][]entity.BuildingInfo
}

// NewManager 创建建筑管理器
// 参数：buildings-建筑输入数据
func NewManager(buildings []input.Building) *BuildingManager {
	infos := lo.Map(buildings, func(b input.Building, _ int) entity.BuildingInfo {
		t := entity.BuildingType(b.Type)
		if !slices.Contains(knownTypes, t) {
			log.Warnf("building %d has unknown type %q", b.ID, b.Type)
		}
		return entity.BuildingInfo{
			ID:       b.ID,
			Name:     b.Name,
			Type:     t,
			Position: geometry.Point{X: b.X, Y: b.Y},
		}
	})
	m := &BuildingManager{
		data: lo.SliceToMap(infos, func(b entity.BuildingInfo) (int32, entity.BuildingInfo) {
			return b.ID, b
		}),
		byType: lo.GroupBy(infos, func(b entity.BuildingInfo) entity.BuildingType {
			return b.Type
		}),
	}
	if len(m.data) != len(infos) {
		log.Panicf("buildings have duplicated ids")
	}
	return m
}

// Get 输入建筑ID，查找建筑，如果不存在则panic
func (m *BuildingManager) Get(id int32) entity.BuildingInfo {
	if b, ok := m.data[id]; !ok {
		log.Panicf("no id %d in building data", id)
		return entity.BuildingInfo{}
	} else {
		return b
	}
}

// GetOrError 输入建筑ID，查找建筑，如果不存在则返回error
func (m *BuildingManager) GetOrError(id int32) (entity.BuildingInfo, error) {
	if b, ok := m.data[id]; !ok {
		return entity.BuildingInfo{}, fmt.Errorf("no id %d in building data", id)
	} else {
		return b, nil
	}
}

// BuildingsByType 按类型查找建筑，结果按类型参数顺序拼接
func (m *BuildingManager) BuildingsByType(types ...entity.BuildingType) []entity.BuildingInfo {
	res := make([]entity.BuildingInfo, 0)
	for _, t := range lo.Uniq(types) {
		res = append(res, m.byType[t]...)
	}
	return res
}

// Nearest 从候选建筑中找出离pos最近的一个
func Nearest(candidates []entity.BuildingInfo, pos geometry.Point) (entity.BuildingInfo, bool) {
	if len(candidates) == 0 {
		return entity.BuildingInfo{}, false
	}
	return lo.MinBy(candidates, func(a, b entity.BuildingInfo) bool {
		return geometry.Distance2D(a.Position, pos) < geometry.Distance2D(b.Position, pos)
	}), true
}
