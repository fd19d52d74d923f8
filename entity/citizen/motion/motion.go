package motion

import (
	"sort"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
)

// Track 一条带时间的行进轨迹
// 说明：Lengths与Directions在创建时预先计算，之后只读
type Track struct {
	Path       []geometry.Point
	Lengths    []float64                     // 折线累计长度，Lengths[0]=0
	Directions []geometry.PolylineDirection // 每一段的方向
	Departure  float64                       // 出发时间
	Arrival    float64                       // 到达时间
}

// NewTrack 创建轨迹
func NewTrack(path []geometry.Point, departure, arrival float64) Track {
	t := Track{
		Path:      path,
		Departure: departure,
		Arrival:   arrival,
	}
	if len(path) > 0 {
		t.Lengths = geometry.GetPolylineLengths2D(path)
	}
	if len(path) > 1 {
		t.Directions = geometry.GetPolylineDirections(path)
	}
	return t
}

// Length 折线总长度
func (t Track) Length() float64 {
	if len(t.Lengths) == 0 {
		return 0
	}
	return t.Lengths[len(t.Lengths)-1]
}

// Pose 插值结果
type Pose struct {
	Position  geometry.Point
	Direction float64 // atan2
	Index     int     // 当前所在线段下标
	Fraction  float64 // 在当前线段上的比例
	Reached   bool    // 是否已到达终点
}

// At 计算now时刻的位置
// 功能：按时间比例线性插值到折线上
// 参数：now-当前时间
// 返回：当前位置、朝向、线段下标与比例、是否到达
// 算法说明：
// 1. 进度=(now-出发)/(到达-出发)，夹到[0,1]
// 2. s=进度*总长，二分查找所在线段
// 3. 在线段两端点间按比例混合
func (t Track) At(now float64) Pose {
	switch len(t.Path) {
	case 0:
		return Pose{Reached: true}
	case 1:
		return Pose{Position: t.Path[0], Reached: true}
	}
	total := t.Length()
	duration := t.Arrival - t.Departure
	if duration <= 0 || total <= 0 {
		last := len(t.Path) - 1
		return Pose{
			Position:  t.Path[last],
			Direction: t.Directions[last-1].Direction,
			Index:     last - 1,
			Fraction:  1,
			Reached:   true,
		}
	}
	progress := lo.Clamp((now-t.Departure)/duration, 0, 1)
	s := progress * total
	pose := Pose{Reached: progress >= 1}
	if i := sort.SearchFloat64s(t.Lengths, s); i == 0 {
		pose.Position = t.Path[0]
		pose.Direction = t.Directions[0].Direction
	} else {
		sHigh, sLow := t.Lengths[i], t.Lengths[i-1]
		k := 1.
		if sHigh > sLow {
			k = (s - sLow) / (sHigh - sLow)
		}
		pose.Position = geometry.Blend(t.Path[i-1], t.Path[i], k)
		pose.Direction = t.Directions[i-1].Direction
		pose.Index = i - 1
		pose.Fraction = k
	}
	return pose
}
