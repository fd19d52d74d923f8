package schedule

import (
	"fmt"
	"math"
	"time"
)

// Times 一天内的通勤时刻（时间单位，相对于当天零点）
type Times struct {
	PrepareWork float64 // 开始准备上班
	ExactWork   float64 // 准点出发上班
	PrepareHome float64 // 开始准备回家
	ExactHome   float64 // 准点出发回家
}

// ComputeTimes 计算通勤时刻
// 功能：出发小时h换算为h/24*D，准备时刻再提前anticipationMinutes，小于0时按D取模（跨越午夜）
// 参数：workHour/homeHour-上班/回家出发小时，anticipationMinutes-提前分钟数，dayLength-日长D
func ComputeTimes(workHour, homeHour int, anticipationMinutes, dayLength float64) Times {
	anticipation := anticipationMinutes / (24 * 60) * dayLength
	exactWork := float64(workHour) / 24 * dayLength
	exactHome := float64(homeHour) / 24 * dayLength
	return Times{
		PrepareWork: wrap(exactWork-anticipation, dayLength),
		ExactWork:   exactWork,
		PrepareHome: wrap(exactHome-anticipation, dayLength),
		ExactHome:   exactHome,
	}
}

func wrap(t, dayLength float64) float64 {
	t = math.Mod(t, dayLength)
	if t < 0 {
		t += dayLength
	}
	return t
}

// DayCycle 第几天与当天已经过去的时间
func DayCycle(now, dayLength float64) (day int32, inCycle float64) {
	d := math.Floor(now / dayLength)
	return int32(d), now - d*dayLength
}

// HourOf 当天已经过去的时间对应的小时
func HourOf(inCycle, dayLength float64) int {
	return min(int(inCycle/dayLength*24), 23)
}

// Schedule 居民通勤日程
// 功能：保存出发小时与提前量，日长变化时惰性重算通勤时刻
type Schedule struct {
	WorkHour            int
	HomeHour            int
	AnticipationMinutes float64
	Strategy            WorkStrategy

	times     Times
	dayLength float64 // times对应的日长，0表示尚未计算
}

// New 创建日程
// 说明：要求0<=workHour<homeHour<=23
func New(workHour, homeHour int, anticipationMinutes float64, strategy WorkStrategy) (*Schedule, error) {
	if workHour < 0 || homeHour > 23 || workHour >= homeHour {
		return nil, fmt.Errorf("invalid work/home hour %d/%d", workHour, homeHour)
	}
	if anticipationMinutes < 0 {
		return nil, fmt.Errorf("anticipation minutes must not be negative, got %v", anticipationMinutes)
	}
	return &Schedule{
		WorkHour:            workHour,
		HomeHour:            homeHour,
		AnticipationMinutes: anticipationMinutes,
		Strategy:            strategy,
	}, nil
}

// Times 获取dayLength下的通勤时刻，日长变化时重新计算
func (s *Schedule) Times(dayLength float64) Times {
	if dayLength != s.dayLength {
		s.times = ComputeTimes(s.WorkHour, s.HomeHour, s.AnticipationMinutes, dayLength)
		s.dayLength = dayLength
	}
	return s.times
}

// WorkTrigger 判断当前是否处于上班出发窗口
// 功能：返回本次上班出行对应的目标日，以及是否应当出发
// 参数：now-当前时间，dayLength-日长，today-当天星期
// 算法说明：
// 1. 窗口未跨午夜：当天已过准备时刻且小时<回家小时
// 2. 窗口跨午夜：过了准备时刻则目标为次日；否则目标为当天，小时<回家小时
// 3. 目标日需为工作日
func (s *Schedule) WorkTrigger(now, dayLength float64, today time.Weekday) (targetDay int32, ok bool) {
	t := s.Times(dayLength)
	day, in := DayCycle(now, dayLength)
	targetDay = day
	hourOk := HourOf(in, dayLength) < s.HomeHour
	if t.PrepareWork > t.ExactWork {
		if in >= t.PrepareWork {
			targetDay, hourOk = day+1, true
		}
	} else if in < t.PrepareWork {
		return targetDay, false
	}
	weekday := time.Weekday((int(today) + int(targetDay-day)) % 7)
	return targetDay, hourOk && s.Strategy.ShouldWork(weekday)
}

// HomeTrigger 判断当前是否处于回家出发窗口
// 返回：本次回家出行对应的目标日，以及是否应当出发
func (s *Schedule) HomeTrigger(now, dayLength float64) (targetDay int32, ok bool) {
	t := s.Times(dayLength)
	day, in := DayCycle(now, dayLength)
	if t.PrepareHome > t.ExactHome {
		if in >= t.PrepareHome {
			return day + 1, true
		}
		return day, true
	}
	return day, in >= t.PrepareHome
}

// WorkDeparture 上班的出发时间
func (s *Schedule) WorkDeparture(now, dayLength float64) float64 {
	t := s.Times(dayLength)
	return Departure(now, t.PrepareWork, t.ExactWork, dayLength)
}

// HomeDeparture 回家的出发时间
func (s *Schedule) HomeDeparture(now, dayLength float64) float64 {
	t := s.Times(dayLength)
	return Departure(now, t.PrepareHome, t.ExactHome, dayLength)
}

// Departure 下一个准点出发时刻
// 功能：窗口跨午夜且已过准备时刻时为次日的准点时刻，否则为当天准点时刻；已经错过时立即出发
func Departure(now, prepare, exact, dayLength float64) float64 {
	day, in := DayCycle(now, dayLength)
	if prepare > exact && in >= prepare {
		return float64(day+1)*dayLength + exact
	}
	return max(now, float64(day)*dayLength+exact)
}
