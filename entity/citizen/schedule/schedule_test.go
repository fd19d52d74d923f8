package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity/citizen/schedule"
)

const D = 1440.0 // 1时间单位=1分钟，便于验算

func TestComputeTimes(t *testing.T) {
	times := schedule.ComputeTimes(8, 19, 30, D)
	assert.InDelta(t, 480, times.ExactWork, 1e-9)
	assert.InDelta(t, 450, times.PrepareWork, 1e-9)
	assert.InDelta(t, 1140, times.ExactHome, 1e-9)
	assert.InDelta(t, 1110, times.PrepareHome, 1e-9)

	// 跨午夜
	times = schedule.ComputeTimes(0, 19, 30, D)
	assert.InDelta(t, 0, times.ExactWork, 1e-9)
	assert.InDelta(t, 1410, times.PrepareWork, 1e-9)

	// 日长1000时
	times = schedule.ComputeTimes(8, 19, 30, 1000)
	assert.InDelta(t, 1000.0/3, times.ExactWork, 1e-9)
	assert.InDelta(t, 1000.0/3-1000.0/48, times.PrepareWork, 1e-9)
}

func TestTimesRecomputedWhenDayLengthChanges(t *testing.T) {
	s, err := schedule.New(8, 19, 30, schedule.Weekdays{})
	require.NoError(t, err)
	assert.InDelta(t, 480, s.Times(D).ExactWork, 1e-9)
	assert.InDelta(t, 240, s.Times(D/2).ExactWork, 1e-9)
}

func TestWorkTrigger(t *testing.T) {
	s, err := schedule.New(8, 19, 30, schedule.Weekdays{})
	require.NoError(t, err)
	// 第2天7:00，尚未到准备时刻
	_, ok := s.WorkTrigger(2*D+420, D, time.Monday)
	assert.False(t, ok)
	// 第2天7:30
	day, ok := s.WorkTrigger(2*D+450, D, time.Monday)
	assert.True(t, ok)
	assert.Equal(t, int32(2), day)
	// 晚于回家小时
	_, ok = s.WorkTrigger(2*D+19*60, D, time.Monday)
	assert.False(t, ok)
	// 周六
	_, ok = s.WorkTrigger(2*D+450, D, time.Saturday)
	assert.False(t, ok)
}

func TestWorkTriggerAcrossMidnight(t *testing.T) {
	s, err := schedule.New(0, 9, 30, schedule.Weekdays{})
	require.NoError(t, err)
	// 周日23:40，目标是周一（第3天）
	day, ok := s.WorkTrigger(2*D+1420, D, time.Sunday)
	assert.True(t, ok)
	assert.Equal(t, int32(3), day)
	assert.InDelta(t, 3*D, s.WorkDeparture(2*D+1420, D), 1e-9)
	// 周五23:40，目标是周六，不上班
	_, ok = s.WorkTrigger(2*D+1420, D, time.Friday)
	assert.False(t, ok)
	// 周一3:00仍可出发，立即出发
	day, ok = s.WorkTrigger(3*D+180, D, time.Monday)
	assert.True(t, ok)
	assert.Equal(t, int32(3), day)
	assert.InDelta(t, 3*D+180, s.WorkDeparture(3*D+180, D), 1e-9)
}

func TestHomeTriggerAndDeparture(t *testing.T) {
	s, err := schedule.New(8, 19, 30, schedule.Daily{})
	require.NoError(t, err)
	_, ok := s.HomeTrigger(D+1100, D)
	assert.False(t, ok)
	day, ok := s.HomeTrigger(D+1110, D)
	assert.True(t, ok)
	assert.Equal(t, int32(1), day)
	// 提前到达准备时刻，等到准点出发
	assert.InDelta(t, D+1140, s.HomeDeparture(D+1110, D), 1e-9)
	// 已过准点
	assert.InDelta(t, D+1200, s.HomeDeparture(D+1200, D), 1e-9)
}

func TestNewValidation(t *testing.T) {
	_, err := schedule.New(19, 8, 30, schedule.Daily{})
	assert.Error(t, err)
	_, err = schedule.New(8, 24, 30, schedule.Daily{})
	assert.Error(t, err)
	_, err = schedule.New(8, 19, -1, schedule.Daily{})
	assert.Error(t, err)
}

func TestStrategies(t *testing.T) {
	w, err := schedule.NewStrategy("", nil)
	require.NoError(t, err)
	assert.True(t, w.ShouldWork(time.Friday))
	assert.False(t, w.ShouldWork(time.Sunday))

	d, err := schedule.NewStrategy("daily", nil)
	require.NoError(t, err)
	assert.True(t, d.ShouldWork(time.Sunday))

	c, err := schedule.NewStrategy("custom", []int{1, 3, 3})
	require.NoError(t, err)
	assert.True(t, c.ShouldWork(time.Wednesday))
	assert.False(t, c.ShouldWork(time.Tuesday))

	_, err = schedule.NewStrategy("custom", []int{7})
	assert.Error(t, err)
	_, err = schedule.NewStrategy("sometimes", nil)
	assert.Error(t, err)
}
