package citizen

import (
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/ecosim"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
)

var (
	homePos     = geometry.Point{X: 10, Y: 10}
	workPos     = geometry.Point{X: 510, Y: 10}
	pharmacyPos = geometry.Point{X: 10, Y: 110}
	parkPos     = geometry.Point{X: 210, Y: 10}
)

func TestInitializeLifecycle(t *testing.T) {
	e := newTestEnv(t)
	c, err := newCitizen(e, e.m, commuter(1))
	require.NoError(t, err)
	assert.Equal(t, State_IDLE, c.State())
	assert.Error(t, c.InitializeLifecycle(99, 2))
	assert.Equal(t, State_IDLE, c.State())

	require.NoError(t, c.InitializeLifecycle(1, 2))
	assert.Equal(t, State_AT_HOME, c.State())
	assert.Equal(t, homePos, c.Position())
	assert.False(t, c.Visible())
	require.NotNil(t, c.homeNode)
	assert.Equal(t, entity.GridNode{X: 1, Y: 1}, *c.homeNode)
	assert.Equal(t, entity.GridNode{X: 51, Y: 1}, *c.workNode)

	bad := commuter(2)
	bad.WorkHour, bad.HomeHour = 20, 9
	_, err = newCitizen(e, e.m, bad)
	assert.Error(t, err)
	bad = commuter(3)
	bad.WorkDays = "sometimes"
	_, err = newCitizen(e, e.m, bad)
	assert.Error(t, err)
}

func TestCommuteToWork(t *testing.T) {
	e := newTestEnv(t)
	c := e.add(t, commuter(1))

	// 7:40已过准备时刻7:30，发出一次寻路请求
	e.at(0, 7, 40)
	e.tick(c)
	assert.Equal(t, State_REQUESTING_PATH_FOR_WORK, c.State())
	require.Equal(t, 1, e.router.count())
	req := e.router.last()
	assert.Equal(t, int32(1), req.AgentID)
	assert.Equal(t, entity.TravelMode_WALK, req.Mode)
	assert.Equal(t, entity.GridNode{X: 1, Y: 1}, req.Start)
	assert.Equal(t, entity.GridNode{X: 51, Y: 1}, req.End)
	assert.False(t, c.Visible())

	e.advance(1)
	e.tick(c)
	assert.Equal(t, 1, e.router.count())

	// 长度50，速度5，日长与参考日长相同：时长10
	c.SetPath([]geometry.Point{homePos, {X: 35, Y: 10}, {X: 60, Y: 10}}, 50)
	assert.Equal(t, State_READY_TO_LEAVE_FOR_WORK, c.State())
	assert.InDelta(t, 10, c.trip.duration, 1e-9)
	assert.InDelta(t, dayLength/3, c.trip.departure, 1e-9)

	// 8点前不出发
	e.at(0, 7, 55)
	e.tick(c)
	assert.Equal(t, State_READY_TO_LEAVE_FOR_WORK, c.State())

	e.at(0, 8, 1)
	departure := e.clock.T
	e.tick(c)
	assert.Equal(t, State_IN_TRANSIT_TO_WORK, c.State())
	assert.True(t, c.Visible())
	assert.Equal(t, int32(0), c.lastDepartureDayWork)

	e.clock.T = departure + 5
	e.tick(c)
	assert.InDelta(t, 35, c.Position().X, 1e-6)
	assert.InDelta(t, 10, c.Position().Y, 1e-6)

	// 第二段的中点
	e.clock.T = departure + 7.5
	e.tick(c)
	snap := c.Snapshot()
	assert.Equal(t, 1, snap.Index)
	assert.InDelta(t, .5, snap.Fraction, 1e-9)
	assert.InDelta(t, 47.5, snap.X, 1e-6)

	e.clock.T = departure + 10
	e.tick(c)
	assert.Equal(t, State_AT_WORK, c.State())
	assert.Equal(t, workPos, c.Position())
	assert.False(t, c.Visible())
	require.Len(t, e.recorder.trips, 1)
	assert.Equal(t, "WORK", e.recorder.trips[0].Goal)
	assert.InDelta(t, 10, e.recorder.trips[0].Arrival-e.recorder.trips[0].Departure, 1e-9)

	// 当天不再出发上班
	e.at(0, 9, 0)
	e.tick(c)
	assert.Equal(t, State_AT_WORK, c.State())
	assert.Equal(t, 1, e.router.count())
}

func TestCommuteHome(t *testing.T) {
	e := newTestEnv(t)
	c := e.add(t, commuter(1))
	c.land(State_AT_WORK, workPos)
	c.lastDepartureDayWork = 0

	e.at(0, 18, 0)
	e.tick(c)
	assert.Equal(t, State_AT_WORK, c.State())

	e.at(0, 18, 40)
	e.tick(c)
	assert.Equal(t, State_REQUESTING_PATH_FOR_HOME, c.State())
	req := e.router.last()
	assert.Equal(t, entity.GridNode{X: 51, Y: 1}, req.Start)
	assert.Equal(t, entity.GridNode{X: 1, Y: 1}, req.End)

	c.SetPath(line(workPos, homePos), 500)
	assert.Equal(t, State_READY_TO_LEAVE_FOR_HOME, c.State())
	assert.InDelta(t, dayLength*19/24, c.trip.departure, 1e-9)
}

func TestTravelDurationScalesWithLength(t *testing.T) {
	e := newTestEnv(t)
	a := e.add(t, commuter(1))
	b := e.add(t, commuter(2))
	e.at(0, 7, 40)
	e.tick(a)
	e.tick(b)

	a.SetPath(line(homePos, geometry.Point{X: 60, Y: 10}), 50)
	b.SetPath(line(homePos, geometry.Point{X: 110, Y: 10}), 100)
	assert.InDelta(t, 2*a.trip.duration, b.trip.duration, 1e-9)

	// 日长加倍，时长加倍
	e.clock.DayLength = 2 * dayLength
	assert.InDelta(t, 2*a.trip.duration, a.travelDuration(50), 1e-9)
	// 日长不可用时使用默认时长
	e.clock.DayLength = 0
	assert.Equal(t, e.rc.Citizen.FallbackTravelDuration, a.travelDuration(50))
}

func TestInstantArrival(t *testing.T) {
	e := newTestEnv(t)
	a := e.add(t, commuter(1))
	b := e.add(t, commuter(2))
	e.at(0, 7, 40)
	e.tick(a)
	e.tick(b)

	a.SetPath([]geometry.Point{homePos}, 0)
	assert.Equal(t, State_AT_WORK, a.State())
	assert.Equal(t, workPos, a.Position())

	b.SetPath(line(homePos, geometry.Point{X: 10.001, Y: 10}), .001)
	assert.Equal(t, State_AT_WORK, b.State())
	assert.Empty(t, e.recorder.trips)
}

func TestSetPathIgnoredWhenNotRequesting(t *testing.T) {
	e := newTestEnv(t)
	c := e.add(t, commuter(1))
	c.SetPath(nil, 0)
	c.SetPath(line(homePos, workPos), 500)
	assert.Equal(t, State_AT_HOME, c.State())
	assert.Equal(t, homePos, c.Position())
	assert.Empty(t, e.recorder.recoveries)
}

func TestPathFailureRecovers(t *testing.T) {
	e := newTestEnv(t)
	c := e.add(t, commuter(1))
	e.at(0, 7, 40)
	e.tick(c)
	c.SetPath(nil, 0)
	assert.Equal(t, State_AT_WORK, c.State())
	assert.Equal(t, workPos, c.Position())
	assert.False(t, c.Visible())
	assert.Equal(t, int32(0), c.lastDepartureDayWork)
	require.Len(t, e.recorder.recoveries, 1)
	assert.Equal(t, "AtWork", e.recorder.recoveries[0].State)

	e.advance(1)
	e.tick(c)
	assert.Equal(t, 1, e.router.count())
}

func TestPathFailureWithoutGoal(t *testing.T) {
	e := newTestEnv(t)
	c := e.add(t, commuter(1))
	e.at(0, 3, 0)
	require.True(t, c.requestPath(requestOptions{start: homePos, end: workPos}, e.clock.T))
	assert.Equal(t, State_WAITING_FOR_PATH, c.State())

	c.SetPath(nil, 0)
	assert.Equal(t, State_AT_HOME, c.State())
	assert.Equal(t, homePos, c.Position())
	require.Len(t, e.recorder.recoveries, 1)
	assert.Equal(t, "HOME", e.recorder.recoveries[0].Goal)
	assert.Equal(t, "path failed without goal", e.recorder.recoveries[0].Reason)
}

func TestPathTimeout(t *testing.T) {
	e := newTestEnv(t)
	c := e.add(t, commuter(1))
	e.at(0, 7, 40)
	e.tick(c)

	e.advance(99)
	e.tick(c)
	assert.Equal(t, State_REQUESTING_PATH_FOR_WORK, c.State())

	e.advance(2)
	e.tick(c)
	assert.Equal(t, State_AT_WORK, c.State())
	require.Len(t, e.recorder.recoveries, 1)
	assert.Equal(t, "path request timeout", e.recorder.recoveries[0].Reason)

	e.advance(1)
	e.tick(c)
	assert.Len(t, e.recorder.recoveries, 1)

	// 超时后才到达的结果被丢弃
	e.router.reply(0, line(homePos, workPos), 500)
	e.m.Prepare()
	assert.Equal(t, State_AT_WORK, c.State())
}

func TestStaleResultDropped(t *testing.T) {
	e := newTestEnv(t)
	c := e.add(t, commuter(1))
	e.at(0, 7, 40)
	e.tick(c)

	c.applyResult(&entity.PathResult{ID: uuid.New(), AgentID: 1, Path: line(homePos, workPos), Length: 500})
	assert.Equal(t, State_REQUESTING_PATH_FOR_WORK, c.State())

	e.router.reply(0, line(homePos, workPos), 500)
	e.m.Prepare()
	assert.Equal(t, State_READY_TO_LEAVE_FOR_WORK, c.State())
}

func TestTeleportCorrection(t *testing.T) {
	e := newTestEnv(t)
	c := e.add(t, commuter(1))
	e.at(0, 7, 40)
	e.tick(c)
	far := geometry.Point{X: 300, Y: 300}
	path := line(far, workPos)
	c.SetPath(path, geometry.Distance2D(far, workPos))
	assert.Equal(t, homePos, c.trip.path[0])
	assert.Equal(t, far, path[0])
	assert.InDelta(t, 500, c.trip.length, 1e-9)
	assert.InDelta(t, 100, c.trip.duration, 1e-9)
}

func TestWeekendDiscardsWalkOnWeekday(t *testing.T) {
	e := newTestEnv(t)
	e.rc.Citizen.Weekend.Probability = 1
	c := e.add(t, commuter(1))

	e.at(5, 10, 0)
	e.tick(c)
	assert.Equal(t, State_WEEKEND_WALK_REQUESTING_PATH, c.State())
	assert.Equal(t, ActiveBehavior_WEEKEND_WALK, c.Behavior())

	// 结果到达时已是周一
	e.at(7, 10, 0)
	c.SetPath([]geometry.Point{homePos, {X: 110, Y: 10}, parkPos}, 200)
	assert.Equal(t, State_AT_HOME, c.State())
	assert.Equal(t, ActiveBehavior_NONE, c.Behavior())
	assert.Empty(t, e.recorder.recoveries)
}

func TestWeekendWalk(t *testing.T) {
	e := newTestEnv(t)
	e.rc.Citizen.Weekend.Probability = 1
	c := e.add(t, commuter(1))

	// 周六早于出门小时
	e.at(5, 9, 0)
	e.tick(c)
	assert.Equal(t, State_AT_HOME, c.State())

	e.at(5, 10, 0)
	e.tick(c)
	assert.Equal(t, State_WEEKEND_WALK_REQUESTING_PATH, c.State())
	req := e.router.last()
	assert.Equal(t, entity.TravelMode_WALK, req.Mode)
	assert.Equal(t, entity.GridNode{X: 21, Y: 1}, req.End)
	sidewalk := geometry.Point{X: 215, Y: 15}
	assert.Equal(t, sidewalk, c.weekend.sidewalkPos)

	c.SetPath([]geometry.Point{homePos, {X: 110, Y: 10}, sidewalk}, 205)
	assert.Equal(t, State_WEEKEND_WALK_READY, c.State())

	e.tick(c)
	assert.Equal(t, State_WEEKEND_WALKING, c.State())
	assert.True(t, c.Visible())

	// 到达人行道，走进公园
	e.advance(41.5)
	e.tick(c)
	assert.Equal(t, weekendPhase_ENTERING, c.weekend.phase)
	require.Len(t, e.recorder.trips, 1)
	assert.Equal(t, "WALK", e.recorder.trips[0].Goal)

	e.advance(2)
	e.tick(c)
	assert.Equal(t, weekendPhase_LINGERING, c.weekend.phase)
	assert.Equal(t, State_WEEKEND_WALKING, c.State())
	assert.Equal(t, parkPos, c.Position())
	assert.False(t, c.Visible())

	// 停留60分钟后回到人行道
	e.advance(42)
	e.tick(c)
	assert.Equal(t, State_WEEKEND_WALK_RETURNING_TO_SIDEWALK, c.State())
	assert.True(t, c.Visible())

	e.advance(2)
	e.tick(c)
	assert.Equal(t, State_REQUESTING_PATH_FOR_HOME, c.State())
	require.Equal(t, 2, e.router.count())
	assert.Equal(t, entity.GridNode{X: 21, Y: 1}, e.router.last().Start)
	assert.Equal(t, entity.GridNode{X: 1, Y: 1}, e.router.last().End)

	c.SetPath([]geometry.Point{sidewalk, {X: 110, Y: 10}, homePos}, 205)
	assert.Equal(t, State_READY_TO_LEAVE_FOR_HOME, c.State())
	e.tick(c)
	assert.Equal(t, State_IN_TRANSIT_TO_HOME, c.State())

	e.advance(42)
	e.tick(c)
	assert.Equal(t, State_AT_HOME, c.State())
	assert.Equal(t, ActiveBehavior_NONE, c.Behavior())
	assert.Len(t, e.recorder.trips, 2)

	// 当天不再出门
	e.advance(10)
	e.tick(c)
	assert.Equal(t, State_AT_HOME, c.State())
	assert.Equal(t, 2, e.router.count())
}

func TestWeekendReturnRetry(t *testing.T) {
	e := newTestEnv(t)
	e.rc.Citizen.Weekend.Probability = 1
	c := e.add(t, commuter(1))
	e.at(5, 10, 0)
	e.tick(c)
	sidewalk := geometry.Point{X: 215, Y: 15}
	c.SetPath([]geometry.Point{homePos, {X: 110, Y: 10}, sidewalk}, 205)
	e.tick(c)

	e.advance(41.5)
	e.tick(c)
	e.advance(2)
	e.tick(c)
	require.Equal(t, weekendPhase_LINGERING, c.weekend.phase)
	e.advance(42)
	e.tick(c)
	e.advance(2)
	e.tick(c)
	require.Equal(t, State_REQUESTING_PATH_FOR_HOME, c.State())
	require.Equal(t, 2, e.router.count())
	first := e.router.last()
	assert.Equal(t, entity.GridNode{X: 21, Y: 1}, first.Start)

	// 从去程最后一个拐点再请求一次
	c.SetPath(nil, 0)
	assert.Equal(t, State_REQUESTING_PATH_FOR_HOME, c.State())
	require.Equal(t, 3, e.router.count())
	retry := e.router.last()
	assert.Equal(t, c.weekend.safeNode, retry.Start)
	assert.Equal(t, entity.GridNode{X: 11, Y: 1}, retry.Start)
	assert.NotEqual(t, first.Start, retry.Start)
	assert.Equal(t, first.End, retry.End)
	assert.Empty(t, e.recorder.recoveries)

	c.SetPath(nil, 0)
	assert.Equal(t, State_AT_HOME, c.State())
	assert.Equal(t, homePos, c.Position())
	assert.Equal(t, ActiveBehavior_NONE, c.Behavior())
	require.Len(t, e.recorder.recoveries, 1)
	assert.Equal(t, "weekend return path failed", e.recorder.recoveries[0].Reason)
	assert.Equal(t, 3, e.router.count())
}

func TestWeekendReturnRetryWithoutSafePoint(t *testing.T) {
	e := newTestEnv(t)
	e.rc.Citizen.Weekend.Probability = 1
	c := e.add(t, commuter(1))
	e.at(5, 10, 0)
	e.tick(c)
	sidewalk := geometry.Point{X: 215, Y: 15}
	c.SetPath(line(homePos, sidewalk), 205)
	e.tick(c)
	e.advance(41.5)
	e.tick(c)
	// 两点路径的拐点就是家
	assert.Equal(t, entity.GridNode{X: 1, Y: 1}, c.weekend.safeNode)
	assert.Equal(t, entity.GridNode{X: 21, Y: 1}, c.weekend.sidewalkNode)
}

func TestWeekendOutboundRetry(t *testing.T) {
	e := newTestEnv(t)
	e.rc.Citizen.Weekend.Probability = 1
	c := e.add(t, commuter(1))
	e.at(5, 10, 0)
	e.tick(c)

	c.SetPath(nil, 0)
	assert.Equal(t, State_WEEKEND_WALK_REQUESTING_PATH, c.State())
	require.Equal(t, 2, e.router.count())
	assert.Equal(t, entity.GridNode{X: 5, Y: 5}, e.router.last().End)

	c.SetPath(nil, 0)
	assert.Equal(t, State_AT_HOME, c.State())
	assert.Equal(t, ActiveBehavior_NONE, c.Behavior())
	assert.Empty(t, e.recorder.recoveries)
}

func TestDriveWithDeactivatedVehicle(t *testing.T) {
	e := newTestEnv(t)
	in := commuter(1)
	in.OwnsCar = true
	c := e.add(t, in)

	e.at(0, 7, 40)
	e.tick(c)
	assert.Equal(t, ActiveBehavior_VEHICLE, c.Behavior())
	assert.Equal(t, entity.TravelMode_DRIVE, e.router.last().Mode)
	assert.Equal(t, 1, e.pool.InUse())

	c.SetPath(line(homePos, workPos), 500)
	assert.InDelta(t, 500/e.rc.Vehicle.Speed, c.trip.duration, 1e-9)

	e.at(0, 8, 1)
	e.tick(c)
	assert.Equal(t, State_DRIVING_TO_WORK, c.State())
	assert.True(t, c.Visible())

	e.advance(5)
	e.pool.Deactivate(1)
	e.tick(c)
	assert.Equal(t, State_AT_WORK, c.State())
	assert.Equal(t, 0, e.pool.InUse())
	assert.Equal(t, ActiveBehavior_NONE, c.Behavior())
}

func TestWalkWhenVehiclesExhausted(t *testing.T) {
	e := newTestEnv(t)
	a, b := commuter(1), commuter(2)
	a.OwnsCar, b.OwnsCar = true, true
	ca := e.add(t, a)
	cb := e.add(t, b)
	e.at(0, 7, 40)
	e.tick(ca)
	e.tick(cb)
	assert.Equal(t, ActiveBehavior_VEHICLE, ca.Behavior())
	assert.Equal(t, ActiveBehavior_NONE, cb.Behavior())
	assert.Equal(t, entity.TravelMode_WALK, e.router.last().Mode)
}

func TestFridayOverride(t *testing.T) {
	e := newTestEnv(t)
	c := e.add(t, commuter(1))
	c.land(State_AT_WORK, workPos)
	c.lastDepartureDayHome = 4

	e.at(4, 19, 30)
	e.tick(c)
	assert.Equal(t, State_REQUESTING_PATH_FOR_HOME, c.State())
	assert.Equal(t, 1, e.router.count())

	// 周四没有该例外
	e2 := newTestEnv(t)
	c2 := e2.add(t, commuter(1))
	c2.land(State_AT_WORK, workPos)
	c2.lastDepartureDayHome = 3
	e2.at(3, 19, 30)
	e2.tick(c2)
	assert.Equal(t, State_AT_WORK, c2.State())
}

func TestFridayLateSafetyNet(t *testing.T) {
	e := newTestEnv(t)
	c := e.add(t, commuter(1))
	c.land(State_AT_WORK, workPos)
	c.behavior = ActiveBehavior_MEDICATION

	e.at(4, 20, 30)
	e.tick(c)
	assert.Equal(t, State_REQUESTING_PATH_FOR_HOME, c.State())
	assert.Equal(t, ActiveBehavior_NONE, c.Behavior())
}

func TestStuckRecovery(t *testing.T) {
	e := newTestEnv(t)
	c := e.add(t, commuter(1))
	c.state = State_IN_TRANSIT_TO_WORK
	c.trip.goal = Goal_WORK
	c.trip.path = line(homePos, workPos)
	c.trip.arrival = 1e9
	c.stateEnteredAt = 0

	e.clock.T = 2*dayLength - 1
	e.tick(c)
	assert.Equal(t, State_IN_TRANSIT_TO_WORK, c.State())

	e.clock.T = 2*dayLength + 1
	e.tick(c)
	assert.Equal(t, State_AT_WORK, c.State())
	require.Len(t, e.recorder.recoveries, 1)
	assert.Equal(t, "stuck in InTransitToWork", e.recorder.recoveries[0].Reason)
}

func TestCalendarUnavailable(t *testing.T) {
	e := newTestEnv(t)
	c := e.add(t, commuter(1))
	e.calendar = nil
	e.tick(c)
	assert.Equal(t, State_IDLE, c.State())

	e.calendar = e.clock
	e.tick(c)
	assert.Equal(t, State_AT_HOME, c.State())
	assert.Equal(t, homePos, c.Position())
}

func TestMedication(t *testing.T) {
	e := newTestEnv(t)
	in := commuter(1)
	in.MedicationProbability = lo.ToPtr(1.)
	c := e.add(t, in)
	require.NoError(t, e.economy.AddAgent(ecosim.AgentData{ID: 1, Currency: 100}))
	c.lastDepartureDayWork = 0

	e.at(0, 9, 0)
	e.tick(c)
	assert.Equal(t, State_REQUESTING_PATH_FOR_COMMERCIAL, c.State())
	assert.Equal(t, ActiveBehavior_MEDICATION, c.Behavior())
	assert.Equal(t, entity.GridNode{X: 1, Y: 11}, e.router.last().End)

	c.SetPath([]geometry.Point{homePos, {X: 10, Y: 60}, pharmacyPos}, 100)
	assert.Equal(t, State_READY_TO_LEAVE_FOR_COMMERCIAL, c.State())
	e.tick(c)
	assert.Equal(t, State_IN_TRANSIT_TO_COMMERCIAL, c.State())

	e.advance(21)
	e.tick(c)
	assert.Equal(t, State_AT_COMMERCIAL, c.State())
	assert.Equal(t, pharmacyPos, c.Position())
	agent, err := e.economy.GetAgent(1)
	require.NoError(t, err)
	assert.Equal(t, float32(90), agent.Currency)

	// 在店内停留20分钟
	e.advance(5)
	e.tick(c)
	assert.Equal(t, State_AT_COMMERCIAL, c.State())

	e.advance(10)
	e.tick(c)
	assert.Equal(t, State_REQUESTING_PATH_FOR_HOME, c.State())

	c.SetPath([]geometry.Point{pharmacyPos, {X: 10, Y: 60}, homePos}, 100)
	e.tick(c)
	assert.Equal(t, State_IN_TRANSIT_TO_HOME, c.State())
	e.advance(21)
	e.tick(c)
	assert.Equal(t, State_AT_HOME, c.State())
	assert.Equal(t, ActiveBehavior_NONE, c.Behavior())

	e.advance(5)
	e.tick(c)
	assert.Equal(t, State_AT_HOME, c.State())
	assert.Equal(t, 2, e.router.count())
}

func TestMedicationBeforeWeekendWalk(t *testing.T) {
	e := newTestEnv(t)
	e.rc.Citizen.Weekend.Probability = 1
	in := commuter(1)
	in.MedicationProbability = lo.ToPtr(1.)
	c := e.add(t, in)

	e.at(5, 10, 0)
	e.tick(c)
	assert.Equal(t, State_REQUESTING_PATH_FOR_COMMERCIAL, c.State())
	assert.Equal(t, ActiveBehavior_MEDICATION, c.Behavior())
}

func TestParseState(t *testing.T) {
	for s := State_IDLE; s.Valid(); s++ {
		parsed, err := ParseState(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := ParseState("Flying")
	assert.Error(t, err)
	assert.True(t, State_WAITING_FOR_PATH.IsRequesting())
	assert.True(t, State_DRIVING_HOME.IsMoving())
	assert.False(t, State_AT_COMMERCIAL.IsMoving())
}
