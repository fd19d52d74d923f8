package citizen

import (
	"sync"
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/clock"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/ecosim"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity/building"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity/vehicle"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/config"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/input"
)

// 2024-01-01为周一，第4天为周五，第5天为周六
const dayLength = 1000.

var testBuildings = []input.Building{
	{ID: 1, Type: "home", X: 10, Y: 10},
	{ID: 2, Type: "office", X: 510, Y: 10},
	{ID: 3, Type: "pharmacy", X: 10, Y: 110},
	{ID: 4, Type: "park", X: 210, Y: 10},
}

// openGraph 无障碍的网格，坐标非负处均可通行
type openGraph struct {
	cell float64
}

func (g openGraph) NearestWalkableNode(pos geometry.Point) (entity.GridNode, bool) {
	if pos.X < 0 || pos.Y < 0 {
		return entity.GridNode{}, false
	}
	return entity.GridNode{X: int32(pos.X / g.cell), Y: int32(pos.Y / g.cell)}, true
}

func (g openGraph) GridToWorld(n entity.GridNode) geometry.Point {
	return geometry.Point{X: (float64(n.X) + .5) * g.cell, Y: (float64(n.Y) + .5) * g.cell}
}

func (g openGraph) RandomWalkableNode(int) (entity.GridNode, bool) {
	return entity.GridNode{X: 5, Y: 5}, true
}

func (g openGraph) Contains(n entity.GridNode) bool {
	return n.Valid()
}

// fakeRouter 只记录请求，结果由测试通过SetPath或reply回传
type fakeRouter struct {
	mtx      sync.Mutex
	requests []*entity.PathRequest
	process  []func(res *entity.PathResult)
}

func (r *fakeRouter) GetRoute(in *entity.PathRequest, process func(res *entity.PathResult)) chan struct{} {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.requests = append(r.requests, in)
	r.process = append(r.process, process)
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (r *fakeRouter) GetRouteSync(in *entity.PathRequest) *entity.PathResult {
	return &entity.PathResult{ID: in.ID, AgentID: in.AgentID}
}

func (r *fakeRouter) count() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return len(r.requests)
}

func (r *fakeRouter) last() *entity.PathRequest {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.requests[len(r.requests)-1]
}

// reply 以第i个请求的ID回传结果
func (r *fakeRouter) reply(i int, path []geometry.Point, length float64) {
	r.mtx.Lock()
	req, process := r.requests[i], r.process[i]
	r.mtx.Unlock()
	process(&entity.PathResult{ID: req.ID, AgentID: req.AgentID, Path: path, Length: length})
}

type memRecorder struct {
	mtx        sync.Mutex
	trips      []entity.TripRecord
	recoveries []entity.RecoveryRecord
}

func (r *memRecorder) RecordTrip(t entity.TripRecord) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.trips = append(r.trips, t)
}

func (r *memRecorder) RecordRecovery(rr entity.RecoveryRecord) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.recoveries = append(r.recoveries, rr)
}

// testEnv 实现entity.ITaskContext
type testEnv struct {
	clock     *clock.Clock
	calendar  entity.ICalendar
	rc        *config.RuntimeConfig
	graph     openGraph
	router    *fakeRouter
	pool      *vehicle.Pool
	buildings *building.BuildingManager
	economy   *ecosim.EconomySim
	recorder  *memRecorder
	m         *CitizenManager
}

func newTestEnv(t *testing.T) *testEnv {
	rc, err := config.NewRuntimeConfig(config.Config{
		Control: config.Control{
			Step:     config.ControlStep{Total: 10000, Interval: 1},
			Calendar: config.Calendar{DayLength: dayLength},
		},
		Vehicle: config.Vehicle{Capacity: 1},
	})
	require.NoError(t, err)
	e := &testEnv{
		clock:     clock.New(rc),
		rc:        rc,
		graph:     openGraph{cell: 10},
		router:    &fakeRouter{},
		pool:      vehicle.NewPool(rc.Vehicle.Capacity, rc.Vehicle.Speed),
		buildings: building.NewManager(testBuildings),
		economy:   ecosim.NewEconomySim(),
		recorder:  &memRecorder{},
	}
	e.calendar = e.clock
	e.m = NewManager(e)
	require.NoError(t, e.economy.AddFirm(ecosim.FirmData{ID: 3, Price: 10, Inventory: 5}))
	return e
}

func (e *testEnv) Clock() *clock.Clock { return e.clock }
func (e *testEnv) Calendar() entity.ICalendar { return e.calendar }
func (e *testEnv) RuntimeConfig() *config.RuntimeConfig { return e.rc }
func (e *testEnv) WalkGraph() entity.INavGraph { return e.graph }
func (e *testEnv) DriveGraph() entity.INavGraph { return e.graph }
func (e *testEnv) Router() entity.IRouter { return e.router }
func (e *testEnv) VehiclePool() entity.IVehiclePool { return e.pool }
func (e *testEnv) BuildingManager() entity.IBuildingManager { return e.buildings }
func (e *testEnv) Economy() entity.IEconomy { return e.economy }
func (e *testEnv) Recorder() entity.IRecorder { return e.recorder }
func (e *testEnv) CitizenManager() entity.ICitizenManager { return e.m }

// commuter 默认的居民：8点上班，19点回家，步行速度5
func commuter(id int32) input.Citizen {
	return input.Citizen{ID: id, Home: 1, Work: 2, WorkHour: 8, HomeHour: 19}
}

// add 创建在家中的居民并登记到管理器
func (e *testEnv) add(t *testing.T, in input.Citizen) *Citizen {
	c, err := newCitizen(e, e.m, in)
	require.NoError(t, err)
	require.NoError(t, c.InitializeLifecycle(in.Home, in.Work))
	c.walkSpeed = 5
	e.m.data[c.id] = c
	return c
}

// at 将时钟设置到第day天的hour:minute
func (e *testEnv) at(day int32, hour, minute float64) {
	e.clock.T = float64(day)*dayLength + (hour*60+minute)/(24*60)*dayLength
}

// advance 时钟前进dt
func (e *testEnv) advance(dt float64) {
	e.clock.T += dt
}

// tick 执行一次状态机与可视化插值
func (e *testEnv) tick(c *Citizen) {
	c.UpdateState(1, e.clock.CurrentHour(), e.clock.T)
	c.UpdateVisuals(1, e.clock.T)
}

// line 从a到b的两点折线
func line(a, b geometry.Point) []geometry.Point {
	return []geometry.Point{a, b}
}
