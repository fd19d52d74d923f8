package citizen

import (
	"fmt"
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity/citizen/motion"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity/citizen/schedule"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/container"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/input"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/randengine"
)

const (
	minWalkSpeedRatio = .1  // 扰动后步行速度不低于基础速度的比例
	arrivalEpsilon    = .01 // 路径长度小于该值视为已经到达
	maxRandomAttempts = 20  // 随机可通行节点的最大尝试次数
)

// 未设置的时间戳
var noTime = -mathutil.INF

// travel 当前出行（寻路请求与路径）
type travel struct {
	pendingID    uuid.UUID // 进行中的寻路请求，uuid.Nil表示没有
	requestedAt  float64   // 寻路请求发出的时间（超时判定）
	goal         Goal      // 发起寻路的目的，恢复时使用
	successState State     // 寻路成功后进入的状态
	mode         entity.TravelMode
	scheduled    bool  // 是否为按时刻表的通勤，决定出发时间与是否记录出发日期
	commuteDay   int32 // 通勤出行对应的日期（第几天）

	path      []geometry.Point
	length    float64
	duration  float64 // 行程时长
	departure float64 // 计划出发时间
	arrival   float64 // 计划到达时间
	track     motion.Track
	index     int     // 当前所在线段下标
	fraction  float64 // 在当前线段上的比例
	reached   bool    // 由运动插值设置
}

// Citizen 居民
// 功能：保存日程、位置、路径与状态，按tick驱动状态机，并持有车辆、周末散步、买药三个子行为的私有状态
type Citizen struct {
	container.IncrementalItemBase
	ctx entity.ITaskContext
	m   *CitizenManager

	id        int32
	generator *randengine.Engine // 随机数生成器，以ID为seed

	// 静态属性
	homeID, workID        int32
	homePos, workPos      geometry.Point
	homeNode, workNode    *entity.GridNode // 步行网格上最近的节点，未解析时为nil
	schedule              *schedule.Schedule
	ownsCar               bool
	walkSpeed             float64 // 含个体扰动的步行速度
	medicationProbability float64
	initialized           bool

	// 运行时
	state          State
	position       geometry.Point
	direction      float64
	visible        bool
	stateEnteredAt float64 // 进入非稳定状态的时间（卡死判定）

	lastDepartureDayWork int32
	lastDepartureDayHome int32

	trip travel

	behavior   ActiveBehavior
	vehicle    vehicleState
	weekend    weekendState
	medication medicationState
}

// newCitizen 创建居民
// 功能：根据输入数据创建处于Idle状态的居民，尚未解析家与单位
// 参数：ctx-任务上下文，m-居民管理器，in-输入数据
// 返回：日程非法时返回错误
func newCitizen(ctx entity.ITaskContext, m *CitizenManager, in input.Citizen) (*Citizen, error) {
	cfg := ctx.RuntimeConfig().Citizen
	strategy, err := schedule.NewStrategy(in.WorkDays, in.CustomDays)
	if err != nil {
		return nil, fmt.Errorf("citizen %d: %w", in.ID, err)
	}
	anticipation := cfg.AnticipationMinutes
	if in.AnticipationMinutes != nil {
		anticipation = *in.AnticipationMinutes
	}
	workHour, homeHour := in.WorkHour, in.HomeHour
	if workHour == 0 && homeHour == 0 {
		workHour, homeHour = 8, 19
	}
	s, err := schedule.New(workHour, homeHour, anticipation, strategy)
	if err != nil {
		return nil, fmt.Errorf("citizen %d: %w", in.ID, err)
	}
	c := &Citizen{
		ctx:                   ctx,
		m:                     m,
		id:                    in.ID,
		generator:             randengine.New(uint64(in.ID)),
		homeID:                in.Home,
		workID:                in.Work,
		schedule:              s,
		ownsCar:               in.OwnsCar,
		medicationProbability: lo.FromPtrOr(in.MedicationProbability, cfg.Medication.Probability),
		state:                 State_IDLE,
		stateEnteredAt:        noTime,
		lastDepartureDayWork:  -1,
		lastDepartureDayHome:  -1,
	}
	c.trip.requestedAt = noTime
	c.walkSpeed = math.Max(
		cfg.WalkSpeed+c.generator.Jitter(cfg.SpeedJitter),
		minWalkSpeedRatio*cfg.WalkSpeed,
	)
	c.weekend.rolledDay = -1
	c.medication.rolledDay = -1
	return c, nil
}

// InitializeLifecycle 解析家与单位，进入AtHome
// 功能：查询建筑位置与最近的步行网格节点，将居民放在家中（隐藏）
// 参数：homeID-家的建筑ID，workID-单位建筑ID
// 返回：建筑不存在时返回错误，居民保持Idle
func (c *Citizen) InitializeLifecycle(homeID, workID int32) error {
	bm := c.ctx.BuildingManager()
	home, err := bm.GetOrError(homeID)
	if err != nil {
		return fmt.Errorf("citizen %d home: %w", c.id, err)
	}
	work, err := bm.GetOrError(workID)
	if err != nil {
		return fmt.Errorf("citizen %d work: %w", c.id, err)
	}
	c.homeID, c.workID = homeID, workID
	c.homePos, c.workPos = home.Position, work.Position
	c.homeNode, c.workNode = nil, nil
	if g := c.ctx.WalkGraph(); g != nil {
		if n, ok := g.NearestWalkableNode(home.Position); ok {
			c.homeNode = &n
		}
		if n, ok := g.NearestWalkableNode(work.Position); ok {
			c.workNode = &n
		}
	}
	c.initialized = true
	c.land(State_AT_HOME, c.homePos)
	return nil
}

// land 落在稳定状态与位置，隐藏
func (c *Citizen) land(state State, pos geometry.Point) {
	c.clearPath()
	c.state = state
	c.position = pos
	c.visible = false
	c.stateEnteredAt = noTime
}

// clearPath 清空路径与寻路请求，保留目的
func (c *Citizen) clearPath() {
	goal := c.trip.goal
	c.trip = travel{goal: goal, requestedAt: noTime}
}

func (c *Citizen) ID() int32 {
	return c.id
}

func (c *Citizen) State() State {
	return c.state
}

func (c *Citizen) StateName() string {
	return c.state.String()
}

func (c *Citizen) Position() geometry.Point {
	return c.position
}

func (c *Citizen) Direction() float64 {
	return c.direction
}

func (c *Citizen) Visible() bool {
	return c.visible
}

// Behavior 当前占有居民的子行为
func (c *Citizen) Behavior() ActiveBehavior {
	return c.behavior
}

// Snapshot 可视化快照
func (c *Citizen) Snapshot() entity.CitizenSnapshot {
	return entity.CitizenSnapshot{
		ID:        c.id,
		State:     c.state.String(),
		X:         c.position.X,
		Y:         c.position.Y,
		Direction: c.direction,
		Visible:   c.visible,
		Index:     c.trip.index,
		Fraction:  c.trip.fraction,
	}
}

// dayLength 当前日长
func (c *Citizen) dayLength() float64 {
	if cal := c.ctx.Calendar(); cal != nil {
		return cal.DayDuration()
	}
	return 0
}

// minutesToTime 分钟换算为时间单位
func minutesToTime(minutes, dayLength float64) float64 {
	return minutes / (24 * 60) * dayLength
}

func distance(a, b geometry.Point) float64 {
	return geometry.Distance2D(a, b)
}
