package citizen

import (
	"fmt"
	"sync"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/container"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/input"
)

// GlobalRuntime 全局运行时数据结构
// 功能：管理全局运行时数据，包括完成行程数、强制恢复次数、总行程时间、总行程距离
type GlobalRuntime struct {
	NumCompletedTrips int32   `json:"num_completed_trips"` // 已完成的行程
	NumRecoveries     int32   `json:"num_recoveries"`      // 强制恢复次数
	TravelTime        float64 `json:"travel_time"`         // 总行程时间
	TravelDistance    float64 `json:"travel_distance"`     // 总行程距离
}

// CitizenManager Citizen管理器
// 功能：管理所有居民，负责增删、寻路结果按ID回传、并行tick与快照
type CitizenManager struct {
	ctx entity.ITaskContext

	data map[int32]*Citizen

	// 有计算、输出需求的居民
	citizens *container.IncrementalArray[*Citizen]

	citizenInserted      []*Citizen // 新加入的居民
	citizenRemoved       []int32    // 待删除的居民
	citizenInsertedMutex sync.Mutex
	nextCitizenID        int32

	results      []*entity.PathResult // 待回传的寻路结果
	resultsMutex sync.Mutex

	recoverRequests []int32 // 外部请求的强制恢复
	recoverMutex    sync.Mutex

	snapshot, runtime GlobalRuntime
	runtimeMtx        sync.Mutex

	// 供RPC与可视化读取的快照
	snapshots    []entity.CitizenSnapshot
	snapshotByID map[int32]entity.CitizenSnapshot
	snapshotMtx  sync.RWMutex
}

// NewManager 创建Citizen管理器实例
// 参数：ctx-任务上下文
func NewManager(ctx entity.ITaskContext) *CitizenManager {
	return &CitizenManager{
		ctx:             ctx,
		data:            make(map[int32]*Citizen),
		citizens:        container.NewIncrementalArray[*Citizen](),
		citizenInserted: make([]*Citizen, 0),
		nextCitizenID:   1,
		snapshotByID:    make(map[int32]entity.CitizenSnapshot),
	}
}

// Init 初始化所有居民
// 功能：并行创建居民并解析家与单位
// 说明：输入数据已校验，家或单位不存在时panic
func (m *CitizenManager) Init(in []input.Citizen) {
	citizens := parallel.GoMap(in, func(ci input.Citizen) *Citizen {
		c, err := newCitizen(m.ctx, m, ci)
		if err == nil {
			err = c.InitializeLifecycle(ci.Home, ci.Work)
		}
		if err != nil {
			log.Panicf("%v", err)
		}
		m.citizens.Add(c)
		return c
	})
	m.data = lo.SliceToMap(citizens, func(c *Citizen) (int32, *Citizen) {
		return c.id, c
	})
	if len(m.data) > 0 {
		m.nextCitizenID = lo.Max(lo.Keys(m.data)) + 1
	}
	m.citizens.Prepare()
	m.publish()
	log.Infof("%d citizens initialized", len(citizens))
}

// Get 根据ID获取居民，不存在则panic
func (m *CitizenManager) Get(id int32) entity.ICitizen {
	if c, ok := m.data[id]; !ok {
		log.Panicf("no id %d in citizen data", id)
		return nil
	} else {
		return c
	}
}

// GetOrError 根据ID获取居民，不存在则返回错误
func (m *CitizenManager) GetOrError(id int32) (entity.ICitizen, error) {
	if c, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %d in citizen data", id)
	} else {
		return c, nil
	}
}

// Add 添加居民，在下一次Prepare时生效
// 功能：ID为0时自动分配并在经济系统中开户；日程非法或解析家与单位失败时返回错误
// 返回：居民ID
func (m *CitizenManager) Add(in input.Citizen) (int32, error) {
	m.citizenInsertedMutex.Lock()
	defer m.citizenInsertedMutex.Unlock()
	if in.ID != 0 {
		if _, ok := m.snapshotOf(in.ID); ok {
			return 0, fmt.Errorf("citizen id %d already exists", in.ID)
		}
		if lo.ContainsBy(m.citizenInserted, func(c *Citizen) bool { return c.id == in.ID }) {
			return 0, fmt.Errorf("citizen id %d already exists", in.ID)
		}
	} else {
		in.ID = m.nextCitizenID
	}
	c, err := newCitizen(m.ctx, m, in)
	if err != nil {
		return 0, err
	}
	if err := c.InitializeLifecycle(in.Home, in.Work); err != nil {
		return 0, err
	}
	if econ := m.ctx.Economy(); econ != nil {
		if err := econ.OpenAccount(in.ID, in.Currency); err != nil {
			return 0, err
		}
	}
	m.nextCitizenID = max(m.nextCitizenID, in.ID+1)
	m.citizenInserted = append(m.citizenInserted, c)
	return c.id, nil
}

// Remove 删除居民，在下一次Prepare时生效
func (m *CitizenManager) Remove(id int32) error {
	if _, ok := m.snapshotOf(id); !ok {
		return fmt.Errorf("no id %d in citizen data", id)
	}
	m.citizenInsertedMutex.Lock()
	defer m.citizenInsertedMutex.Unlock()
	m.citizenRemoved = append(m.citizenRemoved, id)
	return nil
}

// RequestRecover 外部请求强制恢复，在下一次Prepare时生效
func (m *CitizenManager) RequestRecover(id int32) error {
	if _, ok := m.snapshotOf(id); !ok {
		return fmt.Errorf("no id %d in citizen data", id)
	}
	m.recoverMutex.Lock()
	defer m.recoverMutex.Unlock()
	m.recoverRequests = append(m.recoverRequests, id)
	return nil
}

// deliver 寻路服务的回调，结果暂存到Prepare时回传
func (m *CitizenManager) deliver(res *entity.PathResult) {
	m.resultsMutex.Lock()
	defer m.resultsMutex.Unlock()
	m.results = append(m.results, res)
}

// Prepare 准备阶段
// 算法说明：
// 1. 应用新增与删除
// 2. 按居民ID回传寻路结果，过期结果丢弃
// 3. 执行外部请求的强制恢复
// 4. 更新全局统计快照
func (m *CitizenManager) Prepare() {
	m.citizenInsertedMutex.Lock()
	for _, c := range m.citizenInserted {
		if _, ok := m.data[c.id]; ok {
			log.Panicf("same id %d between new citizen and existed citizen", c.id)
		}
		m.data[c.id] = c
		m.citizens.Add(c)
	}
	m.citizenInserted = m.citizenInserted[:0]
	for _, id := range m.citizenRemoved {
		if c, ok := m.data[id]; ok {
			c.releaseVehicle()
			m.citizens.Remove(c)
			delete(m.data, id)
			if econ := m.ctx.Economy(); econ != nil {
				if err := econ.RemoveAgent(id); err != nil {
					log.Debugf("citizen %d: %v", id, err)
				}
			}
		}
	}
	m.citizenRemoved = m.citizenRemoved[:0]
	m.citizenInsertedMutex.Unlock()
	m.citizens.Prepare()

	m.resultsMutex.Lock()
	results := m.results
	m.results = nil
	m.resultsMutex.Unlock()
	for _, res := range results {
		c, ok := m.data[res.AgentID]
		if !ok {
			log.Debugf("path result for removed citizen %d", res.AgentID)
			continue
		}
		c.applyResult(res)
	}

	m.recoverMutex.Lock()
	requests := m.recoverRequests
	m.recoverRequests = nil
	m.recoverMutex.Unlock()
	now := m.ctx.Clock().T
	for _, id := range requests {
		if c, ok := m.data[id]; ok {
			c.recover("external request", now)
		}
	}

	m.runtimeMtx.Lock()
	m.snapshot = m.runtime
	m.runtimeMtx.Unlock()
	log.Debug("CitizenManager: prepare done")
}

// Update 更新阶段：并行执行状态机与可视化插值
func (m *CitizenManager) Update(dt float64) {
	now := m.ctx.Clock().T
	hour := 0
	if cal := m.ctx.Calendar(); cal != nil && cal.DayDuration() > 0 {
		hour = cal.CurrentHour()
	}
	parallel.GoFor(m.citizens.Data(), func(c *Citizen) {
		c.UpdateState(dt, hour, now)
		c.UpdateVisuals(dt, now)
	})
	m.publish()
}

// publish 生成快照
func (m *CitizenManager) publish() {
	snapshots := parallel.GoMap(m.citizens.Data(), func(c *Citizen) entity.CitizenSnapshot {
		return c.Snapshot()
	})
	byID := lo.SliceToMap(snapshots, func(s entity.CitizenSnapshot) (int32, entity.CitizenSnapshot) {
		return s.ID, s
	})
	m.snapshotMtx.Lock()
	defer m.snapshotMtx.Unlock()
	m.snapshots = snapshots
	m.snapshotByID = byID
}

func (m *CitizenManager) snapshotOf(id int32) (entity.CitizenSnapshot, bool) {
	m.snapshotMtx.RLock()
	defer m.snapshotMtx.RUnlock()
	s, ok := m.snapshotByID[id]
	return s, ok
}

// Snapshots 可见居民的快照
func (m *CitizenManager) Snapshots() []entity.CitizenSnapshot {
	m.snapshotMtx.RLock()
	defer m.snapshotMtx.RUnlock()
	return lo.Filter(m.snapshots, func(s entity.CitizenSnapshot, _ int) bool {
		return s.Visible
	})
}

// Len 居民数
func (m *CitizenManager) Len() int {
	return m.citizens.Len()
}

// Statistics 上一次Prepare时的全局统计
func (m *CitizenManager) Statistics() GlobalRuntime {
	m.runtimeMtx.Lock()
	defer m.runtimeMtx.Unlock()
	return m.snapshot
}

// recordTripEnd 记录行程结束
func (m *CitizenManager) recordTripEnd(r entity.TripRecord) {
	m.runtimeMtx.Lock()
	defer m.runtimeMtx.Unlock()
	m.runtime.NumCompletedTrips++
	m.runtime.TravelTime += r.Arrival - r.Departure
	m.runtime.TravelDistance += r.Length
}

// recordRecovery 记录强制恢复
func (m *CitizenManager) recordRecovery() {
	m.runtimeMtx.Lock()
	defer m.runtimeMtx.Unlock()
	m.runtime.NumRecoveries++
}
