package task

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/clock"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/ecosim"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity/building"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity/citizen"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity/citizen/route"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity/navgraph"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity/vehicle"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/transport/observer"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/config"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/input"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/output"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/server"
)

const (
	walkGraphSeed  = 0
	driveGraphSeed = 1
)

// WaitForServerReady 等待服务器就绪
// 功能：通过HTTP请求检查服务器是否已经启动并可以响应
// 参数：addr-服务器地址，retryCount-重试次数，interval-重试间隔
// 返回：错误信息，如果服务器就绪则返回nil
// 算法说明：
// 1. 创建HTTP客户端，设置超时时间
// 2. 循环发送GET请求到指定地址
// 3. 如果请求成功，关闭响应体并返回nil
// 4. 如果请求失败，等待指定间隔后重试
// 5. 达到最大重试次数后返回错误
func WaitForServerReady(addr string, retryCount int, interval time.Duration) error {
	client := &http.Client{
		Timeout: interval,
	}
	for range retryCount {
		resp, err := client.Get(addr)
		if err == nil {
			resp.Body.Close()
			return nil
		}
		time.Sleep(interval)
	}
	return fmt.Errorf("server `%v` did not become ready after %d retries", addr, retryCount)
}

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态，替代全局变量
// 说明：管理仿真系统的所有组件，包括时钟、导航、车辆、建筑、经济、居民、输出等
type Context struct {
	// 关闭指令
	closed atomic.Bool

	// 时钟，同时作为日历
	clock *clock.Clock

	// 步行与开车导航网格
	walkGraph, driveGraph *navgraph.Graph
	// 导航服务
	router *route.LocalRouter
	// 车辆池
	vehiclePool *vehicle.Pool
	// 建筑管理器
	buildingManager *building.BuildingManager
	// 经济系统
	economy *ecosim.EconomySim
	// Citizen管理器
	citizenManager *citizen.CitizenManager

	// SQLite输出，未配置时为nil
	recorder *output.Recorder
	// 可视化推送
	hub *observer.Hub

	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig

	// 用于初始化的输入
	initRes *input.Input
}

// NewContext 创建新的仿真任务上下文
// 功能：初始化仿真系统的所有组件和配置
// 参数：c-配置对象
// 返回：初始化完成的Context实例，配置非法或输出无法打开时返回错误
// 算法说明：
// 1. 补全配置默认值，创建时钟
// 2. 加载地图、建筑、居民、药店数据
// 3. 构建导航网格与导航服务、车辆池、建筑管理器
// 4. 初始化经济系统：居民为代理，药店为企业
// 5. 打开SQLite输出，创建居民管理器与可视化推送
func NewContext(c config.Config) (*Context, error) {
	rc, err := config.NewRuntimeConfig(c)
	if err != nil {
		return nil, err
	}
	ctx := &Context{
		runtimeConfig: rc,
		clock:         clock.New(rc),
	}

	// 加载所有模拟器启动所需的数据
	ctx.initRes = input.Init(c)

	// 新建各类模拟对象
	ctx.walkGraph = navgraph.New(ctx.initRes.Map, entity.TravelMode_WALK, walkGraphSeed)
	ctx.driveGraph = navgraph.New(ctx.initRes.Map, entity.TravelMode_DRIVE, driveGraphSeed)
	ctx.router = route.New(ctx.walkGraph, ctx.driveGraph, rc)
	ctx.vehiclePool = vehicle.NewPool(rc.Vehicle.Capacity, rc.Vehicle.Speed)
	ctx.buildingManager = building.NewManager(ctx.initRes.Buildings)
	ctx.economy = ecosim.NewEconomySim()
	pharmacies := ctx.buildingManager.BuildingsByType(entity.BuildingType_PHARMACY)
	if err := ecosim.Load(ctx.economy, ctx.initRes, pharmacies); err != nil {
		return nil, fmt.Errorf("economy: %w", err)
	}
	if path := rc.All.Output.SQLite; path != "" {
		if ctx.recorder, err = output.Open(path); err != nil {
			return nil, fmt.Errorf("output: %w", err)
		}
	}
	ctx.citizenManager = citizen.NewManager(ctx)
	ctx.hub = observer.NewHub()
	return ctx, nil
}

// Register 将所有对外服务注册到srv
func (ctx *Context) Register(srv *server.Server) {
	ctx.clock.Register(srv)
	ctx.citizenManager.Register(srv)
	ecosim.NewServer(ctx.economy).Register(srv)
	srv.Handle("/observer", ctx.hub.Handler())
}

func (ctx *Context) GetInput() *input.Input {
	return ctx.initRes
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) Calendar() entity.ICalendar {
	return ctx.clock
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) WalkGraph() entity.INavGraph {
	return ctx.walkGraph
}

func (ctx *Context) DriveGraph() entity.INavGraph {
	return ctx.driveGraph
}

func (ctx *Context) Router() entity.IRouter {
	return ctx.router
}

func (ctx *Context) VehiclePool() entity.IVehiclePool {
	return ctx.vehiclePool
}

func (ctx *Context) BuildingManager() entity.IBuildingManager {
	return ctx.buildingManager
}

func (ctx *Context) Economy() entity.IEconomy {
	return ctx.economy
}

func (ctx *Context) Recorder() entity.IRecorder {
	if ctx.recorder == nil {
		return nil
	}
	return ctx.recorder
}

func (ctx *Context) CitizenManager() entity.ICitizenManager {
	return ctx.citizenManager
}

func (ctx *Context) Init() {
	ctx.clock.Init()

	initRes := ctx.initRes
	log.Infof("Building: %v", len(initRes.Buildings))
	log.Infof("Citizen: %v", len(initRes.Citizens))
	log.Infof("Pharmacy: %v", len(initRes.Pharmacies))

	ctx.citizenManager.Init(initRes.Citizens)
}

// Stop 请求在当前步结束后停止
func (ctx *Context) Stop() {
	ctx.closed.Store(true)
}

// Close 等待进行中的寻路，写入剩余输出并断开可视化订阅者
func (ctx *Context) Close() {
	ctx.router.Wait()
	if ctx.recorder != nil {
		if err := ctx.recorder.Close(); err != nil {
			log.Errorf("close output: %v", err)
		}
	}
	ctx.hub.Close()
}
