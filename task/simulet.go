package task

import (
	"flag"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/transport/observer"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// prepare 准备阶段，每步执行一次
// 功能：在每个仿真步骤开始时进行准备工作
// 算法说明：
// 1. 心跳日志：定期输出仿真时间与统计信息
// 2. 并行准备：
//   - 居民管理器：应用增删，回传寻路结果
//   - 车辆池：按当前时间推进行驶中的车辆
//
// 说明：确保所有系统组件在更新阶段前都处于正确状态
func (ctx *Context) prepare() {
	step := ctx.clock.InternalStep
	if *heartBeatInterval > 0 && step%int32(*heartBeatInterval) == 0 {
		stats := ctx.citizenManager.Statistics()
		log.Infof(
			"STEP: %s (%v) citizens=%s vehicles=%d/%d trips=%s recoveries=%s distance=%s",
			humanize.Comma(int64(step)), ctx.clock,
			humanize.Comma(int64(ctx.citizenManager.Len())),
			ctx.vehiclePool.InUse(), ctx.vehiclePool.Capacity(),
			humanize.Comma(int64(stats.NumCompletedTrips)),
			humanize.Comma(int64(stats.NumRecoveries)),
			humanize.SIWithDigits(stats.TravelDistance, 2, "m"),
		)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctx.citizenManager.Prepare() // citizen
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctx.vehiclePool.Update(ctx.clock.T) // vehicle
	}()
	wg.Wait()
}

// update 更新阶段，每步执行一次
// 功能：并行更新所有居民，然后按间隔写入输出与推送可视化帧
func (ctx *Context) update() {
	ctx.citizenManager.Update(ctx.clock.DT)

	step := ctx.clock.InternalStep
	out := ctx.runtimeConfig.All.Output
	if ctx.recorder != nil && step%out.FlushInterval == 0 {
		if err := ctx.recorder.Flush(); err != nil {
			log.Errorf("step %d: flush output: %v", step, err)
		}
	}
	if step%ctx.runtimeConfig.All.Server.ObserverInterval == 0 && ctx.hub.Len() > 0 {
		frame := observer.Frame{
			Step:     step,
			T:        ctx.clock.T,
			Date:     ctx.clock.String(),
			Citizens: ctx.citizenManager.Snapshots(),
		}
		if err := ctx.hub.Broadcast(frame); err != nil {
			log.Errorf("step %d: broadcast: %v", step, err)
		}
	}
}

// Run 运行
// 功能：初始化后逐步执行准备与更新阶段，直到结束步或收到停止指令
func (ctx *Context) Run() {
	ctx.Init()
	for ctx.clock.InternalStep < ctx.clock.END_STEP {
		ctx.prepare()
		log.Debugf("step %d: prepare complete", ctx.clock.InternalStep)
		ctx.update()
		log.Debugf("step %d: update complete", ctx.clock.InternalStep)
		if ctx.closed.Load() {
			break
		}
		ctx.clock.Step()
	}
	log.Infof("engine complete")
	ctx.Close()
}
