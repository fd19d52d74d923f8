package route

import (
	"sync"

	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity/navgraph"
)

// 本地导航服务
type LocalRouter struct {
	graphs        map[entity.TravelMode]*navgraph.Graph
	maxExpansions int

	wg sync.WaitGroup
}

// 创建本地导航服务
func NewLocalRouter(walk, drive *navgraph.Graph, maxExpansions int) *LocalRouter {
	return &LocalRouter{
		graphs: map[entity.TravelMode]*navgraph.Graph{
			entity.TravelMode_WALK:  walk,
			entity.TravelMode_DRIVE: drive,
		},
		maxExpansions: maxExpansions,
	}
}

// 路径规划（回调版本）
// 说明：在独立协程中搜索，完成后调用process并关闭返回的通道；失败时结果的Path为nil
func (l *LocalRouter) GetRoute(
	in *entity.PathRequest,
	process func(res *entity.PathResult),
) chan struct{} {
	ch := make(chan struct{})
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		res := &entity.PathResult{ID: in.ID, AgentID: in.AgentID}
		g, ok := l.graphs[in.Mode]
		if !ok || g == nil {
			log.Panicf("wrong routing mode %v", in.Mode)
		}
		if nodes, err := search(g, in.Start, in.End, l.maxExpansions); err != nil {
			log.Debugf("search %v failed for agent %d from %v to %v: %v", in.Mode, in.AgentID, in.Start, in.End, err)
		} else {
			res.Path, res.Length = toPolyline(g, nodes)
		}
		process(res)
		close(ch)
	}()
	return ch
}

// 路径规划（同步版本）
func (l *LocalRouter) GetRouteSync(in *entity.PathRequest) *entity.PathResult {
	var res *entity.PathResult
	process := func(r *entity.PathResult) {
		res = r
	}
	<-l.GetRoute(in, process)
	return res
}

// Wait 等待所有进行中的请求完成
func (l *LocalRouter) Wait() {
	l.wg.Wait()
}
