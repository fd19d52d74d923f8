package citizen

import (
	"git.fiblab.net/general/common/v2/geometry"
	"github.com/google/uuid"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
)

// requestOptions 寻路请求参数
type requestOptions struct {
	start, end         geometry.Point
	startNode, endNode *entity.GridNode // 显式指定的网格节点，优先于按位置查找
	successState       State            // 寻路成功后进入的状态
	goal               Goal
	scheduled          bool  // 是否为按时刻表的通勤
	commuteDay         int32 // 通勤对应的日期，非通勤时忽略
}

// requestPath 发起异步寻路
// 功能：清空旧路径，进入与目的对应的等待状态，向寻路服务发出请求并隐藏居民
// 参数：opts-寻路请求参数，now-当前时间
// 返回：是否成功发出请求，失败时居民已被强制恢复
// 算法说明：
// 1. 清空旧路径，记录目的并按目的得到等待状态
// 2. 持有车辆且不是周末散步时开车，否则步行
// 3. 按出行方式的导航网格解析起终点节点，显式节点优先
// 4. 节点缺失或非法时立即强制恢复
// 5. 记录请求时间与请求ID，发出请求
func (c *Citizen) requestPath(opts requestOptions, now float64) bool {
	c.clearPath()
	c.trip.goal = opts.goal
	c.trip.successState = opts.successState
	c.trip.scheduled = opts.scheduled
	c.trip.commuteDay = opts.commuteDay
	c.state = opts.goal.waitingState()

	mode := entity.TravelMode_WALK
	if opts.goal != Goal_WALK && c.vehicle.reserved {
		mode = entity.TravelMode_DRIVE
	}
	c.trip.mode = mode

	var graph entity.INavGraph
	if mode == entity.TravelMode_DRIVE {
		graph = c.ctx.DriveGraph()
	} else {
		graph = c.ctx.WalkGraph()
	}
	router := c.ctx.Router()
	if graph == nil || router == nil {
		c.recover("no navigation graph or router", now)
		return false
	}
	startNode, endNode := opts.startNode, opts.endNode
	if mode == entity.TravelMode_DRIVE {
		// 显式节点属于步行网格
		startNode, endNode = nil, nil
	}
	start, ok := resolveNode(graph, startNode, opts.start)
	if !ok {
		c.recover("start node unresolved", now)
		return false
	}
	end, ok := resolveNode(graph, endNode, opts.end)
	if !ok {
		c.recover("end node unresolved", now)
		return false
	}

	req := &entity.PathRequest{
		ID:      uuid.New(),
		AgentID: c.id,
		Start:   start,
		End:     end,
		Mode:    mode,
	}
	c.trip.pendingID = req.ID
	c.trip.requestedAt = now
	c.visible = false
	if opts.goal == Goal_WALK && c.behavior == ActiveBehavior_WEEKEND_WALK {
		c.weekend.sidewalkNode = end
		c.weekend.sidewalkPos = graph.GridToWorld(end)
	}
	log.Debugf("citizen %d requests %v path %v->%v for %v", c.id, mode, start, end, opts.goal)
	router.GetRoute(req, c.m.deliver)
	return true
}

// resolveNode 显式节点优先，否则取最近的可通行节点
func resolveNode(g entity.INavGraph, override *entity.GridNode, pos geometry.Point) (entity.GridNode, bool) {
	var n entity.GridNode
	if override != nil {
		n = *override
	} else {
		var ok bool
		if n, ok = g.NearestWalkableNode(pos); !ok {
			return n, false
		}
	}
	return n, n.Valid() && g.Contains(n)
}
