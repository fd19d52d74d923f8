package route

import (
	"errors"
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity/navgraph"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/container"
)

var ErrNoPath = errors.New("no path")

// search A*搜索
// 功能：在导航网格上搜索start到end的最短节点序列
// 参数：g-导航网格，start/end-起终点，maxExpansions-最大展开节点数
// 返回：节点序列（含起终点），错误信息
// 算法说明：
// 1. open集合使用优先队列，优先级为g+h
// 2. 同一节点可能重复入队，出队时用closed集合跳过旧项
// 3. 展开数超过上限时视为不可达
func search(g *navgraph.Graph, start, end entity.GridNode, maxExpansions int) ([]entity.GridNode, error) {
	if !g.Contains(start) {
		return nil, fmt.Errorf("start %v not in %v graph", start, g.Mode())
	}
	if !g.Contains(end) {
		return nil, fmt.Errorf("end %v not in %v graph", end, g.Mode())
	}
	if start == end {
		return []entity.GridNode{start}, nil
	}
	cost := map[entity.GridNode]float64{start: 0}
	parent := map[entity.GridNode]entity.GridNode{}
	closed := map[entity.GridNode]struct{}{}
	open := container.NewPriorityQueue[entity.GridNode]()
	open.Push(start, g.Heuristic(start, end))
	for expansions := 0; open.Len() > 0; expansions++ {
		if expansions >= maxExpansions {
			return nil, fmt.Errorf("%w: exceed %d expansions", ErrNoPath, maxExpansions)
		}
		cur, _ := open.Pop()
		if cur == end {
			nodes := []entity.GridNode{end}
			for n := end; n != start; {
				n = parent[n]
				nodes = append(nodes, n)
			}
			for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
				nodes[i], nodes[j] = nodes[j], nodes[i]
			}
			return nodes, nil
		}
		if _, ok := closed[cur]; ok {
			continue
		}
		closed[cur] = struct{}{}
		g.Neighbors(cur, func(next entity.GridNode, c float64) {
			if _, ok := closed[next]; ok {
				return
			}
			newCost := cost[cur] + c
			if old, ok := cost[next]; ok && old <= newCost {
				return
			}
			cost[next] = newCost
			parent[next] = cur
			open.Push(next, newCost+g.Heuristic(next, end))
		})
	}
	return nil, ErrNoPath
}

// toPolyline 将节点序列转换为世界坐标折线
// 功能：去掉共线的中间节点，只保留转折点
// 返回：折线，折线长度
func toPolyline(g *navgraph.Graph, nodes []entity.GridNode) ([]geometry.Point, float64) {
	if len(nodes) == 0 {
		return nil, 0
	}
	line := []geometry.Point{g.GridToWorld(nodes[0])}
	for i := 1; i < len(nodes)-1; i++ {
		dx1, dy1 := nodes[i].X-nodes[i-1].X, nodes[i].Y-nodes[i-1].Y
		dx2, dy2 := nodes[i+1].X-nodes[i].X, nodes[i+1].Y-nodes[i].Y
		if dx1 != dx2 || dy1 != dy2 {
			line = append(line, g.GridToWorld(nodes[i]))
		}
	}
	if len(nodes) > 1 {
		line = append(line, g.GridToWorld(nodes[len(nodes)-1]))
	}
	lengths := geometry.GetPolylineLengths2D(line)
	return line, lengths[len(lengths)-1]
}
