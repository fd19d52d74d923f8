package navgraph

import (
	"math"
	"strings"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/input"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/randengine"
)

// 各出行方式可通行的网格字符
var passableChars = map[entity.TravelMode]string{
	entity.TravelMode_WALK:  ".+",
	entity.TravelMode_DRIVE: "=+",
}

// 8邻域偏移
var neighborOffsets = [8][2]int32{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// Graph 导航网格
// 功能：某一出行方式下的可通行网格，提供最近节点、网格与世界坐标转换、随机节点等查询
// 说明：初始化后只读，可被多个居民并发访问
type Graph struct {
	mode          entity.TravelMode
	cellSize      float64
	origin        geometry.Point
	width, height int32
	passable      []bool            // 下标为y*width+x
	nodes         []entity.GridNode // 所有可通行节点

	generator *randengine.Engine
}

// New 根据地图数据创建导航网格
// 参数：m-地图数据，mode-出行方式，seed-随机种子
// 返回：导航网格实例
func New(m *input.Map, mode entity.TravelMode, seed uint64) *Graph {
	if m.CellSize <= 0 {
		log.Panicf("map cell_size must be positive, got %v", m.CellSize)
	}
	chars, ok := passableChars[mode]
	if !ok {
		log.Panicf("unknown travel mode %v", mode)
	}
	g := &Graph{
		mode:      mode,
		cellSize:  m.CellSize,
		origin:    geometry.Point{X: m.Origin.X, Y: m.Origin.Y},
		height:    int32(len(m.Rows)),
		generator: randengine.New(seed),
	}
	for _, row := range m.Rows {
		g.width = max(g.width, int32(len(row)))
	}
	g.passable = make([]bool, g.width*g.height)
	for y, row := range m.Rows {
		for x, ch := range []byte(row) {
			if strings.IndexByte(chars, ch) >= 0 {
				g.passable[int32(y)*g.width+int32(x)] = true
				g.nodes = append(g.nodes, entity.GridNode{X: int32(x), Y: int32(y)})
			}
		}
	}
	log.Infof("%v graph: %dx%d, %d passable nodes", mode, g.width, g.height, len(g.nodes))
	return g
}

func (g *Graph) Mode() entity.TravelMode {
	return g.mode
}

func (g *Graph) Width() int32 {
	return g.width
}

func (g *Graph) Height() int32 {
	return g.height
}

func (g *Graph) CellSize() float64 {
	return g.cellSize
}

// NodeCount 可通行节点数
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

func (g *Graph) inside(x, y int32) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *Graph) passableAt(x, y int32) bool {
	return g.inside(x, y) && g.passable[y*g.width+x]
}

// Contains 节点是否在网格内且可通行
func (g *Graph) Contains(n entity.GridNode) bool {
	return g.passableAt(n.X, n.Y)
}

// GridToWorld 网格节点中心的世界坐标
func (g *Graph) GridToWorld(n entity.GridNode) geometry.Point {
	return geometry.Point{
		X: g.origin.X + (float64(n.X)+.5)*g.cellSize,
		Y: g.origin.Y + (float64(n.Y)+.5)*g.cellSize,
	}
}

// WorldToGrid 世界坐标所在的网格（可能在网格外）
func (g *Graph) WorldToGrid(pos geometry.Point) entity.GridNode {
	return entity.GridNode{
		X: int32(math.Floor((pos.X - g.origin.X) / g.cellSize)),
		Y: int32(math.Floor((pos.Y - g.origin.Y) / g.cellSize)),
	}
}

// NearestWalkableNode 最近的可通行节点
// 功能：从坐标所在网格开始按环形向外搜索，返回首个包含可通行节点的环上距离最近者
// 参数：pos-世界坐标
// 返回：节点，是否找到
func (g *Graph) NearestWalkableNode(pos geometry.Point) (entity.GridNode, bool) {
	if len(g.nodes) == 0 {
		return entity.GridNode{}, false
	}
	c := g.WorldToGrid(pos)
	// 网格外的点先夹到边界上
	c.X = min(max(c.X, 0), g.width-1)
	c.Y = min(max(c.Y, 0), g.height-1)
	if g.passableAt(c.X, c.Y) {
		return c, true
	}
	maxR := max(g.width, g.height)
	for r := int32(1); r <= maxR; r++ {
		best, bestD, found := entity.GridNode{}, math.Inf(1), false
		visit := func(x, y int32) {
			if !g.passableAt(x, y) {
				return
			}
			n := entity.GridNode{X: x, Y: y}
			p := g.GridToWorld(n)
			if d := geometry.Distance2D(p, pos); d < bestD {
				best, bestD, found = n, d, true
			}
		}
		for dx := -r; dx <= r; dx++ {
			visit(c.X+dx, c.Y-r)
			visit(c.X+dx, c.Y+r)
		}
		for dy := -r + 1; dy <= r-1; dy++ {
			visit(c.X-r, c.Y+dy)
			visit(c.X+r, c.Y+dy)
		}
		if found {
			return best, true
		}
	}
	return entity.GridNode{}, false
}

// RandomWalkableNode 随机可通行节点（线程安全）
// 参数：maxAttempts-最多尝试次数
func (g *Graph) RandomWalkableNode(maxAttempts int) (entity.GridNode, bool) {
	if len(g.nodes) == 0 || g.width == 0 || g.height == 0 {
		return entity.GridNode{}, false
	}
	for range maxAttempts {
		x, y := g.generator.CellSafe(g.width, g.height)
		if g.passableAt(x, y) {
			return entity.GridNode{X: x, Y: y}, true
		}
	}
	return entity.GridNode{}, false
}

// Neighbors 可通行的8邻域节点与移动代价
// 说明：斜向移动要求两侧直行格都可通行，避免穿墙
func (g *Graph) Neighbors(n entity.GridNode, visit func(next entity.GridNode, cost float64)) {
	for _, o := range neighborOffsets {
		x, y := n.X+o[0], n.Y+o[1]
		if !g.passableAt(x, y) {
			continue
		}
		if o[0] != 0 && o[1] != 0 {
			if !g.passableAt(n.X+o[0], n.Y) || !g.passableAt(n.X, n.Y+o[1]) {
				continue
			}
			visit(entity.GridNode{X: x, Y: y}, math.Sqrt2*g.cellSize)
		} else {
			visit(entity.GridNode{X: x, Y: y}, g.cellSize)
		}
	}
}

// Heuristic 两节点间的八方向距离估计（可采纳）
func (g *Graph) Heuristic(a, b entity.GridNode) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	return g.cellSize * (max(dx, dy) + (math.Sqrt2-1)*min(dx, dy))
}
