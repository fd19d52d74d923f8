package route

import (
	"sync"
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity/navgraph"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/input"
)

func newTestRouter(rows ...string) *LocalRouter {
	m := &input.Map{CellSize: 10, Rows: rows}
	return NewLocalRouter(
		navgraph.New(m, entity.TravelMode_WALK, 1),
		navgraph.New(m, entity.TravelMode_DRIVE, 1),
		10000,
	)
}

func TestRouteAroundWall(t *testing.T) {
	r := newTestRouter(
		".....",
		"###.#",
		".....",
	)
	id := uuid.New()
	res := r.GetRouteSync(&entity.PathRequest{
		ID:      id,
		AgentID: 3,
		Start:   entity.GridNode{X: 0, Y: 0},
		End:     entity.GridNode{X: 0, Y: 2},
		Mode:    entity.TravelMode_WALK,
	})
	require.True(t, res.Ok())
	assert.Equal(t, id, res.ID)
	assert.Equal(t, int32(3), res.AgentID)
	assert.Equal(t, []geometry.Point{
		{X: 5, Y: 5}, {X: 35, Y: 5}, {X: 35, Y: 25}, {X: 5, Y: 25},
	}, res.Path)
	assert.InDelta(t, 80, res.Length, 1e-9)
}

func TestRouteSamePoint(t *testing.T) {
	r := newTestRouter("...")
	res := r.GetRouteSync(&entity.PathRequest{
		Start: entity.GridNode{X: 1, Y: 0},
		End:   entity.GridNode{X: 1, Y: 0},
	})
	require.True(t, res.Ok())
	assert.Len(t, res.Path, 1)
	assert.Equal(t, 0.0, res.Length)
}

func TestRouteFailure(t *testing.T) {
	r := newTestRouter("..#..")
	res := r.GetRouteSync(&entity.PathRequest{
		Start: entity.GridNode{X: 0, Y: 0},
		End:   entity.GridNode{X: 4, Y: 0},
	})
	assert.False(t, res.Ok())

	// 开车时人行道不可通行
	res = r.GetRouteSync(&entity.PathRequest{
		Start: entity.GridNode{X: 0, Y: 0},
		End:   entity.GridNode{X: 1, Y: 0},
		Mode:  entity.TravelMode_DRIVE,
	})
	assert.False(t, res.Ok())
}

func TestRouteExpansionLimit(t *testing.T) {
	m := &input.Map{CellSize: 1, Rows: []string{"..........", ".........."}}
	g := navgraph.New(m, entity.TravelMode_WALK, 1)
	_, err := search(g, entity.GridNode{X: 0, Y: 0}, entity.GridNode{X: 9, Y: 1}, 3)
	assert.ErrorIs(t, err, ErrNoPath)
	nodes, err := search(g, entity.GridNode{X: 0, Y: 0}, entity.GridNode{X: 9, Y: 1}, 1000)
	require.NoError(t, err)
	assert.Len(t, nodes, 10)
}

func TestRouteAsync(t *testing.T) {
	r := newTestRouter("......")
	var mtx sync.Mutex
	got := map[int32]*entity.PathResult{}
	for i := range int32(4) {
		r.GetRoute(&entity.PathRequest{
			AgentID: i,
			Start:   entity.GridNode{X: 0, Y: 0},
			End:     entity.GridNode{X: i + 1, Y: 0},
		}, func(res *entity.PathResult) {
			mtx.Lock()
			defer mtx.Unlock()
			got[res.AgentID] = res
		})
	}
	r.Wait()
	require.Len(t, got, 4)
	for i := range int32(4) {
		assert.InDelta(t, float64(i+1)*10, got[i].Length, 1e-9)
	}
}
