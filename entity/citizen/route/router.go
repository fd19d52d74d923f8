package route

import (
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity/navgraph"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/config"
)

// New 初始化导航服务
func New(walk, drive *navgraph.Graph, rc *config.RuntimeConfig) *LocalRouter {
	return NewLocalRouter(walk, drive, rc.Router.MaxExpansions)
}
