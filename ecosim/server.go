package ecosim

import (
	"context"
	"fmt"

	"connectrpc.com/connect"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/input"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/server"
)

const EconomyServiceName = "city.economy.v1.EconomyService"

type GetAgentRequest struct {
	AgentIDs []int32 `json:"agent_ids"`
}

type GetAgentResponse struct {
	Agents []AgentData `json:"agents"`
}

type GetFirmRequest struct {
	FirmIDs []int32 `json:"firm_ids"` // 为空表示全部
}

type GetFirmResponse struct {
	Firms []FirmData `json:"firms"`
}

type UpdateFirmRequest struct {
	FirmID    int32    `json:"firm_id"`
	Price     *float32 `json:"price,omitempty"`
	Inventory *int32   `json:"inventory,omitempty"`
}

type UpdateFirmResponse struct{}

// Server 经济系统的RPC服务
type Server struct {
	econ *EconomySim
}

// NewServer 创建新的服务器实例
func NewServer(econ *EconomySim) *Server {
	return &Server{
		econ: econ,
	}
}

// Register 将EconomyService注册到服务
func (s *Server) Register(srv *server.Server) {
	server.Register(srv, EconomyServiceName, "GetAgent", s.GetAgent)
	server.Register(srv, EconomyServiceName, "GetFirm", s.GetFirm)
	server.Register(srv, EconomyServiceName, "UpdateFirm", s.UpdateFirm)
}

// Load 根据输入数据初始化经济系统
// 功能：为每个居民创建代理；为每个药店建筑创建企业，缺少经营数据时使用默认价格与库存
// 参数：in-输入数据，pharmacies-药店建筑
func Load(econ *EconomySim, in *input.Input, pharmacies []entity.BuildingInfo) error {
	for _, c := range in.Citizens {
		if err := econ.OpenAccount(c.ID, c.Currency); err != nil {
			return err
		}
	}
	given := make(map[int32]input.Pharmacy, len(in.Pharmacies))
	for _, p := range in.Pharmacies {
		given[p.BuildingID] = p
	}
	for _, b := range pharmacies {
		firm := FirmData{ID: b.ID, Price: DefaultPrice, Inventory: DefaultInventory}
		if p, ok := given[b.ID]; ok {
			firm.Price, firm.Inventory = p.Price, p.Inventory
			delete(given, b.ID)
		}
		if err := econ.AddFirm(firm); err != nil {
			return err
		}
	}
	for id := range given {
		return fmt.Errorf("pharmacy data for building %d which is not a pharmacy", id)
	}
	log.Infof("economy: %d agents, %d pharmacies", len(in.Citizens), len(pharmacies))
	return nil
}

// GetAgent 获取代理信息
func (s *Server) GetAgent(ctx context.Context, req *connect.Request[GetAgentRequest]) (*connect.Response[GetAgentResponse], error) {
	res := &GetAgentResponse{Agents: make([]AgentData, 0, len(req.Msg.AgentIDs))}
	for _, id := range req.Msg.AgentIDs {
		agent, err := s.econ.GetAgent(id)
		if err != nil {
			return nil, connect.NewError(connect.CodeNotFound, err)
		}
		res.Agents = append(res.Agents, agent)
	}
	return connect.NewResponse(res), nil
}

// GetFirm 获取企业信息
func (s *Server) GetFirm(ctx context.Context, req *connect.Request[GetFirmRequest]) (*connect.Response[GetFirmResponse], error) {
	ids := req.Msg.FirmIDs
	if len(ids) == 0 {
		ids = s.econ.GetFirmIDs()
	}
	res := &GetFirmResponse{Firms: make([]FirmData, 0, len(ids))}
	for _, id := range ids {
		firm, err := s.econ.GetFirm(id)
		if err != nil {
			return nil, connect.NewError(connect.CodeNotFound, err)
		}
		res.Firms = append(res.Firms, firm)
	}
	return connect.NewResponse(res), nil
}

// UpdateFirm 更新企业价格与库存
func (s *Server) UpdateFirm(ctx context.Context, req *connect.Request[UpdateFirmRequest]) (*connect.Response[UpdateFirmResponse], error) {
	if err := s.econ.UpdateFirm(req.Msg.FirmID, req.Msg.Price, req.Msg.Inventory); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewResponse(&UpdateFirmResponse{}), nil
}
