package citizen

import (
	"context"
	"fmt"

	"connectrpc.com/connect"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/entity"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/input"
	"github.com/tsinghua-fib-lab/agentsociety-citizen-sim/utils/server"
)

const CitizenServiceName = "city.citizen.v1.CitizenService"

type GetCitizenRequest struct {
	CitizenID int32 `json:"citizen_id"`
}

type GetCitizenResponse struct {
	Citizen entity.CitizenSnapshot `json:"citizen"`
}

type GetCitizensRequest struct {
	CitizenIDs    []int32  `json:"citizen_ids"`    // 为空表示全部
	ExcludeStates []string `json:"exclude_states"` // 排除的状态名
}

type GetCitizensResponse struct {
	Citizens []entity.CitizenSnapshot `json:"citizens"`
}

type AddCitizenRequest struct {
	Citizen input.Citizen `json:"citizen"`
}

type AddCitizenResponse struct {
	CitizenID int32 `json:"citizen_id"`
}

type RemoveCitizenRequest struct {
	CitizenID int32 `json:"citizen_id"`
}

type RemoveCitizenResponse struct{}

type ForceRecoverRequest struct {
	CitizenID int32 `json:"citizen_id"`
}

type ForceRecoverResponse struct{}

type GetGlobalStatisticsRequest struct{}

type GetGlobalStatisticsResponse struct {
	NumCitizens int `json:"num_citizens"`
	GlobalRuntime
}

// Register 将CitizenService注册到服务
// 功能：注册居民服务的RPC处理器
// 参数：srv-对外服务实例
func (m *CitizenManager) Register(srv *server.Server) {
	server.Register(srv, CitizenServiceName, "GetCitizen", m.GetCitizen)
	server.Register(srv, CitizenServiceName, "GetCitizens", m.GetCitizens)
	server.Register(srv, CitizenServiceName, "AddCitizen", m.AddCitizen)
	server.Register(srv, CitizenServiceName, "RemoveCitizen", m.RemoveCitizen)
	server.Register(srv, CitizenServiceName, "ForceRecover", m.ForceRecover)
	server.Register(srv, CitizenServiceName, "GetGlobalStatistics", m.GetGlobalStatistics)
}

// GetCitizen 获取居民信息
func (m *CitizenManager) GetCitizen(ctx context.Context, in *connect.Request[GetCitizenRequest]) (*connect.Response[GetCitizenResponse], error) {
	s, ok := m.snapshotOf(in.Msg.CitizenID)
	if !ok {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("no id %d in citizen data", in.Msg.CitizenID))
	}
	return connect.NewResponse(&GetCitizenResponse{Citizen: s}), nil
}

// GetCitizens 获取多个居民信息
// 功能：批量获取居民信息，支持ID筛选和状态排除
// 算法说明：
// 1. 解析排除的状态名，未知状态名视为参数错误
// 2. 按ID查找快照，不存在的ID视为参数错误
// 3. 过滤掉排除状态的居民
func (m *CitizenManager) GetCitizens(ctx context.Context, in *connect.Request[GetCitizensRequest]) (*connect.Response[GetCitizensResponse], error) {
	req := in.Msg
	exclude := make(map[string]struct{}, len(req.ExcludeStates))
	for _, name := range req.ExcludeStates {
		s, err := ParseState(name)
		if err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		exclude[s.String()] = struct{}{}
	}
	m.snapshotMtx.RLock()
	found, failed := utils.Find(m.snapshotByID, m.snapshots, req.CitizenIDs)
	m.snapshotMtx.RUnlock()
	if len(failed) > 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("no id %v in citizen data", failed))
	}
	res := &GetCitizensResponse{
		Citizens: lo.Filter(found, func(s entity.CitizenSnapshot, _ int) bool {
			_, ok := exclude[s.State]
			return !ok
		}),
	}
	return connect.NewResponse(res), nil
}

// AddCitizen 新增居民，返回居民ID
func (m *CitizenManager) AddCitizen(ctx context.Context, in *connect.Request[AddCitizenRequest]) (*connect.Response[AddCitizenResponse], error) {
	id, err := m.Add(in.Msg.Citizen)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewResponse(&AddCitizenResponse{CitizenID: id}), nil
}

// RemoveCitizen 删除居民
func (m *CitizenManager) RemoveCitizen(ctx context.Context, in *connect.Request[RemoveCitizenRequest]) (*connect.Response[RemoveCitizenResponse], error) {
	if err := m.Remove(in.Msg.CitizenID); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewResponse(&RemoveCitizenResponse{}), nil
}

// ForceRecover 强制恢复居民到家或单位
func (m *CitizenManager) ForceRecover(ctx context.Context, in *connect.Request[ForceRecoverRequest]) (*connect.Response[ForceRecoverResponse], error) {
	if err := m.RequestRecover(in.Msg.CitizenID); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewResponse(&ForceRecoverResponse{}), nil
}

// GetGlobalStatistics 获取全局统计信息
func (m *CitizenManager) GetGlobalStatistics(ctx context.Context, in *connect.Request[GetGlobalStatisticsRequest]) (*connect.Response[GetGlobalStatisticsResponse], error) {
	m.snapshotMtx.RLock()
	n := len(m.snapshots)
	m.snapshotMtx.RUnlock()
	return connect.NewResponse(&GetGlobalStatisticsResponse{
		NumCitizens:   n,
		GlobalRuntime: m.Statistics(),
	}), nil
}
