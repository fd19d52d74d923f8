package ecosim

import (
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"
)

// EconomySim 代表经济模拟系统
// 功能：维护居民货币与药店价格、库存，处理购药消费
// 说明：所有账户由同一把锁保护，对外只返回数据副本
type EconomySim struct {
	agents map[int32]*AgentData
	firms  map[int32]*FirmData
	mu     sync.RWMutex
}

// NewEconomySim 创建新的经济模拟系统实例
func NewEconomySim() *EconomySim {
	return &EconomySim{
		agents: make(map[int32]*AgentData),
		firms:  make(map[int32]*FirmData),
	}
}

// AddAgent 添加居民账户
func (e *EconomySim) AddAgent(agent AgentData) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.agents[agent.ID]; ok {
		return fmt.Errorf("agent %d already exists", agent.ID)
	}
	e.agents[agent.ID] = &agent
	return nil
}

// OpenAccount 为居民创建账户，currency<=0时使用默认货币量
func (e *EconomySim) OpenAccount(agentID int32, currency float32) error {
	if currency <= 0 {
		currency = DefaultCurrency
	}
	return e.AddAgent(AgentData{ID: agentID, Currency: currency})
}

// RemoveAgent 移除居民账户
func (e *EconomySim) RemoveAgent(agentID int32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.agents[agentID]; !ok {
		return fmt.Errorf("agent %d not found", agentID)
	}
	delete(e.agents, agentID)
	return nil
}

// AddFirm 添加药店
func (e *EconomySim) AddFirm(firm FirmData) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.firms[firm.ID]; ok {
		return fmt.Errorf("firm %d already exists", firm.ID)
	}
	e.firms[firm.ID] = &firm
	return nil
}

// UpdateFirm 更新药店价格与库存，为nil的字段不修改
func (e *EconomySim) UpdateFirm(firmID int32, price *float32, inventory *int32) error {
	if price != nil && *price < 0 {
		return fmt.Errorf("price must not be negative, got %v", *price)
	}
	if inventory != nil && *inventory < 0 {
		return fmt.Errorf("inventory must not be negative, got %v", *inventory)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	firm, ok := e.firms[firmID]
	if !ok {
		return fmt.Errorf("firm %d not found", firmID)
	}
	if price != nil {
		firm.Price = *price
	}
	if inventory != nil {
		firm.Inventory = *inventory
	}
	return nil
}

// GetAgent 获取居民账户副本
func (e *EconomySim) GetAgent(agentID int32) (AgentData, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	agent, ok := e.agents[agentID]
	if !ok {
		return AgentData{}, fmt.Errorf("agent %d not found", agentID)
	}
	return *agent, nil
}

// GetFirm 获取药店数据副本
func (e *EconomySim) GetFirm(firmID int32) (FirmData, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	firm, ok := e.firms[firmID]
	if !ok {
		return FirmData{}, fmt.Errorf("firm %d not found", firmID)
	}
	return *firm, nil
}

// GetFirmIDs 获取所有药店ID（升序）
func (e *EconomySim) GetFirmIDs() []int32 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := lo.Keys(e.firms)
	slices.Sort(ids)
	return ids
}

// BuyMedication 居民在药店购药
// 参数：agentID-居民ID，buildingID-药店建筑ID，quantity-购买数量
// 返回：花费，是否全部买到，错误信息
// 算法说明：
// 1. 可售数量取需求、库存与居民余额可负担数量的最小值
// 2. 药店记录需求（含未满足部分）与销量，居民扣款
func (e *EconomySim) BuyMedication(agentID, buildingID, quantity int32) (float32, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	agent, ok := e.agents[agentID]
	if !ok {
		return 0, false, fmt.Errorf("agent %d not found", agentID)
	}
	firm, ok := e.firms[buildingID]
	if !ok {
		return 0, false, fmt.Errorf("firm %d not found", buildingID)
	}
	sold := firm.sell(quantity, agent.affordable(firm.Price))
	cost := float32(sold) * firm.Price
	agent.spend(cost, sold)
	return cost, sold == quantity, nil
}
