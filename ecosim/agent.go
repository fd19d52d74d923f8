package ecosim

import "math"

// AgentData 居民的经济账户
type AgentData struct {
	ID          int32   `json:"id"`
	Currency    float32 `json:"currency"`
	Consumption float32 `json:"consumption"` // 累计消费额
	Purchased   int32   `json:"purchased"`   // 累计购买药品数
}

// affordable 余额按单价最多能买的数量
func (a *AgentData) affordable(price float32) int32 {
	if price <= 0 {
		return math.MaxInt32
	}
	return int32(a.Currency / price)
}

// spend 扣款并记录购买
func (a *AgentData) spend(cost float32, quantity int32) {
	a.Currency -= cost
	a.Consumption += cost
	a.Purchased += quantity
}
