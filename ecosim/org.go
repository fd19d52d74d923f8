package ecosim

// FirmData 药店的经营数据
type FirmData struct {
	ID        int32   `json:"id"` // 与药店建筑ID相同
	Currency  float32 `json:"currency"`
	Price     float32 `json:"price"`
	Inventory int32   `json:"inventory"`
	Demand    float32 `json:"demand"` // 累计需求量（含未满足部分）
	Sales     float32 `json:"sales"`  // 累计销量
}

// sell 售药
// 参数：demand-需求数量，budget-顾客最多能买的数量
// 返回：实际售出数量，受库存与budget约束
func (f *FirmData) sell(demand, budget int32) int32 {
	sold := max(min(demand, f.Inventory, budget), 0)
	f.Inventory -= sold
	f.Demand += float32(demand)
	f.Sales += float32(sold)
	f.Currency += float32(sold) * f.Price
	return sold
}
