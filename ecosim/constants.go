package ecosim

// 未提供经营数据时的默认值
const (
	DefaultCurrency  float32 = 1000 // 居民初始货币量
	DefaultPrice     float32 = 10   // 药品单价
	DefaultInventory int32   = 1000 // 药店初始库存
)
