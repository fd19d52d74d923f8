package config

// InputPath 指定输入数据来源的配置（MongoDB、文件系统）
// 功能：定义数据输入路径的配置结构，支持多种数据源
// 说明：File优先级高于MongoDB，File为空时从{Input.URI}/{DB}.{Col}读取
type InputPath struct {
	DB   string `yaml:"db,omitempty"`   // 数据库名
	Col  string `yaml:"col,omitempty"`  // 集合名
	File string `yaml:"file,omitempty"` // 文件路径（优先级高于MongoDB）
}

// GetDb 获取数据库名
func (p InputPath) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
func (p InputPath) GetColl() string {
	return p.Col
}

// Input 指定模拟器所有输入数据的配置项
// 功能：定义仿真系统的所有输入数据配置
// 说明：地图只支持文件，建筑与居民支持文件或MongoDB
type Input struct {
	URI       string     `yaml:"uri,omitempty"`       // MongoDB连接字符串
	Map       InputPath  `yaml:"map"`                 // 导航网格地图
	Buildings InputPath  `yaml:"buildings"`           // 建筑
	Citizens  *InputPath `yaml:"citizens,omitempty"`  // 居民
	Pharmacy  *InputPath `yaml:"pharmacy,omitempty"`  // 药店经营数据（价格、库存），为空则按默认值
}

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每步的时间间隔（时间单位）
}

// Calendar 日历配置
// 功能：定义仿真时间与日期之间的换算关系
type Calendar struct {
	DayLength float64 `yaml:"day_length"`           // 一天对应的仿真时间单位数
	StartDate string  `yaml:"start_date,omitempty"` // 第0天对应的日期（YYYY-MM-DD）
}

// Control 模拟器控制配置
type Control struct {
	Step     ControlStep `yaml:"step"`
	Calendar Calendar    `yaml:"calendar"`
}

// Weekend 周末散步行为配置
type Weekend struct {
	StartHour     int     `yaml:"start_hour,omitempty"`     // 可以出门散步的最早小时
	EndHour       int     `yaml:"end_hour,omitempty"`       // 必须开始回家的小时
	Probability   float64 `yaml:"probability,omitempty"`    // 每个周末日出门散步的概率
	LingerMinutes float64 `yaml:"linger_minutes,omitempty"` // 在目的地停留的分钟数
	RingRadius    float64 `yaml:"ring_radius,omitempty"`    // 兜底目的地：家周围环形点的半径
}

// Medication 购药行为配置
type Medication struct {
	Probability     float64 `yaml:"probability,omitempty"`      // 每天需要买药的概率
	OpenHour        int     `yaml:"open_hour,omitempty"`        // 药店开门小时
	CloseHour       int     `yaml:"close_hour,omitempty"`       // 药店关门小时
	ShoppingMinutes float64 `yaml:"shopping_minutes,omitempty"` // 在店内停留的分钟数
	Quantity        int32   `yaml:"quantity,omitempty"`         // 每次购买数量
}

// Citizen 居民行为配置
// 功能：定义居民日程、速度、寻路超时、恢复阈值等参数
type Citizen struct {
	AnticipationMinutes    float64    `yaml:"anticipation_minutes,omitempty"`     // 提前准备出发的分钟数
	WalkSpeed              float64    `yaml:"walk_speed,omitempty"`               // 基础步行速度（世界单位/时间单位）
	SpeedJitter            float64    `yaml:"speed_jitter,omitempty"`             // 速度随机扰动最大值
	ReferenceDayLength     float64    `yaml:"reference_day_length,omitempty"`     // 速度标定所对应的一天长度
	PathTimeout            float64    `yaml:"path_timeout,omitempty"`             // 寻路请求超时（时间单位）
	StuckDayFactor         float64    `yaml:"stuck_day_factor,omitempty"`         // 卡死判定：停留超过几天
	TeleportThreshold      float64    `yaml:"teleport_threshold,omitempty"`       // 路径起点与当前位置的最大允许距离
	FallbackTravelDuration float64    `yaml:"fallback_travel_duration,omitempty"` // 日长未知时的默认行程时长
	Weekend                Weekend    `yaml:"weekend,omitempty"`
	Medication             Medication `yaml:"medication,omitempty"`
}

// Vehicle 车辆池配置
type Vehicle struct {
	Capacity int32   `yaml:"capacity,omitempty"` // 车辆总数
	Speed    float64 `yaml:"speed,omitempty"`    // 车辆速度（世界单位/时间单位）
}

// Router 寻路服务配置
type Router struct {
	MaxExpansions int `yaml:"max_expansions,omitempty"` // A*最大展开节点数
}

// Output 输出配置
type Output struct {
	SQLite        string `yaml:"sqlite,omitempty"`         // SQLite文件路径，为空则不输出
	FlushInterval int32  `yaml:"flush_interval,omitempty"` // 写入间隔步数
}

// Server 对外服务配置
type Server struct {
	ObserverInterval int32 `yaml:"observer_interval,omitempty"` // 可视化推送间隔步数
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
type Config struct {
	Input   Input   `yaml:"input"`   // 输入
	Control Control `yaml:"control"` // 模拟过程控制
	Citizen Citizen `yaml:"citizen,omitempty"`
	Vehicle Vehicle `yaml:"vehicle,omitempty"`
	Router  Router  `yaml:"router,omitempty"`
	Output  Output  `yaml:"output,omitempty"`
	Server  Server  `yaml:"server,omitempty"`
}
