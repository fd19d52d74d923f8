package input

// Origin 网格左下角的世界坐标
type Origin struct {
	X float64 `yaml:"x" bson:"x"`
	Y float64 `yaml:"y" bson:"y"`
}

// Map 导航网格地图
// 功能：用字符矩阵描述城市的可通行区域
// 说明：Rows[0]为y=0的一行；字符含义：'#'不可通行，'.'人行道，'='车行道，'+'人车皆可
type Map struct {
	CellSize float64  `yaml:"cell_size" bson:"cell_size"`
	Origin   Origin   `yaml:"origin" bson:"origin"`
	Rows     []string `yaml:"rows" bson:"rows"`
}

// Building 建筑
type Building struct {
	ID   int32   `yaml:"id" bson:"id"`
	Name string  `yaml:"name,omitempty" bson:"name,omitempty"`
	Type string  `yaml:"type" bson:"type"`
	X    float64 `yaml:"x" bson:"x"`
	Y    float64 `yaml:"y" bson:"y"`
}

// Citizen 居民
type Citizen struct {
	ID       int32 `yaml:"id" bson:"id" json:"id"`
	Home     int32 `yaml:"home" bson:"home" json:"home"` // 家的建筑ID
	Work     int32 `yaml:"work" bson:"work" json:"work"` // 工作地的建筑ID
	WorkHour int   `yaml:"work_hour" bson:"work_hour" json:"work_hour"`
	HomeHour int   `yaml:"home_hour" bson:"home_hour" json:"home_hour"`
	// 工作日策略：weekdays（周一至周五）、daily（每天）、custom（按CustomDays）
	WorkDays   string `yaml:"work_days,omitempty" bson:"work_days,omitempty" json:"work_days,omitempty"`
	CustomDays []int  `yaml:"custom_days,omitempty" bson:"custom_days,omitempty" json:"custom_days,omitempty"` // 0=周日
	OwnsCar    bool   `yaml:"owns_car,omitempty" bson:"owns_car,omitempty" json:"owns_car,omitempty"`

	Currency float32 `yaml:"currency,omitempty" bson:"currency,omitempty" json:"currency,omitempty"`
	// 为空时使用全局配置
	AnticipationMinutes   *float64 `yaml:"anticipation_minutes,omitempty" bson:"anticipation_minutes,omitempty" json:"anticipation_minutes,omitempty"`
	MedicationProbability *float64 `yaml:"medication_probability,omitempty" bson:"medication_probability,omitempty" json:"medication_probability,omitempty"`
}

// Pharmacy 药店经营数据
type Pharmacy struct {
	BuildingID int32   `yaml:"building_id" bson:"building_id"`
	Price      float32 `yaml:"price" bson:"price"`
	Inventory  int32   `yaml:"inventory" bson:"inventory"`
}
