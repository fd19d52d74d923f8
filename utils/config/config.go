package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	defaultAnticipationMinutes    = 30
	defaultWalkSpeed              = 5
	defaultSpeedJitter            = .5
	defaultReferenceDayLength     = 1000
	defaultPathTimeout            = 100 // 寻路请求超时（时间单位）
	defaultStuckDayFactor         = 2   // 卡死判定：2倍日长
	defaultTeleportThreshold      = 50
	defaultFallbackTravelDuration = 30
	defaultVehicleSpeed           = 15
	defaultMaxExpansions          = 200000
	defaultFlushInterval          = 100
	defaultObserverInterval       = 10
	defaultStartDate              = "2024-01-01"
)

// RuntimeConfig 运行时配置
// 功能：存储仿真运行时的配置信息，补全默认值后的配置
// 说明：将YAML配置转换为运行时可用的配置对象
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置

	Citizen   Citizen   // 补全默认值后的居民配置
	Vehicle   Vehicle   // 补全默认值后的车辆配置
	Router    Router    // 补全默认值后的寻路配置
	StartDate time.Time // 第0天对应的日期
}

// Parse 解析YAML配置
// 功能：严格模式解析配置文件，未知字段视为错误
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// NewRuntimeConfig 根据配置初始化全局变量
// 功能：创建运行时配置对象，进行配置验证并补全默认值
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针，配置非法时返回错误
func NewRuntimeConfig(config Config) (*RuntimeConfig, error) {
	rc := &RuntimeConfig{
		All:     config,
		C:       config.Control,
		Citizen: config.Citizen,
		Vehicle: config.Vehicle,
		Router:  config.Router,
	}
	if rc.C.Step.Interval <= 0 {
		return nil, fmt.Errorf("control.step.interval must be positive, got %v", rc.C.Step.Interval)
	}
	if rc.C.Calendar.DayLength < 0 {
		return nil, fmt.Errorf("control.calendar.day_length must not be negative, got %v", rc.C.Calendar.DayLength)
	}
	startDate := rc.C.Calendar.StartDate
	if startDate == "" {
		startDate = defaultStartDate
	}
	t, err := time.Parse(time.DateOnly, startDate)
	if err != nil {
		return nil, fmt.Errorf("control.calendar.start_date: %w", err)
	}
	rc.StartDate = t

	c := &rc.Citizen
	setDefault(&c.AnticipationMinutes, defaultAnticipationMinutes)
	setDefault(&c.WalkSpeed, defaultWalkSpeed)
	setDefault(&c.SpeedJitter, defaultSpeedJitter)
	setDefault(&c.ReferenceDayLength, defaultReferenceDayLength)
	setDefault(&c.PathTimeout, defaultPathTimeout)
	setDefault(&c.StuckDayFactor, defaultStuckDayFactor)
	setDefault(&c.TeleportThreshold, defaultTeleportThreshold)
	setDefault(&c.FallbackTravelDuration, defaultFallbackTravelDuration)
	// 周末
	if c.Weekend.StartHour == 0 && c.Weekend.EndHour == 0 {
		c.Weekend.StartHour, c.Weekend.EndHour = 10, 17
	}
	setDefault(&c.Weekend.Probability, .3)
	setDefault(&c.Weekend.LingerMinutes, 60)
	setDefault(&c.Weekend.RingRadius, 40)
	// 买药
	if c.Medication.OpenHour == 0 && c.Medication.CloseHour == 0 {
		c.Medication.OpenHour, c.Medication.CloseHour = 8, 20
	}
	setDefault(&c.Medication.ShoppingMinutes, 20)
	if c.Medication.Quantity <= 0 {
		c.Medication.Quantity = 1
	}
	if c.Weekend.StartHour >= c.Weekend.EndHour || c.Weekend.EndHour > 24 {
		return nil, fmt.Errorf("citizen.weekend hours [%d, %d) are invalid", c.Weekend.StartHour, c.Weekend.EndHour)
	}
	if c.Medication.OpenHour >= c.Medication.CloseHour || c.Medication.CloseHour > 24 {
		return nil, fmt.Errorf("citizen.medication hours [%d, %d) are invalid", c.Medication.OpenHour, c.Medication.CloseHour)
	}

	setDefault(&rc.Vehicle.Speed, defaultVehicleSpeed)
	if rc.Router.MaxExpansions <= 0 {
		rc.Router.MaxExpansions = defaultMaxExpansions
	}
	if rc.All.Output.FlushInterval <= 0 {
		rc.All.Output.FlushInterval = defaultFlushInterval
	}
	if rc.All.Server.ObserverInterval <= 0 {
		rc.All.Server.ObserverInterval = defaultObserverInterval
	}
	return rc, nil
}

func setDefault(v *float64, d float64) {
	if *v <= 0 {
		*v = d
	}
}
