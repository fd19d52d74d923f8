package schedule

import (
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
)

// WorkStrategy 工作日策略
type WorkStrategy interface {
	ShouldWork(weekday time.Weekday) bool
	String() string
}

// Weekdays 周一至周五工作
type Weekdays struct{}

func (Weekdays) ShouldWork(weekday time.Weekday) bool {
	return weekday != time.Saturday && weekday != time.Sunday
}

func (Weekdays) String() string { return "weekdays" }

// Daily 每天工作
type Daily struct{}

func (Daily) ShouldWork(time.Weekday) bool { return true }

func (Daily) String() string { return "daily" }

// Custom 指定星期工作
type Custom struct {
	Days []time.Weekday
}

func (c Custom) ShouldWork(weekday time.Weekday) bool {
	return slices.Contains(c.Days, weekday)
}

func (c Custom) String() string {
	return fmt.Sprintf("custom%v", c.Days)
}

// NewStrategy 根据名称创建工作日策略
// 参数：name-weekdays/daily/custom，为空时为weekdays；days-custom策略的星期（0=周日）
func NewStrategy(name string, days []int) (WorkStrategy, error) {
	switch name {
	case "", "weekdays":
		return Weekdays{}, nil
	case "daily":
		return Daily{}, nil
	case "custom":
		for _, d := range days {
			if d < 0 || d > 6 {
				return nil, fmt.Errorf("invalid weekday %d in custom work days", d)
			}
		}
		return Custom{Days: lo.Map(lo.Uniq(days), func(d int, _ int) time.Weekday {
			return time.Weekday(d)
		})}, nil
	default:
		return nil, fmt.Errorf("unknown work days strategy %q", name)
	}
}
