// 随机数引擎，包装了golang.org/x/exp/rand，提供居民行为与网格采样所需的随机数
package randengine

import (
	"flag"
	"math"
	"sync"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于整体调整随机数序列
)

// Engine 随机数引擎
// 功能：以确定的种子生成随机数，同一种子在同一配置下得到相同的行为序列
// 说明：不带Safe后缀的方法非线程安全，只能由持有者单线程调用
type Engine struct {
	*rand.Rand
	mtx sync.Mutex
}

// New 创建随机数引擎
// 参数：seed-随机数种子（居民以ID为种子，导航网格以出行方式为种子）
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// PTrue 以概率p返回true（非线程安全）
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}

// Jitter 对称扰动（非线程安全）
// 功能：生成[-amplitude, amplitude]内、集中于0附近的扰动量
// 算法说明：取标准正态分布的一半并截断到[-1, 1]，再乘以幅度
func (e *Engine) Jitter(amplitude float64) float64 {
	return amplitude * math.Max(-1, math.Min(1, .5*e.NormFloat64()))
}

// Angle 随机方向角[0, 2π)（非线程安全）
func (e *Engine) Angle() float64 {
	return e.Float64() * 2 * math.Pi
}

// CellSafe 随机生成网格坐标（线程安全）
// 参数：width-网格宽度，height-网格高度
// 返回：x∈[0, width)，y∈[0, height)
func (e *Engine) CellSafe(width, height int32) (int32, int32) {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return int32(e.Intn(int(width))), int32(e.Intn(int(height)))
}
