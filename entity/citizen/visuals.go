package citizen

// UpdateVisuals 更新可视化位置与朝向
// 功能：沿路径按时间插值；开车时跟随车辆；到达终点时设置到达标志供状态机判定
// 参数：dt-时间间隔，now-当前时间
func (c *Citizen) UpdateVisuals(dt float64, now float64) {
	if !c.state.IsMoving() {
		return
	}
	if c.state.IsDriving() {
		if v, ok := c.vehicleInfo(); ok {
			c.position = v.Position
			c.direction = v.Direction
			if !v.IsActive {
				c.trip.reached = true
			}
			return
		}
	}
	if len(c.trip.track.Path) == 0 {
		return
	}
	pose := c.trip.track.At(now)
	c.position = pose.Position
	c.direction = pose.Direction
	c.trip.index, c.trip.fraction = pose.Index, pose.Fraction
	c.trip.reached = pose.Reached
}
