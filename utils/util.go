package utils

// Find 按ID批量查找
// 功能：ids为空时返回全部数据；重复的ID只返回一次
// 返回：找到的数据（按ids顺序），不存在的ID
func Find[K comparable, T any](byID map[K]T, all []T, ids []K) (found []T, missing []K) {
	if len(ids) == 0 {
		return all, nil
	}
	seen := make(map[K]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if d, ok := byID[id]; ok {
			found = append(found, d)
		} else {
			missing = append(missing, id)
		}
	}
	return
}
