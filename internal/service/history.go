package service

import "strings"

// RecentHistoryLimit 传给模型的最近题目数量上限
const RecentHistoryLimit = 12

// DedupePreserveOrder 去重但保留首次出现的顺序，空字符串直接丢弃
func DedupePreserveOrder(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, x := range items {
		if x == "" {
			continue
		}
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
	}
	return out
}

// MergeHistory 服务端历史在前，前端历史在后
func MergeHistory(stored, supplied []string) []string {
	all := make([]string, 0, len(stored)+len(supplied))
	all = append(all, stored...)
	all = append(all, supplied...)
	return DedupePreserveOrder(all)
}

func UsedSet(items []string) map[string]struct{} {
	used := make(map[string]struct{}, len(items))
	for _, q := range items {
		if q != "" {
			used[q] = struct{}{}
		}
	}
	return used
}

// QuestionKey 去掉情境前缀和结尾问号，用于判断两道题是否相同
func QuestionKey(q string) string {
	q = strings.TrimSpace(q)
	for _, p := range [][2]string{{"【", "】"}, {"（", "）"}} {
		if strings.HasPrefix(q, p[0]) {
			if i := strings.Index(q, p[1]); i >= 0 {
				q = strings.TrimSpace(q[i+len(p[1]):])
			}
			break
		}
	}
	return strings.TrimRight(q, "？?")
}

func RecentHistory(items []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if len(items) > n {
		items = items[len(items)-n:]
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}
