package errors

import (
	"strings"

	"github.com/tangzhangming/lox/internal/i18n"
)

// ============================================================================
// 修复建议
// ============================================================================

// AddHints 为未定义变量的运行时诊断补充相似名称建议
//
// names 为当前可见的全局名字。
func AddHints(ds Diagnostics, names []string) {
	for i := range ds {
		d := &ds[i]
		if d.Code != R0500 || d.Hint != "" || d.Lexeme == "" {
			continue
		}
		if similar := FindSimilar(d.Lexeme, names, maxHintDistance(d.Lexeme)); similar != "" {
			d.Hint = i18n.T(i18n.HintDidYouMean, similar)
		}
	}
}

// maxHintDistance 短名字只容忍一个字符的差别
func maxHintDistance(name string) int {
	if len(name) <= 3 {
		return 1
	}
	return 2
}

// ============================================================================
// 相似名称查找
// ============================================================================

// FindSimilar 查找相似的名称，完全相同的名字不算
func FindSimilar(name string, candidates []string, maxDistance int) string {
	bestMatch := ""
	bestDistance := maxDistance + 1

	for _, candidate := range candidates {
		if candidate == name {
			continue
		}
		distance := levenshteinDistance(name, candidate)
		if distance < bestDistance || (distance == bestDistance && candidate < bestMatch) {
			bestDistance = distance
			bestMatch = candidate
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// levenshteinDistance 计算 Levenshtein 编辑距离（忽略大小写）
func levenshteinDistance(s1, s2 string) int {
	a := []rune(strings.ToLower(s1))
	b := []rune(strings.ToLower(s2))
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			curr[j] = min3(
				prev[j]+1,      // 删除
				curr[j-1]+1,    // 插入
				prev[j-1]+cost, // 替换
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
