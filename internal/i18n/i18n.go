// Package i18n 提供诊断信息的多语言消息表
//
// 词法、语法、静态分析和运行时错误都用消息 ID 记录，渲染时才按当前语言
// 取出文本。英文表是基准：其他语言缺少的条目回退到英文，英文也没有时
// 原样返回 ID。
package i18n

import (
	"fmt"
	"strings"
	"sync"
)

// Language 语言类型
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

// catalogs 各语言的消息表
var catalogs = map[Language]map[string]string{
	LangEnglish: messagesEN,
	LangChinese: messagesZH,
}

var (
	currentLang = LangEnglish
	mu          sync.RWMutex
)

// SetLanguage 设置当前语言，未登记的语言回退到英文
func SetLanguage(lang Language) {
	if _, ok := catalogs[lang]; !ok {
		lang = LangEnglish
	}
	mu.Lock()
	currentLang = lang
	mu.Unlock()
}

// SetLanguageFromString 按配置或环境变量里的写法设置语言
func SetLanguageFromString(lang string) {
	SetLanguage(ParseLanguage(lang))
}

// ParseLanguage 解析语言名
//
// 接受 "zh"、"zh-CN"、"zh_TW.UTF-8" 这类 locale 写法，以及 "chinese"、
// "中文"。无法识别的值一律视为英文。
func ParseLanguage(s string) Language {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i] // 去掉 ".UTF-8"、"@euro" 之类的后缀
	}
	if i := strings.IndexAny(s, "-_"); i >= 0 {
		s = s[:i]
	}
	switch s {
	case "zh", "chinese", "中文":
		return LangChinese
	default:
		return LangEnglish
	}
}

// GetLanguage 获取当前语言
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return currentLang
}

// T 按当前语言翻译消息（支持格式化参数）
func T(msgID string, args ...interface{}) string {
	return Translate(GetLanguage(), msgID, args...)
}

// Translate 按指定语言翻译消息，不影响全局设置
func Translate(lang Language, msgID string, args ...interface{}) string {
	msg, ok := Lookup(lang, msgID)
	if !ok {
		if msg, ok = Lookup(LangEnglish, msgID); !ok {
			return msgID
		}
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Lookup 查找未格式化的消息模板
func Lookup(lang Language, msgID string) (string, bool) {
	msg, ok := catalogs[lang][msgID]
	return msg, ok
}

// MessageIDs 返回所有消息 ID 的副本
func MessageIDs() []string {
	ids := make([]string, len(messageIDs))
	copy(ids, messageIDs)
	return ids
}

// Missing 返回指定语言消息表里缺少的 ID
func Missing(lang Language) []string {
	var missing []string
	for _, id := range messageIDs {
		if _, ok := Lookup(lang, id); !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
