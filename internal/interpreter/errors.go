package interpreter

import (
	"fmt"

	"github.com/tangzhangming/lox/internal/i18n"
	"github.com/tangzhangming/lox/internal/token"
)

// RuntimeError 运行时错误
//
// 它是解释器唯一的错误路径；return 通过 flow 传递，不会变成 RuntimeError。
type RuntimeError struct {
	Token   token.Token // 出错的运算符、名字或调用的右括号
	ID      string      // 消息 ID
	Message string
}

// NewRuntimeError 使用消息表创建运行时错误
func NewRuntimeError(tok token.Token, msgID string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Token: tok, ID: msgID, Message: i18n.T(msgID, args...)}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Pos.Line)
}

// Line 出错的源码行
func (e *RuntimeError) Line() int {
	return e.Token.Pos.Line
}
