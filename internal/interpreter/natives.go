package interpreter

import (
	"time"

	"go.uber.org/zap"
)

// registerNatives 在执行开始前把内置函数放进全局环境
func (in *Interpreter) registerNatives() {
	in.DefineNative("clock", 0, func(_ *Interpreter, _ []Value) (Value, error) {
		return NewNumber(float64(time.Now().UnixNano()) / float64(time.Second)), nil
	})
}

// DefineNative 注册一个原生函数到全局环境，已有同名绑定会被覆盖
func (in *Interpreter) DefineNative(name string, arity int, fn NativeFn) {
	in.globals.Define(name, NewCallable(NewNativeFunction(name, arity, fn)))
	in.logger.Debug("native registered", zap.String("name", name), zap.Int("arity", arity))
}
