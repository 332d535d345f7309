package interpreter

// Environment 变量环境
//
// 环境之间通过 enclosing 串成链，根是全局环境。
// 闭包持有定义时环境的指针，同一个环境可以被多个闭包共享，
// 任何一方的修改对所有持有者可见；环境在最后一个持有者消失后由 GC 回收。
type Environment struct {
	values    map[string]Value
	enclosing *Environment
}

// NewEnvironment 创建一个新环境，enclosing 为 nil 表示全局环境
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{
		values:    make(map[string]Value),
		enclosing: enclosing,
	}
}

// Enclosing 返回外层环境
func (e *Environment) Enclosing() *Environment {
	return e.enclosing
}

// Define 在当前环境绑定（或重新绑定）一个名字
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get 沿环境链查找名字
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}
	return NilValue, false
}

// Assign 沿环境链给已存在的名字赋值，名字不存在时返回 false
func (e *Environment) Assign(name string, value Value) bool {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name]; ok {
			env.values[name] = value
			return true
		}
	}
	return false
}

// Ancestor 返回向外第 distance 层的环境
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance && env != nil; i++ {
		env = env.enclosing
	}
	return env
}

// GetAt 在指定距离的环境中直接读取名字
func (e *Environment) GetAt(distance int, name string) (Value, bool) {
	env := e.Ancestor(distance)
	if env == nil {
		return NilValue, false
	}
	v, ok := env.values[name]
	return v, ok
}

// AssignAt 在指定距离的环境中直接写入名字
func (e *Environment) AssignAt(distance int, name string, value Value) {
	if env := e.Ancestor(distance); env != nil {
		env.values[name] = value
	}
}

// Names 当前环境中定义的名字（REPL 补全使用）
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	return names
}
