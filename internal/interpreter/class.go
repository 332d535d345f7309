package interpreter

// Class 类对象
//
// 方法表在类声明执行完之后不再改变。
type Class struct {
	Name       string
	Superclass *Class // 可为 nil
	Methods    map[string]*Function
}

// NewClass 创建类对象
func NewClass(name string, superclass *Class, methods map[string]*Function) *Class {
	if methods == nil {
		methods = make(map[string]*Function)
	}
	return &Class{Name: name, Superclass: superclass, Methods: methods}
}

// FindMethod 沿父类链查找方法
func (c *Class) FindMethod(name string) (*Function, bool) {
	for class := c; class != nil; class = class.Superclass {
		if m, ok := class.Methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// Arity 构造参数个数等于 init 方法的参数个数
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call 创建实例，存在 init 时以实例绑定后调用
func (c *Class) Call(in *Interpreter, args []Value) (Value, error) {
	inst := NewInstanceOf(c)
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.Bind(inst).Call(in, args); err != nil {
			return NilValue, err
		}
	}
	return NewInstance(inst), nil
}

func (c *Class) String() string {
	return c.Name
}

// Instance 类的实例
//
// 字段在第一次赋值时创建，不需要在类中声明。
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

// NewInstanceOf 创建类的新实例
func NewInstanceOf(class *Class) *Instance {
	return &Instance{
		Class:  class,
		Fields: make(map[string]Value),
	}
}

// Get 读取属性：先查字段，再查方法（返回绑定到本实例的方法）
func (i *Instance) Get(name string) (Value, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if m, ok := i.Class.FindMethod(name); ok {
		return NewCallable(m.Bind(i)), true
	}
	return NilValue, false
}

// Set 写入字段
func (i *Instance) Set(name string, value Value) {
	i.Fields[name] = value
}

func (i *Instance) String() string {
	return i.Class.Name + " instance"
}
