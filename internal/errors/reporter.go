package errors

import (
	"fmt"
	"io"
	"os"
)

// ============================================================================
// 错误报告器
// ============================================================================

// Reporter 把诊断写到输出流，并缓存源码用于摘录
type Reporter struct {
	out         io.Writer
	formatter   *Formatter
	sourceCache map[string][]string
	errors      int
	warnings    int
}

// NewReporter 创建错误报告器
func NewReporter(out io.Writer, f *Formatter) *Reporter {
	if f == nil {
		f = NewFormatter()
	}
	return &Reporter{
		out:         out,
		formatter:   f,
		sourceCache: make(map[string][]string),
	}
}

// LoadSource 从磁盘加载源文件
func (r *Reporter) LoadSource(filename string) error {
	if _, ok := r.sourceCache[filename]; ok {
		return nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("load source %s: %w", filename, err)
	}
	r.SetSource(filename, string(data))
	return nil
}

// SetSource 设置源代码（REPL 和内存中的源代码）
func (r *Reporter) SetSource(filename, content string) {
	r.sourceCache[filename] = SplitLines(content)
}

// Report 输出一组诊断
func (r *Reporter) Report(ds Diagnostics) {
	for i, d := range ds {
		if i > 0 && r.formatter.ShowSource {
			fmt.Fprintln(r.out)
		}
		fmt.Fprintln(r.out, r.formatter.Format(d, r.sourceCache[d.Filename]))
		if d.IsError() {
			r.errors++
		} else {
			r.warnings++
		}
	}
}

// HasErrors 是否报告过错误
func (r *Reporter) HasErrors() bool {
	return r.errors > 0
}

// ErrorCount 已报告的错误数量
func (r *Reporter) ErrorCount() int {
	return r.errors
}

// WarningCount 已报告的警告数量
func (r *Reporter) WarningCount() int {
	return r.warnings
}

// Clear 清空计数（REPL 每行之后调用）
func (r *Reporter) Clear() {
	r.errors = 0
	r.warnings = 0
}
