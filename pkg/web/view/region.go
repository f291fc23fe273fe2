package view

import "sync"

// Ticket 一次加载的序号，只有最新签发的序号可以写入区域
type Ticket uint64

// Region 页面上一块整体替换的内容区域
type Region[T any] struct {
	mu      sync.Mutex
	issued  Ticket
	content T

	// OnRender 每次成功写入后调用，测试用来观察状态变化
	OnRender func(T)
}

// Begin 签发新的序号，之前签发的序号随之失效
func (r *Region[T]) Begin() Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.issued++
	return r.issued
}

// Render 整体替换内容；序号过期时丢弃并返回 false
func (r *Region[T]) Render(t Ticket, content T) bool {
	r.mu.Lock()
	if t != r.issued {
		r.mu.Unlock()
		return false
	}
	r.content = content
	hook := r.OnRender
	r.mu.Unlock()

	if hook != nil {
		hook(content)
	}
	return true
}

func (r *Region[T]) Content() T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.content
}
