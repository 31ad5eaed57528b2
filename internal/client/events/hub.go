package events

import "sync"

// Hub рассылает process-wide уведомление о принудительном logout.
// HTTP клиент публикует событие когда refresh невозможен, session store
// и UI подписываются — прямой ссылки клиента на store не требуется.
type Hub struct {
	mu     sync.Mutex
	subs   map[int]func()
	nextID int
}

// NewHub creates a new notification hub
func NewHub() *Hub {
	return &Hub{
		subs: make(map[int]func()),
	}
}

// Subscribe регистрирует обработчик и возвращает функцию отписки.
// Отписка идемпотентна.
func (h *Hub) Subscribe(fn func()) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.subs[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// Publish синхронно вызывает всех подписчиков.
// Порядок вызова не гарантируется.
func (h *Hub) Publish() {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	// Вызываем без удержания mutex, чтобы подписчик мог отписаться
	for _, fn := range fns {
		fn()
	}
}
