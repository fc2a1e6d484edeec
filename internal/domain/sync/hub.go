package sync

import (
	gosync "sync"

	"lemonpunch/internal/domain/record"
)

const subscriberBuffer = 16

type subscriber struct {
	ch chan Event
}

// Hub - внутрипроцессная рассылка событий подписчикам одного владельца.
type Hub struct {
	mu     gosync.RWMutex
	subs   map[record.SessionID]map[*subscriber]struct{}
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[record.SessionID]map[*subscriber]struct{})}
}

// Subscribe регистрирует подписчика. Возвращаемая функция отписывает его и
// закрывает канал; вызывать ее можно несколько раз.
func (h *Hub) Subscribe(owner record.SessionID) (<-chan Event, func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, nil, ErrHubClosed
	}

	sub := &subscriber{ch: make(chan Event, subscriberBuffer)}
	set, ok := h.subs[owner]
	if !ok {
		set = make(map[*subscriber]struct{})
		h.subs[owner] = set
	}
	set[sub] = struct{}{}

	var once gosync.Once
	cancel := func() {
		once.Do(func() { h.remove(owner, sub) })
	}
	return sub.ch, cancel, nil
}

func (h *Hub) remove(owner record.SessionID, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[owner]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, owner)
	}
	close(sub.ch)
}

// Publish доставляет событие всем подписчикам владельца и возвращает их число.
// Если буфер подписчика полон, событие ему не отправляется: в буфере уже есть
// сигнал, по которому он перечитает данные.
func (h *Hub) Publish(ev Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for sub := range h.subs[ev.Owner] {
		select {
		case sub.ch <- ev:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribers возвращает число активных подписок владельца.
func (h *Hub) Subscribers(owner record.SessionID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[owner])
}

// Close закрывает все подписки. Последующие Subscribe возвращают ErrHubClosed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for owner, set := range h.subs {
		for sub := range set {
			close(sub.ch)
		}
		delete(h.subs, owner)
	}
}
