package controllers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"orders-api/models"
	"orders-api/repository"
)

// memStore mimics the MySQL store: caller-chosen order ids, auto-increment
// item ids and all-or-nothing multi-row writes.
type memStore struct {
	mu         sync.Mutex
	orders     map[int]models.Order
	items      map[int]models.OrderItem
	nextItemID int
	failWith   error
}

func newMemStore() *memStore {
	return &memStore{
		orders:     map[int]models.Order{},
		items:      map[int]models.OrderItem{},
		nextItemID: 1,
	}
}

type memOrders struct{ *memStore }

type memOrderItems struct{ *memStore }

func (s memOrders) List(ctx context.Context, limit int) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	ids := make([]int, 0, len(s.orders))
	for id := range s.orders {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := []models.Order{}
	for _, id := range ids {
		if len(out) == limit {
			break
		}
		o := s.orders[id]
		o.Items = nil
		out = append(out, o)
	}
	return out, nil
}

func (s memOrders) Create(ctx context.Context, order models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	if _, exists := s.orders[order.OrderID]; exists {
		return fmt.Errorf("insert order %d: %w: Duplicate entry", order.OrderID, repository.ErrConflict)
	}
	header := order
	header.Items = nil
	s.orders[order.OrderID] = header
	for _, it := range order.Items {
		it.OrderItemID = s.nextItemID
		s.nextItemID++
		s.items[it.OrderItemID] = it
	}
	return nil
}

func (s memOrders) Get(ctx context.Context, orderID int) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return models.Order{}, fmt.Errorf("order %d: %w", orderID, repository.ErrNotFound)
	}
	o.Items = []models.OrderItem{}
	for _, it := range s.sortedItems() {
		if it.OrderID != nil && *it.OrderID == orderID {
			o.Items = append(o.Items, it)
		}
	}
	return o, nil
}

func (s memOrders) Update(ctx context.Context, order models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.orders[order.OrderID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.CustomerID = order.CustomerID
	existing.OrderStatus = order.OrderStatus
	existing.PaymentStatus = order.PaymentStatus
	existing.OrderTotal = order.OrderTotal
	s.orders[order.OrderID] = existing
	return nil
}

func (s memOrders) Delete(ctx context.Context, orderID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[orderID]; !ok {
		return repository.ErrNotFound
	}
	for id, it := range s.items {
		if it.OrderID != nil && *it.OrderID == orderID {
			delete(s.items, id)
		}
	}
	delete(s.orders, orderID)
	return nil
}

func (s memOrderItems) List(ctx context.Context, limit int) ([]models.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	items := s.sortedItems()
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s memOrderItems) Get(ctx context.Context, orderItemID int) (models.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[orderItemID]
	if !ok {
		return models.OrderItem{}, repository.ErrNotFound
	}
	return it, nil
}

func (s memOrderItems) Create(ctx context.Context, item models.OrderItem) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return 0, s.failWith
	}
	if item.OrderID != nil {
		if _, ok := s.orders[*item.OrderID]; !ok {
			return 0, fmt.Errorf("%w: Cannot add or update a child row", repository.ErrConflict)
		}
	}
	item.OrderItemID = s.nextItemID
	s.nextItemID++
	s.items[item.OrderItemID] = item
	return item.OrderItemID, nil
}

func (s memOrderItems) Update(ctx context.Context, item models.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.OrderItemID]; !ok {
		return repository.ErrNotFound
	}
	s.items[item.OrderItemID] = item
	return nil
}

func (s memOrderItems) Delete(ctx context.Context, orderItemID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[orderItemID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.items, orderItemID)
	return nil
}

func (s *memStore) sortedItems() []models.OrderItem {
	out := make([]models.OrderItem, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderItemID < out[j].OrderItemID })
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.OrderEvent
	err    error
}

func (p *recordingPublisher) PublishOrderEvent(ctx context.Context, event models.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

var errStorageDown = errors.New("dial tcp 127.0.0.1:3306: connect: connection refused")
