package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"productsync/internal/domain/event"
	"productsync/internal/domain/product"
	"productsync/internal/domain/replica"
)

type memProductRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*product.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{nextID: 1, rows: make(map[int64]*product.Product)}
}

func (m *memProductRepo) List(ctx context.Context) ([]product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]product.Product, 0, len(m.rows))
	for _, p := range m.rows {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memProductRepo) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProductRepo) Create(ctx context.Context, p *product.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextID
	m.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.rows[p.ID] = &cp
	return nil
}

func (m *memProductRepo) Update(ctx context.Context, id int64, title, image string) (*product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	p.Title = title
	p.Image = image
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (m *memProductRepo) Delete(ctx context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return 0, nil
	}
	delete(m.rows, id)
	return 1, nil
}

func (m *memProductRepo) IncrementLikes(ctx context.Context, id int64) (*product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	p.Likes++
	cp := *p
	return &cp, nil
}

func (m *memProductRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type capturedMsg struct {
	queue string
	body  []byte
}

// capturePublisher records publishes and optionally fails them all.
type capturePublisher struct {
	mu   sync.Mutex
	msgs []capturedMsg
	err  error
}

func (p *capturePublisher) Publish(ctx context.Context, queue string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, capturedMsg{queue: queue, body: body})
	return nil
}

func (p *capturePublisher) published() []capturedMsg {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]capturedMsg(nil), p.msgs...)
}

var _ event.Publisher = (*capturePublisher)(nil)

type memReplicaRepo struct {
	mu   sync.Mutex
	rows map[string]*replica.Replica
}

func newMemReplicaRepo() *memReplicaRepo {
	return &memReplicaRepo{rows: make(map[string]*replica.Replica)}
}

func (m *memReplicaRepo) List(ctx context.Context) ([]replica.Replica, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]replica.Replica, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, *r)
	}
	return out, nil
}

func (m *memReplicaRepo) GetByID(ctx context.Context, id string) (*replica.Replica, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, replica.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memReplicaRepo) Upsert(ctx context.Context, rep *replica.Replica) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.AdminID == rep.AdminID {
			r.Title = rep.Title
			r.Image = rep.Image
			r.Likes = rep.Likes
			return nil
		}
	}
	cp := *rep
	m.rows[rep.ID] = &cp
	return nil
}

func (m *memReplicaRepo) UpdateByAdminID(ctx context.Context, adminID int64, title, image string, likes int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.AdminID == adminID {
			r.Title = title
			r.Image = image
			r.Likes = likes
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memReplicaRepo) DeleteByAdminID(ctx context.Context, adminID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.rows {
		if r.AdminID == adminID {
			delete(m.rows, id)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *memReplicaRepo) IncrementLikes(ctx context.Context, id string) (*replica.Replica, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return nil, replica.ErrNotFound
	}
	r.Likes++
	cp := *r
	return &cp, nil
}

func (m *memReplicaRepo) likes(id string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id].Likes
}

// fakeAdminGateway records calls to the admin like endpoint and optionally
// fails them.
type fakeAdminGateway struct {
	mu    sync.Mutex
	calls []int64
	err   error
}

func (g *fakeAdminGateway) LikeProduct(ctx context.Context, adminID int64) (*event.ProductChange, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	g.calls = append(g.calls, adminID)
	return &event.ProductChange{ID: adminID, Likes: 1}, nil
}

var errRemoteDown = errors.New("admin service unreachable")
