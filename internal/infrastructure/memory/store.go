// Package memory implementa los puertos de persistencia sobre mapas en
// proceso, protegidos por un mutex compartido. Lo usan las pruebas de los
// casos de uso y sirve para demos sin PostgreSQL. El TxRunner de este paquete
// no tiene rollback: una función que muta y luego falla deja la mutación
// hecha, así que las pruebas cubren caminos donde la validación ocurre antes
// de la primera escritura, igual que hacen los casos de uso.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/electro-api/internal/application/inventory"
	"github.com/jhoicas/electro-api/internal/domain"
	"github.com/jhoicas/electro-api/internal/domain/entity"
	"github.com/jhoicas/electro-api/internal/domain/repository"
)

// movRow conserva el orden de inserción del libro: ListByVariant y
// ListByDocument devuelven los movimientos por fecha de creación ascendente,
// y seq desempata cuando dos filas comparten el mismo instante.
type movRow struct {
	seq int64
	m   entity.Movement
}

// Store es el estado compartido de todos los repositorios en memoria.
type Store struct {
	mu  sync.Mutex
	seq int64

	users    map[string]entity.User
	products map[string]entity.Product
	variants map[string]entity.Variant
	movs     map[string]movRow
	dockets  map[string]entity.Docket
	pos      map[string]entity.PurchaseOrder
	orders   map[string]entity.Order
	lines    []entity.OrderLine
	waybills map[string]entity.Waybill

	// FailOrderCreate, si no es nil, hace fallar Orders().Create con ese
	// error; las pruebas lo usan para forzar la compensación del checkout.
	FailOrderCreate error
}

// NewStore crea un estado vacío.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]entity.User),
		products: make(map[string]entity.Product),
		variants: make(map[string]entity.Variant),
		movs:     make(map[string]movRow),
		dockets:  make(map[string]entity.Docket),
		pos:      make(map[string]entity.PurchaseOrder),
		orders:   make(map[string]entity.Order),
		waybills: make(map[string]entity.Waybill),
	}
}

// Accesores de repositorios; todos comparten el mutex del Store.

func (s *Store) Users() repository.UserRepository                   { return userRepo{s} }
func (s *Store) Products() repository.ProductRepository             { return productRepo{s} }
func (s *Store) Variants() repository.VariantRepository             { return variantRepo{s} }
func (s *Store) Movements() repository.MovementRepository           { return movementRepo{s} }
func (s *Store) Dockets() repository.DocketRepository               { return docketRepo{s} }
func (s *Store) PurchaseOrders() repository.PurchaseOrderRepository { return purchaseOrderRepo{s} }
func (s *Store) Orders() repository.OrderRepository                 { return orderRepo{s} }
func (s *Store) Waybills() repository.WaybillRepository             { return waybillRepo{s} }

// TxRunner implementa inventory.TxRunner sobre el Store.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repositorios sobre el mismo Store. Sin rollback.
func (t *TxRunner) Run(ctx context.Context, fn func(r inventory.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(inventory.TxRepos{
		Movements:      t.s.Movements(),
		Dockets:        t.s.Dockets(),
		PurchaseOrders: t.s.PurchaseOrders(),
		Orders:         t.s.Orders(),
		Waybills:       t.s.Waybills(),
	})
}

// ─── Movements ───────────────────────────────────────────────────────────────

type movementRepo struct{ s *Store }

func (r movementRepo) Create(m *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movs[m.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.seq++
	r.s.movs[m.ID] = movRow{seq: r.s.seq, m: *m}
	return nil
}

func (r movementRepo) GetByID(id string) (*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.movs[id]
	if !ok {
		return nil, nil
	}
	m := row.m
	return &m, nil
}

func (r movementRepo) GetByIDForUpdate(id string) (*entity.Movement, error) {
	return r.GetByID(id)
}

func (r movementRepo) ListByVariant(variantID string) ([]entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(m entity.Movement) bool { return m.VariantID == variantID }), nil
}

func (r movementRepo) ListByDocument(documentID string) ([]entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(m entity.Movement) bool { return m.DocumentID == documentID }), nil
}

// collect asume el mutex tomado.
func (r movementRepo) collect(match func(entity.Movement) bool) []entity.Movement {
	rows := make([]movRow, 0)
	for _, row := range r.s.movs {
		if match(row.m) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]entity.Movement, len(rows))
	for i, row := range rows {
		out[i] = row.m
	}
	return out
}

func (r movementRepo) UpdateStatus(id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.movs[id]
	if !ok {
		return domain.ErrNotFound
	}
	row.m.Status = status
	row.m.UpdatedAt = time.Now()
	r.s.movs[id] = row
	return nil
}

func (r movementRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.movs, id)
	return nil
}

// ─── Dockets ─────────────────────────────────────────────────────────────────

type docketRepo struct{ s *Store }

func (r docketRepo) Create(d *entity.Docket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.dockets[d.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.dockets[d.ID] = *d
	return nil
}

func (r docketRepo) GetByID(id string) (*entity.Docket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.dockets[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r docketRepo) GetByIDForUpdate(id string) (*entity.Docket, error) {
	return r.GetByID(id)
}

func (r docketRepo) UpdateStatus(id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.dockets[id]
	if !ok {
		return domain.ErrNotFound
	}
	d.Status = status
	d.UpdatedAt = time.Now()
	r.s.dockets[id] = d
	return nil
}

func (r docketRepo) List(limit, offset int) ([]*entity.Docket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]entity.Docket, 0, len(r.s.dockets))
	for _, d := range r.s.dockets {
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return pageOf(all, limit, offset), nil
}

func (r docketRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.dockets, id)
	return nil
}

// ─── Purchase orders ─────────────────────────────────────────────────────────

type purchaseOrderRepo struct{ s *Store }

func (r purchaseOrderRepo) Create(po *entity.PurchaseOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.pos[po.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.pos[po.ID] = *po
	return nil
}

func (r purchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	po, ok := r.s.pos[id]
	if !ok {
		return nil, nil
	}
	return &po, nil
}

func (r purchaseOrderRepo) GetByIDForUpdate(id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(id)
}

func (r purchaseOrderRepo) UpdateStatus(id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	po, ok := r.s.pos[id]
	if !ok {
		return domain.ErrNotFound
	}
	po.Status = status
	po.UpdatedAt = time.Now()
	r.s.pos[id] = po
	return nil
}

func (r purchaseOrderRepo) List(limit, offset int) ([]*entity.PurchaseOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]entity.PurchaseOrder, 0, len(r.s.pos))
	for _, po := range r.s.pos {
		all = append(all, po)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return pageOf(all, limit, offset), nil
}

// ─── Orders ──────────────────────────────────────────────────────────────────

type orderRepo struct{ s *Store }

func (r orderRepo) Create(o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailOrderCreate != nil {
		return r.s.FailOrderCreate
	}
	if _, ok := r.s.orders[o.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.orders[o.ID] = *o
	return nil
}

func (r orderRepo) CreateLine(line *entity.OrderLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lines = append(r.s.lines, *line)
	return nil
}

func (r orderRepo) GetByID(id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r orderRepo) GetByIDForUpdate(id string) (*entity.Order, error) {
	return r.GetByID(id)
}

func (r orderRepo) ListLines(orderID string) ([]entity.OrderLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.OrderLine, 0)
	for _, ln := range r.s.lines {
		if ln.OrderID == orderID {
			out = append(out, ln)
		}
	}
	return out, nil
}

func (r orderRepo) UpdateStatus(id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	r.s.orders[id] = o
	return nil
}

func (r orderRepo) ListByUser(userID string, limit, offset int) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]entity.Order, 0)
	for _, o := range r.s.orders {
		if o.UserID == userID {
			all = append(all, o)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return pageOf(all, limit, offset), nil
}

// ─── Waybills ────────────────────────────────────────────────────────────────

type waybillRepo struct{ s *Store }

func (r waybillRepo) Create(w *entity.Waybill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.waybills {
		if existing.TrackingCode == w.TrackingCode {
			return domain.ErrDuplicate
		}
	}
	r.s.waybills[w.ID] = *w
	return nil
}

func (r waybillRepo) GetByTrackingCode(code string) (*entity.Waybill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range r.s.waybills {
		if w.TrackingCode == code {
			out := w
			return &out, nil
		}
	}
	return nil, nil
}

func (r waybillRepo) GetByOrderID(orderID string) (*entity.Waybill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range r.s.waybills {
		if w.OrderID == orderID {
			out := w
			return &out, nil
		}
	}
	return nil, nil
}

func (r waybillRepo) UpdateStatus(id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.waybills[id]
	if !ok {
		return domain.ErrNotFound
	}
	w.Status = status
	w.UpdatedAt = time.Now()
	r.s.waybills[id] = w
	return nil
}

// ─── Variants ────────────────────────────────────────────────────────────────

type variantRepo struct{ s *Store }

func (r variantRepo) Create(v *entity.Variant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.variants {
		if existing.ProductID == v.ProductID && existing.SKU == v.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.variants[v.ID] = *v
	return nil
}

func (r variantRepo) GetByID(id string) (*entity.Variant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.variants[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r variantRepo) GetByProductAndSKU(productID, sku string) (*entity.Variant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.variants {
		if v.ProductID == productID && v.SKU == sku {
			out := v
			return &out, nil
		}
	}
	return nil, nil
}

func (r variantRepo) Update(v *entity.Variant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.variants[v.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.variants[v.ID] = *v
	return nil
}

func (r variantRepo) ListByProduct(productID string) ([]*entity.Variant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]entity.Variant, 0)
	for _, v := range r.s.variants {
		if v.ProductID == productID {
			all = append(all, v)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SKU < all[j].SKU })
	out := make([]*entity.Variant, len(all))
	for i := range all {
		out[i] = &all[i]
	}
	return out, nil
}

// ─── Products ────────────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

func (r productRepo) Create(p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.products {
		if existing.Slug == p.Slug {
			return domain.ErrDuplicate
		}
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r productRepo) GetByID(id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) GetBySlug(slug string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.Slug == slug {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

func (r productRepo) Update(p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r productRepo) List(term string, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]entity.Product, 0)
	for _, p := range r.s.products {
		if term == "" || strings.Contains(strings.ToLower(p.Name), term) {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return pageOf(all, limit, offset), nil
}

func (r productRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

// ─── Users ───────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r userRepo) Create(u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) FindByEmail(email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (r userRepo) Update(u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.users[u.ID] = *u
	return nil
}

// pageOf aplica limit/offset sobre una lista ya ordenada y la devuelve como
// punteros, que es lo que exponen los puertos de listado.
func pageOf[T any](all []T, limit, offset int) []*T {
	if offset >= len(all) {
		return []*T{}
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	page := all[offset:end]
	out := make([]*T, len(page))
	for i := range page {
		out[i] = &page[i]
	}
	return out
}
