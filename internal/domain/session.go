package domain

// Exchange is one user message and the assistant reply it produced.
type Exchange struct {
	UserMessage      string `json:"user_message"`
	AssistantMessage string `json:"assistant_message"`
}

// Session is the bounded per-conversation state: history, the products the
// customer has already seen, and the cart.
type Session struct {
	ID            SessionID
	Exchanges     []Exchange
	KnownProducts KnownProducts
	Cart          []CartLine
	CreatedAt     Timestamp
	LastActive    Timestamp
}

// NewSession returns an empty session.
func NewSession(id SessionID, now Timestamp) *Session {
	return &Session{
		ID:         id,
		CreatedAt:  now,
		LastActive: now,
	}
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() Session {
	out := *s
	out.Exchanges = append([]Exchange(nil), s.Exchanges...)
	out.Cart = append([]CartLine(nil), s.Cart...)
	out.KnownProducts = s.KnownProducts.clone()
	return out
}

// CartLineIndex returns the index of the cart line for productID, or -1.
func (s *Session) CartLineIndex(productID string) int {
	for i, line := range s.Cart {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

// KnownProducts is an insertion-ordered map of product ID to KnownProduct.
// The zero value is ready to use.
type KnownProducts struct {
	order []string
	items map[string]KnownProduct
}

// Put inserts or replaces p. A replaced entry keeps its original position.
func (k *KnownProducts) Put(p KnownProduct) {
	if k.items == nil {
		k.items = make(map[string]KnownProduct)
	}
	if _, ok := k.items[p.ID]; !ok {
		k.order = append(k.order, p.ID)
	}
	k.items[p.ID] = p
}

// Get returns the entry for id.
func (k *KnownProducts) Get(id string) (KnownProduct, bool) {
	p, ok := k.items[id]
	return p, ok
}

// Len returns the number of entries.
func (k *KnownProducts) Len() int {
	return len(k.order)
}

// Values returns the entries in insertion order.
func (k *KnownProducts) Values() []KnownProduct {
	out := make([]KnownProduct, 0, len(k.order))
	for _, id := range k.order {
		out = append(out, k.items[id])
	}
	return out
}

// TrimOldest drops the oldest entries until at most limit remain.
func (k *KnownProducts) TrimOldest(limit int) {
	if limit < 0 {
		limit = 0
	}
	for len(k.order) > limit {
		delete(k.items, k.order[0])
		k.order = k.order[1:]
	}
}

func (k *KnownProducts) clone() KnownProducts {
	out := KnownProducts{
		order: append([]string(nil), k.order...),
		items: make(map[string]KnownProduct, len(k.items)),
	}
	for id, p := range k.items {
		out.items[id] = p
	}
	return out
}
