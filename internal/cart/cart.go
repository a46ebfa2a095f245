// Package cart implements the session cart: an insertion-ordered list of line
// items persisted as one record per session through a storage.Port.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/storage"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// KeyPrefix namespaces cart records in the storage port.
const KeyPrefix = "cart:"

// CheckoutMessage is returned to the shopper after a successful checkout.
const CheckoutMessage = "Thank you for your purchase!"

// Key returns the storage key of the cart belonging to session.
func Key(session string) string {
	return KeyPrefix + session
}

// Store reads and mutates carts. Every mutation is a full read-modify-write of
// the persisted record; concurrent writers from other processes are
// last-write-wins.
type Store struct {
	port      storage.Port
	logger    *slog.Logger
	listeners []Listener

	// mu serialises read-modify-write cycles within this process.
	mu sync.Mutex
}

// NewStore creates a Store persisting through port.
func NewStore(port storage.Port, logger *slog.Logger, listeners ...Listener) *Store {
	return &Store{
		port:      port,
		logger:    logger,
		listeners: listeners,
	}
}

// Subscribe registers l to be notified after every mutation.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Cart returns the persisted cart for session. An absent, unreadable or
// corrupted record reads as an empty cart.
func (s *Store) Cart(ctx context.Context, session string) domain.Cart {
	cart, err := s.load(ctx, session)
	if err != nil {
		s.logger.WarnContext(ctx, "cart read failed, treating as empty",
			slog.String("session_id", session),
			slog.String("error", err.Error()),
		)
		return domain.Cart{Items: []domain.LineItem{}}
	}
	return cart
}

// Items returns the line items of the session cart in insertion order.
func (s *Store) Items(ctx context.Context, session string) []domain.LineItem {
	return s.Cart(ctx, session).Items
}

// ItemCount returns the total quantity across the session cart.
func (s *Store) ItemCount(ctx context.Context, session string) int {
	return s.Cart(ctx, session).ItemCount()
}

// Badge returns the header badge state for the session cart.
func (s *Store) Badge(ctx context.Context, session string) domain.Badge {
	return domain.NewBadge(s.ItemCount(ctx, session))
}

// Summary returns the cart page totals for the session cart.
func (s *Store) Summary(ctx context.Context, session string) domain.Summary {
	return s.Cart(ctx, session).Summary()
}

// Add puts quantity units of product into the cart. An existing line item for
// the same product id keeps its position and has its quantity increased; a new
// one is appended with name, price and image captured from product.
func (s *Store) Add(ctx context.Context, session string, product domain.Product, quantity int) (domain.Cart, error) {
	if product.ID == "" {
		return domain.Cart{}, apperrors.InvalidInput("product id is required")
	}
	if quantity <= 0 {
		return domain.Cart{}, apperrors.InvalidInput("quantity must be greater than 0")
	}

	return s.mutate(ctx, session, ChangeUpdated, func(cart *domain.Cart) bool {
		if idx := cart.FindItemIndex(product.ID); idx >= 0 {
			cart.Items[idx].Quantity += quantity
			return true
		}
		cart.Items = append(cart.Items, domain.NewLineItem(product, quantity))
		return true
	})
}

// SetQuantity overwrites the quantity of the line item with the given id.
// A quantity of zero or less removes the item. Unknown ids are ignored.
func (s *Store) SetQuantity(ctx context.Context, session, id string, quantity int) (domain.Cart, error) {
	return s.mutate(ctx, session, ChangeUpdated, func(cart *domain.Cart) bool {
		idx := cart.FindItemIndex(id)
		if idx < 0 {
			return false
		}
		if quantity <= 0 {
			cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
			return true
		}
		cart.Items[idx].Quantity = quantity
		return true
	})
}

// Remove deletes the line item with the given id.
func (s *Store) Remove(ctx context.Context, session, id string) (domain.Cart, error) {
	return s.SetQuantity(ctx, session, id, 0)
}

// Clear empties the cart and erases its persisted record.
func (s *Store) Clear(ctx context.Context, session string) error {
	return s.clear(ctx, session, ChangeCleared)
}

// Receipt is the outcome of a checkout.
type Receipt struct {
	Message string         `json:"message"`
	Summary domain.Summary `json:"summary"`
}

// Checkout empties the cart the same way Clear does. No order is recorded;
// the receipt echoes the totals the shopper saw.
func (s *Store) Checkout(ctx context.Context, session string) (Receipt, error) {
	summary := s.Summary(ctx, session)
	if err := s.clear(ctx, session, ChangeCheckedOut); err != nil {
		return Receipt{}, err
	}
	return Receipt{Message: CheckoutMessage, Summary: summary}, nil
}

func (s *Store) clear(ctx context.Context, session string, kind ChangeKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.port.Remove(ctx, Key(session)); err != nil {
		return fmt.Errorf("remove cart: %w", err)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", session),
		slog.String("kind", string(kind)),
	)
	s.notify(ctx, Change{Kind: kind, Session: session, Cart: domain.Cart{Items: []domain.LineItem{}}})
	return nil
}

// mutate loads the cart, applies fn and persists the result when fn reports a
// change. Decode failures start from an empty cart; storage failures abort
// without writing.
func (s *Store) mutate(ctx context.Context, session string, kind ChangeKind, fn func(*domain.Cart) bool) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.load(ctx, session)
	if err != nil {
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			return domain.Cart{}, fmt.Errorf("load cart: %w", err)
		}
		s.logger.WarnContext(ctx, "discarding corrupted cart record",
			slog.String("session_id", session),
			slog.String("error", err.Error()),
		)
		cart = domain.Cart{Items: []domain.LineItem{}}
	}

	if !fn(&cart) {
		return cart, nil
	}

	if err := s.save(ctx, session, cart); err != nil {
		return domain.Cart{}, err
	}

	s.logger.DebugContext(ctx, "cart updated",
		slog.String("session_id", session),
		slog.Int("line_items", len(cart.Items)),
		slog.Int("item_count", cart.ItemCount()),
	)
	s.notify(ctx, Change{Kind: kind, Session: session, Cart: cart})
	return cart, nil
}

// load reads the session record. An absent record is an empty cart; a record
// that cannot be decoded yields a *DecodeError.
func (s *Store) load(ctx context.Context, session string) (domain.Cart, error) {
	data, err := s.port.Read(ctx, Key(session))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Cart{Items: []domain.LineItem{}}, nil
		}
		return domain.Cart{}, fmt.Errorf("read cart: %w", err)
	}

	items, err := Decode(data)
	if err != nil {
		return domain.Cart{}, err
	}
	return domain.Cart{Items: items}, nil
}

func (s *Store) save(ctx context.Context, session string, cart domain.Cart) error {
	data, err := Encode(cart.Items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.port.Write(ctx, Key(session), data); err != nil {
		return fmt.Errorf("write cart: %w", err)
	}
	return nil
}

func (s *Store) notify(ctx context.Context, change Change) {
	for _, l := range s.listeners {
		if err := l.OnCartChange(ctx, change); err != nil {
			s.logger.ErrorContext(ctx, "cart listener failed",
				slog.String("session_id", change.Session),
				slog.String("kind", string(change.Kind)),
				slog.String("error", err.Error()),
			)
		}
	}
}

// DecodeError reports a persisted cart record that is not a valid item list.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode cart: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Encode serializes line items as a JSON array.
func Encode(items []domain.LineItem) ([]byte, error) {
	if items == nil {
		items = []domain.LineItem{}
	}
	return json.Marshal(items)
}

// Decode parses a persisted record. Items without an id or with a
// non-positive quantity are dropped, and repeated ids are merged into the
// first occurrence.
func Decode(data []byte) ([]domain.LineItem, error) {
	var raw []domain.LineItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Err: err}
	}

	items := make([]domain.LineItem, 0, len(raw))
	index := make(map[string]int, len(raw))
	for _, item := range raw {
		if item.ID == "" || item.Quantity <= 0 {
			continue
		}
		if i, ok := index[item.ID]; ok {
			items[i].Quantity += item.Quantity
			continue
		}
		index[item.ID] = len(items)
		items = append(items, item)
	}
	return items, nil
}
