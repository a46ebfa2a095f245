package cart

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/storage/memory"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
)

// ============================================================================
// Mock Port
// ============================================================================

type mockPort struct {
	mock.Mock
}

func (m *mockPort) Read(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockPort) Write(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

func (m *mockPort) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// ============================================================================
// Helpers
// ============================================================================

const session = "sess-1"

func newTestStore(listeners ...Listener) (*Store, *memory.Store) {
	port := memory.New()
	return NewStore(port, logger.Discard(), listeners...), port
}

func product(id string, price int64) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    decimal.NewFromInt(price),
		ImageURL: id + ".jpg",
	}
}

func ids(items []domain.LineItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

// ============================================================================
// Read Tests
// ============================================================================

func TestStore_Cart_EmptyWhenAbsent(t *testing.T) {
	store, _ := newTestStore()

	cart := store.Cart(context.Background(), session)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, store.ItemCount(context.Background(), session))
}

func TestStore_Cart_EmptyWhenCorrupted(t *testing.T) {
	inputs := []string{
		"",
		"not json",
		"{",
		`{"id":"p1"}`,
		`"a string"`,
		`42`,
		`[{"id":"p1","price":"abc","quantity":1}]`,
		`[{"id":"p1","quantity":"two"}]`,
	}

	for _, raw := range inputs {
		t.Run(fmt.Sprintf("%q", raw), func(t *testing.T) {
			store, port := newTestStore()
			require.NoError(t, port.Write(context.Background(), Key(session), []byte(raw)))

			assert.Empty(t, store.Items(context.Background(), session))
		})
	}
}

func TestStore_Cart_EmptyForRandomBytes(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		buf := make([]byte, rng.IntN(32))
		for j := range buf {
			buf[j] = byte(rng.IntN(256))
		}
		// Ensure the blob is never a valid JSON array.
		buf = append([]byte{'#'}, buf...)

		store, port := newTestStore()
		require.NoError(t, port.Write(context.Background(), Key(session), buf))
		assert.Empty(t, store.Items(context.Background(), session))
	}
}

func TestStore_Cart_EmptyWhenPortFails(t *testing.T) {
	port := new(mockPort)
	port.On("Read", mock.Anything, Key(session)).Return(nil, errors.New("connection refused"))

	store := NewStore(port, logger.Discard())
	assert.Empty(t, store.Items(context.Background(), session))
	port.AssertExpectations(t)
}

func TestStore_Cart_DropsInvalidPersistedItems(t *testing.T) {
	store, port := newTestStore()
	raw := `[{"id":"p1","name":"A","price":10,"image":"a","quantity":2},
		{"id":"p2","quantity":0},
		{"id":"","quantity":3},
		{"id":"p1","quantity":1}]`
	require.NoError(t, port.Write(context.Background(), Key(session), []byte(raw)))

	items := store.Items(context.Background(), session)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, 3, items[0].Quantity)
}

// ============================================================================
// Add Tests
// ============================================================================

func TestStore_Add_MergesRepeatedIDs(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	p := domain.Product{ID: "p1", Name: "A", Price: decimal.NewFromInt(10), ImageURL: "x"}
	_, err := store.Add(ctx, session, p, 2)
	require.NoError(t, err)
	_, err = store.Add(ctx, session, p, 3)
	require.NoError(t, err)

	items := store.Items(ctx, session)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, "x", items[0].Image)
	assert.True(t, items[0].Price.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 5, store.ItemCount(ctx, session))
}

func TestStore_Add_MergeInvariantOverRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	catalog := []string{"a", "b", "c", "d", "e"}

	for round := 0; round < 20; round++ {
		ctx := context.Background()
		store, _ := newTestStore()
		want := map[string]int{}
		var order []string

		for i := 0; i < 30; i++ {
			id := catalog[rng.IntN(len(catalog))]
			qty := rng.IntN(4) + 1
			if _, seen := want[id]; !seen {
				order = append(order, id)
			}
			want[id] += qty
			_, err := store.Add(ctx, session, product(id, 5), qty)
			require.NoError(t, err)
		}

		items := store.Items(ctx, session)
		assert.Equal(t, order, ids(items), "insertion order preserved")
		for _, item := range items {
			assert.Equal(t, want[item.ID], item.Quantity)
		}
	}
}

func TestStore_Add_AppendsAndKeepsPosition(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	for _, id := range []string{"p1", "p2", "p3"} {
		_, err := store.Add(ctx, session, product(id, 1), 1)
		require.NoError(t, err)
	}
	cart, err := store.Add(ctx, session, product("p1", 1), 4)
	require.NoError(t, err)

	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(cart.Items))
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestStore_Add_KeepsCapturedPrice(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()

	_, err := store.Add(ctx, session, product("p1", 10), 1)
	require.NoError(t, err)
	cart, err := store.Add(ctx, session, product("p1", 99), 1)
	require.NoError(t, err)

	assert.True(t, cart.Items[0].Price.Equal(decimal.NewFromInt(10)))
}

func TestStore_Add_RejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	store, port := newTestStore()

	_, err := store.Add(ctx, session, product("p1", 1), 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = store.Add(ctx, session, domain.Product{}, 1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	assert.Equal(t, 0, port.Len())
}

func TestStore_Add_ReplacesCorruptedRecord(t *testing.T) {
	ctx := context.Background()
	store, port := newTestStore()
	require.NoError(t, port.Write(ctx, Key(session), []byte("garbage")))

	cart, err := store.Add(ctx, session, product("p1", 1), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, ids(cart.Items))

	raw, err := port.Read(ctx, Key(session))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"p1","name":"Product p1","price":"1","image":"p1.jpg","quantity":2}]`, string(raw))
}

func TestStore_Add_ReadFailureDoesNotWrite(t *testing.T) {
	port := new(mockPort)
	port.On("Read", mock.Anything, Key(session)).Return(nil, errors.New("timeout"))

	store := NewStore(port, logger.Discard())
	_, err := store.Add(context.Background(), session, product("p1", 1), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load cart")

	port.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
}

func TestStore_Add_WriteFailurePropagates(t *testing.T) {
	port := new(mockPort)
	port.On("Read", mock.Anything, Key(session)).Return(nil, apperrors.NotFound("record", Key(session)))
	port.On("Write", mock.Anything, Key(session), mock.Anything).Return(errors.New("disk full"))

	var notified bool
	store := NewStore(port, logger.Discard(), ListenerFunc(func(context.Context, Change) error {
		notified = true
		return nil
	}))

	_, err := store.Add(context.Background(), session, product("p1", 1), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write cart")
	assert.False(t, notified)
}

// ============================================================================
// SetQuantity / Remove Tests
// ============================================================================

func TestStore_SetQuantity_Overwrites(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	_, err := store.Add(ctx, session, product("p1", 1), 2)
	require.NoError(t, err)

	cart, err := store.SetQuantity(ctx, session, "p1", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, cart.Items[0].Quantity)
}

func TestStore_SetQuantity_NonPositiveRemoves(t *testing.T) {
	for _, q := range []int{0, -1, -100} {
		t.Run(fmt.Sprint(q), func(t *testing.T) {
			ctx := context.Background()
			store, _ := newTestStore()
			_, err := store.Add(ctx, session, product("p1", 1), 9)
			require.NoError(t, err)
			_, err = store.Add(ctx, session, product("p2", 1), 1)
			require.NoError(t, err)

			cart, err := store.SetQuantity(ctx, session, "p1", q)
			require.NoError(t, err)
			assert.Equal(t, -1, cart.FindItemIndex("p1"))
			assert.Equal(t, -1, domain.Cart{Items: store.Items(ctx, session)}.FindItemIndex("p1"))
		})
	}
}

func TestStore_SetQuantity_ScenarioRemovesFirstItem(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	_, err := store.Add(ctx, session, product("p1", 1), 2)
	require.NoError(t, err)
	_, err = store.Add(ctx, session, product("p2", 1), 1)
	require.NoError(t, err)

	_, err = store.SetQuantity(ctx, session, "p1", 0)
	require.NoError(t, err)

	items := store.Items(ctx, session)
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ID)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestStore_SetQuantity_UnknownIDIsNoop(t *testing.T) {
	port := new(mockPort)
	port.On("Read", mock.Anything, Key(session)).Return(nil, apperrors.NotFound("record", Key(session)))

	store := NewStore(port, logger.Discard())
	cart, err := store.SetQuantity(context.Background(), session, "ghost", 3)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	port.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	_, err := store.Add(ctx, session, product("p1", 1), 2)
	require.NoError(t, err)

	cart, err := store.Remove(ctx, session, "p1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

// ============================================================================
// Clear / Checkout Tests
// ============================================================================

func TestStore_Clear_ErasesRecord(t *testing.T) {
	ctx := context.Background()
	store, port := newTestStore()
	_, err := store.Add(ctx, session, product("p1", 1), 2)
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx, session))

	_, err = port.Read(ctx, Key(session))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, store.Items(ctx, session))
}

func TestStore_Checkout(t *testing.T) {
	ctx := context.Background()
	store, port := newTestStore()
	_, err := store.Add(ctx, session, product("p1", 100), 2)
	require.NoError(t, err)

	receipt, err := store.Checkout(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, CheckoutMessage, receipt.Message)
	assert.True(t, receipt.Summary.Total.Equal(decimal.NewFromInt(230)))
	assert.Equal(t, 0, port.Len())
}

func TestStore_Checkout_RemoveFailure(t *testing.T) {
	port := new(mockPort)
	port.On("Read", mock.Anything, Key(session)).Return(nil, apperrors.NotFound("record", Key(session)))
	port.On("Remove", mock.Anything, Key(session)).Return(errors.New("unreachable"))

	store := NewStore(port, logger.Discard())
	_, err := store.Checkout(context.Background(), session)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remove cart")
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	_, err := store.Add(ctx, "a", product("p1", 1), 1)
	require.NoError(t, err)

	assert.Empty(t, store.Items(ctx, "b"))
	assert.Equal(t, 1, store.ItemCount(ctx, "a"))
}

// ============================================================================
// Badge / Summary / Listener Tests
// ============================================================================

func TestStore_Badge(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	assert.Equal(t, domain.NewBadge(0), store.Badge(ctx, session))

	_, err := store.Add(ctx, session, product("p1", 1), 3)
	require.NoError(t, err)
	badge := store.Badge(ctx, session)
	assert.Equal(t, 3, badge.Count)
	assert.Equal(t, "flex", badge.Display)
}

func TestStore_Summary_Discount(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore()
	_, err := store.Add(ctx, session, product("p1", 1000), 3)
	require.NoError(t, err)

	s := store.Summary(ctx, session)
	assert.True(t, s.Subtotal.Equal(decimal.NewFromInt(3000)))
	assert.True(t, s.Discount.Equal(decimal.NewFromInt(300)))
	assert.True(t, s.Total.Equal(decimal.NewFromInt(2730)))
}

func TestStore_Listeners(t *testing.T) {
	ctx := context.Background()
	var changes []Change
	record := ListenerFunc(func(_ context.Context, c Change) error {
		changes = append(changes, c)
		return nil
	})
	failing := ListenerFunc(func(context.Context, Change) error {
		return errors.New("listener down")
	})

	store, _ := newTestStore(failing)
	store.Subscribe(record)

	_, err := store.Add(ctx, session, product("p1", 1), 2)
	require.NoError(t, err, "listener errors are not propagated")
	_, err = store.SetQuantity(ctx, session, "ghost", 1)
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx, session))

	require.Len(t, changes, 2)
	assert.Equal(t, ChangeUpdated, changes[0].Kind)
	assert.Equal(t, session, changes[0].Session)
	assert.Equal(t, 2, changes[0].Badge().Count)
	assert.Equal(t, ChangeCleared, changes[1].Kind)
	assert.Equal(t, "none", changes[1].Badge().Display)
}

func TestMetricsListener(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetricsListener(reg)
	store, _ := newTestStore(metrics)
	ctx := context.Background()

	_, err := store.Add(ctx, session, product("p1", 1), 1)
	require.NoError(t, err)
	_, err = store.Add(ctx, session, product("p2", 1), 1)
	require.NoError(t, err)
	_, err = store.Checkout(ctx, session)
	require.NoError(t, err)

	assert.Equal(t, 2.0, counterValue(t, metrics.mutations.WithLabelValues("updated")))
	assert.Equal(t, 1.0, counterValue(t, metrics.mutations.WithLabelValues("checked_out")))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

// ============================================================================
// Codec Tests
// ============================================================================

func TestEncodeDecode(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	items, err := Decode([]byte(`null`))
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = Decode([]byte(`{`))
	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}
