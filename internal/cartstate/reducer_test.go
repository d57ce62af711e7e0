package cartstate

import (
	"testing"

	"heritage-boutique/internal/domain"
)

func item(productID string, qty int, price int64) domain.CartItem {
	return domain.CartItem{ProductID: productID, Quantity: qty, UnitPriceCents: price}
}

func TestAddItemMergesByProduct(t *testing.T) {
	cart := Apply(domain.Cart{}, Action{Type: AddItem, Item: item("p1", 2, 1500)})
	cart = Apply(cart, Action{Type: AddItem, Item: item("p1", 3, 1500)})

	if len(cart.Items) != 1 {
		t.Fatalf("expected a single row for p1, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", cart.Items[0].Quantity)
	}
	if cart.TotalCents != 5*1500 {
		t.Fatalf("expected total %d, got %d", 5*1500, cart.TotalCents)
	}
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	cart := Apply(domain.Cart{}, Action{Type: AddItem, Item: item("p1", 2, 100)})

	byUpdate := Apply(cart, Action{Type: UpdateQuantity, ProductID: "p1", Quantity: 0})
	byRemove := Apply(cart, Action{Type: RemoveItem, ProductID: "p1"})

	if len(byUpdate.Items) != 0 || len(byRemove.Items) != 0 {
		t.Fatalf("both paths must leave no row for p1: %v vs %v", byUpdate.Items, byRemove.Items)
	}
	if byUpdate.TotalCents != 0 || byRemove.TotalCents != 0 {
		t.Fatalf("totals must be zero after removal")
	}
}

func TestTotalAlwaysDerived(t *testing.T) {
	cart := domain.Cart{}
	actions := []Action{
		{Type: AddItem, Item: item("a", 1, 2500)},
		{Type: AddItem, Item: item("b", 4, 700)},
		{Type: UpdateQuantity, ProductID: "b", Quantity: 2},
		{Type: AddItem, Item: item("a", 2, 2500)},
		{Type: RemoveItem, ProductID: "b"},
	}
	for _, a := range actions {
		cart = Apply(cart, a)
		var want int64
		for _, it := range cart.Items {
			want += it.UnitPriceCents * int64(it.Quantity)
		}
		if cart.TotalCents != want {
			t.Fatalf("total %d diverged from items sum %d after %+v", cart.TotalCents, want, a)
		}
	}
	if cart.TotalCents != 3*2500 {
		t.Fatalf("unexpected final total %d", cart.TotalCents)
	}
}

func TestSetCartIgnoresPayloadTotal(t *testing.T) {
	incoming := &domain.Cart{
		TotalCents: 999999,
		Items:      []domain.CartItem{item("p1", 2, 300)},
	}
	cart := Apply(domain.Cart{}, Action{Type: SetCart, Cart: incoming})
	if cart.TotalCents != 600 {
		t.Fatalf("payload total must be recomputed, got %d", cart.TotalCents)
	}
}

func TestClearCart(t *testing.T) {
	cart := Apply(domain.Cart{}, Action{Type: AddItem, Item: item("p1", 1, 100)})
	cart = Apply(cart, Action{Type: ClearCart})
	if len(cart.Items) != 0 || cart.TotalCents != 0 {
		t.Fatalf("clear must empty the cart, got %+v", cart)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	original := Apply(domain.Cart{}, Action{Type: AddItem, Item: item("p1", 1, 100)})
	_ = Apply(original, Action{Type: AddItem, Item: item("p1", 5, 100)})
	if original.Items[0].Quantity != 1 {
		t.Fatalf("input cart mutated: %+v", original.Items)
	}
}

func TestAddItemNonPositiveQuantityIgnored(t *testing.T) {
	cart := Apply(domain.Cart{}, Action{Type: AddItem, Item: item("p1", 0, 100)})
	if len(cart.Items) != 0 {
		t.Fatalf("zero-quantity add must not create a row")
	}
}
