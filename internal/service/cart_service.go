package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram-go/internal/repository"
)

var ErrEmptyCart = errors.New("购物清单为空")

// CartItem 汇总后的一种食材
type CartItem struct {
	Name   string
	Unit   string
	Amount int
}

// Label 形如 "Flour (g)"
func (i CartItem) Label() string {
	return fmt.Sprintf("%s (%s)", i.Name, i.Unit)
}

type CartService struct {
	cart CartStore
}

func NewCartService(cart CartStore) *CartService {
	return &CartService{cart: cart}
}

// ShoppingList 汇总用户购物清单中全部菜谱的食材
func (s *CartService) ShoppingList(ctx context.Context, userID int64) ([]CartItem, error) {
	count, err := s.cart.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrEmptyCart
	}

	lines, err := s.cart.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Aggregate(lines), nil
}

// Aggregate 按 (名称, 单位) 累加用量，结果保持首次出现的顺序
func Aggregate(lines []repository.CartLine) []CartItem {
	type key struct{ name, unit string }

	index := make(map[key]int, len(lines))
	items := make([]CartItem, 0, len(lines))
	for _, l := range lines {
		k := key{l.Name, l.Unit}
		if i, ok := index[k]; ok {
			items[i].Amount += l.Amount
			continue
		}
		index[k] = len(items)
		items = append(items, CartItem{Name: l.Name, Unit: l.Unit, Amount: l.Amount})
	}
	return items
}

// RenderShoppingList 每种食材一行："{name} ({unit}) - {amount}"
func RenderShoppingList(items []CartItem) string {
	var b strings.Builder
	for _, it := range items {
		fmt.Fprintf(&b, "%s - %d\n", it.Label(), it.Amount)
	}
	return b.String()
}
