package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestParseClampsLimit(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 6, 0},
		{"?limit=3", 3, 0},
		{"?limit=1", 2, 0},
		{"?limit=100", 6, 0},
		{"?limit=abc&offset=-5", 6, 0},
		{"?limit=4&offset=8", 4, 8},
	}
	for _, tt := range tests {
		limit, offset := Recipes.Parse(testContext("/api/recipes/" + tt.query))
		if limit != tt.wantLimit || offset != tt.wantOffset {
			t.Errorf("Parse(%q) = %d, %d; want %d, %d", tt.query, limit, offset, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestSubscriptionRecipesLimit(t *testing.T) {
	if got := SubscriptionRecipes.Limit(testContext("/api/users/subscriptions/")); got != 11 {
		t.Errorf("default recipes_limit = %d, want 11", got)
	}
	if got := SubscriptionRecipes.Limit(testContext("/api/users/subscriptions/?recipes_limit=1")); got != 2 {
		t.Errorf("recipes_limit=1 clamps to %d, want 2", got)
	}
}

func TestNewPageLinks(t *testing.T) {
	c := testContext("/api/recipes/?tags=lunch&limit=2&offset=2")
	page := NewPage(c, Recipes, []int{3, 4}, 5, 2, 2)

	if page.Count != 5 || len(page.Results) != 2 {
		t.Fatalf("page = %+v", page)
	}
	if page.Next == nil || *page.Next != "http://example.com/api/recipes/?limit=2&offset=4&tags=lunch" {
		t.Errorf("next = %v", deref(page.Next))
	}
	if page.Previous == nil || *page.Previous != "http://example.com/api/recipes/?limit=2&tags=lunch" {
		t.Errorf("previous = %v", deref(page.Previous))
	}
}

func TestNewPageBounds(t *testing.T) {
	c := testContext("/api/users/")
	page := NewPage[string](c, Users, nil, 0, 4, 0)

	if page.Next != nil || page.Previous != nil {
		t.Errorf("empty first page should have no links: %+v", page)
	}
	if page.Results == nil {
		t.Error("results must encode as [] not null")
	}
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
