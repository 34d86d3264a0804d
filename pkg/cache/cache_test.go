package cache_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/connectgrid/jsonselection/pkg/ast"
	"github.com/connectgrid/jsonselection/pkg/cache"
	"github.com/connectgrid/jsonselection/pkg/parser"
)

func TestCacheNew(t *testing.T) {
	c := cache.New(10)
	if got := c.Len(); got != 0 {
		t.Fatalf("expected empty cache, got %d", got)
	}
	if got := c.Capacity(); got != 10 {
		t.Fatalf("expected capacity 10, got %d", got)
	}
}

func TestCacheDefaultCapacity(t *testing.T) {
	c := cache.New(0)
	if got := c.Capacity(); got != 256 {
		t.Fatalf("expected default capacity 256, got %d", got)
	}
}

func TestCacheSetGet(t *testing.T) {
	c := cache.New(4)
	sel := parser.MustParse("id name")
	c.Set("id name", sel)
	if got := c.Len(); got != 1 {
		t.Fatalf("expected 1 entry, got %d", got)
	}
	got, ok := c.Get("id name")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != sel {
		t.Fatal("expected same selection pointer")
	}
}

func TestCacheMiss(t *testing.T) {
	c := cache.New(4)
	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected cache miss")
	}
}

func TestCacheLRUEviction(t *testing.T) {
	c := cache.New(3)
	for _, k := range []string{"a", "b", "c", "d"} {
		c.Set(k, parser.MustParse(k))
	}
	if got := c.Len(); got != 3 {
		t.Fatalf("expected 3 entries, got %d", got)
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected oldest entry to be evicted")
	}
	for _, k := range []string{"b", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Fatalf("expected %q to survive", k)
		}
	}
}

func TestCacheGetPromotes(t *testing.T) {
	c := cache.New(2)
	c.Set("a", parser.MustParse("a"))
	c.Set("b", parser.MustParse("b"))
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected hit for a")
	}
	// "a" was just used, so inserting "c" should evict "b".
	c.Set("c", parser.MustParse("c"))
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to survive")
	}
}

func TestCacheSetReplaces(t *testing.T) {
	c := cache.New(4)
	first := parser.MustParse("id")
	second := parser.MustParse("id")
	c.Set("id", first)
	c.Set("id", second)
	if got := c.Len(); got != 1 {
		t.Fatalf("expected 1 entry, got %d", got)
	}
	got, _ := c.Get("id")
	if got != second {
		t.Fatal("expected replacement to win")
	}
}

func TestGetOrParse(t *testing.T) {
	c := cache.New(4)
	calls := 0
	parse := func(source string) (*ast.Selection, error) {
		calls++
		return parser.Parse(source)
	}

	first, err := c.GetOrParse("id name", parse)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.GetOrParse("id name", parse)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 parse call, got %d", calls)
	}
	if first != second {
		t.Fatal("expected the cached pointer on the second call")
	}
}

func TestGetOrParseErrorNotCached(t *testing.T) {
	c := cache.New(4)
	calls := 0
	parse := func(source string) (*ast.Selection, error) {
		calls++
		return nil, errors.New("bad input")
	}
	for i := 0; i < 2; i++ {
		if _, err := c.GetOrParse("broken", parse); err == nil {
			t.Fatal("expected parse error")
		}
	}
	if calls != 2 {
		t.Fatalf("expected errors to bypass the cache, got %d calls", calls)
	}
	if got := c.Len(); got != 0 {
		t.Fatalf("expected nothing cached, got %d entries", got)
	}
}

func TestCacheInvalidateAndClear(t *testing.T) {
	c := cache.New(4)
	c.Set("a", parser.MustParse("a"))
	c.Set("b", parser.MustParse("b"))

	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected a to be gone")
	}
	if got := c.Len(); got != 1 {
		t.Fatalf("expected 1 entry, got %d", got)
	}

	c.Invalidate("never-present")
	c.Clear()
	if got := c.Len(); got != 0 {
		t.Fatalf("expected empty cache after Clear, got %d", got)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := cache.New(16)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("field%d", (g+i)%32)
				if _, err := c.GetOrParse(key, parser.Parse); err != nil {
					t.Errorf("GetOrParse(%q): %v", key, err)
					return
				}
			}
		}(g)
	}
	wg.Wait()
	if got := c.Len(); got > 16 {
		t.Fatalf("cache exceeded capacity: %d", got)
	}
}
