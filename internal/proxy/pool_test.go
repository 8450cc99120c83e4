package proxy

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func seededPool(proxies ...Descriptor) *Pool {
	p := NewPoolWithRand(rand.New(rand.NewSource(7)))
	if len(proxies) > 0 {
		p.SetProxies(proxies)
	}
	return p
}

func threeProxies() []Descriptor {
	return []Descriptor{
		{URL: "http://10.0.0.1:8080", Kind: "datacenter", RotationInterval: 300},
		{URL: "http://10.0.0.2:8080", Kind: "residential", RotationInterval: 120},
		{URL: "socks5://10.0.0.3:1080", Kind: "residential", RotationInterval: 120},
	}
}

func TestSelectEmptyPool(t *testing.T) {
	p := seededPool()

	for _, score := range []float64{0.0, 0.5, 0.51, 1.0} {
		got := p.Select(score)
		want := Direct()
		if got != want {
			t.Errorf("Select(%v) on empty pool = %+v, want %+v", score, got, want)
		}
	}
}

func TestSelectLowRiskSticky(t *testing.T) {
	proxies := threeProxies()
	p := seededPool(proxies...)

	for i := 0; i < 100; i++ {
		got := p.Select(0.5) // boundary score is low-risk
		if got != proxies[0] {
			t.Fatalf("Select(0.5) = %+v, want first entry %+v", got, proxies[0])
		}
	}
}

func TestSelectHighRiskUniform(t *testing.T) {
	proxies := threeProxies()
	p := seededPool(proxies...)

	hits := map[string]int{}
	for i := 0; i < 3000; i++ {
		got := p.Select(0.8)
		member := false
		for _, candidate := range proxies {
			if got == candidate {
				member = true
				break
			}
		}
		if !member {
			t.Fatalf("Select returned non-member %+v", got)
		}
		hits[got.URL]++
	}

	// Every index must be reachable.
	for _, candidate := range proxies {
		if hits[candidate.URL] == 0 {
			t.Errorf("proxy %q never selected in 3000 trials", candidate.URL)
		}
	}
}

func TestSetProxiesCopies(t *testing.T) {
	proxies := threeProxies()
	p := seededPool(proxies...)

	proxies[0].URL = "mutated"
	if got := p.Select(0.1); got.URL == "mutated" {
		t.Error("pool aliases the caller's slice")
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("loads valid pool", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pool.yaml")
		data := `proxies:
  - url: http://10.1.0.1:3128
    kind: datacenter
    rotation_interval: 600
  - url: socks5://10.1.0.2:1080
`
		if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
			t.Fatal(err)
		}

		p := seededPool()
		if err := p.LoadFile(path); err != nil {
			t.Fatalf("LoadFile: %v", err)
		}
		if p.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", p.Len())
		}

		first := p.Select(0.0)
		if first.URL != "http://10.1.0.1:3128" || first.RotationInterval != 600 {
			t.Errorf("first entry = %+v", first)
		}
	})

	t.Run("defaults kind and interval", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pool.yaml")
		data := "proxies:\n  - url: http://10.2.0.1:3128\n"
		if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
			t.Fatal(err)
		}

		p := seededPool()
		if err := p.LoadFile(path); err != nil {
			t.Fatalf("LoadFile: %v", err)
		}
		got := p.Select(0.0)
		if got.Kind != "datacenter" || got.RotationInterval != 300 {
			t.Errorf("defaults not applied: %+v", got)
		}
	})

	t.Run("rejects entry without url", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pool.yaml")
		data := "proxies:\n  - kind: residential\n"
		if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
			t.Fatal(err)
		}
		if err := seededPool().LoadFile(path); err == nil {
			t.Error("LoadFile should fail for entry without url")
		}
	})

	t.Run("rejects missing file", func(t *testing.T) {
		if err := seededPool().LoadFile("/does/not/exist.yaml"); err == nil {
			t.Error("LoadFile should fail for missing file")
		}
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "pool.yaml")
		if err := os.WriteFile(path, []byte("proxies: ["), 0o600); err != nil {
			t.Fatal(err)
		}
		if err := seededPool().LoadFile(path); err == nil {
			t.Error("LoadFile should fail for malformed yaml")
		}
	})
}
