package catalog

import "testing"

func TestServiceLookup(t *testing.T) {
	s, ok := Service("service_1")
	if !ok {
		t.Fatal("service_1 should exist")
	}
	if s.Price != 1500 || s.IsBundle {
		t.Errorf("unexpected service_1: %+v", s)
	}
	if _, ok := Service("offer_1"); ok {
		t.Error("offers must not resolve in the service namespace")
	}
}

func TestOfferLookup(t *testing.T) {
	o, ok := Offer("offer_3")
	if !ok {
		t.Fatal("offer_3 should exist")
	}
	if o.Points != 750 || !o.IsBundle {
		t.Errorf("unexpected offer_3: %+v", o)
	}
	if _, ok := Offer("service_1"); ok {
		t.Error("services must not resolve in the offer namespace")
	}
}

func TestLookupNamespaces(t *testing.T) {
	if _, ok := Lookup("service_2", false); !ok {
		t.Error("service_2 should resolve as a service")
	}
	if _, ok := Lookup("service_2", true); ok {
		t.Error("service_2 should not resolve as a bundle")
	}
}

func TestNameFallback(t *testing.T) {
	if got := Name("service_6", false); got != "Сборка ПК" {
		t.Errorf("Name(service_6) = %q", got)
	}
	if got := Name("service_999", false); got != "Услуга" {
		t.Errorf("fallback name = %q", got)
	}
}

func TestCatalogIntegrity(t *testing.T) {
	seen := map[string]bool{}
	for _, item := range Services {
		if item.IsBundle {
			t.Errorf("%s: services must not be bundles", item.ID)
		}
		if item.Price <= 0 {
			t.Errorf("%s: price must be positive", item.ID)
		}
		if seen[item.ID] {
			t.Errorf("%s: duplicate catalog id", item.ID)
		}
		seen[item.ID] = true
	}
	for _, item := range Offers {
		if !item.IsBundle {
			t.Errorf("%s: offers must be bundles", item.ID)
		}
		if item.Points <= 0 {
			t.Errorf("%s: bundles need a fixed point value", item.ID)
		}
		if seen[item.ID] {
			t.Errorf("%s: duplicate catalog id", item.ID)
		}
		seen[item.ID] = true
	}
}
