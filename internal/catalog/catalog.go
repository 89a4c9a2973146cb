// Package catalog holds the static price list: standard repair services and
// bundled special offers. The catalog is configuration, not behavior: items
// are fixed at compile time and referenced by ID from repair requests.
package catalog

import "github.com/dmitryilife/repairbot/internal/domain"

// Services is the standard repair service price list.
var Services = []domain.CatalogItem{
	{ID: "service_1", Name: "Диагностика ПК", Price: 1500, Description: "Полная диагностика компьютера", Duration: "1-2 часа"},
	{ID: "service_2", Name: "Чистка от пыли", Price: 2000, Description: "Профессиональная чистка компьютера от пыли", Duration: "1-2 часа"},
	{ID: "service_3", Name: "Замена термопасты", Price: 1000, Description: "Замена термопасты на процессоре", Duration: "30-60 минут"},
	{ID: "service_4", Name: "Установка Windows", Price: 2500, Description: "Установка операционной системы Windows", Duration: "2-3 часа"},
	{ID: "service_5", Name: "Замена HDD/SSD", Price: 1500, Description: "Замена жесткого диска или SSD", Duration: "1-2 часа"},
	{ID: "service_6", Name: "Сборка ПК", Price: 5000, Description: "Профессиональная сборка компьютера", Duration: "2-4 часа"},
}

// Offers is the bundled special-offer price list. Each offer carries a fixed
// loyalty point value instead of the floor(price/10) standard policy.
var Offers = []domain.CatalogItem{
	{ID: "offer_1", Name: "Комплексная диагностика", Price: 3000, Points: 450, Description: "Полная диагностика + чистка от пыли", Duration: "2-3 часа", IsBundle: true},
	{ID: "offer_2", Name: "Базовое обслуживание", Price: 2500, Points: 250, Description: "Чистка от пыли + замена термопасты", Duration: "2-3 часа", IsBundle: true},
	{ID: "offer_3", Name: "Максимальный пакет", Price: 7000, Points: 750, Description: "Диагностика + чистка + Windows + термопаста", Duration: "4-6 часов", IsBundle: true},
}

// Service looks up a standard service by ID.
func Service(id string) (domain.CatalogItem, bool) {
	for _, s := range Services {
		if s.ID == id {
			return s, true
		}
	}
	return domain.CatalogItem{}, false
}

// Offer looks up a bundled offer by ID.
func Offer(id string) (domain.CatalogItem, bool) {
	for _, o := range Offers {
		if o.ID == id {
			return o, true
		}
	}
	return domain.CatalogItem{}, false
}

// Lookup resolves an ID against the namespace selected by isBundle.
func Lookup(id string, isBundle bool) (domain.CatalogItem, bool) {
	if isBundle {
		return Offer(id)
	}
	return Service(id)
}

// Name returns the display name for an item, or a generic fallback when the
// ID is unknown (the original data may predate a catalog edit).
func Name(id string, isBundle bool) string {
	if item, ok := Lookup(id, isBundle); ok {
		return item.Name
	}
	return "Услуга"
}
