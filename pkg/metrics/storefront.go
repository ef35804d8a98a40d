package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics counts shopper-facing state changes.
type StorefrontMetrics struct {
	toggles     *prometheus.CounterVec
	reconciles  *prometheus.CounterVec
	settlements prometheus.Counter
	unitsSold   prometheus.Counter
	upserts     prometheus.Counter
}

// NewStorefrontMetrics registers the storefront collectors on the provided registerer.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	m := &StorefrontMetrics{
		toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "button_toggles_total",
			Help:      "Favorite and cart toggles by kind and resulting value.",
		}, []string{"kind", "value"}),
		reconciles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_quantity_updates_total",
			Help:      "Cart quantity reconciliations by outcome.",
		}, []string{"outcome"}),
		settlements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_total",
			Help:      "Completed checkouts.",
		}),
		unitsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_sold_total",
			Help:      "Comic units moved from stock to purchases.",
		}),
		upserts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_comics_upserted_total",
			Help:      "Comics inserted or refreshed by the catalog sync.",
		}),
	}
	reg.MustRegister(m.toggles, m.reconciles, m.settlements, m.unitsSold, m.upserts)
	return m
}

// IncToggle records a flag flip for the given button kind.
func (m *StorefrontMetrics) IncToggle(kind string, value bool) {
	if m == nil || m.toggles == nil {
		return
	}
	label := "off"
	if value {
		label = "on"
	}
	m.toggles.WithLabelValues(normalizeLabel(kind), label).Inc()
}

// IncReconcile records the outcome of a quantity update.
func (m *StorefrontMetrics) IncReconcile(outcome string) {
	if m == nil || m.reconciles == nil {
		return
	}
	m.reconciles.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveSettlement records a checkout that moved the given number of units.
func (m *StorefrontMetrics) ObserveSettlement(units int) {
	if m == nil || m.settlements == nil {
		return
	}
	m.settlements.Inc()
	if units > 0 {
		m.unitsSold.Add(float64(units))
	}
}

// AddUpserts records comics written by the catalog sync.
func (m *StorefrontMetrics) AddUpserts(n int) {
	if m == nil || m.upserts == nil || n <= 0 {
		return
	}
	m.upserts.Add(float64(n))
}
