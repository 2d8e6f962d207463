package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder es lo que consume el dominio de mascotas.
type Recorder interface {
	IncOperation(op, result string)
	IncStorageFailure(namespace string)
	IncDecodeFailure(namespace string)
	SetRecords(namespace string, count int)
}

type Metrics struct {
	operationsTotal *prometheus.CounterVec
	storageFailures *prometheus.CounterVec
	decodeFailures  *prometheus.CounterVec
	records         *prometheus.GaugeVec
}

// New registra los colectores en reg. Con reg nil usa el registry por defecto.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "petparty_store_operations_total",
			Help: "Pet store operations by operation and result",
		}, []string{"op", "result"}),

		storageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "petparty_storage_failures_total",
			Help: "Failed write-through persistence attempts",
		}, []string{"namespace"}),

		decodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "petparty_decode_failures_total",
			Help: "Corrupt persisted collections replaced by an empty one",
		}, []string{"namespace"}),

		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "petparty_pets",
			Help: "Pet profiles currently held per namespace",
		}, []string{"namespace"}),
	}

	reg.MustRegister(m.operationsTotal, m.storageFailures, m.decodeFailures, m.records)
	return m
}

func (m *Metrics) IncOperation(op, result string) {
	m.operationsTotal.WithLabelValues(op, result).Inc()
}

func (m *Metrics) IncStorageFailure(namespace string) {
	m.storageFailures.WithLabelValues(namespace).Inc()
}

func (m *Metrics) IncDecodeFailure(namespace string) {
	m.decodeFailures.WithLabelValues(namespace).Inc()
}

func (m *Metrics) SetRecords(namespace string, count int) {
	m.records.WithLabelValues(namespace).Set(float64(count))
}

type Noop struct{}

func (Noop) IncOperation(string, string) {}
func (Noop) IncStorageFailure(string)    {}
func (Noop) IncDecodeFailure(string)     {}
func (Noop) SetRecords(string, int)      {}
