package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dorm_portal"

// Metrics - счётчики портала. Регистрируются в собственном реестре,
// чтобы тесты могли создавать экземпляры без конфликтов.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	roomDecisions *prometheus.CounterVec
	workShifts    *prometheus.CounterVec
	scores        *prometheus.CounterVec
	notifications *prometheus.CounterVec
	courseSweep   *prometheus.CounterVec
	logins        *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP запросы по маршруту и статусу.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Время обработки HTTP запроса.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		roomDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "room_requests_total",
			Help:      "Заявки на комнату: requested, approved, rejected.",
		}, []string{"action"}),
		workShifts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "work_shifts_total",
			Help:      "Операции с отработками.",
		}, []string{"action"}),
		scores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cleanliness_scores_total",
			Help:      "Выставленные оценки чистоты по этажам.",
		}, []string{"floor"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Уведомления по типу и способу доставки.",
		}, []string{"type", "delivery"}),
		courseSweep: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "course_sweep_users_total",
			Help:      "Результаты перевода курсов.",
		}, []string{"action"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Попытки входа.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		m.httpRequests, m.httpDuration, m.roomDecisions, m.workShifts,
		m.scores, m.notifications, m.courseSweep, m.logins,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) RoomAction(action string) {
	if m != nil {
		m.roomDecisions.WithLabelValues(action).Inc()
	}
}

func (m *Metrics) WorkShiftAction(action string) {
	if m != nil {
		m.workShifts.WithLabelValues(action).Inc()
	}
}

func (m *Metrics) ScoreSet(floor string) {
	if m != nil {
		m.scores.WithLabelValues(floor).Inc()
	}
}

func (m *Metrics) NotificationSent(notifType, delivery string) {
	if m != nil {
		m.notifications.WithLabelValues(notifType, delivery).Inc()
	}
}

func (m *Metrics) CourseSwept(action string, n int) {
	if m != nil && n > 0 {
		m.courseSweep.WithLabelValues(action).Add(float64(n))
	}
}

func (m *Metrics) Login(result string) {
	if m != nil {
		m.logins.WithLabelValues(result).Inc()
	}
}
