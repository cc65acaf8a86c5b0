// Package metrics provides Prometheus metrics for the PixelArena game service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the PixelArena service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Core Business Metrics - What really matters for an arena game
	playersCreated  prometheus.Counter
	battlesStarted  *prometheus.CounterVec
	battlesFinished *prometheus.CounterVec
	battleRounds    prometheus.Histogram
	rewardCoins     prometheus.Counter
	rewardExp       prometheus.Counter
	rewardRating    prometheus.Counter
	levelUps        prometheus.Counter
	classChanges    prometheus.Counter
	energySpent     prometheus.Counter

	// Economy Metrics
	shopPurchases    *prometheus.CounterVec
	marketListings   prometheus.Counter
	marketSales      prometheus.Counter
	marketQuickSells prometheus.Counter
	marketCommission prometheus.Counter

	// Operational Health Metrics
	playersTotal  prometheus.Gauge
	battlesActive prometheus.Gauge
	listingsOpen  prometheus.Gauge

	// Notification Pipeline Metrics
	notifyQueueSize   prometheus.Gauge
	notifyWorkerCount prometheus.Gauge
	notifyDelivered   prometheus.Counter
	notifyDropped     prometheus.Counter
	notifyDuplicate   prometheus.Counter

	// Rating Index Metrics - Snapshot timings
	ratingIndexSize               prometheus.Gauge
	ratingSnapshotRebuildDuration prometheus.Histogram
	ratingSnapshotLastUnix        prometheus.Gauge
	ratingSnapshotCount           prometheus.Counter
	ratingSnapshotLastDurationMs  prometheus.Gauge
	repositoryUpdateLatency       prometheus.Histogram
	repositoryQueryLatency        prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Enhanced Error Metrics - Detailed error tracking
	errorRateByComponent *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pixelarena",
		subsystem:        "arena",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Core Business Metrics - Focus on what drives the game economy
	m.playersCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "players_created_total",
		Help:      "Total number of players created (lazy or seeded)",
	})

	m.battlesStarted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "battles_started_total",
			Help:      "Total number of battles started by mode and difficulty",
		},
		[]string{"mode", "difficulty"},
	)

	m.battlesFinished = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "battles_finished_total",
			Help:      "Total number of battles finished by mode and result",
		},
		[]string{"mode", "result"},
	)

	m.battleRounds = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "battle_rounds",
		Help:      "Histogram of rounds fought per finished battle",
		Buckets:   []float64{1, 2, 3, 4, 5},
	})

	m.rewardCoins = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reward_coins_total",
		Help:      "Total coins granted as battle rewards",
	})

	m.rewardExp = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reward_experience_total",
		Help:      "Total experience granted as battle rewards",
	})

	m.rewardRating = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reward_arena_rating_total",
		Help:      "Total arena rating granted as battle rewards",
	})

	m.levelUps = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "level_ups_total",
		Help:      "Total number of player level-ups",
	})

	m.classChanges = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "class_changes_total",
		Help:      "Total number of hero class changes performed",
	})

	m.energySpent = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "energy_spent_total",
		Help:      "Total energy consumed starting battles",
	})

	// Economy Metrics - Shop and player-to-player market
	m.shopPurchases = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "shop_purchases_total",
			Help:      "Total shop purchases by item and currency",
		},
		[]string{"item", "currency"},
	)

	m.marketListings = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "market_listings_total",
		Help:      "Total market listings created",
	})

	m.marketSales = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "market_sales_total",
		Help:      "Total completed market sales",
	})

	m.marketQuickSells = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "market_quick_sells_total",
		Help:      "Total quick-sells to the virtual buyer",
	})

	m.marketCommission = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "market_commission_coins_total",
		Help:      "Total commission retained from completed sales",
	})

	// Operational Health Metrics - System stability indicators
	m.playersTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "players_total",
		Help:      "Total number of players in the registry (business scale)",
	})

	m.battlesActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "battles_active",
		Help:      "Current number of battles in the active state",
	})

	m.listingsOpen = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "market_listings_open",
		Help:      "Current number of open market listings",
	})

	// Notification Pipeline Metrics
	m.notifyQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notify_queue_size",
		Help:      "Current size of the notification queue (backlog indicator)",
	})

	m.notifyWorkerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notify_worker_count",
		Help:      "Current number of notification delivery workers",
	})

	m.notifyDelivered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notifications_delivered_total",
		Help:      "Total notifications delivered to the sink",
	})

	m.notifyDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notifications_dropped_total",
		Help:      "Total notifications dropped due to backpressure",
	})

	m.notifyDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notifications_duplicate_total",
		Help:      "Total notifications suppressed by the seen-guard",
	})

	// Rating Index Metrics - Snapshot timings and latency
	m.ratingIndexSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rating_index_size",
		Help:      "Number of players tracked by the rating index",
	})

	m.ratingSnapshotRebuildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rating_snapshot_rebuild_milliseconds",
		Help:      "Histogram of rating snapshot rebuild duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.ratingSnapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rating_snapshot_last_unix",
		Help:      "Unix timestamp of the last published rating snapshot",
	})

	m.ratingSnapshotCount = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rating_snapshot_count_total",
		Help:      "Total number of rating snapshots published",
	})

	m.ratingSnapshotLastDurationMs = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rating_snapshot_last_duration_milliseconds",
		Help:      "Duration of the last rating snapshot rebuild in milliseconds",
	})

	m.repositoryUpdateLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_update_latency_milliseconds",
		Help:      "Histogram of repository update latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.repositoryQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_query_latency_milliseconds",
		Help:      "Histogram of repository query latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// HTTP Performance Metrics - User experience indicators
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds (user experience)",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Enhanced Error Metrics - Detailed error tracking
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total errors by component and error type",
		},
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordPlayerCreated increments the players created counter.
func RecordPlayerCreated() {
	globalManager.playersCreated.Inc()
}

// RecordBattleStarted increments the battles started counter.
func RecordBattleStarted(mode, difficulty string) {
	globalManager.battlesStarted.WithLabelValues(mode, difficulty).Inc()
}

// RecordBattleFinished increments the battles finished counter.
func RecordBattleFinished(mode, result string) {
	globalManager.battlesFinished.WithLabelValues(mode, result).Inc()
}

// ObserveBattleRounds records the number of rounds a finished battle took.
func ObserveBattleRounds(rounds int) {
	globalManager.battleRounds.Observe(float64(rounds))
}

// RecordRewardsGranted adds granted reward amounts to the reward counters.
func RecordRewardsGranted(coins, experience, rating int) {
	globalManager.rewardCoins.Add(float64(coins))
	globalManager.rewardExp.Add(float64(experience))
	globalManager.rewardRating.Add(float64(rating))
}

// RecordLevelUp increments the level-up counter.
func RecordLevelUp() {
	globalManager.levelUps.Inc()
}

// RecordClassChange increments the class change counter.
func RecordClassChange() {
	globalManager.classChanges.Inc()
}

// RecordEnergySpent adds consumed energy to the energy counter.
func RecordEnergySpent(amount int) {
	globalManager.energySpent.Add(float64(amount))
}

// RecordShopPurchase increments the shop purchase counter.
func RecordShopPurchase(item, currency string) {
	globalManager.shopPurchases.WithLabelValues(item, currency).Inc()
}

// RecordMarketListing increments the market listings counter.
func RecordMarketListing() {
	globalManager.marketListings.Inc()
}

// RecordMarketSale increments the market sales counter.
func RecordMarketSale() {
	globalManager.marketSales.Inc()
}

// RecordMarketQuickSell increments the quick-sell counter.
func RecordMarketQuickSell() {
	globalManager.marketQuickSells.Inc()
}

// AddMarketCommission adds retained commission to the commission counter.
func AddMarketCommission(coins int) {
	globalManager.marketCommission.Add(float64(coins))
}

// UpdatePlayersTotal sets the total player count.
func UpdatePlayersTotal(count int) {
	globalManager.playersTotal.Set(float64(count))
}

// UpdateBattlesActive sets the active battle count.
func UpdateBattlesActive(count int) {
	globalManager.battlesActive.Set(float64(count))
}

// UpdateListingsOpen sets the open listing count.
func UpdateListingsOpen(count int) {
	globalManager.listingsOpen.Set(float64(count))
}

// UpdateNotifyQueueSize sets the current notification queue size.
func UpdateNotifyQueueSize(size int) {
	globalManager.notifyQueueSize.Set(float64(size))
}

// UpdateNotifyWorkerCount sets the notification worker count.
func UpdateNotifyWorkerCount(count int) {
	globalManager.notifyWorkerCount.Set(float64(count))
}

// RecordNotificationDelivered increments the delivered notification counter.
func RecordNotificationDelivered() {
	globalManager.notifyDelivered.Inc()
}

// RecordNotificationDropped increments the dropped notification counter.
func RecordNotificationDropped() {
	globalManager.notifyDropped.Inc()
}

// RecordNotificationDuplicate increments the suppressed notification counter.
func RecordNotificationDuplicate() {
	globalManager.notifyDuplicate.Inc()
}

// Rating Index Metrics Functions.

// UpdateRatingIndexSize sets the number of players in the rating index.
func UpdateRatingIndexSize(count int) {
	globalManager.ratingIndexSize.Set(float64(count))
}

// RecordRatingSnapshotRebuildDuration records a snapshot rebuild duration.
func RecordRatingSnapshotRebuildDuration(ms float64) {
	globalManager.ratingSnapshotRebuildDuration.Observe(ms)
}

// UpdateRatingSnapshotLastUnix sets the last snapshot publish timestamp.
func UpdateRatingSnapshotLastUnix(unix float64) {
	globalManager.ratingSnapshotLastUnix.Set(unix)
}

// IncrementRatingSnapshotCount increments the published snapshot counter.
func IncrementRatingSnapshotCount() {
	globalManager.ratingSnapshotCount.Inc()
}

// UpdateRatingSnapshotLastDurationMs sets the last snapshot rebuild duration.
func UpdateRatingSnapshotLastDurationMs(ms float64) {
	globalManager.ratingSnapshotLastDurationMs.Set(ms)
}

// RecordRepositoryUpdateLatency records repository update latency.
func RecordRepositoryUpdateLatency(latencyMs float64) {
	globalManager.repositoryUpdateLatency.Observe(latencyMs)
}

// RecordRepositoryQueryLatency records repository query latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error for a specific component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// System Metrics Functions.

// UpdateSystemMemoryUsage sets the current memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records a GC pause time observation.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used for all metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
