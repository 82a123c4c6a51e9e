package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tickmud"

// Collector exports a Recorder's snapshot on every scrape.
type Collector struct {
	rec *Recorder

	violenceTicks *prometheus.Desc
	gameTicks     *prometheus.Desc
	repops        *prometheus.Desc
	restarts      *prometheus.Desc
	population    *prometheus.Desc
	gameHour      *prometheus.Desc
}

func NewCollector(rec *Recorder) *Collector {
	return &Collector{
		rec: rec,
		violenceTicks: prometheus.NewDesc(namespace+"_violence_ticks_total",
			"Violence ticks processed.", nil, nil),
		gameTicks: prometheus.NewDesc(namespace+"_game_ticks_total",
			"Game ticks processed.", nil, nil),
		repops: prometheus.NewDesc(namespace+"_repopulations_total",
			"Whole-world repopulation passes.", nil, nil),
		restarts: prometheus.NewDesc(namespace+"_scheduler_restarts_total",
			"Scheduler restarts after a failed tick.", nil, nil),
		population: prometheus.NewDesc(namespace+"_population",
			"Entities in the world by kind.", []string{"kind"}, nil),
		gameHour: prometheus.NewDesc(namespace+"_game_hour",
			"Current in-game hour.", nil, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.violenceTicks
	ch <- c.gameTicks
	ch <- c.repops
	ch <- c.restarts
	ch <- c.population
	ch <- c.gameHour
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	w := c.rec.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.violenceTicks, prometheus.CounterValue, float64(w.ViolenceTicks))
	ch <- prometheus.MustNewConstMetric(c.gameTicks, prometheus.CounterValue, float64(w.GameTicks))
	ch <- prometheus.MustNewConstMetric(c.repops, prometheus.CounterValue, float64(w.Repopulations))
	ch <- prometheus.MustNewConstMetric(c.restarts, prometheus.CounterValue, float64(w.Restarts))
	ch <- prometheus.MustNewConstMetric(c.population, prometheus.GaugeValue, float64(w.Players), "players")
	ch <- prometheus.MustNewConstMetric(c.population, prometheus.GaugeValue, float64(w.Mobiles), "mobiles")
	ch <- prometheus.MustNewConstMetric(c.population, prometheus.GaugeValue, float64(w.Items), "items")
	ch <- prometheus.MustNewConstMetric(c.gameHour, prometheus.GaugeValue, float64(w.Time.Hour))
}
