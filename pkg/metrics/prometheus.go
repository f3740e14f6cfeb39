package metrics

/* adapted from https://github.com/zsais/go-gin-prometheus
edits:
- log through zap
- register on an injected registry
- label by route template instead of raw path
- metrics are served by the caller, on its own listener
*/

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// HTTP metrics recorded by the middleware.
var reqCnt = &Metric{
	ID:          "reqCnt",
	Name:        "req_total",
	Description: "How many HTTP requests processed, partitioned by status code and HTTP method.",
	Type:        "counter_vec",
	Args:        []string{"code", "method", "url", "client"}}

var reqDur = &Metric{
	ID:          "reqDur",
	Name:        "req_dur_ms",
	Description: "The HTTP request latencies in milliseconds.",
	Type:        "histogram_vec",
	Args:        []string{"code", "method", "url", "client"},
}

var resSz = &Metric{
	ID:          "resSz",
	Name:        "resp_sz_bytes",
	Description: "The HTTP response sizes in bytes.",
	Type:        "summary_vec",
	Args:        []string{"code", "method", "url", "client"},
}

var reqSz = &Metric{
	ID:          "reqSz",
	Name:        "req_sz_bytes",
	Description: "The HTTP request sizes in bytes.",
	Type:        "summary_vec",
	Args:        []string{"code", "method", "url", "client"},
}

var standardMetrics = []*Metric{
	reqCnt,
	reqDur,
	resSz,
	reqSz,
}

const DefaultMetricPath = "/metrics"

/*
RequestCounterURLLabelMappingFn controls the cardinality of the "url" label.
The default uses the matched route template, so "/api/v1/payments/0195..." is
counted as "/api/v1/payments/:id". Unmatched requests are labelled "unmatched".
*/
type RequestCounterURLLabelMappingFn func(c *gin.Context) string

// Prometheus contains the HTTP metrics gathered by the middleware
type Prometheus struct {
	reqCnt       *prometheus.CounterVec
	reqDur       *prometheus.HistogramVec
	reqSz, resSz *prometheus.SummaryVec
	gatherer     prometheus.Gatherer

	MetricsPath string

	ReqCntURLLabelMappingFn RequestCounterURLLabelMappingFn

	logger *zap.SugaredLogger
}

type NewPrometheusOptions struct {
	Subsystem               string
	MetricsPath             string
	ReqCntURLLabelMappingFn func(c *gin.Context) string
	Logger                  *zap.SugaredLogger
	// Registerer defaults to prometheus.DefaultRegisterer, Gatherer to prometheus.DefaultGatherer.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewPrometheus generates a new set of metrics with a certain subsystem name
func NewPrometheus(options NewPrometheusOptions) *Prometheus {
	p := &Prometheus{
		MetricsPath: options.MetricsPath,
		logger:      options.Logger,
		gatherer:    options.Gatherer,
	}
	if p.MetricsPath == "" {
		p.MetricsPath = DefaultMetricPath
	}
	if options.ReqCntURLLabelMappingFn != nil {
		p.ReqCntURLLabelMappingFn = options.ReqCntURLLabelMappingFn
	} else {
		p.ReqCntURLLabelMappingFn = func(c *gin.Context) string {
			if route := c.FullPath(); route != "" {
				return route
			}
			return "unmatched"
		}
	}
	if p.logger == nil {
		p.logger = zap.NewNop().Sugar()
	}
	if p.gatherer == nil {
		p.gatherer = prometheus.DefaultGatherer
	}
	reg := options.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	p.registerMetrics(reg, options.Subsystem)
	return p
}

func (p *Prometheus) registerMetrics(reg prometheus.Registerer, subsystem string) {
	cs, err := registerAll(reg, subsystem, standardMetrics)
	if err != nil {
		// keep the middleware usable with unregistered collectors
		p.logger.Errorw("prometheus collectors could not be registered", "error", err)
		cs = make(map[*Metric]prometheus.Collector, len(standardMetrics))
		for _, def := range standardMetrics {
			cs[def], _ = NewMetric(def, subsystem)
		}
	}
	p.reqCnt = cs[reqCnt].(*prometheus.CounterVec)
	p.reqDur = cs[reqDur].(*prometheus.HistogramVec)
	p.resSz = cs[resSz].(*prometheus.SummaryVec)
	p.reqSz = cs[reqSz].(*prometheus.SummaryVec)
}

// Use adds the middleware to a gin engine. The metrics endpoint itself is
// mounted by the caller, see Handler.
func (p *Prometheus) Use(e *gin.Engine) {
	e.Use(p.HandlerFunc())
}

// Handler serves the gathered metrics.
func (p *Prometheus) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// HandlerFunc defines handler function for middleware
func (p *Prometheus) HandlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == p.MetricsPath {
			c.Next()
			return
		}

		start := time.Now()
		reqSz := computeApproximateRequestSize(c.Request)

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		elapsed := MillisecondsSince(start)
		resSz := float64(c.Writer.Size())
		url := p.ReqCntURLLabelMappingFn(c)
		client := c.Request.Header.Get(ClientHeader)

		p.reqDur.WithLabelValues(status, c.Request.Method, url, client).Observe(elapsed)
		p.reqCnt.WithLabelValues(status, c.Request.Method, url, client).Inc()
		p.reqSz.WithLabelValues(status, c.Request.Method, url, client).Observe(float64(reqSz))
		p.resSz.WithLabelValues(status, c.Request.Method, url, client).Observe(resSz)
	}
}

// MillisecondsSince returns the elapsed time since start in fractional milliseconds.
func MillisecondsSince(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}

// computeApproximateRequestSize estimates the size of the request line, headers and body.
func computeApproximateRequestSize(r *http.Request) int {
	s := 0
	if r.URL != nil {
		s = len(r.URL.String())
	}
	s += len(r.Method)
	s += len(r.Proto)
	for name, values := range r.Header {
		s += len(name)
		for _, value := range values {
			s += len(value)
		}
	}
	s += len(r.Host)
	if r.ContentLength != -1 {
		s += int(r.ContentLength)
	}
	return s
}
