package folio

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/PaesslerAG/jsonpath"
	gocache "github.com/patrickmn/go-cache"
)

// USDCAD is the exchange-rate pair key used throughout: the cost of 1 USD in
// CAD.
const USDCAD = "USDCAD"

// RateSource provides one exchange rate per pair per day, plus a single
// "today" rate cached for the duration of a batch run.
type RateSource interface {
	// Rate returns the rate for a pair on a given day, or false when no rate
	// was published for that day.
	Rate(pair string, on Date) (float64, bool)
	// TodaysRate returns the live rate used for current valuations.
	TodaysRate() float64
}

// RateTable is an in-memory, date-indexed RateSource.
type RateTable struct {
	rates map[string]float64 // key: pair + ISO day
	today float64
}

// NewRateTable returns a table with the given live rate.
func NewRateTable(today float64) *RateTable {
	return &RateTable{rates: make(map[string]float64), today: today}
}

// Set records the rate for a pair on a day, replacing any prior value.
func (t *RateTable) Set(pair string, on Date, rate float64) {
	t.rates[pair+on.String()] = rate
}

func (t *RateTable) Rate(pair string, on Date) (float64, bool) {
	r, ok := t.rates[pair+on.String()]
	return r, ok
}

func (t *RateTable) TodaysRate() float64 { return t.today }

// Len returns the number of dated observations in the table.
func (t *RateTable) Len() int { return len(t.rates) }

// ValetClient fetches USD/CAD observations from the Bank of Canada Valet API
// and materializes them into a RateTable. Responses are cached with a daily
// expiry so repeated batch runs within a day do not refetch history.
type ValetClient struct {
	base   string
	client *http.Client
	cache  *gocache.Cache
}

// NewValetClient returns a client against the public Valet API.
func NewValetClient() *ValetClient {
	return &ValetClient{
		base:   "https://www.bankofcanada.ca/valet",
		client: daily(),
		cache:  gocache.New(12*time.Hour, time.Hour),
	}
}

// NewValetClientAt returns a client against a specific base URL, for tests.
func NewValetClientAt(base string) *ValetClient {
	return &ValetClient{base: base, client: new(http.Client), cache: gocache.New(12*time.Hour, time.Hour)}
}

// series is the Valet series name for the USD→CAD noon rate.
const valetSeries = "FXUSDCAD"

// FetchTable loads all observations in [from, to] plus the latest one as the
// live rate, and returns them as a RateTable.
func (c *ValetClient) FetchTable(ctx context.Context, from, to Date) (*RateTable, error) {
	today, err := c.Latest(ctx)
	if err != nil {
		return nil, err
	}
	table := NewRateTable(today)

	addr := fmt.Sprintf("%s/observations/%s/json?start_date=%s&end_date=%s",
		c.base, valetSeries, from, to)
	observations, err := c.observations(ctx, addr)
	if err != nil {
		return nil, err
	}
	for on, rate := range observations {
		table.Set(USDCAD, on, rate)
	}
	return table, nil
}

// Latest returns the most recent published rate, cached per batch run.
func (c *ValetClient) Latest(ctx context.Context) (float64, error) {
	if cached, ok := c.cache.Get(valetSeries + "/latest"); ok {
		return cached.(float64), nil
	}
	addr := fmt.Sprintf("%s/observations/%s/json?recent=1", c.base, valetSeries)
	observations, err := c.observations(ctx, addr)
	if err != nil {
		return 0, err
	}
	for _, rate := range observations {
		c.cache.Set(valetSeries+"/latest", rate, gocache.DefaultExpiration)
		return rate, nil
	}
	return 0, fmt.Errorf("valet returned no recent observation for %s", valetSeries)
}

// observations fetches one observations document and flattens it into a
// date→rate map.
func (c *ValetClient) observations(ctx context.Context, addr string) (map[Date]float64, error) {
	var jobj any
	if err := jwget(ctx, c.client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("could not fetch %s observations: %w", valetSeries, err)
	}
	jval, err := jsonpath.Get("$.observations", jobj)
	if err != nil {
		return nil, fmt.Errorf("unexpected valet response shape: %w", err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected valet observations type %T", jval)
	}

	out := make(map[Date]float64, len(jlist))
	for _, item := range jlist {
		obs, ok := item.(map[string]any)
		if !ok {
			continue
		}
		day, ok := obs["d"].(string)
		if !ok {
			continue
		}
		on, err := ParseDate(day)
		if err != nil {
			continue
		}
		series, ok := obs[valetSeries].(map[string]any)
		if !ok {
			continue
		}
		value, ok := series["v"].(string)
		if !ok {
			continue
		}
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil {
			continue
		}
		out[on] = rate
	}
	return out, nil
}
