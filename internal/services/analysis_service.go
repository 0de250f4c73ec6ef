package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"costpulse/internal/aggregate"
	"costpulse/internal/classify"
	"costpulse/internal/config"
	"costpulse/internal/metrics"
	"costpulse/internal/normalize"
	"costpulse/internal/reader"
	"costpulse/internal/schema"
	"costpulse/pkg/contracts/domain"
)

// AnalysisOptions carries per-request knobs. Zero values fall back to
// the configured defaults.
type AnalysisOptions struct {
	Headcount int
	// DateFrom/DateTo bound the analysis window (inclusive, ISO
	// dates). Empty bounds disable filtering on that side.
	DateFrom string
	DateTo   string
	// Month filters purchases to one `2006-01` month.
	Month string
}

// AnalysisResult is the complete outcome of one analysis run.
type AnalysisResult struct {
	Transactions []domain.Transaction       `json:"transactions"`
	Purchases    []domain.Purchase          `json:"purchases"`
	Granularity  domain.Granularity         `json:"granularity"`
	Periods      []domain.PeriodBucket      `json:"periods"`
	Counterparts []domain.CounterpartyTotal `json:"counterparties"`
	Vendors      []domain.VendorTotal       `json:"vendors"`
	Breakdown    domain.CostTypeBreakdown   `json:"cost_breakdown"`
	PriceTrends  []domain.PriceTrend        `json:"price_trends"`
	Months       []string                   `json:"available_months"`
	Snapshot     domain.FinancialSnapshot   `json:"snapshot"`
}

// PipelineCounters records pipeline-level counters. Implemented by
// infrastructure.Metrics; a nil value disables instrumentation, which
// is how the CLI and tests run.
type PipelineCounters interface {
	ObserveAnalysis(outcome string)
	AddRowsNormalized(n int)
	AddBatchSources(n int)
}

// BatchSource is one named input of a batch analysis.
type BatchSource struct {
	Name   string
	Sheets []reader.Sheet
}

// BatchResult pairs a source name with its analysis outcome or error.
type BatchResult struct {
	Name   string          `json:"name"`
	Result *AnalysisResult `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// AnalysisService wires the normalization, classification,
// aggregation and metrics stages into one pipeline.
type AnalysisService struct {
	cfg        *config.Config
	aliases    schema.AliasTable
	normalizer *normalize.Normalizer
	purchaseC  *classify.PurchaseClassifier
	engine     *metrics.Engine
	counters   PipelineCounters
	logger     *slog.Logger
}

// NewAnalysisService creates the service using default logger
func NewAnalysisService(cfg *config.Config) *AnalysisService {
	return NewAnalysisServiceWithLogger(cfg, slog.Default())
}

// NewAnalysisServiceWithLogger creates the service with a specific
// logger. Heuristic defaults come from the analysis configuration.
func NewAnalysisServiceWithLogger(cfg *config.Config, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}

	aliases := schema.DefaultAliases()

	opts := normalize.Options{}
	if cfg.Analysis.AmbiguousAmountDefault == "expense" {
		opts.AmbiguousAmountDefault = normalize.SideExpense
	}

	purchaseC := classify.NewPurchaseClassifier()
	switch cfg.Analysis.UnmatchedPurchaseDefault {
	case "supply":
		purchaseC.UnmatchedDefault = domain.PurchaseSupply
	case "other":
		purchaseC.UnmatchedDefault = domain.PurchaseOther
	}

	classifier := classify.NewClassifier(classify.DefaultRules())

	logger.Info("AnalysisService initialized",
		slog.Int("default_headcount", cfg.Analysis.DefaultHeadcount),
		slog.String("ambiguous_amount_default", cfg.Analysis.AmbiguousAmountDefault),
		slog.String("unmatched_purchase_default", cfg.Analysis.UnmatchedPurchaseDefault))

	return &AnalysisService{
		cfg:        cfg,
		aliases:    aliases,
		normalizer: normalize.NewNormalizer(aliases, opts, logger),
		purchaseC:  purchaseC,
		engine:     metrics.NewEngine(classifier, classify.DefaultKeywordGroups(), logger),
		logger:     logger,
	}
}

// SetCounters attaches pipeline instrumentation. Must be called
// before the service starts taking requests.
func (s *AnalysisService) SetCounters(c PipelineCounters) {
	s.counters = c
}

func (s *AnalysisService) countAnalysis(outcome string) {
	if s.counters != nil {
		s.counters.ObserveAnalysis(outcome)
	}
}

// AnalyzeWorkbook classifies each sheet as transactions or purchases,
// normalizes both sets, and derives the full analytical picture.
func (s *AnalysisService) AnalyzeWorkbook(ctx context.Context, sheets []reader.Sheet, opts AnalysisOptions) (*AnalysisResult, error) {
	if len(sheets) == 0 {
		s.countAnalysis("error")
		return nil, ErrNoSheetsFound
	}

	var txRows, purchaseRows []domain.RawRow
	for _, sheet := range sheets {
		if s.isPurchaseSheet(sheet) {
			s.logger.InfoContext(ctx, "sheet classified as purchases",
				slog.String("sheet_name", sheet.Name),
				slog.Int("records", len(sheet.Records)))
			purchaseRows = append(purchaseRows, sheet.Records...)
			continue
		}
		s.logger.InfoContext(ctx, "sheet classified as transactions",
			slog.String("sheet_name", sheet.Name),
			slog.Int("records", len(sheet.Records)))
		txRows = append(txRows, sheet.Records...)
	}

	return s.AnalyzeRecords(ctx, txRows, purchaseRows, opts)
}

// AnalyzeRecords runs the pipeline over pre-extracted raw rows.
func (s *AnalysisService) AnalyzeRecords(ctx context.Context, txRows, purchaseRows []domain.RawRow, opts AnalysisOptions) (*AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	transactions := s.normalizer.Transactions(ctx, txRows)
	purchases := s.normalizer.Purchases(ctx, purchaseRows, s.purchaseC)
	if s.counters != nil {
		s.counters.AddRowsNormalized(len(txRows) + len(purchaseRows))
	}

	if len(transactions) == 0 && len(purchases) == 0 {
		s.countAnalysis("error")
		return nil, ErrNoTransactionsFound
	}

	// Months are computed before filtering so the caller can offer
	// the full selection even while one month is active.
	months := aggregate.AvailableMonths(purchases)

	if opts.DateFrom != "" || opts.DateTo != "" {
		transactions = aggregate.FilterTransactionsByRange(transactions, opts.DateFrom, opts.DateTo)
		purchases = aggregate.FilterPurchasesByRange(purchases, opts.DateFrom, opts.DateTo)
	}
	if opts.Month != "" {
		purchases = aggregate.FilterPurchasesByMonth(purchases, opts.Month)
	}

	headcount := opts.Headcount
	if headcount <= 0 {
		headcount = s.cfg.Analysis.DefaultHeadcount
	}

	periods, granularity := aggregate.BucketByPeriod(transactions)
	snapshot := s.engine.Snapshot(ctx, transactions, purchases, headcount)

	result := &AnalysisResult{
		Transactions: transactions,
		Purchases:    purchases,
		Granularity:  granularity,
		Periods:      periods,
		Counterparts: aggregate.ByCounterparty(transactions),
		Vendors:      metrics.VendorTotals(purchases),
		Breakdown:    metrics.CostBreakdown(purchases, s.purchaseC),
		PriceTrends:  metrics.PriceTrends(purchases),
		Months:       months,
		Snapshot:     snapshot,
	}

	s.logger.InfoContext(ctx, "analysis complete",
		slog.Int("transactions", len(transactions)),
		slog.Int("purchases", len(purchases)),
		slog.String("granularity", string(granularity)),
		slog.String("status", string(snapshot.Status)))

	s.countAnalysis("success")
	return result, nil
}

// AnalyzeBatch runs the pipeline over several sources with bounded
// concurrency. Per-source failures are reported in the matching
// BatchResult instead of aborting the batch.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, sources []BatchSource, opts AnalysisOptions) ([]BatchResult, error) {
	if len(sources) == 0 {
		return nil, ErrNoSourcesProvided
	}
	if s.counters != nil {
		s.counters.AddBatchSources(len(sources))
	}

	limit := s.cfg.Analysis.MaxBatchConcurrency
	if limit <= 0 {
		limit = 1
	}

	results := make([]BatchResult, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, source := range sources {
		g.Go(func() error {
			result, err := s.AnalyzeWorkbook(ctx, source.Sheets, opts)
			if err != nil {
				// Context failures abort the whole batch; data
				// failures stay local to the source.
				if ctx.Err() != nil {
					return ctx.Err()
				}
				results[i] = BatchResult{Name: source.Name, Error: err.Error()}
				return nil
			}
			results[i] = BatchResult{Name: source.Name, Result: result}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch analysis aborted: %w", err)
	}
	return results, nil
}

// TransactionHeaderKeywords exposes the keyword list used to locate
// transaction headers, for callers driving a reader directly.
func (s *AnalysisService) TransactionHeaderKeywords() []string {
	return s.aliases.TransactionHeaderKeywords
}

// isPurchaseSheet reports whether the sheet's columns look like a
// purchase ledger. Purchase-only aliases (item name, unit price,
// vendor) win over the generic date/amount columns both sheet kinds
// share.
func (s *AnalysisService) isPurchaseSheet(sheet reader.Sheet) bool {
	if len(sheet.Records) == 0 {
		return strings.Contains(sheet.Name, "구매") || strings.Contains(strings.ToLower(sheet.Name), "purchase")
	}

	hits := 0
	for key := range sheet.Records[0] {
		for _, kw := range s.aliases.PurchaseHeaderKeywords {
			if strings.Contains(key, kw) {
				hits++
				break
			}
		}
	}
	return hits >= 2
}
